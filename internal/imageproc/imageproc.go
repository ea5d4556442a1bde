// Package imageproc prepares uploaded still images for display.
package imageproc

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Downscale shrinks a JPEG or PNG wider than maxWidth to exactly maxWidth,
// keeping its aspect ratio. It returns data unchanged, and false, when the
// image already fits, maxWidth is not positive, or the format is one it does
// not re-encode (GIF animation would be lost).
func Downscale(data []byte, mimeType string, maxWidth int) ([]byte, bool, error) {
	format, ok := formatFor(mimeType)
	if !ok || maxWidth <= 0 {
		return data, false, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Dx() <= maxWidth {
		return data, false, nil
	}

	resized := imaging.Resize(img, maxWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(90)); err != nil {
		return nil, false, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), true, nil
}

func formatFor(mimeType string) (imaging.Format, bool) {
	switch mimeType {
	case "image/jpeg":
		return imaging.JPEG, true
	case "image/png":
		return imaging.PNG, true
	default:
		return 0, false
	}
}
