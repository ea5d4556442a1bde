package imageproc

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 160, B: 40, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDownscaleWideImage(t *testing.T) {
	data := encodePNG(t, 400, 200)

	out, resized, err := Downscale(data, "image/png", 100)
	require.NoError(t, err)
	assert.True(t, resized)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestDownscaleLeavesSmallImage(t *testing.T) {
	data := encodePNG(t, 80, 40)

	out, resized, err := Downscale(data, "image/png", 100)
	require.NoError(t, err)
	assert.False(t, resized)
	assert.Equal(t, data, out)
}

func TestDownscaleSkipsUnsupportedFormats(t *testing.T) {
	data := []byte("GIF89a...")

	out, resized, err := Downscale(data, "image/gif", 100)
	require.NoError(t, err)
	assert.False(t, resized)
	assert.Equal(t, data, out)

	out, resized, err = Downscale(encodePNG(t, 400, 10), "image/png", 0)
	require.NoError(t, err)
	assert.False(t, resized)
	assert.NotEmpty(t, out)
}

func TestDownscaleRejectsCorruptImage(t *testing.T) {
	_, _, err := Downscale([]byte("definitely not a jpeg"), "image/jpeg", 100)
	assert.Error(t, err)
}
