// Package blobstore holds uploaded media, promo and banner files.
package blobstore

import (
	"context"
	"io"
	"path"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// BlobStore saves and serves uploaded files by key. Keys are slash separated
// and begin with the family the file belongs to.
type BlobStore interface {
	Save(ctx context.Context, family, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}

// NewKey returns a fresh key for a file of the given family and MIME type,
// e.g. "promo/3f1c...e9.png".
func NewKey(family, mimeType string) string {
	return path.Join(family, uuid.NewString()+Extension(mimeType))
}

// Extension returns the usual file extension for mimeType, or "" when the
// type is unknown.
func Extension(mimeType string) string {
	if m := mimetype.Lookup(mimeType); m != nil {
		return m.Extension()
	}
	return ""
}
