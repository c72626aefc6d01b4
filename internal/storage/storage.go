// Package storage keeps film photos in an object store and resolves the URLs
// clients use to fetch them.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
)

var ErrInvalidKey = errors.New("invalid storage key")

// Store accepts named blobs and hands out URLs for them.
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	URL(ctx context.Context, key string) (string, error)
	// Delete removes a blob. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// imageExtensions maps the image types http.DetectContentType can report to
// the extension photos of that type are stored under.
var imageExtensions = map[string]string{
	"image/bmp":    ".bmp",
	"image/gif":    ".gif",
	"image/jpeg":   ".jpg",
	"image/png":    ".png",
	"image/webp":   ".webp",
	"image/x-icon": ".ico",
}

// ImageExtension returns the file extension for an accepted photo content type.
func ImageExtension(contentType string) (string, bool) {
	ext, ok := imageExtensions[contentType]
	return ext, ok
}

// NewKey returns a fresh storage key for a photo of the given film. The
// extension comes from the sniffed content type, never from the client's
// file name, so a stored photo is always served as an image.
func NewKey(filmID int64, contentType string) (string, error) {
	ext, ok := ImageExtension(contentType)
	if !ok {
		return "", fmt.Errorf("%w: unsupported content type %q", ErrInvalidKey, contentType)
	}
	return fmt.Sprintf("films/%d/%s%s", filmID, uuid.New(), ext), nil
}
