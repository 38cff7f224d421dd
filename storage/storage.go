// Package storage persists post images and hands back the reference string
// that is saved on the post.
package storage

import (
	"context"
	"io"
)

type ImageStorage interface {
	// Store writes the image under name and returns its reference.
	Store(ctx context.Context, r io.Reader, size int64, contentType, name string) (string, error)
	// Remove deletes the image behind a reference returned by Store.
	// Removing a missing image is not an error.
	Remove(ctx context.Context, ref string) error
}
