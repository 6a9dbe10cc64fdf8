// Package storage uploads encoded product images to durable blob storage and
// hands back a resolvable address for the OCR provider.
package storage

import "context"

// ImageReference is an opaque, stable locator for an uploaded image. It must
// stay resolvable for the lifetime of one analysis request; storage owns the
// blob beyond that.
type ImageReference string

// BlobStore uploads images and resolves their public addresses.
type BlobStore interface {
	// EnsureBucket provisions the target bucket on first use. Calling it
	// when the bucket already exists is a no-op.
	EnsureBucket(ctx context.Context) error

	// Upload stores data under filename and returns its public reference.
	Upload(ctx context.Context, filename string, data []byte, contentType string) (ImageReference, error)

	// PublicURL returns the publicly resolvable URL for a stored file.
	PublicURL(filename string) string
}
