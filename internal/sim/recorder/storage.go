package recorder

import (
	"context"
	"time"
)

// Provider is the flight log archive. Implementations are an S3-compatible
// object store for deployments and a plain directory for local runs.
type Provider interface {
	// EnsureBucket makes sure the archive location exists.
	EnsureBucket(ctx context.Context) error

	// Put stores one flight log under the given object key.
	Put(ctx context.Context, objectKey string, data []byte, contentType string) error

	// GeneratePresignedURL returns a temporary download link for an archived
	// log, where the backend supports it.
	GeneratePresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
}
