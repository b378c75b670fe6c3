package storage

import (
	"context"
	"fmt"
)

// Backend defines the operations the bootstrap sequence needs from an
// object-storage server.
type Backend interface {
	// Kind returns the provider variant behind this backend.
	Kind() Provider
	// Ping probes connectivity with the configured credentials.
	// It returns a ConnectError on failure.
	Ping(ctx context.Context) error
	// BucketExists checks if a bucket exists. Idempotent.
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	// MakeBucket creates a new bucket. A BackendError with code
	// BackendAlreadyExists is returned when the bucket is already there.
	MakeBucket(ctx context.Context, bucketName string) error
	// SetPublicReadPolicy grants anonymous read access to the bucket.
	SetPublicReadPolicy(ctx context.Context, bucketName string) error
	// Close releases any resources held by the backend.
	Close() error
}

// New constructs the backend selected by cfg.Provider.
func New(ctx context.Context, cfg Config) (Backend, error) {
	switch cfg.Kind() {
	case ProviderS3:
		return newS3Backend(cfg)
	case ProviderGCS:
		return newGCSBackend(ctx, cfg)
	default:
		return nil, &ConfigError{Field: "provider", Reason: fmt.Sprintf("unknown provider %q", cfg.Provider)}
	}
}
