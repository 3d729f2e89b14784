package storage

import (
	"context"
	"time"

	"github.com/dukerupert/fatura/internal"
)

// Object describes a stored blob returned by List.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Storage is the blob store holding rendered invoice documents.
// Implementations can use the local filesystem or an S3-compatible bucket.
type Storage interface {
	// Upload stores data under key and returns its public URL. With upsert
	// an existing object is overwritten; without it, ErrObjectExists is
	// returned.
	Upload(ctx context.Context, key string, data []byte, contentType string, upsert bool) (string, error)

	// List returns the objects whose key starts with prefix.
	List(ctx context.Context, prefix string) ([]Object, error)

	// Remove deletes the given keys. Missing keys are not an error.
	Remove(ctx context.Context, keys []string) error

	// URL returns the public URL for accessing a stored object.
	URL(key string) string
}

// NewStorage creates a Storage implementation based on configuration.
// Returns LocalStorage for "local" provider, R2Storage for "r2" provider.
func NewStorage(cfg internal.StorageConfig) (Storage, error) {
	switch cfg.Provider {
	case "local", "":
		return NewLocalStorage(cfg.LocalPath, cfg.LocalURL)
	case "r2":
		return NewR2Storage(R2Config{
			AccountID:   cfg.R2AccountID,
			AccessKeyID: cfg.R2AccessKeyID,
			SecretKey:   cfg.R2SecretKey,
			BucketName:  cfg.R2BucketName,
			PublicURL:   cfg.R2PublicURL,
		})
	default:
		return nil, ErrUnknownProvider(cfg.Provider)
	}
}
