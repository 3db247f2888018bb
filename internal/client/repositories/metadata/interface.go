// Package metadata is the local key-value table of the field client. Values
// are opaque blobs; callers own their encoding.
package metadata

import (
	"context"
)

// Repository is a small key-value store for client-side state.
type Repository interface {
	// Get returns (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is a no-op for absent keys.
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
