// Package metadata is a small key/value store in the local SQLite database.
// It holds the sealed session token, its salt and other per-install settings.
package metadata

import (
	"context"
)

// Repository stores opaque values by key.
type Repository interface {
	// Get returns the value for key, or (nil, nil) when it is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every key that starts with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	// Keys lists stored keys in lexical order.
	Keys(ctx context.Context) ([]string, error)
}
