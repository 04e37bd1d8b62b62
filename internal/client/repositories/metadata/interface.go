// Package metadata is the durable key/value store behind the client's
// persisted state (tokens, workspace selection). Values are opaque blobs.
package metadata

import (
	"context"
)

// Repository is a flat key/value store. Get returns (nil, nil) for an
// absent key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
