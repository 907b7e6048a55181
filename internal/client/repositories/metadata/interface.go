// Package metadata is the client's durable key/value medium. The offline
// queue store is layered on top of it.
package metadata

import (
	"context"
)

// Repository is a durable byte-oriented key/value store.
//
// Get returns (nil, nil) for a missing key. Set is an upsert. Delete of a
// missing key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
