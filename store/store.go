// Package store persists JSON blobs under fixed string keys.
//
// Writes are last-writer-wins: two concurrent read-merge-write cycles
// against the same key are not serialized, and the later write's copy
// fully replaces the earlier one. Callers needing stronger consistency
// must serialize writes externally.
package store

import (
	"context"
	"encoding/json"
)

// Metadata is the side-channel stored alongside a blob.
type Metadata struct {
	UpdatedAt string
}

// Store is a key-value blob store. Get yields (nil, nil) on a missing
// key so callers can treat "never saved" and "empty" uniformly; an error
// is returned only for actual store failures.
type Store interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage, meta Metadata) error
}
