// Package keyvalue provides the narrow durable storage contract used by
// the onboarding progress store: one JSON blob per key, read on store
// construction and rewritten after every mutation.
package keyvalue

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("keyvalue: key not found")

// Store is a durable key-value store. Implementations must survive
// process restarts; writes replace the whole value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
