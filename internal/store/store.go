// Package store defines the key-value capability the monitor persists into.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KV.Get when the key holds no value.
var ErrNotFound = errors.New("key not found")

// KV is a persistent key-value backend holding opaque JSON documents.
// A Put replaces the whole value atomically.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Pinger is implemented by backends that can report their reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}
