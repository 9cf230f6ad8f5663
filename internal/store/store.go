// Package store holds the key-value backends behind the station cache.
// Keys and values are plain strings, mirroring a browser's localStorage.
package store

import (
	"context"
	"errors"
)

// ErrQuotaExceeded is returned by Set when a value does not fit in the store
var ErrQuotaExceeded = errors.New("store quota exceeded")

type Store interface {
	// Get returns the value and whether the key exists
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes the key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	// Keys lists every key currently stored
	Keys(ctx context.Context) ([]string, error)
	Close() error
}
