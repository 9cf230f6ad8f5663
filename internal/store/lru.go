package store

import (
	"context"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU keeps recently read values in memory in front of a slower backend.
// Writes go to the backend first; the LRU only ever holds values the backend
// accepted.
type LRU struct {
	backend Store
	lru     *lru.Cache[string, string]
	hits    atomic.Uint64
	misses  atomic.Uint64
}

func NewLRU(backend Store, size int) (*LRU, error) {
	lruCache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache: %w", err)
	}

	return &LRU{
		backend: backend,
		lru:     lruCache,
	}, nil
}

func (l *LRU) Get(ctx context.Context, key string) (string, bool, error) {
	if value, ok := l.lru.Get(key); ok {
		l.hits.Add(1)
		return value, true, nil
	}
	l.misses.Add(1)

	value, ok, err := l.backend.Get(ctx, key)
	if err != nil || !ok {
		return "", false, err
	}

	l.lru.Add(key, value)
	return value, true, nil
}

func (l *LRU) Set(ctx context.Context, key, value string) error {
	if err := l.backend.Set(ctx, key, value); err != nil {
		// the backend may still hold the old value, drop ours
		l.lru.Remove(key)
		return err
	}
	l.lru.Add(key, value)
	return nil
}

func (l *LRU) Remove(ctx context.Context, key string) error {
	l.lru.Remove(key)
	return l.backend.Remove(ctx, key)
}

func (l *LRU) Keys(ctx context.Context) ([]string, error) {
	return l.backend.Keys(ctx)
}

// GetCacheStats returns statistics about LRU hits and misses
func (l *LRU) GetCacheStats() map[string]uint64 {
	return map[string]uint64{
		"lru_hits":   l.hits.Load(),
		"lru_misses": l.misses.Load(),
	}
}

func (l *LRU) Close() error {
	l.lru.Purge()
	return l.backend.Close()
}
