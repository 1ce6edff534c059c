// Package cache defines a keyed cache of loaded values.
package cache

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned when a key is absent and cannot be loaded.
var ErrCacheMiss = errors.New("cache miss")

// Cache returns values by key. Invalidated entries are loaded again on the
// next Get.
type Cache[K comparable, V any] interface {
	Get(ctx context.Context, key K) (*V, error)
	Invalidate(ctx context.Context, key K)
	InvalidateAll(ctx context.Context)
}
