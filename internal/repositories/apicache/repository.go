// Package apicache caches raw upstream API responses keyed by request URL
package apicache

import (
	"context"
)

// Cache stores raw response bodies. Implementations must be safe for
// concurrent use.
type Cache interface {
	// Get returns the cached body for key, or a NotFound error on a miss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores body under key, replacing any previous entry
	Set(ctx context.Context, key string, body []byte) error
}
