package apicache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/KirkDiggler/pokebattle-api/internal/errors"
	"github.com/KirkDiggler/pokebattle-api/internal/pkg/clock"
)

// DefaultSize is the entry limit used when none is configured
const DefaultSize = 512

// InMemoryConfig configures the in-process cache
type InMemoryConfig struct {
	// Size is the maximum number of entries. When full, the least recently
	// used entry is evicted.
	Size int
	// TTL expires entries regardless of use (defaults to 24h)
	TTL   time.Duration
	Clock clock.Clock
}

type entry struct {
	key       string
	body      []byte
	expiresAt time.Time
}

// InMemory is a size-bounded LRU cache with per-entry expiry
type InMemory struct {
	mu      sync.Mutex
	size    int
	ttl     time.Duration
	clock   clock.Clock
	order   *list.List
	entries map[string]*list.Element
}

var _ Cache = (*InMemory)(nil)

// NewInMemory creates an in-process cache
func NewInMemory(cfg *InMemoryConfig) *InMemory {
	if cfg == nil {
		cfg = &InMemoryConfig{}
	}

	c := &InMemory{
		size:    cfg.Size,
		ttl:     cfg.TTL,
		clock:   cfg.Clock,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
	if c.size <= 0 {
		c.size = DefaultSize
	}
	if c.ttl <= 0 {
		c.ttl = defaultTTL
	}
	if c.clock == nil {
		c.clock = clock.New()
	}
	return c
}

// Get returns the cached body for key and marks it recently used
func (c *InMemory) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.InvalidArgument(errKeyEmpty)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, errors.NotFound("cache miss").WithMeta("key", key)
	}

	e := elem.Value.(*entry)
	if !c.clock.Now().Before(e.expiresAt) {
		c.remove(elem)
		return nil, errors.NotFound("cache entry expired").WithMeta("key", key)
	}

	c.order.MoveToFront(elem)
	return e.body, nil
}

// Set stores body under key, evicting the least recently used entry when full
func (c *InMemory) Set(_ context.Context, key string, body []byte) error {
	if key == "" {
		return errors.InvalidArgument(errKeyEmpty)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.clock.Now().Add(c.ttl)
	if elem, ok := c.entries[key]; ok {
		e := elem.Value.(*entry)
		e.body = body
		e.expiresAt = expiresAt
		c.order.MoveToFront(elem)
		return nil
	}

	c.entries[key] = c.order.PushFront(&entry{key: key, body: body, expiresAt: expiresAt})
	for c.order.Len() > c.size {
		c.remove(c.order.Back())
	}
	return nil
}

// Len returns the number of stored entries, expired or not
func (c *InMemory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *InMemory) remove(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.entries, elem.Value.(*entry).key)
}
