package dudhiya

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type cacheEntry struct {
	page      *CollectionPage
	expiresAt time.Time
}

// CachedClient keeps listing pages in memory for a fixed TTL. Errors are
// never cached.
type CachedClient struct {
	inner Client
	ttl   time.Duration
	now   func() time.Time

	mu    sync.RWMutex
	store map[string]cacheEntry
}

// NewCachedClient wraps inner. A ttl <= 0 returns inner unchanged.
func NewCachedClient(inner Client, ttl time.Duration) Client {
	if ttl <= 0 {
		return inner
	}
	return &CachedClient{
		inner: inner,
		ttl:   ttl,
		now:   time.Now,
		store: make(map[string]cacheEntry),
	}
}

// ListCollections serves a fresh cached page or fetches it.
func (c *CachedClient) ListCollections(ctx context.Context, page, pageSize int) (*CollectionPage, error) {
	key := cacheKey(page, pageSize)
	if p, ok := c.get(key); ok {
		return p, nil
	}

	p, err := c.inner.ListCollections(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	c.set(key, p)
	return p, nil
}

func (c *CachedClient) get(key string) (*CollectionPage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[key]
	if !ok || !c.now().Before(entry.expiresAt) {
		return nil, false
	}
	return entry.page, true
}

func (c *CachedClient) set(key string, p *CollectionPage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.store {
		if !now.Before(e.expiresAt) {
			delete(c.store, k)
		}
	}
	c.store[key] = cacheEntry{page: p, expiresAt: now.Add(c.ttl)}
}

func cacheKey(page, pageSize int) string {
	return fmt.Sprintf("%d:%d", page, pageSize)
}
