package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// SummaryCache is an in-process LRU of document summaries with a TTL.
type SummaryCache struct {
	lru    *expirable.LRU[string, string]
	hits   atomic.Int64
	misses atomic.Int64
}

func NewSummaryCache(maxSize int, ttl time.Duration) *SummaryCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &SummaryCache{
		lru: expirable.NewLRU[string, string](maxSize, nil, ttl),
	}
}

func (c *SummaryCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := c.lru.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok, nil
}

func (c *SummaryCache) Put(_ context.Context, key, summary string) error {
	c.lru.Add(key, summary)
	return nil
}

func (c *SummaryCache) Clear(context.Context) error {
	c.lru.Purge()
	return nil
}

func (c *SummaryCache) Len(context.Context) (int, error) {
	return c.lru.Len(), nil
}

func (c *SummaryCache) Close() error {
	return nil
}

// Stats returns hit and miss counts since creation.
func (c *SummaryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
