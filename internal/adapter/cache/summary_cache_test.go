package cache

import (
	"context"
	"testing"
	"time"
)

func TestSummaryCache_GetPut(t *testing.T) {
	ctx := context.Background()
	c := NewSummaryCache(2, time.Hour)

	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Error("expected miss on empty cache")
	}
	c.Put(ctx, "a", "summary a")
	got, ok, err := c.Get(ctx, "a")
	if err != nil || !ok || got != "summary a" {
		t.Errorf("expected hit, got %q %v %v", got, ok, err)
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit 1 miss, got %d/%d", hits, misses)
	}
}

func TestSummaryCache_EvictsLeastRecent(t *testing.T) {
	ctx := context.Background()
	c := NewSummaryCache(2, time.Hour)

	c.Put(ctx, "a", "1")
	c.Put(ctx, "b", "2")
	c.Get(ctx, "a")
	c.Put(ctx, "c", "3")

	if _, ok, _ := c.Get(ctx, "b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok, _ := c.Get(ctx, "a"); !ok {
		t.Error("expected a to survive")
	}
}

func TestSummaryCache_TTL(t *testing.T) {
	ctx := context.Background()
	c := NewSummaryCache(10, 20*time.Millisecond)

	c.Put(ctx, "a", "1")
	time.Sleep(60 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Error("expected entry to expire")
	}
}

func TestSummaryCache_Clear(t *testing.T) {
	ctx := context.Background()
	c := NewSummaryCache(10, time.Hour)
	c.Put(ctx, "a", "1")
	c.Clear(ctx)
	if n, _ := c.Len(ctx); n != 0 {
		t.Errorf("expected empty cache, got %d", n)
	}
}
