package cache

import (
	"testing"
	"time"
)

func TestLRUCacheGetSet(t *testing.T) {
	c := NewLRUCache[int](3, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("expected miss on empty cache")
	}

	c.Set("a", 1)
	if v, found := c.Get("a"); !found || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, found)
	}

	c.Set("a", 2)
	if v, _ := c.Get("a"); v != 2 {
		t.Errorf("Get(a) after overwrite = %d, want 2", v)
	}
	if c.Size() != 1 {
		t.Errorf("Size() = %d, want 1", c.Size())
	}
}

func TestLRUCacheEvictsOldest(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a") // refresh a so b becomes the eviction candidate
	c.Set("c", "3")

	if _, found := c.Get("b"); found {
		t.Error("expected b evicted as least recently used")
	}
	if _, found := c.Get("a"); !found {
		t.Error("expected a retained")
	}
	if _, found := c.Get("c"); !found {
		t.Error("expected c retained")
	}
}

func TestLRUCacheTTLExpiry(t *testing.T) {
	c := NewLRUCache[int](10, 5*time.Millisecond)

	c.Set("a", 1)
	time.Sleep(10 * time.Millisecond)

	if _, found := c.Get("a"); found {
		t.Error("expected entry expired after TTL")
	}
	if cleaned := c.CleanExpired(); cleaned != 0 {
		// Get already removed the expired entry.
		t.Errorf("CleanExpired() = %d, want 0", cleaned)
	}
}

func TestLRUCachePurge(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Purge()

	if c.Size() != 0 {
		t.Errorf("Size() after purge = %d, want 0", c.Size())
	}
	if _, found := c.Get("a"); found {
		t.Error("expected purge to drop entries")
	}
}

func TestManagerCleanup(t *testing.T) {
	c := NewLRUCache[int](10, time.Millisecond)
	m := NewManager()
	m.Register(c)
	m.StartCleanup(5 * time.Millisecond)

	c.Set("a", 1)
	time.Sleep(25 * time.Millisecond)
	m.Stop()

	if c.Size() != 0 {
		t.Errorf("expected expired entry cleaned, size = %d", c.Size())
	}
}
