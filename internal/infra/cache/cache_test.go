package cache_test

import (
	"testing"
	"time"

	"github.com/boddenberg/smb-dashboard-bfa/internal/domain"
	"github.com/boddenberg/smb-dashboard-bfa/internal/infra/cache"
)

func TestCache_SetAndGet(t *testing.T) {
	c := cache.New[*domain.RecordSnapshot](5 * time.Minute)
	defer c.Close()

	snap := &domain.RecordSnapshot{Invoices: []domain.Invoice{{ID: "inv-1"}}}
	c.Set("records:owner-1", snap)

	got, ok := c.Get("records:owner-1")
	if !ok {
		t.Fatal("expected key to exist")
	}
	if got.Invoices[0].ID != "inv-1" {
		t.Errorf("expected 'inv-1', got '%s'", got.Invoices[0].ID)
	}
}

func TestCache_GetMiss(t *testing.T) {
	c := cache.New[string](5 * time.Minute)
	defer c.Close()

	_, ok := c.Get("nonexistent")
	if ok {
		t.Fatal("expected cache miss for nonexistent key")
	}
}

func TestCache_Expiration(t *testing.T) {
	c := cache.New[string](50 * time.Millisecond)
	defer c.Close()

	c.Set("key1", "value1")
	time.Sleep(100 * time.Millisecond)

	_, ok := c.Get("key1")
	if ok {
		t.Fatal("expected cache entry to be expired")
	}
}

func TestCache_Janitor(t *testing.T) {
	c := cache.New[string](20 * time.Millisecond)
	defer c.Close()

	c.Set("key1", "value1")
	time.Sleep(100 * time.Millisecond)

	if n := c.Len(); n != 0 {
		t.Fatalf("expected janitor to evict expired entry, %d left", n)
	}
}

func TestCache_Delete(t *testing.T) {
	c := cache.New[string](5 * time.Minute)
	defer c.Close()

	c.Set("key1", "value1")
	c.Delete("key1")

	_, ok := c.Get("key1")
	if ok {
		t.Fatal("expected key to be deleted")
	}
}

func TestCache_ZeroTTLDisablesCaching(t *testing.T) {
	c := cache.New[string](0)
	defer c.Close()

	c.Set("key1", "value1")
	if _, ok := c.Get("key1"); ok {
		t.Fatal("expected no caching with zero TTL")
	}
}

func TestCache_SetIfGenerationDropsStaleFill(t *testing.T) {
	c := cache.New[string](5 * time.Minute)
	defer c.Close()

	gen := c.Generation("key1")
	c.Delete("key1")

	if c.SetIfGeneration("key1", "stale", gen) {
		t.Fatal("expected fill started before Delete to be dropped")
	}
	if _, ok := c.Get("key1"); ok {
		t.Fatal("expected no cached value")
	}

	if !c.SetIfGeneration("key1", "fresh", c.Generation("key1")) {
		t.Fatal("expected fill with current generation to be stored")
	}
	if v, ok := c.Get("key1"); !ok || v != "fresh" {
		t.Fatalf("expected fresh, got %q (ok=%v)", v, ok)
	}
}
