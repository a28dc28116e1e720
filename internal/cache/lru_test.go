package cache

import (
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := NewLRUCache[string](4, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss for unknown key")
	}

	c.Set("portfolio", "summary-v1")
	got, ok := c.Get("portfolio")
	if !ok || got != "summary-v1" {
		t.Fatalf("expected hit with summary-v1, got %q ok=%v", got, ok)
	}

	c.Set("portfolio", "summary-v2")
	got, _ = c.Get("portfolio")
	if got != "summary-v2" {
		t.Fatalf("expected overwrite to summary-v2, got %q", got)
	}
	if c.Size() != 1 {
		t.Fatalf("expected size 1, got %d", c.Size())
	}
}

func TestEvictionOrder(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("expected least recently used key b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected recently used key a to survive")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("expected newest key c to survive")
	}
}

func TestTTLExpiry(t *testing.T) {
	c := NewLRUCache[int](4, 10*time.Millisecond)

	c.Set("a", 1)
	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if n := c.Size(); n != 0 {
		t.Fatalf("expected expired entry removed on read, size %d", n)
	}
}

func TestClear(t *testing.T) {
	c := NewLRUCache[int](4, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()

	if c.Size() != 0 {
		t.Fatalf("expected empty cache after clear, size %d", c.Size())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected miss after clear")
	}
}

func TestCleanExpired(t *testing.T) {
	c := NewLRUCache[int](8, 10*time.Millisecond)

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(25 * time.Millisecond)
	c.Set("c", 3)

	if n := c.CleanExpired(); n != 2 {
		t.Fatalf("expected 2 expired entries cleaned, got %d", n)
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("expected fresh entry to survive cleanup")
	}
}
