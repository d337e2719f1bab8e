package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/internal/ports"
)

func TestLocalCache_SetGet(t *testing.T) {
	// Arrange
	ctx := context.Background()
	c := NewLocalCache(8, 0, zap.NewNop())

	// Act
	if err := c.Set(ctx, "drone:falcon", "d-1", time.Minute); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got, err := c.Get(ctx, "drone:falcon")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "d-1" {
		t.Errorf("expected 'd-1', got '%s'", got)
	}
}

func TestLocalCache_MissAndExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(8, 0, zap.NewNop())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ports.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}

	c.Set(ctx, "area:alpha", "a-1", 30*time.Second)
	now = now.Add(31 * time.Second)

	if _, err := c.Get(ctx, "area:alpha"); !errors.Is(err, ports.ErrCacheMiss) {
		t.Errorf("expected expired entry to miss, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected expired entry to be evicted, len=%d", c.Len())
	}
}

func TestLocalCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(2, 0, zap.NewNop())

	c.Set(ctx, "a", "1", 0)
	c.Set(ctx, "b", "2", 0)
	c.Get(ctx, "a")
	c.Set(ctx, "c", "3", 0)

	if _, err := c.Get(ctx, "b"); !errors.Is(err, ports.ErrCacheMiss) {
		t.Errorf("expected 'b' to be evicted, got %v", err)
	}
	if v, err := c.Get(ctx, "a"); err != nil || v != "1" {
		t.Errorf("expected 'a' to survive, got %q, %v", v, err)
	}
}

func TestLocalCache_MarshalsStructs(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(4, 0, zap.NewNop())

	if err := c.Set(ctx, "k", map[string]string{"drone_id": "D1"}, 0); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got, _ := c.Get(ctx, "k")
	if got != `{"drone_id":"D1"}` {
		t.Errorf("unexpected encoding %s", got)
	}
}
