package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/xraph/rowguard"
)

func TestMemoryCacheHitMiss(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(WithTTL(time.Minute))

	req := &rowguard.CheckRequest{
		Actor:     rowguard.Actor{ID: "u1", Role: rowguard.RoleClient},
		Operation: rowguard.OperationSelect,
		Resource:  "bookings",
		Row:       map[string]any{"id": "bk1", "client_id": "u1"},
	}
	result := &rowguard.CheckResult{Allowed: true, Decision: rowguard.DecisionAllow}

	// Miss
	_, ok := c.Get(ctx, req)
	if ok {
		t.Fatal("expected cache miss")
	}

	// Set + Hit
	c.Set(ctx, req, result)
	got, ok := c.Get(ctx, req)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if !got.Allowed {
		t.Fatal("expected allowed")
	}
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(WithTTL(1 * time.Millisecond))

	req := &rowguard.CheckRequest{
		Actor:     rowguard.Actor{ID: "u1", Role: rowguard.RoleClient},
		Operation: rowguard.OperationSelect,
		Resource:  "bookings",
		Row:       map[string]any{"id": "bk1"},
	}

	c.Set(ctx, req, &rowguard.CheckResult{Allowed: true})
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get(ctx, req)
	if ok {
		t.Fatal("expected cache miss after TTL expiry")
	}
}

func TestMemoryCacheInvalidateResource(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	req1 := &rowguard.CheckRequest{
		Actor:     rowguard.Actor{ID: "u1", Role: rowguard.RoleClient},
		Operation: rowguard.OperationSelect,
		Resource:  "bookings",
		Row:       map[string]any{"id": "bk1"},
	}
	req2 := &rowguard.CheckRequest{
		Actor:     rowguard.Actor{ID: "u2", Role: rowguard.RoleProvider},
		Operation: rowguard.OperationUpdate,
		Resource:  "bookings",
		Row:       map[string]any{"id": "bk2"},
	}
	req3 := &rowguard.CheckRequest{
		Actor:     rowguard.Actor{ID: "u1", Role: rowguard.RoleClient},
		Operation: rowguard.OperationSelect,
		Resource:  "orders",
		Row:       map[string]any{"id": "ord1"},
	}

	c.Set(ctx, req1, &rowguard.CheckResult{Allowed: true})
	c.Set(ctx, req2, &rowguard.CheckResult{Allowed: false})
	c.Set(ctx, req3, &rowguard.CheckResult{Allowed: true})

	c.InvalidateResource(ctx, "bookings")

	if _, ok := c.Get(ctx, req1); ok {
		t.Fatal("bookings req1 should be invalidated")
	}
	if _, ok := c.Get(ctx, req2); ok {
		t.Fatal("bookings req2 should be invalidated")
	}
	if _, ok := c.Get(ctx, req3); !ok {
		t.Fatal("orders req3 should still be cached")
	}
}

func TestMemoryCacheInvalidateActor(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	req1 := &rowguard.CheckRequest{
		Actor:     rowguard.Actor{ID: "u1", Role: rowguard.RoleClient},
		Operation: rowguard.OperationSelect,
		Resource:  "bookings",
		Row:       map[string]any{"id": "bk1"},
	}
	req2 := &rowguard.CheckRequest{
		Actor:     rowguard.Actor{ID: "u2", Role: rowguard.RoleClient},
		Operation: rowguard.OperationSelect,
		Resource:  "bookings",
		Row:       map[string]any{"id": "bk1"},
	}

	c.Set(ctx, req1, &rowguard.CheckResult{Allowed: true})
	c.Set(ctx, req2, &rowguard.CheckResult{Allowed: true})

	c.InvalidateActor(ctx, rowguard.Actor{ID: "u1", Role: rowguard.RoleClient})

	if _, ok := c.Get(ctx, req1); ok {
		t.Fatal("u1 should be invalidated")
	}
	if _, ok := c.Get(ctx, req2); !ok {
		t.Fatal("u2 should still be cached")
	}
}

func TestMemoryCacheMaxSize(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(WithMaxSize(2))

	for i := 0; i < 5; i++ {
		req := &rowguard.CheckRequest{
			Actor:     rowguard.Actor{ID: "u1", Role: rowguard.RoleClient},
			Operation: rowguard.OperationSelect,
			Resource:  "bookings",
			Row:       map[string]any{"id": fmt.Sprintf("bk%d", i)},
		}
		c.Set(ctx, req, &rowguard.CheckResult{Allowed: true})
	}

	if c.Len() > 2 {
		t.Fatalf("expected max 2 entries, got %d", c.Len())
	}
}
