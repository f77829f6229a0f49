package memory

import (
	"context"
	"testing"
	"time"

	"github.com/xraph/rowguard/audit"
	"github.com/xraph/rowguard/id"
	"github.com/xraph/rowguard/record"
	"github.com/xraph/rowguard/store"
)

// Compile-time check that *Store implements store.Store.
var _ store.Store = (*Store)(nil)

func TestRecordCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	r := record.New("bookings", map[string]any{
		"client_id":   "u1",
		"provider_id": "u2",
		"status":      "pending",
	})

	// Create
	if err := s.CreateRecord(ctx, r); err != nil {
		t.Fatal(err)
	}
	if r.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be stamped")
	}

	// Get
	got, err := s.GetRecord(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Fields["status"] != "pending" {
		t.Fatalf("expected pending, got %v", got.Fields["status"])
	}

	// Clones: mutating the returned record must not touch stored state.
	got.Fields["status"] = "mutated"
	again, _ := s.GetRecord(ctx, r.ID)
	if again.Fields["status"] != "pending" {
		t.Fatal("store handed out shared state")
	}

	// Update
	r.SetField("status", "confirmed")
	if err := s.UpdateRecord(ctx, r); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetRecord(ctx, r.ID)
	if got.Fields["status"] != "confirmed" {
		t.Fatal("update failed")
	}

	// List
	list, _ := s.ListRecords(ctx, "bookings", nil)
	if len(list) != 1 {
		t.Fatalf("expected 1 record, got %d", len(list))
	}

	// Count
	count, _ := s.CountRecords(ctx, "bookings", nil)
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}

	// Delete
	if err := s.DeleteRecord(ctx, r.ID); err != nil {
		t.Fatal(err)
	}
	_, err = s.GetRecord(ctx, r.ID)
	if err == nil {
		t.Fatal("expected not found after delete")
	}
}

func TestListRecordsEqualsFilter(t *testing.T) {
	ctx := context.Background()
	s := New()

	_ = s.CreateRecord(ctx, record.New("orders", map[string]any{"user_id": "u1", "status": "paid"}))
	_ = s.CreateRecord(ctx, record.New("orders", map[string]any{"user_id": "u1", "status": "open"}))
	_ = s.CreateRecord(ctx, record.New("orders", map[string]any{"user_id": "u2", "status": "paid"}))
	_ = s.CreateRecord(ctx, record.New("payments", map[string]any{"user_id": "u1"}))

	list, err := s.ListRecords(ctx, "orders", &record.ListFilter{Equals: map[string]any{"user_id": "u1"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 orders for u1, got %d", len(list))
	}

	list, _ = s.ListRecords(ctx, "orders", &record.ListFilter{
		Equals: map[string]any{"user_id": "u1", "status": "paid"},
	})
	if len(list) != 1 {
		t.Fatalf("expected 1 paid order for u1, got %d", len(list))
	}
}

func TestListRecordsPagination(t *testing.T) {
	ctx := context.Background()
	s := New()

	for i := 0; i < 5; i++ {
		r := record.New("services", map[string]any{"provider_id": "p1"})
		r.CreatedAt = time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC)
		_ = s.CreateRecord(ctx, r)
	}

	page, _ := s.ListRecords(ctx, "services", &record.ListFilter{Limit: 2, Offset: 1})
	if len(page) != 2 {
		t.Fatalf("expected page of 2, got %d", len(page))
	}

	none, _ := s.ListRecords(ctx, "services", &record.ListFilter{Offset: 10})
	if len(none) != 0 {
		t.Fatalf("expected empty page past the end, got %d", len(none))
	}
}

func TestDeleteRecordsByResource(t *testing.T) {
	ctx := context.Background()
	s := New()

	_ = s.CreateRecord(ctx, record.New("reviews", map[string]any{"user_id": "u1"}))
	_ = s.CreateRecord(ctx, record.New("reviews", map[string]any{"user_id": "u2"}))
	_ = s.CreateRecord(ctx, record.New("items", map[string]any{"provider_id": "p1"}))

	if err := s.DeleteRecordsByResource(ctx, "reviews"); err != nil {
		t.Fatal(err)
	}

	count, _ := s.CountRecords(ctx, "reviews", nil)
	if count != 0 {
		t.Fatalf("expected 0 reviews, got %d", count)
	}
	count, _ = s.CountRecords(ctx, "items", nil)
	if count != 1 {
		t.Fatalf("expected items untouched, got %d", count)
	}
}

func TestDecisionLog(t *testing.T) {
	ctx := context.Background()
	s := New()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []*audit.Entry{
		{ID: id.NewDecisionID(), ActorID: "u1", ActorRole: "client", Operation: "select", Resource: "bookings", Decision: "allow", CreatedAt: base},
		{ID: id.NewDecisionID(), ActorID: "u1", ActorRole: "client", Operation: "update", Resource: "bookings", Decision: "deny_default", CreatedAt: base.Add(time.Minute)},
		{ID: id.NewDecisionID(), ActorID: "u2", ActorRole: "admin", Operation: "delete", Resource: "users", Decision: "allow", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		if err := s.CreateDecision(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	// Get
	got, err := s.GetDecision(ctx, entries[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Resource != "bookings" {
		t.Fatalf("expected bookings, got %s", got.Resource)
	}

	// List: newest first.
	list, err := s.ListDecisions(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 decisions, got %d", len(list))
	}
	if list[0].ActorID != "u2" {
		t.Fatalf("expected newest entry first, got actor %s", list[0].ActorID)
	}

	// Filter by actor.
	list, _ = s.ListDecisions(ctx, &audit.QueryFilter{ActorID: "u1"})
	if len(list) != 2 {
		t.Fatalf("expected 2 decisions for u1, got %d", len(list))
	}

	// Filter by decision.
	list, _ = s.ListDecisions(ctx, &audit.QueryFilter{Decision: "deny_default"})
	if len(list) != 1 {
		t.Fatalf("expected 1 denial, got %d", len(list))
	}

	// Time window.
	after := base.Add(30 * time.Second)
	list, _ = s.ListDecisions(ctx, &audit.QueryFilter{After: &after})
	if len(list) != 2 {
		t.Fatalf("expected 2 decisions after %v, got %d", after, len(list))
	}

	// Count.
	count, _ := s.CountDecisions(ctx, &audit.QueryFilter{Resource: "bookings"})
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}

	// Purge everything before the last entry.
	purged, err := s.PurgeDecisions(ctx, base.Add(90*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if purged != 2 {
		t.Fatalf("expected 2 purged, got %d", purged)
	}
	count, _ = s.CountDecisions(ctx, nil)
	if count != 1 {
		t.Fatalf("expected 1 remaining, got %d", count)
	}
}
