package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/rowguard"
	"github.com/xraph/rowguard/cache"
	"github.com/xraph/rowguard/record"
	"github.com/xraph/rowguard/store/memory"
)

func newTestGateway(t *testing.T, opts ...rowguard.Option) (*Gateway, *memory.Store) {
	t.Helper()
	s := memory.New()
	eng, err := rowguard.NewEngine(append([]rowguard.Option{rowguard.WithAudit(s)}, opts...)...)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return New(eng, s), s
}

func bindActor(t *testing.T, actor rowguard.Actor) context.Context {
	t.Helper()
	ctx, err := rowguard.Bind(context.Background(), actor)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	return ctx
}

func TestGetDeniedReportsNotFound(t *testing.T) {
	g, s := newTestGateway(t)
	ctx := context.Background()

	booking := record.New("bookings", map[string]any{"client_id": "u1", "provider_id": "u2"})
	_ = s.CreateRecord(ctx, booking)

	// The client can read their own booking.
	u1 := bindActor(t, rowguard.Actor{ID: "u1", Role: rowguard.RoleClient})
	got, err := g.Get(u1, "bookings", booking.ID)
	if err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if got.ID != booking.ID {
		t.Fatal("owner got wrong record")
	}

	// A third party gets not found, not a denial.
	u3 := bindActor(t, rowguard.Actor{ID: "u3", Role: rowguard.RoleClient})
	_, err = g.Get(u3, "bookings", booking.ID)
	if !errors.Is(err, record.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if errors.Is(err, rowguard.ErrAccessDenied) {
		t.Fatal("denied get must not leak an access denial")
	}
}

func TestListSilentlyFiltersDeniedRows(t *testing.T) {
	g, s := newTestGateway(t)
	ctx := context.Background()

	_ = s.CreateRecord(ctx, record.New("bookings", map[string]any{"client_id": "u1", "provider_id": "p1"}))
	_ = s.CreateRecord(ctx, record.New("bookings", map[string]any{"client_id": "u2", "provider_id": "p1"}))
	_ = s.CreateRecord(ctx, record.New("bookings", map[string]any{"client_id": "u2", "provider_id": "p2"}))

	u1 := bindActor(t, rowguard.Actor{ID: "u1", Role: rowguard.RoleClient})
	rows, err := g.List(u1, "bookings", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("u1 should see 1 booking, got %d", len(rows))
	}

	p1 := bindActor(t, rowguard.Actor{ID: "p1", Role: rowguard.RoleProvider})
	rows, _ = g.List(p1, "bookings", nil)
	if len(rows) != 2 {
		t.Fatalf("p1 should see 2 bookings, got %d", len(rows))
	}
}

func TestListPublicReadableByAnonymous(t *testing.T) {
	g, s := newTestGateway(t)
	ctx := context.Background()

	_ = s.CreateRecord(ctx, record.New("services", map[string]any{"provider_id": "p1", "title": "haircut"}))
	_ = s.CreateRecord(ctx, record.New("services", map[string]any{"provider_id": "p2", "title": "massage"}))
	_ = s.CreateRecord(ctx, record.New("payments", map[string]any{"user_id": "u1"}))

	// No binding at all: anonymous.
	rows, err := g.List(ctx, "services", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("anonymous should see all services, got %d", len(rows))
	}

	rows, _ = g.List(ctx, "payments", nil)
	if len(rows) != 0 {
		t.Fatalf("anonymous should see no payments, got %d", len(rows))
	}
}

func TestInsertStampsOwnerColumn(t *testing.T) {
	g, _ := newTestGateway(t)

	u1 := bindActor(t, rowguard.Actor{ID: "u1", Role: rowguard.RoleClient})
	order, err := g.Insert(u1, "orders", map[string]any{"total": 125.50})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got, _ := order.Field("user_id"); got != "u1" {
		t.Fatalf("expected stamped user_id u1, got %v", got)
	}

	// The stamped row is readable by its owner.
	got, err := g.Get(u1, "orders", order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := got.Field("total"); v != 125.50 {
		t.Fatalf("expected total 125.50, got %v", v)
	}

	// An explicit owner column is left as provided.
	order2, err := g.Insert(u1, "orders", map[string]any{"user_id": "u1", "total": 10})
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := order2.Field("user_id"); got != "u1" {
		t.Fatalf("expected user_id u1, got %v", got)
	}
}

func TestInsertDeniedWritesNothing(t *testing.T) {
	g, s := newTestGateway(t)

	// Anonymous cannot insert anywhere, including public-read types.
	_, err := g.Insert(context.Background(), "services", map[string]any{"title": "haircut"})
	if !errors.Is(err, rowguard.ErrAccessDenied) {
		t.Fatalf("expected access denied, got %v", err)
	}
	count, _ := s.CountRecords(context.Background(), "services", nil)
	if count != 0 {
		t.Fatalf("denied insert must not persist, found %d rows", count)
	}

	// A client inserting someone else's order is denied.
	u1 := bindActor(t, rowguard.Actor{ID: "u1", Role: rowguard.RoleClient})
	_, err = g.Insert(u1, "orders", map[string]any{"user_id": "u2"})
	if !errors.Is(err, rowguard.ErrAccessDenied) {
		t.Fatalf("expected access denied, got %v", err)
	}
}

func TestUpdateDeniedLeavesRowUnchanged(t *testing.T) {
	g, s := newTestGateway(t)
	ctx := context.Background()

	booking := record.New("bookings", map[string]any{"client_id": "u1", "provider_id": "p1", "status": "pending"})
	_ = s.CreateRecord(ctx, booking)

	u3 := bindActor(t, rowguard.Actor{ID: "u3", Role: rowguard.RoleClient})
	_, err := g.Update(u3, "bookings", booking.ID, map[string]any{"status": "cancelled"})
	if !errors.Is(err, rowguard.ErrAccessDenied) {
		t.Fatalf("expected access denied, got %v", err)
	}

	stored, _ := s.GetRecord(ctx, booking.ID)
	if stored.Fields["status"] != "pending" {
		t.Fatalf("denied update must not change fields, got %v", stored.Fields["status"])
	}

	// The participant provider may update.
	p1 := bindActor(t, rowguard.Actor{ID: "p1", Role: rowguard.RoleProvider})
	updated, err := g.Update(p1, "bookings", booking.ID, map[string]any{"status": "confirmed"})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Fields["status"] != "confirmed" {
		t.Fatalf("expected confirmed, got %v", updated.Fields["status"])
	}
}

func TestAdminHasNoBookingOverride(t *testing.T) {
	g, s := newTestGateway(t)
	ctx := context.Background()

	booking := record.New("bookings", map[string]any{"client_id": "u1", "provider_id": "p1"})
	_ = s.CreateRecord(ctx, booking)

	admin := bindActor(t, rowguard.Actor{ID: "adm", Role: rowguard.RoleAdmin})
	if _, err := g.Get(admin, "bookings", booking.ID); !errors.Is(err, record.ErrNotFound) {
		t.Fatalf("bookings carry no admin rule; expected not found, got %v", err)
	}

	// Admins do override on users.
	user := record.New("users", map[string]any{"email": "u1@example.com"})
	_ = s.CreateRecord(ctx, user)
	if err := g.Delete(admin, "users", user.ID); err != nil {
		t.Fatalf("admin delete on users: %v", err)
	}
}

func TestDeleteDeniedKeepsRow(t *testing.T) {
	g, s := newTestGateway(t)
	ctx := context.Background()

	review := record.New("reviews", map[string]any{"user_id": "u1", "rating": 5})
	_ = s.CreateRecord(ctx, review)

	u2 := bindActor(t, rowguard.Actor{ID: "u2", Role: rowguard.RoleClient})
	if err := g.Delete(u2, "reviews", review.ID); !errors.Is(err, rowguard.ErrAccessDenied) {
		t.Fatalf("expected access denied, got %v", err)
	}
	if _, err := s.GetRecord(ctx, review.ID); err != nil {
		t.Fatal("denied delete must keep the row")
	}

	u1 := bindActor(t, rowguard.Actor{ID: "u1", Role: rowguard.RoleClient})
	if err := g.Delete(u1, "reviews", review.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetRecord(ctx, review.ID); !errors.Is(err, record.ErrNotFound) {
		t.Fatal("owner delete should remove the row")
	}
}

func TestZeroRuleResourceDeniesEveryone(t *testing.T) {
	g, s := newTestGateway(t)
	ctx := context.Background()

	tag := record.New("service_tags", map[string]any{"name": "fitness"})
	_ = s.CreateRecord(ctx, tag)

	admin := bindActor(t, rowguard.Actor{ID: "adm", Role: rowguard.RoleAdmin})
	if _, err := g.Get(admin, "service_tags", tag.ID); !errors.Is(err, record.ErrNotFound) {
		t.Fatalf("zero-rule type must deny admins too, got %v", err)
	}
	if _, err := g.Insert(admin, "service_tags", map[string]any{"name": "beauty"}); !errors.Is(err, rowguard.ErrAccessDenied) {
		t.Fatalf("expected access denied, got %v", err)
	}
}

func TestWriteInvalidatesDecisionCache(t *testing.T) {
	c := cache.NewMemory()
	g, s := newTestGateway(t, rowguard.WithCache(c))
	ctx := context.Background()

	item := record.New("items", map[string]any{"provider_id": "p1"})
	_ = s.CreateRecord(ctx, item)

	p1 := bindActor(t, rowguard.Actor{ID: "p1", Role: rowguard.RoleProvider})
	req := &rowguard.CheckRequest{
		Actor:     rowguard.Actor{ID: "p1", Role: rowguard.RoleProvider},
		Operation: rowguard.OperationSelect,
		Resource:  "items",
		Row:       item.Columns(),
	}
	if _, err := g.Engine().Check(p1, req); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get(ctx, req); !ok {
		t.Fatal("expected decision to be cached")
	}

	if _, err := g.Update(p1, "items", item.ID, map[string]any{"price": 20}); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get(ctx, req); ok {
		t.Fatal("write must invalidate cached decisions for the resource")
	}
}

func TestGetWrongResourceIsNotFound(t *testing.T) {
	g, s := newTestGateway(t)
	ctx := context.Background()

	user := record.New("users", map[string]any{"email": "u1@example.com"})
	_ = s.CreateRecord(ctx, user)

	u1 := bindActor(t, rowguard.Actor{ID: "u1", Role: rowguard.RoleClient})
	if _, err := g.Get(u1, "orders", user.ID); !errors.Is(err, record.ErrNotFound) {
		t.Fatalf("cross-resource lookup must be not found, got %v", err)
	}
}
