package resource

import "testing"

func TestNewCatalog(t *testing.T) {
	c, err := NewCatalog(
		Type{Name: "orders", OwnerColumns: []string{"user_id"}},
		Type{Name: "services", OwnerColumns: []string{"provider_id"}},
	)
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 types, got %d", c.Len())
	}
	if !c.Has("orders") {
		t.Error("catalog should have orders")
	}
	if c.Has("bookings") {
		t.Error("catalog should not have bookings")
	}
}

func TestNewCatalogRejectsDuplicates(t *testing.T) {
	_, err := NewCatalog(
		Type{Name: "orders"},
		Type{Name: "orders"},
	)
	if err == nil {
		t.Fatal("expected error for duplicate type")
	}
}

func TestNewCatalogRejectsEmptyName(t *testing.T) {
	_, err := NewCatalog(Type{OwnerColumns: []string{"user_id"}})
	if err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestLookup(t *testing.T) {
	c := MustCatalog(Type{Name: "bookings", OwnerColumns: []string{"client_id", "provider_id"}})

	got, ok := c.Lookup("bookings")
	if !ok {
		t.Fatal("expected bookings to exist")
	}
	if len(got.OwnerColumns) != 2 {
		t.Fatalf("expected 2 owner columns, got %v", got.OwnerColumns)
	}

	_, ok = c.Lookup("unknown")
	if ok {
		t.Error("expected lookup miss for unknown type")
	}
}

func TestOwnerColumns(t *testing.T) {
	c := MustCatalog(Type{Name: "messages", OwnerColumns: []string{"sender_id", "recipient_id"}})

	cols := c.OwnerColumns("messages")
	if len(cols) != 2 || cols[0] != "sender_id" || cols[1] != "recipient_id" {
		t.Fatalf("unexpected owner columns: %v", cols)
	}
	if c.OwnerColumns("unknown") != nil {
		t.Error("expected nil owner columns for unknown type")
	}
}

func TestHasOwnerColumn(t *testing.T) {
	typ := Type{Name: "bookings", OwnerColumns: []string{"client_id", "provider_id"}}
	if !typ.HasOwnerColumn("client_id") {
		t.Error("expected client_id to be an owner column")
	}
	if typ.HasOwnerColumn("user_id") {
		t.Error("user_id should not be an owner column")
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	if c.Len() != 20 {
		t.Fatalf("expected 20 types in default catalog, got %d", c.Len())
	}

	// Spot-check the shapes that drive policy decisions.
	typ, ok := c.Lookup("bookings")
	if !ok {
		t.Fatal("default catalog missing bookings")
	}
	if !typ.HasOwnerColumn("client_id") || !typ.HasOwnerColumn("provider_id") {
		t.Errorf("bookings owner columns wrong: %v", typ.OwnerColumns)
	}

	typ, ok = c.Lookup("users")
	if !ok {
		t.Fatal("default catalog missing users")
	}
	if len(typ.OwnerColumns) != 1 || typ.OwnerColumns[0] != "id" {
		t.Errorf("users owner columns wrong: %v", typ.OwnerColumns)
	}

	// Admin-only and rule-less types declare no owner columns.
	for _, name := range []string{"system_events", "tax_rules", "service_tags"} {
		typ, ok := c.Lookup(name)
		if !ok {
			t.Fatalf("default catalog missing %s", name)
		}
		if len(typ.OwnerColumns) != 0 {
			t.Errorf("%s should declare no owner columns, got %v", name, typ.OwnerColumns)
		}
	}
}

func TestNamesSorted(t *testing.T) {
	c := MustCatalog(
		Type{Name: "zebra"},
		Type{Name: "apple"},
		Type{Name: "mango"},
	)
	names := c.Names()
	if names[0] != "apple" || names[1] != "mango" || names[2] != "zebra" {
		t.Fatalf("names not sorted: %v", names)
	}
}
