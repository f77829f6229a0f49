// Package resource defines the schema catalog: the set of resource types
// rows can belong to, and the owner columns each type declares.
//
// The catalog is the source of truth the policy registry is validated
// against at startup. It is built once and read-only afterwards, so
// concurrent lookups need no synchronization.
package resource

import (
	"fmt"
	"sort"
)

// Type describes one resource type in the schema catalog.
type Type struct {
	// Name is the resource type name, e.g. "bookings".
	Name string `json:"name"`

	// OwnerColumns are the columns whose values identify the actors that
	// own a row of this type, e.g. ["client_id", "provider_id"].
	// A type with no owner columns can only be reached through role or
	// public rules.
	OwnerColumns []string `json:"owner_columns,omitempty"`

	// Description documents the type for introspection output.
	Description string `json:"description,omitempty"`
}

// HasOwnerColumn reports whether col is one of the type's owner columns.
func (t Type) HasOwnerColumn(col string) bool {
	for _, c := range t.OwnerColumns {
		if c == col {
			return true
		}
	}
	return false
}

// Catalog is an immutable set of resource types keyed by name.
type Catalog struct {
	types map[string]Type
	names []string
}

// NewCatalog builds a catalog from the given types.
func NewCatalog(types ...Type) (*Catalog, error) {
	c := &Catalog{types: make(map[string]Type, len(types))}
	for _, t := range types {
		if err := c.register(t); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustCatalog is like NewCatalog but panics on error. Use for
// hardcoded catalogs.
func MustCatalog(types ...Type) *Catalog {
	c, err := NewCatalog(types...)
	if err != nil {
		panic(fmt.Sprintf("resource: %v", err))
	}
	return c
}

func (c *Catalog) register(t Type) error {
	if t.Name == "" {
		return fmt.Errorf("resource: type with empty name")
	}
	if _, ok := c.types[t.Name]; ok {
		return fmt.Errorf("resource: duplicate type %q", t.Name)
	}
	c.types[t.Name] = t
	c.names = append(c.names, t.Name)
	return nil
}

// Lookup returns the type declaration for name.
func (c *Catalog) Lookup(name string) (Type, bool) {
	t, ok := c.types[name]
	return t, ok
}

// Has reports whether the catalog declares name.
func (c *Catalog) Has(name string) bool {
	_, ok := c.types[name]
	return ok
}

// OwnerColumns returns the owner columns declared for name, or nil if the
// type is unknown.
func (c *Catalog) OwnerColumns(name string) []string {
	t, ok := c.types[name]
	if !ok {
		return nil
	}
	return t.OwnerColumns
}

// Names returns all type names in sorted order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	sort.Strings(out)
	return out
}

// Types returns all type declarations in sorted name order.
func (c *Catalog) Types() []Type {
	out := make([]Type, 0, len(c.names))
	for _, name := range c.Names() {
		out = append(out, c.types[name])
	}
	return out
}

// Len returns the number of declared types.
func (c *Catalog) Len() int { return len(c.names) }

// Default returns the marketplace schema catalog: every table the backend
// exposes, with the owner columns row-level rules compare against.
func Default() *Catalog {
	return MustCatalog(
		Type{Name: "users", OwnerColumns: []string{"id"}, Description: "user accounts; a row's owner is the user itself"},
		Type{Name: "bookings", OwnerColumns: []string{"client_id", "provider_id"}, Description: "service bookings between a client and a provider"},
		Type{Name: "orders", OwnerColumns: []string{"user_id"}, Description: "goods orders placed by a user"},
		Type{Name: "payments", OwnerColumns: []string{"user_id"}, Description: "payments attached to orders"},
		Type{Name: "services", OwnerColumns: []string{"provider_id"}, Description: "services offered by providers"},
		Type{Name: "availability", OwnerColumns: []string{"provider_id"}, Description: "provider availability slots"},
		Type{Name: "messages", OwnerColumns: []string{"sender_id", "recipient_id"}, Description: "direct messages between users"},
		Type{Name: "notifications", OwnerColumns: []string{"user_id"}, Description: "per-user notifications"},
		Type{Name: "items", OwnerColumns: []string{"provider_id"}, Description: "goods listings"},
		Type{Name: "portfolio", OwnerColumns: []string{"provider_id"}, Description: "provider portfolio entries"},
		Type{Name: "reviews", OwnerColumns: []string{"user_id"}, Description: "reviews written by users"},
		Type{Name: "subscriptions", OwnerColumns: []string{"user_id"}, Description: "user subscriptions"},
		Type{Name: "tokens", OwnerColumns: []string{"user_id"}, Description: "refresh tokens"},
		Type{Name: "sessions", OwnerColumns: []string{"user_id"}, Description: "login sessions"},
		Type{Name: "system_events", Description: "operational event log"},
		Type{Name: "tax_rules", Description: "tax configuration"},
		Type{Name: "provider_metrics", OwnerColumns: []string{"provider_id"}, Description: "per-provider performance metrics"},
		Type{Name: "provider_certifications", OwnerColumns: []string{"provider_id"}, Description: "provider certification documents"},
		Type{Name: "message_attachments", OwnerColumns: []string{"sender_id", "recipient_id"}, Description: "attachments on messages, owned by the message participants"},
		Type{Name: "service_tags", Description: "service tagging; carries no rules"},
	)
}
