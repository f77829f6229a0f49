// Package policy defines the declarative row-level authorization rules and
// the registry that holds them.
//
// Rules are registered at initialization, validated against the schema
// catalog, and read-only afterwards. Evaluation is permissive-union: access
// is granted if any applicable rule allows it, and no rule can veto another
// rule's allow.
package policy

import (
	"errors"
	"fmt"
)

// Operation is a row-level data operation.
type Operation string

const (
	// OperationSelect reads rows.
	OperationSelect Operation = "select"

	// OperationInsert creates rows.
	OperationInsert Operation = "insert"

	// OperationUpdate modifies existing rows.
	OperationUpdate Operation = "update"

	// OperationDelete removes rows.
	OperationDelete Operation = "delete"
)

// IsWrite reports whether the operation mutates rows.
func (o Operation) IsWrite() bool {
	return o == OperationInsert || o == OperationUpdate || o == OperationDelete
}

// Valid reports whether o is a known operation.
func (o Operation) Valid() bool {
	switch o {
	case OperationSelect, OperationInsert, OperationUpdate, OperationDelete:
		return true
	}
	return false
}

// Scope declares which operations a rule covers.
type Scope string

const (
	// ScopeAll applies the rule to every operation.
	ScopeAll Scope = "all"

	// ScopeSelect applies the rule to reads only.
	ScopeSelect Scope = "select"
)

// Kind is the predicate family of a rule.
type Kind string

const (
	// KindOwnerMatch grants access when the actor's ID equals the row's
	// value in one of the rule's owner columns.
	KindOwnerMatch Kind = "owner_match"

	// KindRoleMatch grants access when the actor carries the rule's role,
	// regardless of row ownership.
	KindRoleMatch Kind = "role_match"

	// KindPublic grants unconditional read access, including to anonymous
	// actors. Public rules never cover writes.
	KindPublic Kind = "public"
)

// Validation sentinels. These are startup configuration errors: a registry
// that fails validation aborts engine construction rather than surfacing at
// request time.
var (
	// ErrInvalidRule is returned when a rule's shape is malformed.
	ErrInvalidRule = errors.New("policy: invalid rule")

	// ErrUnknownResourceType is returned when a rule references a resource
	// type the schema catalog does not declare.
	ErrUnknownResourceType = errors.New("policy: unknown resource type")

	// ErrUnknownOwnerColumn is returned when an owner-match rule names a
	// column the resource type does not declare as an owner column.
	ErrUnknownOwnerColumn = errors.New("policy: unknown owner column")
)

// Rule is one declarative row-level authorization rule.
// Role is a plain string to avoid import cycles with the root rowguard package.
type Rule struct {
	// Name labels the rule in diagnostics and audit output,
	// e.g. "bookings_participant_access".
	Name string `json:"name"`

	// Resource is the resource type the rule applies to.
	Resource string `json:"resource"`

	// Scope selects the operations covered: all operations or reads only.
	// An empty scope defaults to ScopeAll.
	Scope Scope `json:"scope"`

	// Kind is the predicate family.
	Kind Kind `json:"kind"`

	// OwnerColumns are the row columns compared against the actor's ID.
	// Only meaningful for owner-match rules. A row matches when any one
	// column equals the actor's ID.
	OwnerColumns []string `json:"owner_columns,omitempty"`

	// Role is the role granted by a role-match rule, e.g. "admin".
	Role string `json:"role,omitempty"`
}

// AppliesTo reports whether the rule covers op.
func (r Rule) AppliesTo(op Operation) bool {
	if r.Scope == ScopeSelect {
		return op == OperationSelect
	}
	return true
}

// normalize fills defaults; called on registration.
func (r Rule) normalize() Rule {
	if r.Scope == "" {
		r.Scope = ScopeAll
	}
	return r
}

// validate checks the rule's internal shape. Catalog cross-checks happen
// separately in Registry.Validate.
func (r Rule) validate() error {
	if r.Resource == "" {
		return fmt.Errorf("%w: rule %q has no resource", ErrInvalidRule, r.Name)
	}
	if r.Scope != ScopeAll && r.Scope != ScopeSelect {
		return fmt.Errorf("%w: rule %q has unknown scope %q", ErrInvalidRule, r.Name, r.Scope)
	}

	switch r.Kind {
	case KindOwnerMatch:
		if len(r.OwnerColumns) == 0 {
			return fmt.Errorf("%w: owner-match rule %q names no owner columns", ErrInvalidRule, r.Name)
		}
		if r.Role != "" {
			return fmt.Errorf("%w: owner-match rule %q sets a role", ErrInvalidRule, r.Name)
		}
	case KindRoleMatch:
		if r.Role == "" {
			return fmt.Errorf("%w: role-match rule %q names no role", ErrInvalidRule, r.Name)
		}
		if len(r.OwnerColumns) > 0 {
			return fmt.Errorf("%w: role-match rule %q names owner columns", ErrInvalidRule, r.Name)
		}
	case KindPublic:
		if r.Scope != ScopeSelect {
			return fmt.Errorf("%w: public rule %q must have scope %q", ErrInvalidRule, r.Name, ScopeSelect)
		}
		if r.Role != "" || len(r.OwnerColumns) > 0 {
			return fmt.Errorf("%w: public rule %q carries predicate detail", ErrInvalidRule, r.Name)
		}
	default:
		return fmt.Errorf("%w: rule %q has unknown kind %q", ErrInvalidRule, r.Name, r.Kind)
	}

	return nil
}

// ──────────────────────────────────────────────────
// Rule constructors
// ──────────────────────────────────────────────────

// OwnerMatch builds an owner-match rule covering all operations.
func OwnerMatch(name, resource string, ownerColumns ...string) Rule {
	return Rule{Name: name, Resource: resource, Scope: ScopeAll, Kind: KindOwnerMatch, OwnerColumns: ownerColumns}
}

// RoleMatch builds a role-match rule covering all operations.
func RoleMatch(name, resource, role string) Rule {
	return Rule{Name: name, Resource: resource, Scope: ScopeAll, Kind: KindRoleMatch, Role: role}
}

// AdminOverride builds the conventional admin role-match rule.
func AdminOverride(name, resource string) Rule {
	return RoleMatch(name, resource, "admin")
}

// PublicRead builds a public read rule (select only).
func PublicRead(name, resource string) Rule {
	return Rule{Name: name, Resource: resource, Scope: ScopeSelect, Kind: KindPublic}
}
