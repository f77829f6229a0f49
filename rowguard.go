// Package rowguard provides row-level authorization for multi-role
// applications.
//
// Access is decided per row: declarative rules bind resource types to
// owner columns, roles, and public visibility, and the engine evaluates
// an actor's operation against the rules under permissive-union (OR)
// semantics. Anything not explicitly allowed is denied.
//
//	eng, err := rowguard.NewEngine(
//	    rowguard.WithAudit(memStore),
//	)
//	result, err := eng.Check(ctx, &rowguard.CheckRequest{
//	    Actor:     rowguard.Actor{ID: "user_123", Role: rowguard.RoleClient},
//	    Operation: rowguard.OperationSelect,
//	    Resource:  "bookings",
//	    Row:       map[string]any{"id": "bk_456", "client_id": "user_123"},
//	})
package rowguard

import (
	"fmt"

	"github.com/xraph/rowguard/policy"
)

// Role identifies the marketplace role an actor holds.
type Role string

const (
	// RoleClient represents a customer buying services or items.
	RoleClient Role = "client"

	// RoleProvider represents a seller offering services or items.
	RoleProvider Role = "provider"

	// RoleAdmin represents an operator with role-based overrides.
	RoleAdmin Role = "admin"
)

// Actor is the identity an authorization check runs as. It is constructed
// once per authenticated unit of work and never persisted by this library.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// Anonymous is the unauthenticated actor: the zero Actor. It never matches
// owner or role rules; only public rules can grant it access.
var Anonymous = Actor{}

// IsAnonymous reports whether the actor is unauthenticated. An actor
// without an ID cannot own rows, so an empty ID is the deciding field.
func (a Actor) IsAnonymous() bool { return a.ID == "" }

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// String renders the actor for logs and audit output.
func (a Actor) String() string {
	if a.IsAnonymous() {
		return "anonymous"
	}
	if a.Role == "" {
		return a.ID
	}
	return string(a.Role) + ":" + a.ID
}

// Operation is a row-level data operation. Re-exported from the policy
// package so callers can stay on the root import.
type Operation = policy.Operation

const (
	// OperationSelect reads rows.
	OperationSelect = policy.OperationSelect

	// OperationInsert creates rows.
	OperationInsert = policy.OperationInsert

	// OperationUpdate modifies existing rows.
	OperationUpdate = policy.OperationUpdate

	// OperationDelete removes rows.
	OperationDelete = policy.OperationDelete
)

// CheckRequest is the input to an authorization check.
//
// Row carries the candidate row's columns for owner matching. It may be
// nil for row-independent checks (for example "may this role ever insert
// into tax_rules"); owner rules never match a nil row.
type CheckRequest struct {
	// Actor is the identity to check. When zero, the engine resolves the
	// actor bound to the request context.
	Actor Actor `json:"actor"`

	Operation Operation      `json:"operation"`
	Resource  string         `json:"resource"`
	Row       map[string]any `json:"row,omitempty"`
}

// RowID returns the row's "id" column as a string, or "" when the request
// carries no row identity.
func (r *CheckRequest) RowID() string {
	if r.Row == nil {
		return ""
	}
	v, ok := r.Row["id"]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// CheckResult is the outcome of an authorization check. It is ephemeral:
// computed per access attempt and persisted only as an audit entry.
type CheckResult struct {
	Allowed    bool         `json:"allowed"`
	Decision   Decision     `json:"decision"`
	Rule       *policy.Rule `json:"rule,omitempty"`
	Reason     string       `json:"reason,omitempty"`
	EvalTimeNs int64        `json:"eval_time_ns"`
}

// Decision is the authorization outcome.
type Decision string

const (
	// DecisionAllow means the operation is permitted.
	DecisionAllow Decision = "allow"

	// DecisionDenyDefault means no rule allowed the operation. This is the
	// fail-closed default, including for resource types with zero rules.
	DecisionDenyDefault Decision = "deny_default"

	// DecisionDenyUnknownResource means the resource type is not declared
	// in the schema catalog.
	DecisionDenyUnknownResource Decision = "deny_unknown_resource"
)
