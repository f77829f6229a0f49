package policy

import (
	"errors"
	"testing"
)

func TestRuleAppliesTo(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		op   Operation
		want bool
	}{
		{"all covers select", OwnerMatch("r", "orders", "user_id"), OperationSelect, true},
		{"all covers insert", OwnerMatch("r", "orders", "user_id"), OperationInsert, true},
		{"all covers update", OwnerMatch("r", "orders", "user_id"), OperationUpdate, true},
		{"all covers delete", OwnerMatch("r", "orders", "user_id"), OperationDelete, true},
		{"select covers select", PublicRead("r", "services"), OperationSelect, true},
		{"select excludes insert", PublicRead("r", "services"), OperationInsert, false},
		{"select excludes update", PublicRead("r", "services"), OperationUpdate, false},
		{"select excludes delete", PublicRead("r", "services"), OperationDelete, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.AppliesTo(tt.op); got != tt.want {
				t.Errorf("AppliesTo(%s) = %v, want %v", tt.op, got, tt.want)
			}
		})
	}
}

func TestOperationIsWrite(t *testing.T) {
	if OperationSelect.IsWrite() {
		t.Error("select should not be a write")
	}
	for _, op := range []Operation{OperationInsert, OperationUpdate, OperationDelete} {
		if !op.IsWrite() {
			t.Errorf("%s should be a write", op)
		}
	}
}

func TestRuleValidation(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
	}{
		{"no resource", Rule{Name: "r", Scope: ScopeAll, Kind: KindOwnerMatch, OwnerColumns: []string{"user_id"}}},
		{"unknown scope", Rule{Name: "r", Resource: "orders", Scope: "sometimes", Kind: KindPublic}},
		{"unknown kind", Rule{Name: "r", Resource: "orders", Scope: ScopeAll, Kind: "magic"}},
		{"owner match without columns", Rule{Name: "r", Resource: "orders", Scope: ScopeAll, Kind: KindOwnerMatch}},
		{"owner match with role", Rule{Name: "r", Resource: "orders", Scope: ScopeAll, Kind: KindOwnerMatch, OwnerColumns: []string{"user_id"}, Role: "admin"}},
		{"role match without role", Rule{Name: "r", Resource: "orders", Scope: ScopeAll, Kind: KindRoleMatch}},
		{"role match with columns", Rule{Name: "r", Resource: "orders", Scope: ScopeAll, Kind: KindRoleMatch, Role: "admin", OwnerColumns: []string{"user_id"}}},
		{"public covering writes", Rule{Name: "r", Resource: "services", Scope: ScopeAll, Kind: KindPublic}},
		{"public with role", Rule{Name: "r", Resource: "services", Scope: ScopeSelect, Kind: KindPublic, Role: "admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.rule)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidRule) {
				t.Errorf("expected ErrInvalidRule, got %v", err)
			}
		})
	}
}

func TestRuleScopeDefaultsToAll(t *testing.T) {
	r, err := NewRegistry(Rule{Name: "r", Resource: "orders", Kind: KindOwnerMatch, OwnerColumns: []string{"user_id"}})
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	rules := r.RulesFor("orders", OperationDelete)
	if len(rules) != 1 {
		t.Fatalf("expected defaulted all-scope rule to cover delete, got %d rules", len(rules))
	}
	if rules[0].Scope != ScopeAll {
		t.Errorf("expected scope %q, got %q", ScopeAll, rules[0].Scope)
	}
}

func TestConstructors(t *testing.T) {
	owner := OwnerMatch("bookings_participant_access", "bookings", "client_id", "provider_id")
	if owner.Kind != KindOwnerMatch || owner.Scope != ScopeAll || len(owner.OwnerColumns) != 2 {
		t.Errorf("unexpected owner rule: %+v", owner)
	}

	admin := AdminOverride("users_admin_access", "users")
	if admin.Kind != KindRoleMatch || admin.Role != "admin" || admin.Scope != ScopeAll {
		t.Errorf("unexpected admin rule: %+v", admin)
	}

	public := PublicRead("services_public_read", "services")
	if public.Kind != KindPublic || public.Scope != ScopeSelect {
		t.Errorf("unexpected public rule: %+v", public)
	}
}
