package policy

import (
	"fmt"
	"sort"

	"github.com/xraph/rowguard/resource"
)

// Registry holds the declared rules, in registration order, indexed by
// resource type. Build it at initialization, validate it against the schema
// catalog, and treat it as read-only afterwards; concurrent reads need no
// synchronization.
type Registry struct {
	rules      []Rule
	byResource map[string][]Rule
}

// NewRegistry builds a registry from the given rules. Each rule's shape is
// validated on registration.
func NewRegistry(rules ...Rule) (*Registry, error) {
	r := &Registry{byResource: make(map[string][]Rule)}
	for _, rule := range rules {
		if err := r.Register(rule); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error. Use for hardcoded
// rule sets.
func MustRegistry(rules ...Rule) *Registry {
	r, err := NewRegistry(rules...)
	if err != nil {
		panic(fmt.Sprintf("policy: %v", err))
	}
	return r
}

// Register appends a rule. Duplicates are allowed — multiple rules for the
// same resource and operation are expected and all are evaluated under OR
// semantics. Registration order is preserved for diagnostics.
func (r *Registry) Register(rule Rule) error {
	rule = rule.normalize()
	if err := rule.validate(); err != nil {
		return err
	}
	r.rules = append(r.rules, rule)
	r.byResource[rule.Resource] = append(r.byResource[rule.Resource], rule)
	return nil
}

// RulesFor returns the rules applicable to op on the given resource type,
// in registration order. Select-scoped rules apply to reads; all-scoped
// rules apply to every operation. Order does not affect the decision but is
// preserved for diagnostic and audit output.
func (r *Registry) RulesFor(resourceType string, op Operation) []Rule {
	declared := r.byResource[resourceType]
	if len(declared) == 0 {
		return nil
	}
	out := make([]Rule, 0, len(declared))
	for _, rule := range declared {
		if rule.AppliesTo(op) {
			out = append(out, rule)
		}
	}
	return out
}

// Rules returns all registered rules in registration order.
func (r *Registry) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// ResourceRules returns every rule declared for the resource type,
// regardless of operation scope, in registration order.
func (r *Registry) ResourceRules(resourceType string) []Rule {
	declared := r.byResource[resourceType]
	out := make([]Rule, len(declared))
	copy(out, declared)
	return out
}

// Resources returns the resource types that have at least one rule,
// in sorted order.
func (r *Registry) Resources() []string {
	out := make([]string, 0, len(r.byResource))
	for name := range r.byResource {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered rules.
func (r *Registry) Len() int { return len(r.rules) }

// Validate cross-checks every rule against the schema catalog: the resource
// type must be declared, and owner-match columns must be owner columns of
// that type. Failing validation is a configuration error and aborts engine
// construction.
func (r *Registry) Validate(catalog *resource.Catalog) error {
	for _, rule := range r.rules {
		typ, ok := catalog.Lookup(rule.Resource)
		if !ok {
			return fmt.Errorf("%w: rule %q references %q", ErrUnknownResourceType, rule.Name, rule.Resource)
		}
		if rule.Kind != KindOwnerMatch {
			continue
		}
		for _, col := range rule.OwnerColumns {
			if !typ.HasOwnerColumn(col) {
				return fmt.Errorf("%w: rule %q references %s.%s", ErrUnknownOwnerColumn, rule.Name, rule.Resource, col)
			}
		}
	}
	return nil
}
