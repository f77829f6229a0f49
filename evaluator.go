package rowguard

import (
	"fmt"

	"github.com/xraph/rowguard/policy"
)

// Evaluator decides a check request against the rules applicable to it.
// Implementations must be pure: the same rules and request always produce
// the same result, with no I/O and no hidden state.
type Evaluator interface {
	Evaluate(req *CheckRequest, rules []policy.Rule) *CheckResult
}

// DefaultEvaluator returns the built-in permissive-union evaluator.
func DefaultEvaluator() Evaluator { return &ruleEvaluator{} }

type ruleEvaluator struct{}

// Evaluate walks the rules in three passes: role matches first (strongest
// grant, row-independent), then public reads, then owner matches. The
// first allowing rule wins; rules cannot veto each other, so pass order
// only affects which rule gets credited in the result. No match is a
// fail-closed deny.
func (e *ruleEvaluator) Evaluate(req *CheckRequest, rules []policy.Rule) *CheckResult {
	if len(rules) == 0 {
		return &CheckResult{
			Decision: DecisionDenyDefault,
			Reason:   fmt.Sprintf("no rule covers %s on %s", req.Operation, req.Resource),
		}
	}

	// Role matches. Anonymous carries no role and never matches.
	if !req.Actor.IsAnonymous() && req.Actor.Role != "" {
		for i := range rules {
			rule := &rules[i]
			if rule.Kind != policy.KindRoleMatch {
				continue
			}
			if string(req.Actor.Role) == rule.Role {
				return allow(rule, fmt.Sprintf("role %q grants %s on %s", rule.Role, req.Operation, req.Resource))
			}
		}
	}

	// Public reads. Public rules are select-scoped, but the operation is
	// re-checked here so public can never grant a write.
	if req.Operation == policy.OperationSelect {
		for i := range rules {
			rule := &rules[i]
			if rule.Kind != policy.KindPublic {
				continue
			}
			return allow(rule, fmt.Sprintf("%s is publicly readable", req.Resource))
		}
	}

	// Owner matches. Anonymous has no ID and never owns a row.
	if !req.Actor.IsAnonymous() {
		for i := range rules {
			rule := &rules[i]
			if rule.Kind != policy.KindOwnerMatch {
				continue
			}
			if col, ok := matchOwnerColumn(req.Actor.ID, rule.OwnerColumns, req.Row); ok {
				return allow(rule, fmt.Sprintf("actor owns row via %s.%s", req.Resource, col))
			}
		}
	}

	return &CheckResult{
		Decision: DecisionDenyDefault,
		Reason:   fmt.Sprintf("no rule allows %s for %s on %s", req.Operation, req.Actor, req.Resource),
	}
}

func allow(rule *policy.Rule, reason string) *CheckResult {
	matched := *rule
	return &CheckResult{
		Allowed:  true,
		Decision: DecisionAllow,
		Rule:     &matched,
		Reason:   reason,
	}
}
