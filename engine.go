package rowguard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/rowguard/audit"
	"github.com/xraph/rowguard/id"
	"github.com/xraph/rowguard/plugin"
	"github.com/xraph/rowguard/policy"
	"github.com/xraph/rowguard/resource"
)

// Engine is the central authorization engine. It holds the frozen rule
// registry and schema catalog, evaluates check requests, and fans results
// out to the cache, the audit log, and plugins.
type Engine struct {
	registry  *policy.Registry
	catalog   *resource.Catalog
	evaluator Evaluator
	audit     audit.Store
	cache     Cache
	plugins   *plugin.Registry
	logger    *slog.Logger
	config    Config
}

// NewEngine creates a new rowguard engine with the given options. The
// registry is validated against the catalog before the engine is handed
// out: a rule naming an unknown resource type or owner column is a
// configuration error and fails construction.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		registry:  policy.Default(),
		catalog:   resource.Default(),
		evaluator: DefaultEvaluator(),
		logger:    slog.Default(),
		config:    DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.registry.Validate(e.catalog); err != nil {
		return nil, fmt.Errorf("rowguard: %w", err)
	}
	return e, nil
}

// Registry returns the frozen rule registry.
func (e *Engine) Registry() *policy.Registry { return e.registry }

// Catalog returns the schema catalog.
func (e *Engine) Catalog() *resource.Catalog { return e.catalog }

// Audit returns the decision audit store (may be nil).
func (e *Engine) Audit() audit.Store { return e.audit }

// Cache returns the check result cache (may be nil).
func (e *Engine) Cache() Cache { return e.cache }

// Plugins returns the plugin registry (may be nil).
func (e *Engine) Plugins() *plugin.Registry { return e.plugins }

// Start runs plugin startup hooks.
func (e *Engine) Start(ctx context.Context) error {
	if e.plugins != nil {
		return e.plugins.EmitStartup(ctx)
	}
	return nil
}

// Stop runs plugin shutdown hooks.
func (e *Engine) Stop(ctx context.Context) error {
	if e.plugins != nil {
		e.plugins.EmitShutdown(ctx)
	}
	return nil
}

// Check performs an authorization check. This is the hot path.
//
// The result is a decision, not an error: denials return Allowed=false
// with a nil error. The error return covers malformed requests only.
func (e *Engine) Check(ctx context.Context, req *CheckRequest) (*CheckResult, error) {
	start := time.Now()

	// Work on a copy so actor resolution never mutates the caller's request.
	r := *req
	if !r.Operation.Valid() {
		return nil, fmt.Errorf("rowguard: invalid operation %q", r.Operation)
	}
	if r.Actor.IsAnonymous() {
		r.Actor = ActorFrom(ctx)
	}

	// 1. Cache hit?
	useCache := e.cache != nil && cacheable(&r)
	if useCache {
		if cached, ok := e.cache.Get(ctx, &r); ok {
			out := *cached
			out.EvalTimeNs = time.Since(start).Nanoseconds()
			return &out, nil
		}
	}

	// 2. Plugin hook: before check.
	if e.plugins != nil {
		e.plugins.EmitBeforeCheck(ctx, &r)
	}

	// 3. Evaluate. Unknown resource types fail closed.
	var result *CheckResult
	if !e.catalog.Has(r.Resource) {
		result = &CheckResult{
			Decision: DecisionDenyUnknownResource,
			Reason:   fmt.Sprintf("resource type %q is not in the catalog", r.Resource),
		}
	} else {
		result = e.evaluator.Evaluate(&r, e.registry.RulesFor(r.Resource, r.Operation))
	}
	result.EvalTimeNs = time.Since(start).Nanoseconds()

	// 4. Audit. Append failures are logged, never returned: observability
	// must not change authorization outcomes.
	e.appendAudit(ctx, &r, result)

	// 5. Cache the result.
	if useCache {
		e.cache.Set(ctx, &r, result)
	}

	// 6. Plugin hook: after check.
	if e.plugins != nil {
		e.plugins.EmitAfterCheck(ctx, &r, result)
	}

	return result, nil
}

// Enforce returns an error if the authorization check is denied.
func (e *Engine) Enforce(ctx context.Context, req *CheckRequest) error {
	result, err := e.Check(ctx, req)
	if err != nil {
		return fmt.Errorf("rowguard check: %w", err)
	}
	if !result.Allowed {
		return fmt.Errorf("%w: %s — %s", ErrAccessDenied, result.Decision, result.Reason)
	}
	return nil
}

// Can is a shorthand check for the context-bound actor.
func (e *Engine) Can(ctx context.Context, op Operation, resourceType string, row map[string]any) (bool, error) {
	result, err := e.Check(ctx, &CheckRequest{Operation: op, Resource: resourceType, Row: row})
	if err != nil {
		return false, err
	}
	return result.Allowed, nil
}

func (e *Engine) appendAudit(ctx context.Context, req *CheckRequest, result *CheckResult) {
	if e.audit == nil || !e.config.auditEnabled() {
		return
	}
	if result.Allowed && !e.config.auditAllowedEnabled() {
		return
	}

	entry := &audit.Entry{
		ID:         id.NewDecisionID(),
		ActorID:    req.Actor.ID,
		ActorRole:  string(req.Actor.Role),
		Operation:  string(req.Operation),
		Resource:   req.Resource,
		RecordID:   req.RowID(),
		Decision:   string(result.Decision),
		Reason:     result.Reason,
		EvalTimeNs: result.EvalTimeNs,
		CreatedAt:  time.Now(),
	}
	if result.Rule != nil {
		entry.Rule = result.Rule.Name
	}

	if err := e.audit.CreateDecision(ctx, entry); err != nil {
		e.logger.Warn("rowguard: audit append failed",
			slog.String("resource", req.Resource),
			slog.String("operation", string(req.Operation)),
			slog.String("error", err.Error()),
		)
	}
}
