package rowguard

import (
	"log/slog"

	"github.com/xraph/rowguard/audit"
	"github.com/xraph/rowguard/plugin"
	"github.com/xraph/rowguard/policy"
	"github.com/xraph/rowguard/resource"
)

// Option is a functional option for the Engine.
type Option func(*Engine)

// WithRegistry sets the policy rule registry.
func WithRegistry(r *policy.Registry) Option { return func(e *Engine) { e.registry = r } }

// WithCatalog sets the schema catalog rules are validated against.
func WithCatalog(c *resource.Catalog) Option { return func(e *Engine) { e.catalog = c } }

// WithRules replaces the registry with one built from the given rules.
// Panics on malformed rules; use WithRegistry to handle errors.
func WithRules(rules ...policy.Rule) Option {
	return func(e *Engine) { e.registry = policy.MustRegistry(rules...) }
}

// WithEvaluator sets the rule evaluator.
func WithEvaluator(ev Evaluator) Option { return func(e *Engine) { e.evaluator = ev } }

// WithAudit sets the decision audit store.
func WithAudit(s audit.Store) Option { return func(e *Engine) { e.audit = s } }

// WithCache sets the check result cache.
func WithCache(c Cache) Option { return func(e *Engine) { e.cache = c } }

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithConfig sets the engine configuration.
func WithConfig(c Config) Option { return func(e *Engine) { e.config = c } }

// WithPlugin registers a plugin with the engine.
func WithPlugin(x plugin.Plugin) Option {
	return func(e *Engine) {
		if e.plugins == nil {
			e.plugins = plugin.NewRegistry(e.logger)
		}
		e.plugins.Register(x)
	}
}
