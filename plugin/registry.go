package plugin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/rowguard/id"
	"github.com/xraph/rowguard/record"
)

// Named entry types pair a hook with the plugin name for logging.

type beforeCheckEntry struct {
	name string
	hook BeforeCheck
}
type afterCheckEntry struct {
	name string
	hook AfterCheck
}
type recordInsertedEntry struct {
	name string
	hook RecordInserted
}
type recordUpdatedEntry struct {
	name string
	hook RecordUpdated
}
type recordDeletedEntry struct {
	name string
	hook RecordDeleted
}
type startupEntry struct {
	name string
	hook Startup
}
type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry holds registered plugins and dispatches lifecycle events.
// It type-caches plugins at registration time so emit calls iterate
// only over plugins implementing the relevant hook.
type Registry struct {
	plugins []Plugin
	logger  *slog.Logger

	beforeCheck    []beforeCheckEntry
	afterCheck     []afterCheckEntry
	recordInserted []recordInsertedEntry
	recordUpdated  []recordUpdatedEntry
	recordDeleted  []recordDeletedEntry
	startup        []startupEntry
	shutdown       []shutdownEntry
}

// NewRegistry creates a plugin registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Register adds a plugin and type-asserts it into all applicable
// hook caches. Plugins are notified in registration order.
func (r *Registry) Register(p Plugin) {
	r.plugins = append(r.plugins, p)
	name := p.Name()

	if h, ok := p.(BeforeCheck); ok {
		r.beforeCheck = append(r.beforeCheck, beforeCheckEntry{name, h})
	}
	if h, ok := p.(AfterCheck); ok {
		r.afterCheck = append(r.afterCheck, afterCheckEntry{name, h})
	}
	if h, ok := p.(RecordInserted); ok {
		r.recordInserted = append(r.recordInserted, recordInsertedEntry{name, h})
	}
	if h, ok := p.(RecordUpdated); ok {
		r.recordUpdated = append(r.recordUpdated, recordUpdatedEntry{name, h})
	}
	if h, ok := p.(RecordDeleted); ok {
		r.recordDeleted = append(r.recordDeleted, recordDeletedEntry{name, h})
	}
	if h, ok := p.(Startup); ok {
		r.startup = append(r.startup, startupEntry{name, h})
	}
	if h, ok := p.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, h})
	}
}

// Plugins returns all registered plugins.
func (r *Registry) Plugins() []Plugin { return r.plugins }

// ──────────────────────────────────────────────────
// Check event emitters
// ──────────────────────────────────────────────────

// EmitBeforeCheck notifies all plugins that implement BeforeCheck.
func (r *Registry) EmitBeforeCheck(ctx context.Context, req any) {
	for _, e := range r.beforeCheck {
		r.emit("OnBeforeCheck", e.name, func() error { return e.hook.OnBeforeCheck(ctx, req) })
	}
}

// EmitAfterCheck notifies all plugins that implement AfterCheck.
func (r *Registry) EmitAfterCheck(ctx context.Context, req, result any) {
	for _, e := range r.afterCheck {
		r.emit("OnAfterCheck", e.name, func() error { return e.hook.OnAfterCheck(ctx, req, result) })
	}
}

// ──────────────────────────────────────────────────
// Record event emitters
// ──────────────────────────────────────────────────

// EmitRecordInserted notifies all plugins that implement RecordInserted.
func (r *Registry) EmitRecordInserted(ctx context.Context, rec *record.Record) {
	for _, e := range r.recordInserted {
		r.emit("OnRecordInserted", e.name, func() error { return e.hook.OnRecordInserted(ctx, rec) })
	}
}

// EmitRecordUpdated notifies all plugins that implement RecordUpdated.
func (r *Registry) EmitRecordUpdated(ctx context.Context, rec *record.Record) {
	for _, e := range r.recordUpdated {
		r.emit("OnRecordUpdated", e.name, func() error { return e.hook.OnRecordUpdated(ctx, rec) })
	}
}

// EmitRecordDeleted notifies all plugins that implement RecordDeleted.
func (r *Registry) EmitRecordDeleted(ctx context.Context, resource string, recordID id.RecordID) {
	for _, e := range r.recordDeleted {
		r.emit("OnRecordDeleted", e.name, func() error { return e.hook.OnRecordDeleted(ctx, resource, recordID) })
	}
}

// ──────────────────────────────────────────────────
// Engine lifecycle emitters
// ──────────────────────────────────────────────────

// EmitStartup notifies all plugins that implement Startup. Unlike the
// other emitters, a startup error is propagated: a plugin that cannot
// start aborts the engine start.
func (r *Registry) EmitStartup(ctx context.Context) error {
	for _, e := range r.startup {
		if err := e.hook.OnStartup(ctx); err != nil {
			return fmt.Errorf("plugin %s startup: %w", e.name, err)
		}
	}
	return nil
}

// EmitShutdown notifies all plugins that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, e := range r.shutdown {
		r.emit("OnShutdown", e.name, func() error { return e.hook.OnShutdown(ctx) })
	}
}

// emit runs one hook with panic isolation. Errors and panics are logged,
// never propagated: a misbehaving plugin must not block the pipeline.
func (r *Registry) emit(hook, pluginName string, fn func() error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("plugin hook panic",
				slog.String("hook", hook),
				slog.String("plugin", pluginName),
				slog.Any("panic", rec),
			)
		}
	}()
	if err := fn(); err != nil {
		r.logger.Warn("plugin hook error",
			slog.String("hook", hook),
			slog.String("plugin", pluginName),
			slog.String("error", err.Error()),
		)
	}
}
