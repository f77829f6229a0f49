// Package plugin defines the plugin system for rowguard.
// Plugins are notified of lifecycle events (check evaluated, record
// written, engine started) and can react: logging, metrics, tracing.
//
// Each lifecycle hook is a separate interface so plugins opt in only
// to the events they care about.
package plugin

import (
	"context"

	"github.com/xraph/rowguard/id"
	"github.com/xraph/rowguard/record"
)

// Plugin is the base interface all plugins must implement.
type Plugin interface {
	// Name returns a unique human-readable name for the plugin.
	Name() string
}

// ──────────────────────────────────────────────────
// Check lifecycle hooks
// ──────────────────────────────────────────────────

// BeforeCheck is called before an authorization check is evaluated.
// The req parameter is *rowguard.CheckRequest (passed as any to avoid import cycle).
type BeforeCheck interface {
	OnBeforeCheck(ctx context.Context, req any) error
}

// AfterCheck is called after an authorization check completes.
// The req parameter is *rowguard.CheckRequest; result is *rowguard.CheckResult.
type AfterCheck interface {
	OnAfterCheck(ctx context.Context, req, result any) error
}

// ──────────────────────────────────────────────────
// Record lifecycle hooks (emitted by the gateway)
// ──────────────────────────────────────────────────

// RecordInserted is called after the gateway persists a new record.
type RecordInserted interface {
	OnRecordInserted(ctx context.Context, r *record.Record) error
}

// RecordUpdated is called after the gateway persists record changes.
type RecordUpdated interface {
	OnRecordUpdated(ctx context.Context, r *record.Record) error
}

// RecordDeleted is called after the gateway deletes a record.
type RecordDeleted interface {
	OnRecordDeleted(ctx context.Context, resource string, recordID id.RecordID) error
}

// ──────────────────────────────────────────────────
// Engine lifecycle hooks
// ──────────────────────────────────────────────────

// Startup is called when the engine starts. A startup error aborts the
// engine start; plugins that must not block startup should log instead.
type Startup interface {
	OnStartup(ctx context.Context) error
}

// Shutdown is called during graceful shutdown.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
