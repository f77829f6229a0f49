package rowguard

import (
	"context"
	"log/slog"

	"github.com/xraph/rowguard/plugin"
)

// Compile-time hook checks.
var (
	_ plugin.Plugin     = (*DecisionLogger)(nil)
	_ plugin.AfterCheck = (*DecisionLogger)(nil)
)

// DecisionLogger is a plugin that logs check outcomes: denials at warn
// level, allows at debug level. Register it with WithPlugin.
type DecisionLogger struct {
	logger *slog.Logger
}

// NewDecisionLogger creates a decision logging plugin.
func NewDecisionLogger(logger *slog.Logger) *DecisionLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &DecisionLogger{logger: logger}
}

// Name returns the plugin name.
func (d *DecisionLogger) Name() string { return "decision-logger" }

// OnAfterCheck logs the decision. Hooks receive the request and result as
// any; values of unexpected types are ignored.
func (d *DecisionLogger) OnAfterCheck(_ context.Context, req, result any) error {
	r, ok := req.(*CheckRequest)
	if !ok {
		return nil
	}
	res, ok := result.(*CheckResult)
	if !ok {
		return nil
	}

	attrs := []any{
		slog.String("actor", r.Actor.String()),
		slog.String("operation", string(r.Operation)),
		slog.String("resource", r.Resource),
		slog.String("decision", string(res.Decision)),
	}
	if rowID := r.RowID(); rowID != "" {
		attrs = append(attrs, slog.String("record", rowID))
	}

	if res.Allowed {
		d.logger.Debug("rowguard: allow", attrs...)
		return nil
	}
	attrs = append(attrs, slog.String("reason", res.Reason))
	d.logger.Warn("rowguard: deny", attrs...)
	return nil
}
