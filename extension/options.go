package extension

import (
	"log/slog"

	"github.com/xraph/rowguard"
	"github.com/xraph/rowguard/plugin"
	"github.com/xraph/rowguard/session"
	"github.com/xraph/rowguard/store"
)

// ExtOption configures the rowguard Forge extension.
type ExtOption func(*Extension)

// WithStore sets the persistence backend. Without it the extension resolves
// a store.Store from the DI container, falling back to the in-memory store.
func WithStore(s store.Store) ExtOption {
	return func(e *Extension) {
		e.store = s
	}
}

// WithConfig sets the extension configuration.
func WithConfig(cfg Config) ExtOption {
	return func(e *Extension) {
		e.config = cfg
	}
}

// WithEngineOptions adds engine-level options.
func WithEngineOptions(opts ...rowguard.Option) ExtOption {
	return func(e *Extension) {
		e.engOpts = append(e.engOpts, opts...)
	}
}

// WithPlugin registers a lifecycle hook plugin.
func WithPlugin(x plugin.Plugin) ExtOption {
	return func(e *Extension) {
		e.plugins = append(e.plugins, x)
	}
}

// WithAuthenticator sets the credential verifier the session binder uses.
// Without it every unit of work binds Anonymous.
func WithAuthenticator(a session.Authenticator) ExtOption {
	return func(e *Extension) {
		e.auth = a
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ExtOption {
	return func(e *Extension) {
		e.logger = l
	}
}

// WithDisableRoutes disables the registration of HTTP routes.
func WithDisableRoutes() ExtOption {
	return func(e *Extension) {
		e.config.DisableRoutes = true
	}
}

// WithDisableMigrate disables auto-migration on start.
func WithDisableMigrate() ExtOption {
	return func(e *Extension) {
		e.config.DisableMigrate = true
	}
}
