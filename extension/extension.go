// Package extension provides a Forge extension entry point for rowguard.
package extension

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/xraph/rowguard"
	"github.com/xraph/rowguard/api"
	"github.com/xraph/rowguard/cache"
	"github.com/xraph/rowguard/gateway"
	"github.com/xraph/rowguard/plugin"
	"github.com/xraph/rowguard/session"
	"github.com/xraph/rowguard/store"
	"github.com/xraph/rowguard/store/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "rowguard"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Row-level authorization engine (ownership, roles, public visibility)"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts rowguard as a Forge extension. It assembles the engine,
// the access-scoped gateway, and the session binder, registers all three in
// the DI container, and optionally mounts the HTTP routes.
type Extension struct {
	config     Config
	eng        *rowguard.Engine
	gw         *gateway.Gateway
	binder     *session.Binder
	store      store.Store
	apiHandler *api.API
	logger     *slog.Logger
	auth       session.Authenticator
	engOpts    []rowguard.Option
	plugins    []plugin.Plugin
}

// New creates a rowguard Forge extension with the given options.
func New(opts ...ExtOption) *Extension {
	e := &Extension{config: DefaultConfig()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the extension name.
func (e *Extension) Name() string { return ExtensionName }

// Description returns the extension description.
func (e *Extension) Description() string { return ExtensionDescription }

// Version returns the extension version.
func (e *Extension) Version() string { return ExtensionVersion }

// Dependencies returns the list of extension names this extension depends on.
func (e *Extension) Dependencies() []string { return []string{} }

// Engine returns the underlying rowguard engine.
func (e *Extension) Engine() *rowguard.Engine { return e.eng }

// Gateway returns the access-scoped data gateway.
func (e *Extension) Gateway() *gateway.Gateway { return e.gw }

// Binder returns the session binder.
func (e *Extension) Binder() *session.Binder { return e.binder }

// API returns the API handler.
func (e *Extension) API() *api.API { return e.apiHandler }

// Store returns the configured persistence backend.
func (e *Extension) Store() store.Store { return e.store }

// Register implements [forge.Extension]. It initializes the engine, the
// gateway, and the binder, registers them in the DI container, and
// optionally registers HTTP routes.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.init(fapp); err != nil {
		return err
	}

	if err := vessel.Provide(fapp.Container(), func() (*rowguard.Engine, error) {
		return e.eng, nil
	}); err != nil {
		return fmt.Errorf("rowguard: register engine in container: %w", err)
	}

	if err := vessel.Provide(fapp.Container(), func() (*gateway.Gateway, error) {
		return e.gw, nil
	}); err != nil {
		return fmt.Errorf("rowguard: register gateway in container: %w", err)
	}

	if err := vessel.Provide(fapp.Container(), func() (*session.Binder, error) {
		return e.binder, nil
	}); err != nil {
		return fmt.Errorf("rowguard: register binder in container: %w", err)
	}

	return nil
}

func (e *Extension) init(fapp forge.App) error {
	logger := e.logger
	if logger == nil {
		logger = slog.Default()
	}

	// Try to resolve a store from the DI container, fall back to the
	// option-provided store, finally to the in-memory one.
	if e.store == nil {
		if s, err := forge.Inject[store.Store](fapp.Container()); err == nil {
			e.store = s
		}
	}
	if e.store == nil {
		e.store = memory.New()
	}

	// Build engine options. User-provided options come last so they can
	// override the assembled defaults.
	opts := make([]rowguard.Option, 0, len(e.engOpts)+len(e.plugins)+3)
	opts = append(opts, rowguard.WithLogger(logger))
	opts = append(opts, rowguard.WithAudit(e.store))
	if e.config.CacheTTL > 0 {
		opts = append(opts, rowguard.WithCache(cache.NewMemory(
			cache.WithTTL(e.config.CacheTTL),
			cache.WithMaxSize(e.config.CacheSize),
		)))
	}
	opts = append(opts, e.engOpts...)
	for _, x := range e.plugins {
		opts = append(opts, rowguard.WithPlugin(x))
	}

	eng, err := rowguard.NewEngine(opts...)
	if err != nil {
		return fmt.Errorf("rowguard: create engine: %w", err)
	}
	e.eng = eng

	gwOpts := []gateway.Option{gateway.WithLogger(logger)}
	if e.config.DisableOwnerStamp {
		gwOpts = append(gwOpts, gateway.WithoutOwnerStamp())
	}
	e.gw = gateway.New(eng, e.store, gwOpts...)

	e.binder = session.NewBinder(e.auth, session.WithLogger(logger))

	e.apiHandler = api.New(eng, e.gw, fapp.Router())

	// Register HTTP routes unless disabled.
	if !e.config.DisableRoutes {
		if err := e.apiHandler.RegisterRoutes(fapp.Router()); err != nil {
			return fmt.Errorf("rowguard: register routes: %w", err)
		}
	}

	return nil
}

// Start runs migrations if enabled and starts the engine.
func (e *Extension) Start(ctx context.Context) error {
	if e.eng == nil {
		return errors.New("rowguard: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.store.Migrate(ctx); err != nil {
			return fmt.Errorf("rowguard: migration failed: %w", err)
		}
	}

	return e.eng.Start(ctx)
}

// Stop gracefully shuts down the engine.
func (e *Extension) Stop(ctx context.Context) error {
	if e.eng == nil {
		return nil
	}
	return e.eng.Stop(ctx)
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.eng == nil {
		return errors.New("rowguard: extension not initialized")
	}
	return e.store.Ping(ctx)
}

// Handler returns the HTTP handler for all API routes.
func (e *Extension) Handler() http.Handler {
	if e.apiHandler == nil {
		return http.NotFoundHandler()
	}
	return e.apiHandler.Handler()
}

// RegisterRoutes registers all rowguard API routes into a Forge router.
func (e *Extension) RegisterRoutes(router forge.Router) error {
	if e.apiHandler != nil {
		return e.apiHandler.RegisterRoutes(router)
	}
	return nil
}
