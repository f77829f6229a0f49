// Package api provides HTTP handlers for the rowguard authorization engine.
package api

import (
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/rowguard"
	"github.com/xraph/rowguard/gateway"
)

// API wires all rowguard HTTP handlers together.
type API struct {
	eng    *rowguard.Engine
	gw     *gateway.Gateway
	router forge.Router
}

// New creates an API from an Engine, its access-scoped gateway, and a
// Forge router.
func New(eng *rowguard.Engine, gw *gateway.Gateway, router forge.Router) *API {
	return &API{eng: eng, gw: gw, router: router}
}

// Handler returns the fully assembled http.Handler with all routes.
func (a *API) Handler() http.Handler {
	if a.router == nil {
		a.router = forge.NewRouter()
	}
	if err := a.RegisterRoutes(a.router); err != nil {
		panic("rowguard: register routes: " + err.Error())
	}
	return a.router.Handler()
}

// RegisterRoutes registers all API routes into the given Forge router.
func (a *API) RegisterRoutes(router forge.Router) error {
	registerers := []func(forge.Router) error{
		a.registerCheckRoutes,
		a.registerResourceRoutes,
		a.registerRecordRoutes,
		a.registerDecisionRoutes,
	}
	for _, fn := range registerers {
		if err := fn(router); err != nil {
			return err
		}
	}
	return nil
}
