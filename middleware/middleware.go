// Package middleware provides HTTP authorization middleware for rowguard.
package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/rowguard"
)

// Require enforces a row-independent check before the handler runs. The
// actor is resolved from the request context (actor binding > Forge user
// > anonymous). Only role and public rules can grant at the route level:
// owner rules need the row, which has not been loaded yet, so owner-scoped
// access must flow through the gateway instead.
func Require(eng *rowguard.Engine, op rowguard.Operation, resource string) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			err := eng.Enforce(ctx.Context(), &rowguard.CheckRequest{
				Actor:     rowguard.ActorFrom(ctx.Context()),
				Operation: op,
				Resource:  resource,
			})
			if err != nil {
				return denyResponse(ctx, http.StatusForbidden, "access denied")
			}
			return next(ctx)
		}
	}
}

// RequireAny allows the request if ANY of the checks pass.
func RequireAny(eng *rowguard.Engine, checks ...rowguard.CheckRequest) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			actor := rowguard.ActorFrom(ctx.Context())
			for i := range checks {
				c := checks[i]
				c.Actor = actor
				result, err := eng.Check(ctx.Context(), &c)
				if err == nil && result.Allowed {
					return next(ctx)
				}
			}
			return denyResponse(ctx, http.StatusForbidden, "access denied")
		}
	}
}

// RequireAll allows the request only if ALL checks pass.
func RequireAll(eng *rowguard.Engine, checks ...rowguard.CheckRequest) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			actor := rowguard.ActorFrom(ctx.Context())
			for i := range checks {
				c := checks[i]
				c.Actor = actor
				if err := eng.Enforce(ctx.Context(), &c); err != nil {
					return denyResponse(ctx, http.StatusForbidden, "access denied")
				}
			}
			return next(ctx)
		}
	}
}

// RequireAuthenticated rejects anonymous requests with 401.
func RequireAuthenticated() forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			if rowguard.ActorFrom(ctx.Context()).IsAnonymous() {
				return denyResponse(ctx, http.StatusUnauthorized, "authentication required")
			}
			return next(ctx)
		}
	}
}

// RequireRole rejects requests whose actor does not carry the role:
// 401 for anonymous actors, 403 for authenticated actors with a
// different role.
func RequireRole(role rowguard.Role) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			actor := rowguard.ActorFrom(ctx.Context())
			if actor.IsAnonymous() {
				return denyResponse(ctx, http.StatusUnauthorized, "authentication required")
			}
			if actor.Role != role {
				return denyResponse(ctx, http.StatusForbidden, "access denied")
			}
			return next(ctx)
		}
	}
}

// RequireAdmin requires the admin role.
func RequireAdmin() forge.Middleware { return RequireRole(rowguard.RoleAdmin) }

// RequireProvider requires the provider role.
func RequireProvider() forge.Middleware { return RequireRole(rowguard.RoleProvider) }

// RequireClient requires the client role.
func RequireClient() forge.Middleware { return RequireRole(rowguard.RoleClient) }

func denyResponse(ctx forge.Context, status int, message string) error {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.Response().WriteHeader(status)
	return json.NewEncoder(ctx.Response()).Encode(map[string]string{"error": message})
}
