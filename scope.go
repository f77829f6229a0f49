package rowguard

import (
	"context"

	"github.com/xraph/forge"
)

// ActorFrom returns the actor a check runs as when the request does not
// name one: the Actor Context binding, or the Forge-authenticated user as
// a roleless actor (it can still own rows). Falls back to Anonymous.
func ActorFrom(ctx context.Context) Actor {
	if actor := Current(ctx); !actor.IsAnonymous() {
		return actor
	}
	if userID := forge.UserIDFromContext(ctx); userID != "" {
		return Actor{ID: userID}
	}
	return Anonymous
}
