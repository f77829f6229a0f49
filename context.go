package rowguard

import (
	"context"
	"sync"
)

type contextKey int

const ctxKeyActor contextKey = iota

// actorSlot holds the binding for one unit of work. Every context derived
// from the bound one shares the same slot, so Clear in one goroutine is
// visible to the others working under the same binding.
type actorSlot struct {
	mu     sync.Mutex
	actor  Actor
	active bool
}

func (s *actorSlot) current() (Actor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actor, s.active
}

func (s *actorSlot) clear() {
	s.mu.Lock()
	s.active = false
	s.actor = Anonymous
	s.mu.Unlock()
}

// Bind installs the actor on the context for the duration of one unit of
// work. It returns ErrContextAlreadyBound when ctx already carries an
// active binding; a unit of work holds exactly one actor at a time.
// Binding again after Clear succeeds.
func Bind(ctx context.Context, actor Actor) (context.Context, error) {
	if slot, ok := ctx.Value(ctxKeyActor).(*actorSlot); ok {
		if _, active := slot.current(); active {
			return nil, ErrContextAlreadyBound
		}
	}
	return context.WithValue(ctx, ctxKeyActor, &actorSlot{actor: actor, active: true}), nil
}

// Current returns the actor bound to ctx, or Anonymous when nothing is
// bound. It never fails.
func Current(ctx context.Context) Actor {
	if slot, ok := ctx.Value(ctxKeyActor).(*actorSlot); ok {
		if actor, active := slot.current(); active {
			return actor
		}
	}
	return Anonymous
}

// Clear deactivates the binding on ctx and every context derived from it.
// Idempotent and safe to defer; clearing an unbound context is a no-op.
func Clear(ctx context.Context) {
	if slot, ok := ctx.Value(ctxKeyActor).(*actorSlot); ok {
		slot.clear()
	}
}
