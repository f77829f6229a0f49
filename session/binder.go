package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/xraph/rowguard"
)

// Binder opens and closes units of work: it resolves a credential through
// the Authenticator, binds the resulting actor to the context, and clears
// the binding when the work ends.
type Binder struct {
	auth   Authenticator
	logger *slog.Logger
}

// BinderOption configures the Binder.
type BinderOption func(*Binder)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) BinderOption {
	return func(b *Binder) { b.logger = l }
}

// NewBinder creates a binder over the given authenticator. A nil
// authenticator binds every unit of work as Anonymous.
func NewBinder(auth Authenticator, opts ...BinderOption) *Binder {
	b := &Binder{
		auth:   auth,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Begin resolves the credential and binds the resulting actor for one
// unit of work. An absent or invalid credential binds Anonymous: public
// reads still work, and a failed authentication never aborts the unit of
// work. The only error is a binding conflict on ctx.
func (b *Binder) Begin(ctx context.Context, credential string) (context.Context, error) {
	actor := rowguard.Anonymous
	if credential != "" && b.auth != nil {
		resolved, err := b.auth.Verify(ctx, credential)
		switch {
		case err == nil:
			actor = resolved
		case errors.Is(err, ErrInvalidCredential):
			b.logger.Debug("session: invalid credential, binding anonymous")
		default:
			b.logger.Warn("session: credential verification failed, binding anonymous",
				slog.String("error", err.Error()),
			)
		}
	}
	return rowguard.Bind(ctx, actor)
}

// End clears the binding. Idempotent and safe to defer; ending an
// unbound context is a no-op.
func (b *Binder) End(ctx context.Context) {
	rowguard.Clear(ctx)
}

// Do runs fn inside a bound unit of work with guaranteed release: the
// binding is cleared on every exit path, panics included.
func (b *Binder) Do(ctx context.Context, credential string, fn func(ctx context.Context) error) error {
	bound, err := b.Begin(ctx, credential)
	if err != nil {
		return err
	}
	defer b.End(bound)
	return fn(bound)
}
