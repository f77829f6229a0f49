// Package session resolves credentials to actors and manages the Actor
// Context lifecycle for units of work.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/xraph/rowguard"
)

// ErrInvalidCredential is returned by Authenticator implementations for
// unknown, malformed, or expired credentials. The Binder maps it to an
// Anonymous binding; it only surfaces through direct Verify calls.
var ErrInvalidCredential = errors.New("session: invalid credential")

// Authenticator resolves a credential to an actor.
type Authenticator interface {
	// Verify resolves the credential, returning ErrInvalidCredential
	// (possibly wrapped) when it does not identify an actor.
	Verify(ctx context.Context, credential string) (rowguard.Actor, error)
}

// Compile-time interface check.
var _ Authenticator = (*TokenMap)(nil)

// TokenMap is a static in-memory Authenticator mapping opaque tokens to
// actors. Intended for tests, examples, and development.
type TokenMap struct {
	mu     sync.RWMutex
	tokens map[string]rowguard.Actor
}

// NewTokenMap creates an empty token map.
func NewTokenMap() *TokenMap {
	return &TokenMap{tokens: make(map[string]rowguard.Actor)}
}

// Add maps a token to an actor, replacing any previous mapping.
func (t *TokenMap) Add(token string, actor rowguard.Actor) {
	t.mu.Lock()
	t.tokens[token] = actor
	t.mu.Unlock()
}

// Remove drops a token mapping.
func (t *TokenMap) Remove(token string) {
	t.mu.Lock()
	delete(t.tokens, token)
	t.mu.Unlock()
}

// Verify implements Authenticator.
func (t *TokenMap) Verify(_ context.Context, credential string) (rowguard.Actor, error) {
	t.mu.RLock()
	actor, ok := t.tokens[credential]
	t.mu.RUnlock()
	if !ok {
		return rowguard.Anonymous, ErrInvalidCredential
	}
	return actor, nil
}
