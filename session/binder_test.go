package session

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/rowguard"
)

func newTestBinder(t *testing.T) *Binder {
	t.Helper()
	tm := NewTokenMap()
	tm.Add("tok-u1", rowguard.Actor{ID: "u1", Role: rowguard.RoleClient})
	tm.Add("tok-adm", rowguard.Actor{ID: "adm", Role: rowguard.RoleAdmin})
	return NewBinder(tm)
}

func TestBeginValidCredential(t *testing.T) {
	b := newTestBinder(t)

	ctx, err := b.Begin(context.Background(), "tok-u1")
	if err != nil {
		t.Fatal(err)
	}
	defer b.End(ctx)

	actor := rowguard.Current(ctx)
	if actor.ID != "u1" || actor.Role != rowguard.RoleClient {
		t.Fatalf("expected u1/client, got %v", actor)
	}
}

func TestBeginInvalidCredentialBindsAnonymous(t *testing.T) {
	b := newTestBinder(t)

	ctx, err := b.Begin(context.Background(), "no-such-token")
	if err != nil {
		t.Fatalf("invalid credential must not error: %v", err)
	}
	defer b.End(ctx)

	if !rowguard.Current(ctx).IsAnonymous() {
		t.Fatal("expected anonymous binding")
	}
}

func TestBeginAbsentCredentialBindsAnonymous(t *testing.T) {
	b := newTestBinder(t)

	ctx, err := b.Begin(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	defer b.End(ctx)

	if !rowguard.Current(ctx).IsAnonymous() {
		t.Fatal("expected anonymous binding")
	}
}

func TestBeginConflictsWithActiveBinding(t *testing.T) {
	b := newTestBinder(t)

	ctx, err := b.Begin(context.Background(), "tok-u1")
	if err != nil {
		t.Fatal(err)
	}
	defer b.End(ctx)

	if _, err := b.Begin(ctx, "tok-adm"); !errors.Is(err, rowguard.ErrContextAlreadyBound) {
		t.Fatalf("expected binding conflict, got %v", err)
	}

	// After End, the same slot accepts a new unit of work.
	b.End(ctx)
	ctx2, err := b.Begin(ctx, "tok-adm")
	if err != nil {
		t.Fatalf("begin after end: %v", err)
	}
	defer b.End(ctx2)
	if rowguard.Current(ctx2).Role != rowguard.RoleAdmin {
		t.Fatal("expected admin binding")
	}
}

func TestEndIsIdempotent(t *testing.T) {
	b := newTestBinder(t)

	ctx, _ := b.Begin(context.Background(), "tok-u1")
	b.End(ctx)
	b.End(ctx)
	b.End(context.Background())

	if !rowguard.Current(ctx).IsAnonymous() {
		t.Fatal("expected cleared binding")
	}
}

func TestDoClearsOnAllPaths(t *testing.T) {
	b := newTestBinder(t)

	// Success path.
	var seen context.Context
	err := b.Do(context.Background(), "tok-u1", func(ctx context.Context) error {
		seen = ctx
		if rowguard.Current(ctx).ID != "u1" {
			t.Fatal("expected u1 inside Do")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if !rowguard.Current(seen).IsAnonymous() {
		t.Fatal("binding must be cleared after Do")
	}

	// Error path.
	wantErr := errors.New("boom")
	err = b.Do(context.Background(), "tok-u1", func(ctx context.Context) error {
		seen = ctx
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if !rowguard.Current(seen).IsAnonymous() {
		t.Fatal("binding must be cleared after error")
	}

	// Panic path.
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = b.Do(context.Background(), "tok-u1", func(ctx context.Context) error {
			seen = ctx
			panic("boom")
		})
	}()
	if !rowguard.Current(seen).IsAnonymous() {
		t.Fatal("binding must be cleared after panic")
	}
}

func TestNilAuthenticatorBindsAnonymous(t *testing.T) {
	b := NewBinder(nil)

	ctx, err := b.Begin(context.Background(), "tok-u1")
	if err != nil {
		t.Fatal(err)
	}
	defer b.End(ctx)

	if !rowguard.Current(ctx).IsAnonymous() {
		t.Fatal("expected anonymous binding with nil authenticator")
	}
}

func TestTokenMapVerify(t *testing.T) {
	tm := NewTokenMap()
	tm.Add("tok", rowguard.Actor{ID: "u1", Role: rowguard.RoleProvider})

	actor, err := tm.Verify(context.Background(), "tok")
	if err != nil {
		t.Fatal(err)
	}
	if actor.ID != "u1" {
		t.Fatalf("expected u1, got %s", actor.ID)
	}

	if _, err := tm.Verify(context.Background(), "nope"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected invalid credential, got %v", err)
	}

	tm.Remove("tok")
	if _, err := tm.Verify(context.Background(), "tok"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected invalid credential after remove, got %v", err)
	}
}
