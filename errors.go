package rowguard

import (
	"errors"

	"github.com/xraph/rowguard/policy"
	"github.com/xraph/rowguard/record"
)

var (
	// ErrAccessDenied is returned when an enforced operation is denied.
	// It propagates unmodified through the gateway: denied writes surface
	// it, and callers match it with errors.Is.
	ErrAccessDenied = errors.New("rowguard: access denied")

	// ErrContextAlreadyBound is returned by Bind when the context already
	// carries an active actor binding. A unit of work holds exactly one
	// binding; nesting indicates a missing Clear.
	ErrContextAlreadyBound = errors.New("rowguard: actor context already bound")
)

// Startup configuration sentinels, aliased from the policy package so
// errors.Is matches whichever import path the caller holds. NewEngine
// returns these when registry validation fails.
var (
	// ErrInvalidRule reports a malformed rule.
	ErrInvalidRule = policy.ErrInvalidRule

	// ErrUnknownResourceType reports a rule naming an undeclared resource type.
	ErrUnknownResourceType = policy.ErrUnknownResourceType

	// ErrUnknownOwnerColumn reports an owner-match rule naming a column the
	// resource type does not declare.
	ErrUnknownOwnerColumn = policy.ErrUnknownOwnerColumn
)

// ErrNotFound reports a missing record, including rows hidden by
// authorization. Aliased from the record package so store and gateway
// errors match the same sentinel.
var ErrNotFound = record.ErrNotFound
