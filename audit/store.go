package audit

import (
	"context"
	"time"

	"github.com/xraph/rowguard/id"
)

// Store defines persistence operations for the decision log.
type Store interface {
	// CreateDecision persists a new decision entry.
	CreateDecision(ctx context.Context, e *Entry) error

	// GetDecision retrieves a decision entry by ID.
	GetDecision(ctx context.Context, decisionID id.DecisionID) (*Entry, error)

	// ListDecisions returns decision entries matching the filter,
	// newest first.
	ListDecisions(ctx context.Context, filter *QueryFilter) ([]*Entry, error)

	// CountDecisions returns the number of entries matching the filter.
	CountDecisions(ctx context.Context, filter *QueryFilter) (int64, error)

	// PurgeDecisions removes decision entries older than the given time.
	PurgeDecisions(ctx context.Context, before time.Time) (int64, error)
}
