// Package audit defines the decision log Entry entity.
//
// Every authorization decision the engine makes can be appended here:
// who asked, for which operation on which row, and what the outcome was.
// The log is observability output — appending never changes a decision,
// and append failures never fail a check.
package audit

import (
	"time"

	"github.com/xraph/rowguard/id"
)

// Entry is a single authorization decision record.
type Entry struct {
	ID         id.DecisionID `json:"id" db:"id"`
	ActorID    string        `json:"actor_id,omitempty" db:"actor_id"`
	ActorRole  string        `json:"actor_role,omitempty" db:"actor_role"`
	Operation  string        `json:"operation" db:"operation"`
	Resource   string        `json:"resource" db:"resource"`
	RecordID   string        `json:"record_id,omitempty" db:"record_id"`
	Decision   string        `json:"decision" db:"decision"`
	Rule       string        `json:"rule,omitempty" db:"rule"`
	Reason     string        `json:"reason,omitempty" db:"reason"`
	EvalTimeNs int64         `json:"eval_time_ns" db:"eval_time_ns"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
}

// QueryFilter contains filters for querying the decision log.
type QueryFilter struct {
	ActorID   string     `json:"actor_id,omitempty"`
	ActorRole string     `json:"actor_role,omitempty"`
	Operation string     `json:"operation,omitempty"`
	Resource  string     `json:"resource,omitempty"`
	RecordID  string     `json:"record_id,omitempty"`
	Decision  string     `json:"decision,omitempty"`
	After     *time.Time `json:"after,omitempty"`
	Before    *time.Time `json:"before,omitempty"`
	Limit     int        `json:"limit,omitempty"`
	Offset    int        `json:"offset,omitempty"`
}
