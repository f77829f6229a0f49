package record

import (
	"context"

	"github.com/xraph/rowguard/id"
)

// Store defines persistence operations for records. Implementations apply
// no authorization of their own — the gateway is the authorization
// boundary, and the store is the raw storage collaborator beneath it.
type Store interface {
	// CreateRecord persists a new record.
	CreateRecord(ctx context.Context, r *Record) error

	// GetRecord retrieves a record by ID.
	GetRecord(ctx context.Context, recordID id.RecordID) (*Record, error)

	// UpdateRecord persists changes to a record.
	UpdateRecord(ctx context.Context, r *Record) error

	// DeleteRecord removes a record by ID.
	DeleteRecord(ctx context.Context, recordID id.RecordID) error

	// ListRecords returns records of one resource type matching the filter.
	ListRecords(ctx context.Context, resource string, filter *ListFilter) ([]*Record, error)

	// CountRecords returns the number of records matching the filter.
	CountRecords(ctx context.Context, resource string, filter *ListFilter) (int64, error)

	// DeleteRecordsByResource removes all records of a resource type.
	DeleteRecordsByResource(ctx context.Context, resource string) error
}
