// Package record defines the generic row entity the gateway moves and its
// store interface.
//
// A Record is one row of some resource type: an opaque ID plus a flat field
// map. Owner columns live inside Fields under the names the schema catalog
// declares, so the same shape serves every resource type.
package record

import (
	"errors"
	"time"

	"github.com/xraph/rowguard/id"
)

// ErrNotFound is the sentinel for missing records. Backends wrap it with
// context; match with errors.Is. The gateway also reports rows hidden by
// authorization as not found, so absence and denial are indistinguishable
// to callers.
var ErrNotFound = errors.New("record: not found")

// Record is one row of a resource type.
type Record struct {
	ID        id.RecordID    `json:"id" db:"id"`
	Resource  string         `json:"resource" db:"resource"`
	Fields    map[string]any `json:"fields,omitempty" db:"fields"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// New builds a record of the given resource type with a fresh ID.
func New(resource string, fields map[string]any) *Record {
	if fields == nil {
		fields = make(map[string]any)
	}
	return &Record{
		ID:       id.NewRecordID(),
		Resource: resource,
		Fields:   fields,
	}
}

// Field returns the named field value.
func (r *Record) Field(name string) (any, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// SetField sets the named field value, allocating Fields if needed.
func (r *Record) SetField(name string, value any) {
	if r.Fields == nil {
		r.Fields = make(map[string]any)
	}
	r.Fields[name] = value
}

// Columns returns the row as seen by owner-column comparison: every field
// plus "id" mapped to the record's own ID. The users table declares "id" as
// its owner column, so the record ID must be visible under that name.
func (r *Record) Columns() map[string]any {
	cols := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		cols[k] = v
	}
	if _, ok := cols["id"]; !ok && !r.ID.IsNil() {
		cols["id"] = r.ID.String()
	}
	return cols
}

// Clone returns a deep copy. Stores hand out clones so callers cannot
// mutate stored state.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	if r.Fields != nil {
		out.Fields = make(map[string]any, len(r.Fields))
		for k, v := range r.Fields {
			out.Fields[k] = v
		}
	}
	return &out
}

// ListFilter contains filters for listing records of one resource type.
type ListFilter struct {
	// Equals narrows to records whose field equals the given value,
	// for each listed field.
	Equals map[string]any `json:"equals,omitempty"`

	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}
