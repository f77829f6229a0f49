// Package memory provides an in-memory implementation of the rowguard
// composite store. It is intended for testing and development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/xraph/rowguard/audit"
	"github.com/xraph/rowguard/id"
	"github.com/xraph/rowguard/record"
)

// Compile-time interface checks.
var (
	_ record.Store = (*Store)(nil)
	_ audit.Store  = (*Store)(nil)
)

// Store is a thread-safe in-memory store for records and decisions.
type Store struct {
	mu sync.RWMutex

	records   map[string]*record.Record
	decisions map[string]*audit.Entry
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		records:   make(map[string]*record.Record),
		decisions: make(map[string]*audit.Entry),
	}
}

// Migrate is a no-op for the memory store.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping is a no-op for the memory store.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (s *Store) Close() error { return nil }

// ──────────────────────────────────────────────────
// Record Store
// ──────────────────────────────────────────────────

func (s *Store) CreateRecord(_ context.Context, r *record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	c := r.Clone()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	s.records[c.ID.String()] = c
	r.CreatedAt = c.CreatedAt
	r.UpdatedAt = c.UpdatedAt
	return nil
}

func (s *Store) GetRecord(_ context.Context, recordID id.RecordID) (*record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[recordID.String()]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", recordID, record.ErrNotFound)
	}
	return r.Clone(), nil
}

func (s *Store) UpdateRecord(_ context.Context, r *record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.records[r.ID.String()]
	if !ok {
		return fmt.Errorf("record %s: %w", r.ID, record.ErrNotFound)
	}
	c := r.Clone()
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now()
	s.records[c.ID.String()] = c
	r.CreatedAt = c.CreatedAt
	r.UpdatedAt = c.UpdatedAt
	return nil
}

func (s *Store) DeleteRecord(_ context.Context, recordID id.RecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[recordID.String()]; !ok {
		return fmt.Errorf("record %s: %w", recordID, record.ErrNotFound)
	}
	delete(s.records, recordID.String())
	return nil
}

func (s *Store) ListRecords(_ context.Context, resource string, filter *record.ListFilter) ([]*record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*record.Record, 0, len(s.records))
	for _, r := range s.records {
		if r.Resource != resource {
			continue
		}
		if !matchesEquals(r, filter) {
			continue
		}
		result = append(result, r.Clone())
	}
	// Oldest first; map iteration order is not stable.
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID.String() < result[j].ID.String()
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return applyPagination(result, paginationOpts(filter)), nil
}

func (s *Store) CountRecords(ctx context.Context, resource string, filter *record.ListFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, r := range s.records {
		if r.Resource != resource {
			continue
		}
		if !matchesEquals(r, filter) {
			continue
		}
		count++
	}
	return count, nil
}

func (s *Store) DeleteRecordsByResource(_ context.Context, resource string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, r := range s.records {
		if r.Resource == resource {
			delete(s.records, k)
		}
	}
	return nil
}

func matchesEquals(r *record.Record, filter *record.ListFilter) bool {
	if filter == nil || len(filter.Equals) == 0 {
		return true
	}
	cols := r.Columns()
	for field, want := range filter.Equals {
		got, ok := cols[field]
		if !ok {
			return false
		}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

// ──────────────────────────────────────────────────
// Audit Store
// ──────────────────────────────────────────────────

func (s *Store) CreateDecision(_ context.Context, e *audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := copyDecision(e)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	s.decisions[c.ID.String()] = c
	return nil
}

func (s *Store) GetDecision(_ context.Context, decisionID id.DecisionID) (*audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.decisions[decisionID.String()]
	if !ok {
		return nil, fmt.Errorf("decision %s: %w", decisionID, record.ErrNotFound)
	}
	return copyDecision(e), nil
}

func (s *Store) ListDecisions(_ context.Context, filter *audit.QueryFilter) ([]*audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*audit.Entry, 0, len(s.decisions))
	for _, e := range s.decisions {
		if !matchesDecision(e, filter) {
			continue
		}
		result = append(result, copyDecision(e))
	}
	// Newest first.
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID.String() > result[j].ID.String()
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return applyPagination(result, paginationOptsAudit(filter)), nil
}

func (s *Store) CountDecisions(_ context.Context, filter *audit.QueryFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, e := range s.decisions {
		if matchesDecision(e, filter) {
			count++
		}
	}
	return count, nil
}

func (s *Store) PurgeDecisions(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for k, e := range s.decisions {
		if e.CreatedAt.Before(before) {
			delete(s.decisions, k)
			count++
		}
	}
	return count, nil
}

func matchesDecision(e *audit.Entry, filter *audit.QueryFilter) bool {
	if filter == nil {
		return true
	}
	if filter.ActorID != "" && e.ActorID != filter.ActorID {
		return false
	}
	if filter.ActorRole != "" && e.ActorRole != filter.ActorRole {
		return false
	}
	if filter.Operation != "" && e.Operation != filter.Operation {
		return false
	}
	if filter.Resource != "" && e.Resource != filter.Resource {
		return false
	}
	if filter.RecordID != "" && e.RecordID != filter.RecordID {
		return false
	}
	if filter.Decision != "" && e.Decision != filter.Decision {
		return false
	}
	if filter.After != nil && e.CreatedAt.Before(*filter.After) {
		return false
	}
	if filter.Before != nil && e.CreatedAt.After(*filter.Before) {
		return false
	}
	return true
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

func copyDecision(e *audit.Entry) *audit.Entry {
	c := *e
	return &c
}

// Pagination helpers.
type pagOpts struct{ limit, offset int }

func paginationOpts(f *record.ListFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}

func paginationOptsAudit(f *audit.QueryFilter) pagOpts {
	if f == nil {
		return pagOpts{}
	}
	return pagOpts{limit: f.Limit, offset: f.Offset}
}

func applyPagination[T any](items []*T, p pagOpts) []*T {
	if p.offset > 0 && p.offset < len(items) {
		items = items[p.offset:]
	} else if p.offset >= len(items) {
		return nil
	}
	if p.limit > 0 && p.limit < len(items) {
		items = items[:p.limit]
	}
	return items
}
