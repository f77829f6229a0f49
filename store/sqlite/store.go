// Package sqlite provides a SQLite implementation of the rowguard composite
// store using grove ORM with Go-based migrations.
//
// Record fields are stored as JSON text; equality filters use json_extract
// so the same flat-map record shape works without per-resource schemas.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/rowguard/audit"
	"github.com/xraph/rowguard/id"
	"github.com/xraph/rowguard/record"
	"github.com/xraph/rowguard/store"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store is a SQLite implementation of the composite rowguard store.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// Migrate runs programmatic migrations via the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("rowguard/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("rowguard/sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// fieldPath builds the json_extract path for a record field.
func fieldPath(field string) string {
	return "$." + field
}

// ──────────────────────────────────────────────────
// Record operations
// ──────────────────────────────────────────────────

func (s *Store) CreateRecord(ctx context.Context, r *record.Record) error {
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	m, err := recordToModel(r)
	if err != nil {
		return fmt.Errorf("rowguard: create record: %w", err)
	}
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("rowguard: create record: %w", err)
	}
	return nil
}

func (s *Store) GetRecord(ctx context.Context, recordID id.RecordID) (*record.Record, error) {
	m := new(recordModel)
	err := s.sdb.NewSelect(m).Where("id = ?", recordID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("record %s: %w", recordID, record.ErrNotFound)
		}
		return nil, fmt.Errorf("rowguard: get record: %w", err)
	}
	r, err := recordFromModel(m)
	if err != nil {
		return nil, fmt.Errorf("rowguard: get record: %w", err)
	}
	return r, nil
}

func (s *Store) UpdateRecord(ctx context.Context, r *record.Record) error {
	r.UpdatedAt = time.Now().UTC()
	m, err := recordToModel(r)
	if err != nil {
		return fmt.Errorf("rowguard: update record: %w", err)
	}
	res, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("rowguard: update record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rowguard: update record: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("record %s: %w", r.ID, record.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteRecord(ctx context.Context, recordID id.RecordID) error {
	res, err := s.sdb.NewDelete((*recordModel)(nil)).
		Where("id = ?", recordID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("rowguard: delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rowguard: delete record: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("record %s: %w", recordID, record.ErrNotFound)
	}
	return nil
}

func (s *Store) ListRecords(ctx context.Context, resource string, filter *record.ListFilter) ([]*record.Record, error) {
	var models []recordModel
	q := s.sdb.NewSelect(&models).
		Where("resource = ?", resource).
		OrderExpr("created_at ASC, id ASC")
	if filter != nil {
		for field, want := range filter.Equals {
			if field == "id" {
				q = q.Where("id = ?", fmt.Sprint(want))
				continue
			}
			q = q.Where("json_extract(fields, ?) = ?", fieldPath(field), want)
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("rowguard: list records: %w", err)
	}
	result := make([]*record.Record, len(models))
	for i := range models {
		r, err := recordFromModel(&models[i])
		if err != nil {
			return nil, fmt.Errorf("rowguard: list records: %w", err)
		}
		result[i] = r
	}
	return result, nil
}

func (s *Store) CountRecords(ctx context.Context, resource string, filter *record.ListFilter) (int64, error) {
	q := s.sdb.NewSelect((*recordModel)(nil)).
		Where("resource = ?", resource)
	if filter != nil {
		for field, want := range filter.Equals {
			if field == "id" {
				q = q.Where("id = ?", fmt.Sprint(want))
				continue
			}
			q = q.Where("json_extract(fields, ?) = ?", fieldPath(field), want)
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("rowguard: count records: %w", err)
	}
	return count, nil
}

func (s *Store) DeleteRecordsByResource(ctx context.Context, resource string) error {
	_, err := s.sdb.NewDelete((*recordModel)(nil)).
		Where("resource = ?", resource).Exec(ctx)
	if err != nil {
		return fmt.Errorf("rowguard: delete records by resource: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Decision log operations
// ──────────────────────────────────────────────────

func (s *Store) CreateDecision(ctx context.Context, e *audit.Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	m := decisionToModel(e)
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("rowguard: create decision: %w", err)
	}
	return nil
}

func (s *Store) GetDecision(ctx context.Context, decisionID id.DecisionID) (*audit.Entry, error) {
	m := new(decisionModel)
	err := s.sdb.NewSelect(m).Where("id = ?", decisionID.String()).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("decision %s: %w", decisionID, record.ErrNotFound)
		}
		return nil, fmt.Errorf("rowguard: get decision: %w", err)
	}
	return decisionFromModel(m), nil
}

func (s *Store) ListDecisions(ctx context.Context, filter *audit.QueryFilter) ([]*audit.Entry, error) {
	var models []decisionModel
	q := s.sdb.NewSelect(&models).OrderExpr("created_at DESC")
	if filter != nil {
		if filter.ActorID != "" {
			q = q.Where("actor_id = ?", filter.ActorID)
		}
		if filter.ActorRole != "" {
			q = q.Where("actor_role = ?", filter.ActorRole)
		}
		if filter.Operation != "" {
			q = q.Where("operation = ?", filter.Operation)
		}
		if filter.Resource != "" {
			q = q.Where("resource = ?", filter.Resource)
		}
		if filter.RecordID != "" {
			q = q.Where("record_id = ?", filter.RecordID)
		}
		if filter.Decision != "" {
			q = q.Where("decision = ?", filter.Decision)
		}
		if filter.After != nil {
			q = q.Where("created_at >= ?", *filter.After)
		}
		if filter.Before != nil {
			q = q.Where("created_at <= ?", *filter.Before)
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("rowguard: list decisions: %w", err)
	}
	result := make([]*audit.Entry, len(models))
	for i := range models {
		result[i] = decisionFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountDecisions(ctx context.Context, filter *audit.QueryFilter) (int64, error) {
	q := s.sdb.NewSelect((*decisionModel)(nil))
	if filter != nil {
		if filter.ActorID != "" {
			q = q.Where("actor_id = ?", filter.ActorID)
		}
		if filter.ActorRole != "" {
			q = q.Where("actor_role = ?", filter.ActorRole)
		}
		if filter.Operation != "" {
			q = q.Where("operation = ?", filter.Operation)
		}
		if filter.Resource != "" {
			q = q.Where("resource = ?", filter.Resource)
		}
		if filter.RecordID != "" {
			q = q.Where("record_id = ?", filter.RecordID)
		}
		if filter.Decision != "" {
			q = q.Where("decision = ?", filter.Decision)
		}
		if filter.After != nil {
			q = q.Where("created_at >= ?", *filter.After)
		}
		if filter.Before != nil {
			q = q.Where("created_at <= ?", *filter.Before)
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("rowguard: count decisions: %w", err)
	}
	return count, nil
}

func (s *Store) PurgeDecisions(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.sdb.NewDelete((*decisionModel)(nil)).
		Where("created_at < ?", before).Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("rowguard: purge decisions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rowguard: purge decisions rows: %w", err)
	}
	return n, nil
}
