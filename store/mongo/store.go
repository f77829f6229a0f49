// Package mongo provides a MongoDB implementation of the rowguard composite
// store using grove ORM.
//
// Record fields live in a nested document, so equality filters address them
// with dotted paths ("fields.provider_id"). Migrations create indexes only;
// collections are implicit.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/rowguard/audit"
	"github.com/xraph/rowguard/id"
	"github.com/xraph/rowguard/record"
	"github.com/xraph/rowguard/store"
)

// Collection name constants.
const (
	colRecords   = "rowguard_records"
	colDecisions = "rowguard_decisions"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store is a MongoDB implementation of the composite rowguard store.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// Migrate creates indexes for all rowguard collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()
	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("rowguard/mongo: migrate %s indexes: %w", col, err)
		}
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

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongod.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all rowguard collections.
func migrationIndexes() map[string][]mongod.IndexModel {
	return map[string][]mongod.IndexModel{
		colRecords: {
			{Keys: bson.D{{Key: "resource", Value: 1}}},
			{Keys: bson.D{{Key: "resource", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		colDecisions: {
			{Keys: bson.D{{Key: "actor_id", Value: 1}}},
			{Keys: bson.D{{Key: "resource", Value: 1}, {Key: "record_id", Value: 1}}},
			{Keys: bson.D{{Key: "decision", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}
}

// ──────────────────────────────────────────────────
// Record operations
// ──────────────────────────────────────────────────

func (s *Store) CreateRecord(ctx context.Context, r *record.Record) error {
	t := now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = t
	}
	r.UpdatedAt = t
	m := recordToModel(r)
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("rowguard: create record: %w", err)
	}
	return nil
}

func (s *Store) GetRecord(ctx context.Context, recordID id.RecordID) (*record.Record, error) {
	var m recordModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": recordID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("record %s: %w", recordID, record.ErrNotFound)
		}
		return nil, fmt.Errorf("rowguard: get record: %w", err)
	}
	return recordFromModel(&m), nil
}

func (s *Store) UpdateRecord(ctx context.Context, r *record.Record) error {
	r.UpdatedAt = now()
	m := recordToModel(r)
	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("rowguard: update record: %w", err)
	}
	if res.MatchedCount() == 0 {
		return fmt.Errorf("record %s: %w", r.ID, record.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteRecord(ctx context.Context, recordID id.RecordID) error {
	res, err := s.mdb.NewDelete((*recordModel)(nil)).
		Filter(bson.M{"_id": recordID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("rowguard: delete record: %w", err)
	}
	if res.DeletedCount() == 0 {
		return fmt.Errorf("record %s: %w", recordID, record.ErrNotFound)
	}
	return nil
}

func (s *Store) ListRecords(ctx context.Context, resource string, filter *record.ListFilter) ([]*record.Record, error) {
	var models []recordModel
	f := bson.M{"resource": resource}
	if filter != nil {
		for field, want := range filter.Equals {
			if field == "id" {
				f["_id"] = fmt.Sprint(want)
				continue
			}
			f["fields."+field] = want
		}
	}
	q := s.mdb.NewFind(&models).
		Filter(f).
		Sort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("rowguard: list records: %w", err)
	}
	result := make([]*record.Record, len(models))
	for i := range models {
		result[i] = recordFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountRecords(ctx context.Context, resource string, filter *record.ListFilter) (int64, error) {
	f := bson.M{"resource": resource}
	if filter != nil {
		for field, want := range filter.Equals {
			if field == "id" {
				f["_id"] = fmt.Sprint(want)
				continue
			}
			f["fields."+field] = want
		}
	}
	count, err := s.mdb.NewFind((*recordModel)(nil)).
		Filter(f).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("rowguard: count records: %w", err)
	}
	return count, nil
}

func (s *Store) DeleteRecordsByResource(ctx context.Context, resource string) error {
	_, err := s.mdb.NewDelete((*recordModel)(nil)).
		Many().
		Filter(bson.M{"resource": resource}).
		Exec(ctx)
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
		e.CreatedAt = now()
	}
	m := decisionToModel(e)
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("rowguard: create decision: %w", err)
	}
	return nil
}

func (s *Store) GetDecision(ctx context.Context, decisionID id.DecisionID) (*audit.Entry, error) {
	var m decisionModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": decisionID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("decision %s: %w", decisionID, record.ErrNotFound)
		}
		return nil, fmt.Errorf("rowguard: get decision: %w", err)
	}
	return decisionFromModel(&m), nil
}

func (s *Store) ListDecisions(ctx context.Context, filter *audit.QueryFilter) ([]*audit.Entry, error) {
	var models []decisionModel
	f := decisionFilter(filter)
	q := s.mdb.NewFind(&models).
		Filter(f).
		Sort(bson.D{{Key: "created_at", Value: -1}})
	if filter != nil {
		if filter.Limit > 0 {
			q = q.Limit(int64(filter.Limit))
		}
		if filter.Offset > 0 {
			q = q.Skip(int64(filter.Offset))
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
	count, err := s.mdb.NewFind((*decisionModel)(nil)).
		Filter(decisionFilter(filter)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("rowguard: count decisions: %w", err)
	}
	return count, nil
}

func (s *Store) PurgeDecisions(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.mdb.NewDelete((*decisionModel)(nil)).
		Many().
		Filter(bson.M{"created_at": bson.M{"$lt": before}}).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("rowguard: purge decisions: %w", err)
	}
	return res.DeletedCount(), nil
}

// decisionFilter translates a query filter into a bson document.
func decisionFilter(filter *audit.QueryFilter) bson.M {
	f := bson.M{}
	if filter == nil {
		return f
	}
	if filter.ActorID != "" {
		f["actor_id"] = filter.ActorID
	}
	if filter.ActorRole != "" {
		f["actor_role"] = filter.ActorRole
	}
	if filter.Operation != "" {
		f["operation"] = filter.Operation
	}
	if filter.Resource != "" {
		f["resource"] = filter.Resource
	}
	if filter.RecordID != "" {
		f["record_id"] = filter.RecordID
	}
	if filter.Decision != "" {
		f["decision"] = filter.Decision
	}
	if filter.After != nil || filter.Before != nil {
		created := bson.M{}
		if filter.After != nil {
			created["$gte"] = *filter.After
		}
		if filter.Before != nil {
			created["$lte"] = *filter.Before
		}
		f["created_at"] = created
	}
	return f
}
