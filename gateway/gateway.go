// Package gateway provides the access-scoped data path. Every read and
// write is authorized per row before it reaches the store: reads are
// silently filtered to allowed rows, denied point reads report not found,
// and denied writes fail with rowguard.ErrAccessDenied before any state
// changes.
//
// The gateway is the sanctioned way to touch records. Code holding the
// raw record.Store bypasses authorization entirely.
package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/rowguard"
	"github.com/xraph/rowguard/id"
	"github.com/xraph/rowguard/record"
)

// Gateway wraps a record store with per-row authorization checks.
type Gateway struct {
	eng        *rowguard.Engine
	store      record.Store
	logger     *slog.Logger
	stampOwner bool
}

// Option is a functional option for the Gateway.
type Option func(*Gateway)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(g *Gateway) { g.logger = l } }

// WithoutOwnerStamp disables filling an unset owner column with the
// acting actor's ID on insert.
func WithoutOwnerStamp() Option { return func(g *Gateway) { g.stampOwner = false } }

// New creates a gateway over the given engine and record store.
func New(eng *rowguard.Engine, store record.Store, opts ...Option) *Gateway {
	g := &Gateway{
		eng:        eng,
		store:      store,
		logger:     slog.Default(),
		stampOwner: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Engine returns the underlying engine.
func (g *Gateway) Engine() *rowguard.Engine { return g.eng }

// Store returns the raw record store. Callers using it directly bypass
// authorization.
func (g *Gateway) Store() record.Store { return g.store }

// List returns the records of one resource type the current actor may
// read. Denied rows are silently omitted: filtering is not an error, and
// the caller cannot tell filtered rows ever existed.
func (g *Gateway) List(ctx context.Context, resource string, filter *record.ListFilter) ([]*record.Record, error) {
	rows, err := g.store.ListRecords(ctx, resource, filter)
	if err != nil {
		return nil, fmt.Errorf("gateway: list %s: %w", resource, err)
	}

	allowed := make([]*record.Record, 0, len(rows))
	for _, row := range rows {
		result, err := g.eng.Check(ctx, &rowguard.CheckRequest{
			Operation: rowguard.OperationSelect,
			Resource:  resource,
			Row:       row.Columns(),
		})
		if err != nil {
			return nil, fmt.Errorf("gateway: list %s: %w", resource, err)
		}
		if result.Allowed {
			allowed = append(allowed, row)
		}
	}
	return allowed, nil
}

// Get returns one record if the current actor may read it. A denied row
// reports record.ErrNotFound, indistinguishable from absence, so point
// reads cannot probe for row existence.
func (g *Gateway) Get(ctx context.Context, resource string, recordID id.RecordID) (*record.Record, error) {
	row, err := g.store.GetRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if row.Resource != resource {
		return nil, fmt.Errorf("record %s: %w", recordID, record.ErrNotFound)
	}

	result, err := g.eng.Check(ctx, &rowguard.CheckRequest{
		Operation: rowguard.OperationSelect,
		Resource:  resource,
		Row:       row.Columns(),
	})
	if err != nil {
		return nil, fmt.Errorf("gateway: get %s: %w", resource, err)
	}
	if !result.Allowed {
		return nil, fmt.Errorf("record %s: %w", recordID, record.ErrNotFound)
	}
	return row, nil
}

// Insert creates a record if the current actor may insert the proposed
// row. When the resource type declares exactly one owner column and the
// caller left it unset, the actor's ID is stamped in before evaluation.
// A denial returns rowguard.ErrAccessDenied and nothing is written.
func (g *Gateway) Insert(ctx context.Context, resource string, fields map[string]any) (*record.Record, error) {
	rec := record.New(resource, fields)
	g.stampOwnerColumn(ctx, rec)

	if err := g.eng.Enforce(ctx, &rowguard.CheckRequest{
		Operation: rowguard.OperationInsert,
		Resource:  resource,
		Row:       rec.Columns(),
	}); err != nil {
		return nil, err
	}

	if err := g.store.CreateRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("gateway: insert %s: %w", resource, err)
	}
	g.afterWrite(ctx, resource)
	if p := g.eng.Plugins(); p != nil {
		p.EmitRecordInserted(ctx, rec)
	}
	return rec, nil
}

// Update modifies a record if the current actor may update the existing
// row. The decision is made on the stored row, not the proposed changes:
// ownership is what grants the write. A denial returns
// rowguard.ErrAccessDenied and no fields change.
func (g *Gateway) Update(ctx context.Context, resource string, recordID id.RecordID, fields map[string]any) (*record.Record, error) {
	row, err := g.store.GetRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if row.Resource != resource {
		return nil, fmt.Errorf("record %s: %w", recordID, record.ErrNotFound)
	}

	if err := g.eng.Enforce(ctx, &rowguard.CheckRequest{
		Operation: rowguard.OperationUpdate,
		Resource:  resource,
		Row:       row.Columns(),
	}); err != nil {
		return nil, err
	}

	for name, value := range fields {
		row.SetField(name, value)
	}
	if err := g.store.UpdateRecord(ctx, row); err != nil {
		return nil, fmt.Errorf("gateway: update %s: %w", resource, err)
	}
	g.afterWrite(ctx, resource)
	if p := g.eng.Plugins(); p != nil {
		p.EmitRecordUpdated(ctx, row)
	}
	return row, nil
}

// Delete removes a record if the current actor may delete the existing
// row. A denial returns rowguard.ErrAccessDenied and the row remains.
func (g *Gateway) Delete(ctx context.Context, resource string, recordID id.RecordID) error {
	row, err := g.store.GetRecord(ctx, recordID)
	if err != nil {
		return err
	}
	if row.Resource != resource {
		return fmt.Errorf("record %s: %w", recordID, record.ErrNotFound)
	}

	if err := g.eng.Enforce(ctx, &rowguard.CheckRequest{
		Operation: rowguard.OperationDelete,
		Resource:  resource,
		Row:       row.Columns(),
	}); err != nil {
		return err
	}

	if err := g.store.DeleteRecord(ctx, recordID); err != nil {
		return fmt.Errorf("gateway: delete %s: %w", resource, err)
	}
	g.afterWrite(ctx, resource)
	if p := g.eng.Plugins(); p != nil {
		p.EmitRecordDeleted(ctx, resource, recordID)
	}
	return nil
}

// stampOwnerColumn fills a single unset owner column with the acting
// actor's ID. Types with multiple owner columns (bookings, messages) are
// never stamped: the gateway cannot know which side the actor is on.
func (g *Gateway) stampOwnerColumn(ctx context.Context, rec *record.Record) {
	if !g.stampOwner {
		return
	}
	actor := rowguard.ActorFrom(ctx)
	if actor.IsAnonymous() {
		return
	}
	cols := g.eng.Catalog().OwnerColumns(rec.Resource)
	if len(cols) != 1 {
		return
	}
	col := cols[0]
	if col == "id" {
		// The record's own ID is never overwritten.
		return
	}
	if v, ok := rec.Field(col); ok && v != nil && fmt.Sprint(v) != "" {
		return
	}
	rec.SetField(col, actor.ID)
}

// afterWrite invalidates cached decisions for the written resource.
func (g *Gateway) afterWrite(ctx context.Context, resource string) {
	if c := g.eng.Cache(); c != nil {
		c.InvalidateResource(ctx, resource)
	}
}
