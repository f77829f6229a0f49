package postgres

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/rowguard/audit"
	"github.com/xraph/rowguard/id"
	"github.com/xraph/rowguard/record"
)

// ──────────────────────────────────────────────────
// Record model
// ──────────────────────────────────────────────────

type recordModel struct {
	grove.BaseModel `grove:"table:rowguard_records"`
	ID              string         `grove:"id,pk"`
	Resource        string         `grove:"resource,notnull"`
	Fields          map[string]any `grove:"fields,type:jsonb"`
	CreatedAt       time.Time      `grove:"created_at,notnull"`
	UpdatedAt       time.Time      `grove:"updated_at,notnull"`
}

func recordToModel(r *record.Record) *recordModel {
	return &recordModel{
		ID:        r.ID.String(),
		Resource:  r.Resource,
		Fields:    r.Fields,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func recordFromModel(m *recordModel) *record.Record {
	rid, _ := id.ParseRecordID(m.ID) //nolint:errcheck // stored IDs are always valid
	return &record.Record{
		ID:        rid,
		Resource:  m.Resource,
		Fields:    m.Fields,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// Decision model
// ──────────────────────────────────────────────────

type decisionModel struct {
	grove.BaseModel `grove:"table:rowguard_decisions"`
	ID              string    `grove:"id,pk"`
	ActorID         string    `grove:"actor_id"`
	ActorRole       string    `grove:"actor_role"`
	Operation       string    `grove:"operation,notnull"`
	Resource        string    `grove:"resource,notnull"`
	RecordID        string    `grove:"record_id"`
	Decision        string    `grove:"decision,notnull"`
	Rule            string    `grove:"rule"`
	Reason          string    `grove:"reason"`
	EvalTimeNs      int64     `grove:"eval_time_ns,notnull"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
}

func decisionToModel(e *audit.Entry) *decisionModel {
	return &decisionModel{
		ID:         e.ID.String(),
		ActorID:    e.ActorID,
		ActorRole:  e.ActorRole,
		Operation:  e.Operation,
		Resource:   e.Resource,
		RecordID:   e.RecordID,
		Decision:   e.Decision,
		Rule:       e.Rule,
		Reason:     e.Reason,
		EvalTimeNs: e.EvalTimeNs,
		CreatedAt:  e.CreatedAt,
	}
}

func decisionFromModel(m *decisionModel) *audit.Entry {
	did, _ := id.ParseDecisionID(m.ID) //nolint:errcheck // stored IDs are always valid
	return &audit.Entry{
		ID:         did,
		ActorID:    m.ActorID,
		ActorRole:  m.ActorRole,
		Operation:  m.Operation,
		Resource:   m.Resource,
		RecordID:   m.RecordID,
		Decision:   m.Decision,
		Rule:       m.Rule,
		Reason:     m.Reason,
		EvalTimeNs: m.EvalTimeNs,
		CreatedAt:  m.CreatedAt,
	}
}
