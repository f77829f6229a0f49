package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the rowguard store (PostgreSQL).
var Migrations = migrate.NewGroup("rowguard")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_records",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS rowguard_records (
    id              TEXT PRIMARY KEY,
    resource        TEXT NOT NULL,
    fields          JSONB NOT NULL DEFAULT '{}',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_rowguard_records_resource ON rowguard_records (resource);
CREATE INDEX IF NOT EXISTS idx_rowguard_records_created ON rowguard_records (resource, created_at);
CREATE INDEX IF NOT EXISTS idx_rowguard_records_fields ON rowguard_records USING GIN (fields);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS rowguard_records`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_decisions",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS rowguard_decisions (
    id              TEXT PRIMARY KEY,
    actor_id        TEXT NOT NULL DEFAULT '',
    actor_role      TEXT NOT NULL DEFAULT '',
    operation       TEXT NOT NULL,
    resource        TEXT NOT NULL,
    record_id       TEXT NOT NULL DEFAULT '',
    decision        TEXT NOT NULL,
    rule            TEXT NOT NULL DEFAULT '',
    reason          TEXT NOT NULL DEFAULT '',
    eval_time_ns    BIGINT NOT NULL DEFAULT 0,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_rowguard_decisions_actor ON rowguard_decisions (actor_id);
CREATE INDEX IF NOT EXISTS idx_rowguard_decisions_resource ON rowguard_decisions (resource, record_id);
CREATE INDEX IF NOT EXISTS idx_rowguard_decisions_decision ON rowguard_decisions (decision);
CREATE INDEX IF NOT EXISTS idx_rowguard_decisions_created ON rowguard_decisions (created_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS rowguard_decisions`)
				return err
			},
		},
	)
}
