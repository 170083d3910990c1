package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the catalog and audit tables if they do not exist.
// Used by the seed tool; the server assumes the schema is in place.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id            TEXT PRIMARY KEY,
				title         TEXT NOT NULL,
				content       TEXT NOT NULL,
				sensitivity   TEXT NOT NULL DEFAULT 'restricted',
				resource_type TEXT NOT NULL DEFAULT 'document'
			)
		`, tables.Documents),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id           BIGSERIAL PRIMARY KEY,
				request_id   TEXT NOT NULL,
				principal_id TEXT NOT NULL,
				document_id  TEXT NOT NULL,
				action       TEXT NOT NULL,
				outcome      TEXT NOT NULL,
				source       TEXT NOT NULL,
				reason       TEXT NOT NULL DEFAULT '',
				latency_us   BIGINT NOT NULL DEFAULT 0,
				recorded_at  TIMESTAMPTZ NOT NULL DEFAULT now()
			)
		`, tables.AuditLog),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s_principal_idx ON %s (principal_id, recorded_at)
		`, tables.AuditLog, tables.AuditLog),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}
