package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"ragguard/internal/domain/repositories"
)

// PostgresAuditStore implements the AuditStore interface. The table is
// append-only; entries are never updated or deleted by the service.
type PostgresAuditStore struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewAuditStore creates a Postgres-backed audit store.
func NewAuditStore(config *RepositoryConfig) repositories.AuditStore {
	return &PostgresAuditStore{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Append inserts one audit entry.
func (s *PostgresAuditStore) Append(ctx context.Context, entry *repositories.AuditEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (request_id, principal_id, document_id, action, outcome, source, reason, latency_us, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, s.tables.AuditLog)

	_, err := s.pool.Exec(ctx, query,
		entry.RequestID,
		entry.PrincipalID,
		entry.DocumentID,
		string(entry.Action),
		string(entry.Outcome),
		string(entry.Source),
		string(entry.Reason),
		entry.Latency.Microseconds(),
		entry.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}

	return nil
}
