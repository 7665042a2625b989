package audit

import (
	"context"
	"database/sql"
)

// PostgresRepo appends events to the audit_events table. INSERT-only;
// retention and pruning are an operational concern, not this package's.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

var _ Repository = (*PostgresRepo)(nil)

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO audit_events (id, type, actor_id, actor_kind, actor_role, ip_address, message, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		string(e.Type),
		e.ActorID,
		e.ActorKind,
		e.ActorRole,
		e.IPAddress,
		e.Message,
		e.CreatedAt,
	)
	return err
}
