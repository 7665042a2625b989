package auth

import (
	"context"
	"database/sql"
	"errors"

	"subscription-platform/internal/principal"
)

// PostgresStore persists refresh-token hashes in the user_auth table.
// The table carries UNIQUE (user_id, user_type), which both enforces
// the one-live-record invariant and lets Upsert be a single statement.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore { return &PostgresStore{db: db} }

var _ RefreshTokenStore = (*PostgresStore)(nil)

func (s *PostgresStore) Lookup(ctx context.Context, userID string, kind principal.Kind, hashedToken string) (RefreshTokenRecord, error) {
	const q = `
SELECT user_id, user_type, refresh_token
FROM user_auth
WHERE user_id = $1 AND user_type = $2 AND refresh_token = $3
`
	var rec RefreshTokenRecord
	if err := s.db.QueryRowContext(ctx, q, userID, string(kind), hashedToken).Scan(
		&rec.UserID,
		&rec.Kind,
		&rec.HashedToken,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RefreshTokenRecord{}, ErrRefreshTokenNotFound
		}
		return RefreshTokenRecord{}, err
	}
	return rec, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, userID string, kind principal.Kind, hashedToken string) error {
	// Single atomic read-modify-write; two concurrent logins serialize
	// on the unique index and the final row reflects exactly one of them.
	const q = `
INSERT INTO user_auth (user_id, user_type, refresh_token)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, user_type)
DO UPDATE SET refresh_token = EXCLUDED.refresh_token, last_updated = now()
`
	_, err := s.db.ExecContext(ctx, q, userID, string(kind), hashedToken)
	return err
}
