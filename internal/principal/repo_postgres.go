package principal

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresRepo resolves principals from the companies and clients
// tables. Both tables are read-only from this package's perspective;
// provisioning happens out of band.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

var _ Resolver = (*PostgresRepo)(nil)

func (r *PostgresRepo) ByNaturalID(ctx context.Context, kind Kind, identifier string) (Principal, error) {
	switch kind {
	case KindCompany:
		const q = `
SELECT id, business_id, password_hash, role, last_updated
FROM companies
WHERE business_id = $1
`
		return r.scanCompany(r.db.QueryRowContext(ctx, q, identifier))
	case KindClient:
		const q = `
SELECT id, username, password_hash, role, last_updated
FROM clients
WHERE username = $1
`
		return r.scanClient(r.db.QueryRowContext(ctx, q, identifier))
	default:
		return Principal{}, ErrInvalidKind
	}
}

func (r *PostgresRepo) BySurrogateID(ctx context.Context, kind Kind, id string) (Principal, error) {
	switch kind {
	case KindCompany:
		const q = `
SELECT id, business_id, password_hash, role, last_updated
FROM companies
WHERE id = $1
`
		return r.scanCompany(r.db.QueryRowContext(ctx, q, id))
	case KindClient:
		const q = `
SELECT id, username, password_hash, role, last_updated
FROM clients
WHERE id = $1
`
		return r.scanClient(r.db.QueryRowContext(ctx, q, id))
	default:
		return Principal{}, ErrInvalidKind
	}
}

func (r *PostgresRepo) scanCompany(row *sql.Row) (Principal, error) {
	p := Principal{Kind: KindCompany}
	if err := row.Scan(&p.ID, &p.BusinessID, &p.PasswordHash, &p.Role, &p.LastUpdated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Principal{}, ErrNotFound
		}
		return Principal{}, err
	}
	return p, nil
}

func (r *PostgresRepo) scanClient(row *sql.Row) (Principal, error) {
	p := Principal{Kind: KindClient}
	if err := row.Scan(&p.ID, &p.Username, &p.PasswordHash, &p.Role, &p.LastUpdated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Principal{}, ErrNotFound
		}
		return Principal{}, err
	}
	return p, nil
}
