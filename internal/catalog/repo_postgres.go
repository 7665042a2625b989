package catalog

import (
	"context"
	"database/sql"
	"errors"

	"subscription-platform/pkg/utils"
)

// PostgresRepo backs the catalog with the products and subscriptions
// tables.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

var _ Repository = (*PostgresRepo)(nil)

func (r *PostgresRepo) ProductsByCompany(ctx context.Context, companyID string) ([]Product, error) {
	const q = `
SELECT id, name, company_id, last_updated
FROM products
WHERE company_id = $1
ORDER BY name
`
	rows, err := r.db.QueryContext(ctx, q, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.CompanyID, &p.LastUpdated); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) SubscriptionsByClient(ctx context.Context, clientID string) ([]Subscription, error) {
	const q = `
SELECT id, product_id, client_id, last_updated
FROM subscriptions
WHERE client_id = $1
ORDER BY last_updated DESC
`
	rows, err := r.db.QueryContext(ctx, q, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Subscription{}
	for rows.Next() {
		var s Subscription
		if err := rows.Scan(&s.ID, &s.ProductID, &s.ClientID, &s.LastUpdated); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Subscribe(ctx context.Context, productID, clientID string) error {
	return utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		const check = `SELECT 1 FROM products WHERE id = $1`
		var one int
		if err := tx.QueryRowContext(ctx, check, productID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrProductNotFound
			}
			return err
		}

		const insert = `
INSERT INTO subscriptions (product_id, client_id)
VALUES ($1, $2)
ON CONFLICT (product_id, client_id) DO NOTHING
`
		res, err := tx.ExecContext(ctx, insert, productID, clientID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrAlreadySubscribed
		}
		return nil
	})
}
