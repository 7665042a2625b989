package catalog

import "time"

// Product is something a company sells. Name is unique per company.
type Product struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	CompanyID   string    `json:"company_id" db:"company_id"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}

// Subscription links a client to a product. One subscription per
// (product, client) pair, enforced by a unique constraint.
type Subscription struct {
	ID          string    `json:"id" db:"id"`
	ProductID   string    `json:"product_id" db:"product_id"`
	ClientID    string    `json:"client_id" db:"client_id"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}
