package principal

import "time"

// Kind discriminates the two principal variants. Every kind-specific
// decision in the codebase must branch on this value, never on which
// optional fields happen to be set.
type Kind string

const (
	KindCompany Kind = "company"
	KindClient  Kind = "client"
)

func (k Kind) Valid() bool { return k == KindCompany || k == KindClient }

// Principal is an authenticated party: a company (B2B tenant) or one of
// its end clients. Companies are addressed externally by BusinessID,
// clients by Username; ID is the surrogate key and never leaves the
// backend except inside refresh-token claims.
type Principal struct {
	ID           string    `json:"id" db:"id"`
	Kind         Kind      `json:"kind"`
	Role         string    `json:"role" db:"role"`
	BusinessID   string    `json:"business_id,omitempty" db:"business_id"`
	Username     string    `json:"username,omitempty" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	LastUpdated  time.Time `json:"last_updated" db:"last_updated"`
}

// NaturalID returns the externally meaningful identifier for the
// principal's kind: business_id for companies, username for clients.
func (p Principal) NaturalID() string {
	if p.Kind == KindCompany {
		return p.BusinessID
	}
	return p.Username
}
