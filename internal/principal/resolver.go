package principal

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("principal: not found")
	ErrInvalidKind = errors.New("principal: invalid kind")
)

// Resolver maps identifiers to stored principal records. Callers pick
// which identifier space they are in; dispatch on kind stays inside the
// implementation.
//
// ByNaturalID serves the login path (business_id or username).
// BySurrogateID rehydrates a principal from refresh-token claims.
type Resolver interface {
	ByNaturalID(ctx context.Context, kind Kind, identifier string) (Principal, error)
	BySurrogateID(ctx context.Context, kind Kind, id string) (Principal, error)
}
