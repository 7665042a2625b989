package auth

import (
	"context"
	"errors"

	"subscription-platform/internal/principal"
)

var ErrRefreshTokenNotFound = errors.New("auth: refresh token not found")

// RefreshTokenRecord is one row of server-held refresh-token state.
// Exactly one live record exists per (UserID, Kind); upserting replaces
// the hash in place, which is what invalidates earlier sessions.
type RefreshTokenRecord struct {
	UserID      string
	Kind        principal.Kind
	HashedToken string
}

// RefreshTokenStore is the single authority for refresh-token liveness.
// A presented token counts only if its hash equals the currently stored
// hash for that principal; signatures alone are never trusted.
type RefreshTokenStore interface {
	// Lookup returns the record only when both the key and the hash
	// match; a miss is ErrRefreshTokenNotFound.
	Lookup(ctx context.Context, userID string, kind principal.Kind, hashedToken string) (RefreshTokenRecord, error)

	// Upsert inserts or replaces the stored hash as one atomic unit.
	// Concurrent logins for the same principal settle last-write-wins.
	Upsert(ctx context.Context, userID string, kind principal.Kind, hashedToken string) error
}
