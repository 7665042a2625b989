package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"subscription-platform/internal/principal"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the only supported JWT claims shape for this service.
// One struct covers both token kinds; token_type discriminates:
//   - access:  EntityID is the natural identifier (business_id or
//     username) and Role is required. EntityKind is absent.
//   - refresh: EntityID is the surrogate id and EntityKind is required.
//     Role is absent; refresh tokens never carry authorization.
//
// Verify enforces the shape per expected kind, so a refresh token
// presented on an access path is invalid even before role checks.
type Claims struct {
	jwt.RegisteredClaims

	EntityID   string         `json:"entity_id"`
	Role       string         `json:"role,omitempty"`
	EntityKind principal.Kind `json:"entity_kind,omitempty"`
	TokenType  TokenType      `json:"token_type"`
}
