package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"subscription-platform/internal/config"
	"subscription-platform/internal/principal"
)

// Token verification outcomes. Expiry is always distinguished from every
// other defect so clients can decide between refreshing and re-login.
var (
	ErrTokenExpired = errors.New("auth: token expired")
	ErrTokenInvalid = errors.New("auth: token invalid")
)

// Manager signs and verifies the two token kinds. The algorithm is
// pinned to HS256; tokens offering any other method fail verification
// regardless of their signature.
type Manager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}

	return &Manager{
		secret:     []byte(cfg.JWTSecret),
		issuer:     cfg.JWTIssuer,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}, nil
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

/* ===================== ISSUE TOKENS ===================== */

// IssuePair issues the access+refresh pair for a freshly authenticated
// principal. TTLs are fixed per kind and not caller-configurable.
func (m *Manager) IssuePair(now time.Time, p principal.Principal) (TokenPair, error) {
	access, err := m.IssueAccessToken(now, p.NaturalID(), p.Role)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := m.IssueRefreshToken(now, p.ID, p.Kind)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// IssueAccessToken carries the natural identifier and role, never the
// surrogate id.
func (m *Manager) IssueAccessToken(now time.Time, naturalID, role string) (string, error) {
	if naturalID == "" {
		return "", errors.New("natural identifier is required")
	}
	if !principal.IsValidRole(role) {
		return "", fmt.Errorf("unknown role %q", role)
	}
	return m.issue(now, Claims{
		EntityID:  naturalID,
		Role:      role,
		TokenType: TokenTypeAccess,
	}, m.accessTTL)
}

// IssueRefreshToken carries the surrogate id and kind, never the role.
func (m *Manager) IssueRefreshToken(now time.Time, surrogateID string, kind principal.Kind) (string, error) {
	if surrogateID == "" {
		return "", errors.New("surrogate id is required")
	}
	if !kind.Valid() {
		return "", fmt.Errorf("unknown principal kind %q", kind)
	}
	return m.issue(now, Claims{
		EntityID:   surrogateID,
		EntityKind: kind,
		TokenType:  TokenTypeRefresh,
	}, m.refreshTTL)
}

/* ===================== VERIFY TOKEN ===================== */

// Verify checks signature, issuer, expiry and claim shape for the
// expected kind in one pass. Failures collapse to exactly two outcomes:
// ErrTokenExpired when the signature is valid but the token aged out,
// ErrTokenInvalid for everything else.
func (m *Manager) Verify(tokenString string, expected TokenType, now time.Time) (Claims, error) {
	var claims Claims

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(30 * time.Second), // clock skew tolerance
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	parser := jwt.NewParser(opts...)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	// Custom claims validation: the shape must match the requested kind.
	if claims.TokenType != expected {
		return Claims{}, fmt.Errorf("%w: token_type mismatch", ErrTokenInvalid)
	}
	if claims.EntityID == "" {
		return Claims{}, fmt.Errorf("%w: entity_id missing", ErrTokenInvalid)
	}

	switch expected {
	case TokenTypeAccess:
		if !principal.IsValidRole(claims.Role) {
			return Claims{}, fmt.Errorf("%w: unknown role", ErrTokenInvalid)
		}
	case TokenTypeRefresh:
		if !claims.EntityKind.Valid() {
			return Claims{}, fmt.Errorf("%w: unknown entity_kind", ErrTokenInvalid)
		}
	}

	return claims, nil
}

/* ===================== INTERNAL ISSUE ===================== */

func (m *Manager) issue(now time.Time, claims Claims, ttl time.Duration) (string, error) {
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}
