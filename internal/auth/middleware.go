package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"subscription-platform/internal/principal"
	"subscription-platform/pkg/logger"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

// RefreshTokenHeader is the dedicated header for the refresh
// credential; it is never accepted via Authorization.
const RefreshTokenHeader = "Refresh-Token"

func unauthenticated(c *gin.Context, reason Reason) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"reason": string(reason)})
}

// internalError hides the cause from the client and logs it with the
// request-scoped logger. Shaped 401 reasons never cover storage
// failures.
func internalError(c *gin.Context, msg string, err error) {
	logger.FromGin(c).Error(msg, "err", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// RequireRoles verifies an access token, checks the role against the
// route's allow-list and resolves the full principal into the request
// context.
//
// A valid token carrying a role outside the allow-list is reported as
// token_invalid, identical to a malformed token, so responses never
// reveal which roles exist.
func RequireRoles(m *Manager, resolver principal.Resolver, allowed ...string) gin.HandlerFunc {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
		if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
			unauthenticated(c, ReasonTokenMissing)
			return
		}
		tok := strings.TrimPrefix(raw, bearerPrefix)

		claims, err := m.Verify(tok, TokenTypeAccess, time.Now())
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				unauthenticated(c, ReasonTokenExpired)
				return
			}
			unauthenticated(c, ReasonTokenInvalid)
			return
		}

		if _, ok := allowedSet[claims.Role]; !ok {
			unauthenticated(c, ReasonTokenInvalid)
			return
		}

		kind, ok := principal.KindForRole(claims.Role)
		if !ok {
			unauthenticated(c, ReasonTokenInvalid)
			return
		}

		p, err := resolver.ByNaturalID(c.Request.Context(), kind, claims.EntityID)
		if err != nil {
			if errors.Is(err, principal.ErrNotFound) {
				unauthenticated(c, ReasonTokenInvalid)
				return
			}
			internalError(c, "principal resolution failed", err)
			return
		}

		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), p, claims))
		c.Next()
	}
}

// RequireRefreshToken verifies a refresh token, re-resolves the
// principal and checks the presented token's hash against the stored
// record. Only a hash match proves the token is still the live one for
// that principal.
func RequireRefreshToken(m *Manager, resolver principal.Resolver, store RefreshTokenStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(RefreshTokenHeader))
		if raw == "" {
			unauthenticated(c, ReasonRefreshTokenInvalid)
			return
		}

		claims, err := m.Verify(raw, TokenTypeRefresh, time.Now())
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				unauthenticated(c, ReasonTokenExpired)
				return
			}
			unauthenticated(c, ReasonRefreshTokenInvalid)
			return
		}

		p, err := resolver.BySurrogateID(c.Request.Context(), claims.EntityKind, claims.EntityID)
		if err != nil {
			if errors.Is(err, principal.ErrNotFound) || errors.Is(err, principal.ErrInvalidKind) {
				unauthenticated(c, ReasonRefreshTokenInvalid)
				return
			}
			internalError(c, "principal resolution failed", err)
			return
		}

		if _, err := store.Lookup(c.Request.Context(), p.ID, p.Kind, HashToken(raw)); err != nil {
			if errors.Is(err, ErrRefreshTokenNotFound) {
				unauthenticated(c, ReasonRefreshTokenInvalid)
				return
			}
			internalError(c, "refresh token lookup failed", err)
			return
		}

		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), p, claims))
		c.Next()
	}
}
