package auth

import (
	"context"
	"errors"

	"subscription-platform/internal/principal"
)

type ctxKey int

const (
	ctxPrincipal ctxKey = iota
	ctxClaims
)

// WithIdentity stores the resolved principal and the parsed claims in
// the request context. The gates are the only writers.
func WithIdentity(ctx context.Context, p principal.Principal, claims Claims) context.Context {
	ctx = context.WithValue(ctx, ctxPrincipal, p)
	ctx = context.WithValue(ctx, ctxClaims, claims)
	return ctx
}

// CurrentPrincipal returns the principal a gate resolved for this
// request.
func CurrentPrincipal(ctx context.Context) (principal.Principal, error) {
	if p, ok := ctx.Value(ctxPrincipal).(principal.Principal); ok && p.ID != "" {
		return p, nil
	}
	return principal.Principal{}, errors.New("principal not in context")
}

// CurrentClaims returns the claims a gate verified for this request.
func CurrentClaims(ctx context.Context) (Claims, error) {
	if c, ok := ctx.Value(ctxClaims).(Claims); ok && c.EntityID != "" {
		return c, nil
	}
	return Claims{}, errors.New("claims not in context")
}
