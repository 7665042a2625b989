package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"subscription-platform/internal/audit"
	"subscription-platform/internal/principal"
	"subscription-platform/pkg/logger"
)

// ErrLoginInvalid covers every credential rejection: unknown
// identifier, wrong password, or a throttled attempt. One error for all
// three so responses don't reveal which part failed.
var ErrLoginInvalid = errors.New("auth: login invalid")

// Service orchestrates the token lifecycle: credential check, pair
// issuance, refresh-hash storage and access-token renewal.
//
// Limiter and audit are optional; when absent the corresponding step is
// skipped. When present they are best-effort: their infrastructure
// failing must not fail a login.
type Service struct {
	codec    *Manager
	resolver principal.Resolver
	store    RefreshTokenStore
	limiter  *LoginLimiter
	audit    *audit.Service
	clock    func() time.Time
}

func NewService(codec *Manager, resolver principal.Resolver, store RefreshTokenStore) *Service {
	return &Service{
		codec:    codec,
		resolver: resolver,
		store:    store,
		clock:    time.Now,
	}
}

func (s *Service) WithLimiter(l *LoginLimiter) *Service {
	s.limiter = l
	return s
}

func (s *Service) WithAudit(a *audit.Service) *Service {
	s.audit = a
	return s
}

// Login authenticates a principal by natural identifier and password
// and returns a fresh token pair. On success the hashed refresh token
// replaces whatever record the principal had before, invalidating any
// earlier outstanding refresh token.
//
// Every rejection path answers ErrLoginInvalid and leaves the store
// untouched. Storage failures pass through unshaped.
func (s *Service) Login(ctx context.Context, kind principal.Kind, identifier, password, ip string) (TokenPair, error) {
	log := logger.From(ctx)

	if s.limiter != nil {
		switch err := s.limiter.Check(ctx, kind, identifier); {
		case errors.Is(err, ErrLoginRateLimited):
			s.auditLoginThrottled(ctx, identifier, kind, ip)
			return TokenPair{}, ErrLoginInvalid
		case err != nil:
			// Fail open. Credential checks still run.
			log.Warn("login limiter unavailable", "err", err)
		}
	}

	p, err := s.resolver.ByNaturalID(ctx, kind, identifier)
	if err != nil {
		if errors.Is(err, principal.ErrNotFound) || errors.Is(err, principal.ErrInvalidKind) {
			s.recordFailure(ctx, kind, identifier, ip)
			return TokenPair{}, ErrLoginInvalid
		}
		return TokenPair{}, err
	}

	if !VerifyPassword(password, p.PasswordHash) {
		s.recordFailure(ctx, kind, identifier, ip)
		return TokenPair{}, ErrLoginInvalid
	}

	if k, ok := principal.KindForRole(p.Role); !ok || k != p.Kind {
		// Stored role contradicts the principal's kind; refuse to mint
		// tokens from inconsistent data.
		return TokenPair{}, fmt.Errorf("principal %s has role %q inconsistent with kind %q", p.ID, p.Role, p.Kind)
	}

	now := s.clock()
	pair, err := s.codec.IssuePair(now, p)
	if err != nil {
		return TokenPair{}, err
	}

	if err := s.store.Upsert(ctx, p.ID, p.Kind, HashToken(pair.RefreshToken)); err != nil {
		return TokenPair{}, err
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, kind, identifier); err != nil {
			log.Warn("login limiter reset failed", "err", err)
		}
	}
	if s.audit != nil {
		if err := s.audit.LoginSucceeded(ctx, p.ID, string(p.Kind), p.Role, ip); err != nil {
			log.Warn("audit append failed", "err", err)
		}
	}

	return pair, nil
}

// Refresh issues a new access token for a principal the refresh gate
// already validated. The stored refresh-token hash is deliberately not
// rotated here; it changes only at login.
func (s *Service) Refresh(ctx context.Context, p principal.Principal, ip string) (string, error) {
	token, err := s.codec.IssueAccessToken(s.clock(), p.NaturalID(), p.Role)
	if err != nil {
		return "", err
	}
	if s.audit != nil {
		if err := s.audit.TokenRefreshed(ctx, p.ID, string(p.Kind), p.Role, ip); err != nil {
			logger.From(ctx).Warn("audit append failed", "err", err)
		}
	}
	return token, nil
}

func (s *Service) recordFailure(ctx context.Context, kind principal.Kind, identifier, ip string) {
	log := logger.From(ctx)
	if s.limiter != nil {
		if err := s.limiter.RecordFailure(ctx, kind, identifier); err != nil && !errors.Is(err, ErrLoginRateLimited) {
			log.Warn("login limiter unavailable", "err", err)
		}
	}
	if s.audit != nil {
		if err := s.audit.LoginFailed(ctx, identifier, string(kind), ip); err != nil {
			log.Warn("audit append failed", "err", err)
		}
	}
}

func (s *Service) auditLoginThrottled(ctx context.Context, identifier string, kind principal.Kind, ip string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LoginThrottled(ctx, identifier, string(kind), ip); err != nil {
		logger.From(ctx).Warn("audit append failed", "err", err)
	}
}
