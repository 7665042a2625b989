package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only.
// No Update/Delete methods are provided by design.

type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records authentication outcomes.
//
// IMPORTANT:
// - Audit is internal-only. Do not expose these records to tenants.
// - Callers should treat audit logging as best-effort.

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// LoginSucceeded records a completed login for a resolved principal.
func (s *Service) LoginSucceeded(ctx context.Context, actorID, actorKind, actorRole, ip string) error {
	return s.Append(ctx, Event{
		Type:      EventLoginSucceeded,
		ActorID:   actorID,
		ActorKind: actorKind,
		ActorRole: actorRole,
		IPAddress: ip,
	})
}

// LoginFailed records a rejected credential check. actorID is the
// presented identifier; no principal was resolved.
func (s *Service) LoginFailed(ctx context.Context, actorID, actorKind, ip string) error {
	return s.Append(ctx, Event{
		Type:      EventLoginFailed,
		ActorID:   actorID,
		ActorKind: actorKind,
		IPAddress: ip,
		Message:   "credential check failed",
	})
}

// LoginThrottled records a login refused by the attempt limiter.
func (s *Service) LoginThrottled(ctx context.Context, actorID, actorKind, ip string) error {
	return s.Append(ctx, Event{
		Type:      EventLoginThrottled,
		ActorID:   actorID,
		ActorKind: actorKind,
		IPAddress: ip,
		Message:   "attempt limit reached",
	})
}

// TokenRefreshed records a successful access-token renewal.
func (s *Service) TokenRefreshed(ctx context.Context, actorID, actorKind, actorRole, ip string) error {
	return s.Append(ctx, Event{
		Type:      EventTokenRefreshed,
		ActorID:   actorID,
		ActorKind: actorKind,
		ActorRole: actorRole,
		IPAddress: ip,
	})
}
