package audit

import "time"

// Event is an immutable, append-only record of an authentication
// outcome.
//
// Invariants:
// - Events are never updated or deleted.
// - Capture is best-effort; auth flows must not block on audit failures.
//
// Storage: audit_events table, INSERT-only.

type Event struct {
	ID string `json:"id" db:"id"`

	// Type indicates the auth outcome being recorded.
	Type EventType `json:"type" db:"type"`

	// ActorID is the principal surrogate id when one was resolved;
	// failed logins record the presented identifier instead.
	ActorID   string `json:"actor_id,omitempty" db:"actor_id"`
	ActorKind string `json:"actor_kind,omitempty" db:"actor_kind"`
	ActorRole string `json:"actor_role,omitempty" db:"actor_role"`

	// IPAddress should capture the original client IP when available.
	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`

	// Message is a short human-readable description for internal ops.
	// Never put credentials or token material here.
	Message string `json:"message,omitempty" db:"message"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventLoginSucceeded EventType = "login_succeeded"
	EventLoginFailed    EventType = "login_failed"
	EventLoginThrottled EventType = "login_throttled"
	EventTokenRefreshed EventType = "token_refreshed"
)
