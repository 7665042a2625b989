package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"subscription-platform/internal/audit"
	"subscription-platform/internal/principal"
)

func serviceFixture(t *testing.T) (*Service, *principal.MemoryRepo, *MemoryStore, *Manager) {
	t.Helper()
	m := testManager(t)
	resolver := principal.NewMemoryRepo()
	resolver.Add(principal.Principal{
		ID:           "client-id-1",
		Kind:         principal.KindClient,
		Username:     "alice",
		Role:         principal.RoleClientUser,
		PasswordHash: HashPassword("correct horse"),
	})
	store := NewMemoryStore()
	return NewService(m, resolver, store), resolver, store, m
}

func TestLoginIssuesDecodablePair(t *testing.T) {
	svc, _, store, m := serviceFixture(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, principal.KindClient, "alice", "correct horse", "127.0.0.1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	access, err := m.Verify(pair.AccessToken, TokenTypeAccess, time.Now())
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if access.EntityID != "alice" || access.Role != principal.RoleClientUser {
		t.Fatalf("access claims: %+v", access)
	}

	refresh, err := m.Verify(pair.RefreshToken, TokenTypeRefresh, time.Now())
	if err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
	if refresh.EntityID != "client-id-1" || refresh.EntityKind != principal.KindClient {
		t.Fatalf("refresh claims: %+v", refresh)
	}

	if _, err := store.Lookup(ctx, "client-id-1", principal.KindClient, HashToken(pair.RefreshToken)); err != nil {
		t.Fatalf("stored hash must match issued refresh token: %v", err)
	}
}

func TestLoginWrongPasswordLeavesStoreUntouched(t *testing.T) {
	svc, _, store, _ := serviceFixture(t)

	_, err := svc.Login(context.Background(), principal.KindClient, "alice", "wrong", "127.0.0.1")
	if !errors.Is(err, ErrLoginInvalid) {
		t.Fatalf("expected ErrLoginInvalid, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("failed login must not create refresh-token records")
	}
}

func TestLoginUnknownIdentifier(t *testing.T) {
	svc, _, _, _ := serviceFixture(t)

	_, err := svc.Login(context.Background(), principal.KindClient, "ghost", "whatever", "127.0.0.1")
	if !errors.Is(err, ErrLoginInvalid) {
		t.Fatalf("expected ErrLoginInvalid, got %v", err)
	}
}

func TestSecondLoginInvalidatesFirstRefreshToken(t *testing.T) {
	svc, _, store, _ := serviceFixture(t)
	ctx := context.Background()

	first, err := svc.Login(ctx, principal.KindClient, "alice", "correct horse", "127.0.0.1")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, err := svc.Login(ctx, principal.KindClient, "alice", "correct horse", "127.0.0.1")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	if _, err := store.Lookup(ctx, "client-id-1", principal.KindClient, HashToken(first.RefreshToken)); !errors.Is(err, ErrRefreshTokenNotFound) {
		t.Fatalf("first refresh token should be superseded, got %v", err)
	}
	if _, err := store.Lookup(ctx, "client-id-1", principal.KindClient, HashToken(second.RefreshToken)); err != nil {
		t.Fatalf("second refresh token should be live: %v", err)
	}
}

func TestRefreshDoesNotRotateStoredHash(t *testing.T) {
	svc, resolver, store, m := serviceFixture(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, principal.KindClient, "alice", "correct horse", "127.0.0.1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	p, err := resolver.BySurrogateID(ctx, principal.KindClient, "client-id-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	tok, err := svc.Refresh(ctx, p, "127.0.0.1")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	claims, err := m.Verify(tok, TokenTypeAccess, time.Now())
	if err != nil {
		t.Fatalf("verify renewed access token: %v", err)
	}
	if claims.EntityID != "alice" || claims.Role != principal.RoleClientUser {
		t.Fatalf("renewed claims: %+v", claims)
	}

	// The same refresh token stays live after renewal.
	if _, err := store.Lookup(ctx, "client-id-1", principal.KindClient, HashToken(pair.RefreshToken)); err != nil {
		t.Fatalf("refresh token must survive renewal: %v", err)
	}
}

func TestLoginRejectsRoleKindMismatch(t *testing.T) {
	m := testManager(t)
	resolver := principal.NewMemoryRepo()
	// Provisioning bug: client row carrying a company role.
	resolver.Add(principal.Principal{
		ID:           "client-id-2",
		Kind:         principal.KindClient,
		Username:     "bob",
		Role:         principal.RoleCompanyAdmin,
		PasswordHash: HashPassword("pw"),
	})
	svc := NewService(m, resolver, NewMemoryStore())

	_, err := svc.Login(context.Background(), principal.KindClient, "bob", "pw", "127.0.0.1")
	if err == nil || errors.Is(err, ErrLoginInvalid) {
		t.Fatalf("inconsistent principal must fail as internal error, got %v", err)
	}
}

func TestLoginAuditTrail(t *testing.T) {
	svc, _, _, _ := serviceFixture(t)
	repo := audit.NewMemoryRepo()
	svc.WithAudit(audit.NewService(repo))
	ctx := context.Background()

	if _, err := svc.Login(ctx, principal.KindClient, "alice", "wrong", "10.0.0.9"); !errors.Is(err, ErrLoginInvalid) {
		t.Fatalf("expected ErrLoginInvalid, got %v", err)
	}
	if _, err := svc.Login(ctx, principal.KindClient, "alice", "correct horse", "10.0.0.9"); err != nil {
		t.Fatalf("login: %v", err)
	}

	events := repo.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 audit events, got %d", len(events))
	}
	if events[0].Type != audit.EventLoginFailed || events[1].Type != audit.EventLoginSucceeded {
		t.Fatalf("unexpected event sequence: %q, %q", events[0].Type, events[1].Type)
	}
	if events[1].ActorID != "client-id-1" || events[1].IPAddress != "10.0.0.9" {
		t.Fatalf("unexpected success event: %+v", events[1])
	}
}
