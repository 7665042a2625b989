package auth

import (
	"context"
	"sync"

	"subscription-platform/internal/principal"
)

// MemoryStore is an in-memory RefreshTokenStore useful for tests.
// It is not intended for production use.

type storeKey struct {
	userID string
	kind   principal.Kind
}

type MemoryStore struct {
	mu     sync.Mutex
	hashes map[storeKey]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{hashes: make(map[storeKey]string)}
}

var _ RefreshTokenStore = (*MemoryStore)(nil)

func (s *MemoryStore) Lookup(ctx context.Context, userID string, kind principal.Kind, hashedToken string) (RefreshTokenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.hashes[storeKey{userID: userID, kind: kind}]
	if !ok || stored != hashedToken {
		return RefreshTokenRecord{}, ErrRefreshTokenNotFound
	}
	return RefreshTokenRecord{UserID: userID, Kind: kind, HashedToken: stored}, nil
}

func (s *MemoryStore) Upsert(ctx context.Context, userID string, kind principal.Kind, hashedToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hashes[storeKey{userID: userID, kind: kind}] = hashedToken
	return nil
}

// Len reports the number of live records; used by tests to assert that
// failed logins leave the store untouched.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hashes)
}
