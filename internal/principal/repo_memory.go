package principal

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory resolver useful for tests.
// It is not intended for production use.

type MemoryRepo struct {
	mu         sync.Mutex
	principals []Principal
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

var _ Resolver = (*MemoryRepo)(nil)

func (r *MemoryRepo) Add(p Principal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.principals = append(r.principals, p)
}

func (r *MemoryRepo) ByNaturalID(ctx context.Context, kind Kind, identifier string) (Principal, error) {
	if !kind.Valid() {
		return Principal{}, ErrInvalidKind
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.principals {
		if p.Kind == kind && p.NaturalID() == identifier {
			return p, nil
		}
	}
	return Principal{}, ErrNotFound
}

func (r *MemoryRepo) BySurrogateID(ctx context.Context, kind Kind, id string) (Principal, error) {
	if !kind.Valid() {
		return Principal{}, ErrInvalidKind
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.principals {
		if p.Kind == kind && p.ID == id {
			return p, nil
		}
	}
	return Principal{}, ErrNotFound
}
