package catalog

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory catalog useful for tests.
// It is not intended for production use.

type MemoryRepo struct {
	mu            sync.Mutex
	products      []Product
	subscriptions []Subscription
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

var _ Repository = (*MemoryRepo)(nil)

func (r *MemoryRepo) AddProduct(p Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	r.products = append(r.products, p)
}

func (r *MemoryRepo) ProductsByCompany(ctx context.Context, companyID string) ([]Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Product{}
	for _, p := range r.products {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *MemoryRepo) SubscriptionsByClient(ctx context.Context, clientID string) ([]Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Subscription{}
	for _, s := range r.subscriptions {
		if s.ClientID == clientID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *MemoryRepo) Subscribe(ctx context.Context, productID, clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	for _, p := range r.products {
		if p.ID == productID {
			found = true
			break
		}
	}
	if !found {
		return ErrProductNotFound
	}
	for _, s := range r.subscriptions {
		if s.ProductID == productID && s.ClientID == clientID {
			return ErrAlreadySubscribed
		}
	}
	r.subscriptions = append(r.subscriptions, Subscription{
		ID:        uuid.NewString(),
		ProductID: productID,
		ClientID:  clientID,
	})
	return nil
}
