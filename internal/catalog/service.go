package catalog

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound   = errors.New("catalog: product not found")
	ErrAlreadySubscribed = errors.New("catalog: already subscribed")
)

// Repository is the persistence contract for the catalog.
//
// Subscribe must check product existence and insert in one transaction;
// a subscription referencing a product deleted mid-flight is not
// acceptable.
type Repository interface {
	ProductsByCompany(ctx context.Context, companyID string) ([]Product, error)
	SubscriptionsByClient(ctx context.Context, clientID string) ([]Subscription, error)
	Subscribe(ctx context.Context, productID, clientID string) error
}

// Service exposes catalog reads and the subscribe operation. Handlers
// pass the authenticated principal's surrogate id; tenancy isolation is
// simply "you only ever query by your own id".
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ProductsByCompany(ctx context.Context, companyID string) ([]Product, error) {
	if companyID == "" {
		return nil, errors.New("catalog: company id is required")
	}
	return s.repo.ProductsByCompany(ctx, companyID)
}

func (s *Service) SubscriptionsByClient(ctx context.Context, clientID string) ([]Subscription, error) {
	if clientID == "" {
		return nil, errors.New("catalog: client id is required")
	}
	return s.repo.SubscriptionsByClient(ctx, clientID)
}

func (s *Service) Subscribe(ctx context.Context, productID, clientID string) error {
	if productID == "" || clientID == "" {
		return errors.New("catalog: product id and client id are required")
	}
	return s.repo.Subscribe(ctx, productID, clientID)
}
