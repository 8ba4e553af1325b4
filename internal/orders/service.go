package orders

import (
	"context"
	"fmt"
)

// Service exposes read operations over the order store.
type Service struct {
	repo Repository
}

// NewService constructs a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Recent returns the latest orders for the listing page, newest first.
func (s *Service) Recent(ctx context.Context, filter ListFilter) ([]Order, error) {
	orders, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list recent orders: %w", err)
	}
	return orders, nil
}

// Get resolves a single order by id.
func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	return s.repo.Get(ctx, id)
}
