package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service owns catalog item lifecycle for the admin surface.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// List returns every catalog item grouped by category and name.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	return s.repo.List(ctx)
}

// Get resolves one item by id.
func (s *Service) Get(ctx context.Context, id string) (*Item, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new food item with a generated id.
func (s *Service) Create(ctx context.Context, req CreateItemRequest) (*Item, error) {
	now := s.now().UTC()
	item := Item{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Available:   req.Available,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return &item, nil
}

// Update applies a partial edit to an existing item.
func (s *Service) Update(ctx context.Context, id string, req UpdateItemRequest) (*Item, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	item := *existing
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	item.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return &item, nil
}

// SetAvailability toggles whether an item can currently be ordered.
func (s *Service) SetAvailability(ctx context.Context, id string, available bool) (*Item, error) {
	return s.Update(ctx, id, UpdateItemRequest{Available: &available})
}
