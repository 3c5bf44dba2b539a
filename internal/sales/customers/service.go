package customers

import (
	"context"
	"fmt"
	"strings"
)

// Service implements customer use cases.
type Service struct {
	repo Repository
}

// NewService constructs the customer service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns a customer by id.
func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

// List returns customers ordered by name.
func (s *Service) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	return s.repo.List(ctx, req)
}

// Search matches customers by name or WhatsApp number substring.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Customer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return s.repo.Search(ctx, query, limit)
}

// Create registers a customer.
func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	id, err := s.repo.Create(ctx, Customer{
		Name:     strings.TrimSpace(req.Name),
		WhatsApp: req.WhatsApp,
		Email:    req.Email,
		Notes:    req.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*Customer, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	merged := *existing
	if req.Name != nil {
		merged.Name = strings.TrimSpace(*req.Name)
	}
	if req.WhatsApp != nil {
		merged.WhatsApp = req.WhatsApp
	}
	if req.Email != nil {
		merged.Email = req.Email
	}
	if req.Notes != nil {
		merged.Notes = req.Notes
	}
	if err := s.repo.Update(ctx, id, merged); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a customer record.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
