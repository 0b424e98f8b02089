package customers

import (
	"context"
	"strings"
)

// Service coordinates customer operations.
type Service struct {
	repo Repository
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns customers matching the search, ordered by name.
func (s *Service) List(ctx context.Context, search string) ([]Customer, error) {
	return s.repo.List(ctx, strings.TrimSpace(search))
}

// Get returns one customer.
func (s *Service) Get(ctx context.Context, id int64) (Customer, error) {
	return s.repo.Get(ctx, id)
}

// Create inserts a customer.
func (s *Service) Create(ctx context.Context, req CustomerRequest) (Customer, error) {
	return s.repo.Create(ctx, fromRequest(req))
}

// Update replaces a customer's fields.
func (s *Service) Update(ctx context.Context, id int64, req CustomerRequest) error {
	return s.repo.Update(ctx, id, fromRequest(req))
}

// Delete removes a customer. Customers with sales attached are kept and
// ErrReferenced is returned instead.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func fromRequest(req CustomerRequest) Customer {
	return Customer{
		Name:      strings.TrimSpace(req.Name),
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		BirthDate: req.BirthDate,
	}
}
