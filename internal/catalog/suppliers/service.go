package suppliers

import (
	"context"
	"strings"
)

// Service coordinates supplier operations.
type Service struct {
	repo Repository
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns suppliers matching the search, ordered by trade name.
func (s *Service) List(ctx context.Context, search string) ([]Supplier, error) {
	return s.repo.List(ctx, strings.TrimSpace(search))
}

// Get returns one supplier.
func (s *Service) Get(ctx context.Context, id int64) (Supplier, error) {
	return s.repo.Get(ctx, id)
}

// Create inserts a supplier.
func (s *Service) Create(ctx context.Context, req SupplierRequest) (Supplier, error) {
	return s.repo.Create(ctx, fromRequest(req))
}

// Update replaces a supplier's fields.
func (s *Service) Update(ctx context.Context, id int64, req SupplierRequest) error {
	return s.repo.Update(ctx, id, fromRequest(req))
}

// Delete removes a supplier. Suppliers with products attached are kept and
// ErrReferenced is returned instead.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func fromRequest(req SupplierRequest) Supplier {
	return Supplier{
		TradeName: strings.TrimSpace(req.TradeName),
		LegalName: req.LegalName,
		CNPJ:      req.CNPJ,
		Email:     req.Email,
		Phone:     req.Phone,
		City:      req.City,
		State:     req.State,
	}
}
