package products

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultCategory is assigned when no category is provided.
const DefaultCategory = "Outros"

// ErrInvalidPrice indicates a negative sale price.
var ErrInvalidPrice = errors.New("products: sale price must be >= 0")

// ErrInvalidStock indicates a negative stock quantity.
var ErrInvalidStock = errors.New("products: stock quantity must be >= 0")

var categoryCaser = cases.Title(language.BrazilianPortuguese)

// Service coordinates product catalog operations.
type Service struct {
	repo Repository
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns products matching the filters, ordered by name.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Product, error) {
	if strings.TrimSpace(filters.Category) != "" {
		filters.Category = normalizeCategory(filters.Category)
	}
	return s.repo.List(ctx, filters)
}

// Get returns one product with its supplier name.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	return s.repo.Get(ctx, id)
}

// SnapshotPrice reads the current sale price for display and validation.
func (s *Service) SnapshotPrice(ctx context.Context, id int64) (float64, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return p.SalePrice, nil
}

// Create validates and inserts a product.
func (s *Service) Create(ctx context.Context, req CreateProductRequest) (Product, error) {
	if req.SalePrice < 0 {
		return Product{}, ErrInvalidPrice
	}
	if req.StockQty < 0 {
		return Product{}, ErrInvalidStock
	}

	p := Product{
		Name:        req.Name,
		Description: req.Description,
		SalePrice:   req.SalePrice,
		StockQty:    req.StockQty,
		MinQty:      req.MinQty,
		MaxQty:      req.MaxQty,
		ExpiresAt:   req.ExpiresAt,
		Category:    normalizeCategory(req.Category),
		SupplierID:  req.SupplierID,
	}
	return s.repo.Create(ctx, p)
}

// Update validates and updates a product.
func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest) error {
	if req.SalePrice < 0 {
		return ErrInvalidPrice
	}
	if req.StockQty < 0 {
		return ErrInvalidStock
	}

	p := Product{
		Name:        req.Name,
		Description: req.Description,
		SalePrice:   req.SalePrice,
		StockQty:    req.StockQty,
		MinQty:      req.MinQty,
		MaxQty:      req.MaxQty,
		ExpiresAt:   req.ExpiresAt,
		Category:    normalizeCategory(req.Category),
		SupplierID:  req.SupplierID,
	}
	return s.repo.Update(ctx, id, p)
}

// Delete removes a product. Products referenced by sale lines are kept and
// ErrReferenced is returned instead.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// normalizeCategory trims and title-cases the category, falling back to the
// default when empty.
func normalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return DefaultCategory
	}
	return categoryCaser.String(category)
}
