package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/varejo-erp/varejo/internal/inventory"
	"github.com/varejo-erp/varejo/internal/shared"
)

// RefModule tags stock movements caused by sales.
const RefModule = "sales"

// ReportCache invalidates cached dashboard aggregates after mutations.
type ReportCache interface {
	Bump(ctx context.Context) error
}

// Service coordinates sale aggregate operations. Every mutation runs inside
// one repository transaction: any failure rolls back the header, the lines
// and every stock movement applied so far.
type Service struct {
	repo  Repository
	cache ReportCache
}

// NewService builds Service. cache may be nil.
func NewService(repo Repository, cache ReportCache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Create inserts a sale with its lines, snapshotting prices and debiting
// stock per line in submission order. Returns the full sale on success.
func (s *Service) Create(ctx context.Context, req CreateSaleRequest) (*Sale, error) {
	if req.CustomerID <= 0 {
		return nil, ErrCustomerNotFound
	}
	if err := ValidateLines(req.Lines); err != nil {
		return nil, err
	}

	var saleID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		ok, err := repo.CustomerExists(ctx, req.CustomerID)
		if err != nil {
			return fmt.Errorf("verify customer: %w", err)
		}
		if !ok {
			return ErrCustomerNotFound
		}

		saleID, err = repo.Insert(ctx, req.CustomerID)
		if err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}

		if err := s.applyLines(ctx, repo, saleID, req.Lines); err != nil {
			return err
		}

		if _, err := repo.UpdateTotal(ctx, saleID); err != nil {
			return fmt.Errorf("recompute total: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.bump(ctx)
	return s.repo.Get(ctx, saleID)
}

// Get returns a sale with its lines.
func (s *Service) Get(ctx context.Context, id int64) (*Sale, error) {
	return s.repo.Get(ctx, id)
}

// List returns a page of active sales matching the filters.
func (s *Service) List(ctx context.Context, req ListSalesRequest) ([]SaleWithCustomer, shared.Pagination, error) {
	sales, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return sales, shared.NewPagination(req.Page, req.PerPage, total), nil
}

// Update replaces a sale's customer and line set. Existing lines are fully
// credited back before the new set is applied, so the net stock effect always
// matches the latest submitted lines regardless of the previous ones.
func (s *Service) Update(ctx context.Context, id int64, req UpdateSaleRequest) (*Sale, error) {
	if req.CustomerID <= 0 {
		return nil, ErrCustomerNotFound
	}
	if err := ValidateLines(req.Lines); err != nil {
		return nil, err
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		existing, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}

		ok, err := repo.CustomerExists(ctx, req.CustomerID)
		if err != nil {
			return fmt.Errorf("verify customer: %w", err)
		}
		if !ok {
			return ErrCustomerNotFound
		}

		ledger := repo.Ledger()
		ref := inventory.Ref{Module: RefModule, ID: id}
		for _, line := range existing.Lines {
			if err := ledger.Credit(ctx, line.ProductID, line.Qty, ref); err != nil {
				return fmt.Errorf("reverse line: %w", err)
			}
		}
		if err := repo.DeleteLines(ctx, id); err != nil {
			return fmt.Errorf("delete lines: %w", err)
		}

		if err := repo.UpdateCustomer(ctx, id, req.CustomerID); err != nil {
			return fmt.Errorf("update customer: %w", err)
		}

		if err := s.applyLines(ctx, repo, id, req.Lines); err != nil {
			return err
		}

		if _, err := repo.UpdateTotal(ctx, id); err != nil {
			return fmt.Errorf("recompute total: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.bump(ctx)
	return s.repo.Get(ctx, id)
}

// Delete cancels a sale, crediting every line's quantity back to stock. The
// header is kept as CANCELLED for history; a second delete sees no active
// sale and reports not found without touching stock again.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		existing, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}

		ledger := repo.Ledger()
		ref := inventory.Ref{Module: RefModule, ID: id}
		for _, line := range existing.Lines {
			if err := ledger.Credit(ctx, line.ProductID, line.Qty, ref); err != nil {
				return fmt.Errorf("reverse line: %w", err)
			}
		}
		return repo.MarkCancelled(ctx, id)
	})
	if err != nil {
		return err
	}

	s.bump(ctx)
	return nil
}

// Stats aggregates active sales over the range. When the range is absent it
// defaults to the last 30 days.
func (s *Service) Stats(ctx context.Context, from, to *time.Time) (Stats, error) {
	end := time.Now()
	if to != nil {
		end = *to
	}
	start := end.AddDate(0, 0, -30)
	if from != nil {
		start = *from
	}
	return s.repo.Stats(ctx, start, end)
}

func (s *Service) applyLines(ctx context.Context, repo Repository, saleID int64, lines []LineRequest) error {
	ledger := repo.Ledger()
	ref := inventory.Ref{Module: RefModule, ID: saleID}
	for i, lineReq := range lines {
		price, err := repo.SnapshotPrice(ctx, lineReq.ProductID)
		if err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		if err := ledger.ReserveAndDebit(ctx, lineReq.ProductID, lineReq.Qty, ref); err != nil {
			return err
		}
		line := SaleLine{
			SaleID:    saleID,
			ProductID: lineReq.ProductID,
			Qty:       lineReq.Qty,
			UnitPrice: price,
		}
		if _, err := repo.InsertLine(ctx, line); err != nil {
			return fmt.Errorf("insert line %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *Service) bump(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Bump(ctx)
	}
}
