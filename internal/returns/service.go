package returns

import (
	"context"
	"fmt"

	"github.com/varejo-erp/varejo/internal/inventory"
)

// RefModule tags stock movements caused by returns.
const RefModule = "returns"

// ReportCache invalidates cached dashboard aggregates after mutations.
type ReportCache interface {
	Bump(ctx context.Context) error
}

// Service coordinates the return process. A sale line's remaining quantity is
// a one-directional ratchet: each accepted return shrinks it, and once it
// reaches zero further returns fail.
type Service struct {
	repo  Repository
	cache ReportCache
}

// NewService builds Service. cache may be nil.
func NewService(repo Repository, cache ReportCache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Create validates and records a return against a sale line of an active
// sale. The line's live quantity shrinks by the returned amount, the sale
// total is recomputed from the reduced lines, and reusable stock is credited
// back, all in one transaction. Lines of cancelled sales are rejected as not
// found: cancellation already credited their stock.
func (s *Service) Create(ctx context.Context, req CreateReturnRequest) (*Return, error) {
	if req.Qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	if req.SaleLineID <= 0 {
		return nil, ErrLineNotFound
	}

	var created Return
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		line, err := repo.GetLineForUpdate(ctx, req.SaleLineID)
		if err != nil {
			return err
		}

		if req.Qty > line.Qty {
			return &ExcessReturnError{
				SaleLineID: req.SaleLineID,
				Requested:  req.Qty,
				Remaining:  line.Qty,
			}
		}

		ret := Return{
			SaleLineID:   req.SaleLineID,
			SaleID:       line.SaleID,
			ProductID:    line.ProductID,
			ProductName:  line.ProductName,
			CustomerName: line.CustomerName,
			Qty:          req.Qty,
			Reason:       req.Reason,
			Reusable:     req.Reusable,
		}
		created, err = repo.Insert(ctx, ret)
		if err != nil {
			return fmt.Errorf("insert return: %w", err)
		}

		if err := repo.DecrementLineQty(ctx, req.SaleLineID, req.Qty); err != nil {
			return fmt.Errorf("decrement line: %w", err)
		}
		if err := repo.UpdateSaleTotal(ctx, line.SaleID); err != nil {
			return fmt.Errorf("recompute sale total: %w", err)
		}

		if req.Reusable {
			ref := inventory.Ref{Module: RefModule, ID: created.ID}
			if err := repo.Ledger().Credit(ctx, line.ProductID, req.Qty, ref); err != nil {
				return fmt.Errorf("credit stock: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Bump(ctx)
	}
	return &created, nil
}

// List returns details for display, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]ReturnDetail, error) {
	if filter.Reusable == "" {
		filter.Reusable = FilterAll
	}
	return s.repo.List(ctx, filter)
}
