package returns

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/varejo-erp/varejo/internal/inventory"
	"github.com/varejo-erp/varejo/internal/platform/db"
)

// LineState is a sale line as seen by the return process. Qty is the live
// remaining quantity: it already reflects every prior accepted return. The
// names are carried along so the return row can snapshot them.
type LineState struct {
	ID           int64
	SaleID       int64
	ProductID    int64
	Qty          int
	ProductName  string
	CustomerName string
}

// Repository persists returns. WithTx yields a transaction-scoped Repository
// sharing one transaction with its Ledger.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Ledger() inventory.Ledger
	GetLineForUpdate(ctx context.Context, saleLineID int64) (*LineState, error)
	Insert(ctx context.Context, ret Return) (Return, error)
	DecrementLineQty(ctx context.Context, saleLineID int64, qty int) error
	UpdateSaleTotal(ctx context.Context, saleID int64) error
	List(ctx context.Context, filter ListFilter) ([]ReturnDetail, error)
}

type repository struct {
	db   inventory.DBTX
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository over the pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		repoTx := &repository{db: tx, pool: r.pool}
		return fn(ctx, repoTx)
	})
}

func (r *repository) Ledger() inventory.Ledger {
	return inventory.NewLedger(r.db)
}

// GetLineForUpdate locks the sale line row so concurrent returns against the
// same line serialize on the remaining quantity. Lines of cancelled sales are
// invisible: their stock was already credited back by the cancellation, so a
// return against them would credit the same units twice.
func (r *repository) GetLineForUpdate(ctx context.Context, saleLineID int64) (*LineState, error) {
	var line LineState
	err := r.db.QueryRow(ctx, `
		SELECT sl.id, sl.sale_id, sl.product_id, sl.qty, p.name, c.name
		FROM sale_lines sl
		JOIN sales s ON s.id = sl.sale_id AND s.status = 'ACTIVE'
		JOIN products p ON p.id = sl.product_id
		JOIN customers c ON c.id = s.customer_id
		WHERE sl.id = $1
		FOR UPDATE OF sl`, saleLineID).
		Scan(&line.ID, &line.SaleID, &line.ProductID, &line.Qty, &line.ProductName, &line.CustomerName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLineNotFound
		}
		return nil, err
	}
	return &line, nil
}

func (r *repository) Insert(ctx context.Context, ret Return) (Return, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO returns (sale_line_id, sale_id, product_id, product_name, customer_name, qty, reason, reusable, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		ret.SaleLineID, ret.SaleID, ret.ProductID, ret.ProductName, ret.CustomerName,
		ret.Qty, ret.Reason, ret.Reusable, time.Now().UTC()).
		Scan(&ret.ID, &ret.CreatedAt)
	if err != nil {
		return Return{}, err
	}
	return ret, nil
}

func (r *repository) DecrementLineQty(ctx context.Context, saleLineID int64, qty int) error {
	_, err := r.db.Exec(ctx, `UPDATE sale_lines SET qty = qty - $1 WHERE id = $2`, qty, saleLineID)
	return err
}

func (r *repository) UpdateSaleTotal(ctx context.Context, saleID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE sales
		SET total = COALESCE((SELECT SUM(qty * unit_price) FROM sale_lines WHERE sale_id = $1), 0)
		WHERE id = $1`, saleID)
	return err
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]ReturnDetail, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	switch filter.Reusable {
	case FilterOnlyReusable:
		conditions = append(conditions, fmt.Sprintf("r.reusable = $%d", argPos))
		args = append(args, true)
		argPos++
	case FilterOnlyNonReusable:
		conditions = append(conditions, fmt.Sprintf("r.reusable = $%d", argPos))
		args = append(args, false)
		argPos++
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(r.customer_name ILIKE $%d OR r.product_name ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	// Listing reads the snapshot columns only. Joining back to sale_lines
	// would drop rows whose line was replaced by a later sale edit.
	query := fmt.Sprintf(`
		SELECT r.id, r.sale_line_id, r.sale_id, r.customer_name, r.product_name, r.qty, r.reason, r.reusable, r.created_at
		FROM returns r
		%s
		ORDER BY r.created_at DESC, r.id DESC`, whereClause)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []ReturnDetail
	for rows.Next() {
		var d ReturnDetail
		if err := rows.Scan(&d.ID, &d.SaleLineID, &d.SaleID, &d.CustomerName, &d.ProductName,
			&d.Qty, &d.Reason, &d.Reusable, &d.CreatedAt); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
