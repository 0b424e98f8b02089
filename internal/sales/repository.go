package sales

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

// Repository persists sales. WithTx yields a transaction-scoped Repository
// whose Ledger shares the same transaction, so stock debits and line inserts
// commit or roll back together.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Ledger() inventory.Ledger
	CustomerExists(ctx context.Context, customerID int64) (bool, error)
	SnapshotPrice(ctx context.Context, productID int64) (float64, error)
	Insert(ctx context.Context, customerID int64) (int64, error)
	Get(ctx context.Context, id int64) (*Sale, error)
	List(ctx context.Context, req ListSalesRequest) ([]SaleWithCustomer, int, error)
	UpdateCustomer(ctx context.Context, saleID, customerID int64) error
	InsertLine(ctx context.Context, line SaleLine) (int64, error)
	DeleteLines(ctx context.Context, saleID int64) error
	GetLines(ctx context.Context, saleID int64) ([]SaleLine, error)
	UpdateTotal(ctx context.Context, saleID int64) (float64, error)
	MarkCancelled(ctx context.Context, saleID int64) error
	Stats(ctx context.Context, from, to time.Time) (Stats, error)
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

func (r *repository) CustomerExists(ctx context.Context, customerID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, customerID).Scan(&exists)
	return exists, err
}

// SnapshotPrice reads the product's current sale price. The value is stored
// on the line and immune to later price changes.
func (r *repository) SnapshotPrice(ctx context.Context, productID int64) (float64, error) {
	var price float64
	err := r.db.QueryRow(ctx, `SELECT sale_price FROM products WHERE id = $1`, productID).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, inventory.ErrProductNotFound
		}
		return 0, err
	}
	return price, nil
}

func (r *repository) Insert(ctx context.Context, customerID int64) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO sales (customer_id, status, total, sale_date)
		VALUES ($1, $2, 0, NOW())
		RETURNING id`, customerID, string(SaleStatusActive)).Scan(&id)
	return id, err
}

func (r *repository) Get(ctx context.Context, id int64) (*Sale, error) {
	var s Sale
	var status string
	err := r.db.QueryRow(ctx, `
		SELECT id, customer_id, status, total, sale_date
		FROM sales
		WHERE id = $1 AND status = $2`, id, string(SaleStatusActive)).
		Scan(&s.ID, &s.CustomerID, &status, &s.Total, &s.SaleDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.Status = SaleStatus(status)

	lines, err := r.GetLines(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Lines = lines
	return &s, nil
}

func (r *repository) List(ctx context.Context, req ListSalesRequest) ([]SaleWithCustomer, int, error) {
	conditions := []string{"s.status = $1"}
	args := []interface{}{string(SaleStatusActive)}
	argPos := 2

	if req.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(c.name ILIKE $%d OR s.id::text = $%d)", argPos, argPos+1))
		args = append(args, "%"+req.Search+"%", req.Search)
		argPos += 2
	}
	if req.DateFrom != nil && req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("s.sale_date::date BETWEEN $%d AND $%d", argPos, argPos+1))
		args = append(args, *req.DateFrom, *req.DateTo)
		argPos += 2
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM sales s
		JOIN customers c ON s.customer_id = c.id
		%s`, whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT s.id, s.customer_id, c.name, s.status, s.total, s.sale_date
		FROM sales s
		JOIN customers c ON s.customer_id = c.id
		%s
		ORDER BY s.sale_date DESC, s.id DESC
		LIMIT $%d OFFSET $%d`, whereClause, argPos, argPos+1)

	perPage := req.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sales []SaleWithCustomer
	for rows.Next() {
		var s SaleWithCustomer
		var status string
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.CustomerName, &status, &s.Total, &s.SaleDate); err != nil {
			return nil, 0, err
		}
		s.Status = SaleStatus(status)
		sales = append(sales, s)
	}
	return sales, total, rows.Err()
}

func (r *repository) UpdateCustomer(ctx context.Context, saleID, customerID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE sales SET customer_id = $1 WHERE id = $2`, customerID, saleID)
	return err
}

func (r *repository) InsertLine(ctx context.Context, line SaleLine) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO sale_lines (sale_id, product_id, qty, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, line.SaleID, line.ProductID, line.Qty, line.UnitPrice).Scan(&id)
	return id, err
}

func (r *repository) DeleteLines(ctx context.Context, saleID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sale_lines WHERE sale_id = $1`, saleID)
	return err
}

func (r *repository) GetLines(ctx context.Context, saleID int64) ([]SaleLine, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, sale_id, product_id, qty, unit_price
		FROM sale_lines
		WHERE sale_id = $1
		ORDER BY id`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []SaleLine
	for rows.Next() {
		var l SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.Qty, &l.UnitPrice); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// UpdateTotal recomputes the sale total from its lines and returns it.
func (r *repository) UpdateTotal(ctx context.Context, saleID int64) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx, `
		UPDATE sales
		SET total = COALESCE((SELECT SUM(qty * unit_price) FROM sale_lines WHERE sale_id = $1), 0)
		WHERE id = $1
		RETURNING total`, saleID).Scan(&total)
	return total, err
}

func (r *repository) MarkCancelled(ctx context.Context, saleID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE sales SET status = $1 WHERE id = $2`, string(SaleStatusCancelled), saleID)
	return err
}

func (r *repository) Stats(ctx context.Context, from, to time.Time) (Stats, error) {
	var stats Stats
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total), 0)
		FROM sales
		WHERE status = $1 AND sale_date::date BETWEEN $2 AND $3`,
		string(SaleStatusActive), from, to).Scan(&stats.Count, &stats.Revenue)
	if err != nil {
		return Stats{}, err
	}
	if stats.Count > 0 {
		stats.AverageTicket = stats.Revenue / float64(stats.Count)
	}
	return stats, nil
}
