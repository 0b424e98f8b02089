package reports

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository runs the read-only dashboard aggregates.
type Repository interface {
	MainStats(ctx context.Context) (MainStats, error)
	CriticalProducts(ctx context.Context) ([]CriticalProduct, error)
	TopProducts(ctx context.Context) ([]TopProduct, error)
	UpcomingBirthdays(ctx context.Context) ([]BirthdayCustomer, error)
	RecentSales(ctx context.Context) ([]RecentSale, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) MainStats(ctx context.Context) (MainStats, error) {
	var stats MainStats
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM customers),
			(SELECT COUNT(*) FROM sales WHERE status = 'ACTIVE'),
			(SELECT COALESCE(SUM(total), 0) FROM sales WHERE status = 'ACTIVE')`).
		Scan(&stats.TotalProducts, &stats.TotalCustomers, &stats.TotalSales, &stats.TotalRevenue)
	return stats, err
}

func (r *repository) CriticalProducts(ctx context.Context) ([]CriticalProduct, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, stock_qty, min_qty
		FROM products
		WHERE stock_qty = 0 OR stock_qty <= min_qty
		ORDER BY stock_qty ASC
		LIMIT 10`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []CriticalProduct
	for rows.Next() {
		var p CriticalProduct
		if err := rows.Scan(&p.ProductID, &p.Name, &p.StockQty, &p.MinQty); err != nil {
			return nil, err
		}
		p.Status = StockStatusCritical
		if p.StockQty == 0 {
			p.Status = StockStatusOutOfStock
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *repository) TopProducts(ctx context.Context) ([]TopProduct, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.name, COALESCE(SUM(l.qty), 0) AS total_sold
		FROM sale_lines l
		JOIN sales s ON s.id = l.sale_id AND s.status = 'ACTIVE'
		JOIN products p ON p.id = l.product_id
		GROUP BY p.id, p.name
		ORDER BY total_sold DESC
		LIMIT 5`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []TopProduct
	for rows.Next() {
		var p TopProduct
		if err := rows.Scan(&p.ProductID, &p.Name, &p.TotalSold); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *repository) UpcomingBirthdays(ctx context.Context) ([]BirthdayCustomer, error) {
	rows, err := r.db.Query(ctx, `
		WITH anniversaries AS (
			SELECT id, name, birth_date, email, phone,
				(birth_date + make_interval(years => date_part('year', age(current_date, birth_date))::int))::date AS anniv
			FROM customers
			WHERE birth_date IS NOT NULL
		)
		SELECT id, name, birth_date, email, phone,
			CASE WHEN anniv < current_date THEN (anniv + interval '1 year')::date ELSE anniv END AS next_birthday
		FROM anniversaries
		WHERE CASE WHEN anniv < current_date THEN (anniv + interval '1 year')::date ELSE anniv END
			BETWEEN current_date AND current_date + 7
		ORDER BY next_birthday ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []BirthdayCustomer
	for rows.Next() {
		var c BirthdayCustomer
		if err := rows.Scan(&c.CustomerID, &c.Name, &c.BirthDate, &c.Email, &c.Phone, &c.NextBirthday); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *repository) RecentSales(ctx context.Context) ([]RecentSale, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.id, c.name, s.total, s.sale_date
		FROM sales s
		JOIN customers c ON c.id = s.customer_id
		WHERE s.status = 'ACTIVE'
		ORDER BY s.sale_date DESC, s.id DESC
		LIMIT 5`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []RecentSale
	for rows.Next() {
		var s RecentSale
		if err := rows.Scan(&s.SaleID, &s.CustomerName, &s.Total, &s.SaleDate); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
