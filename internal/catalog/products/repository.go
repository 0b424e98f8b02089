package products

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound indicates the product does not exist.
	ErrNotFound = errors.New("products: product not found")
	// ErrReferenced indicates the product is referenced by sale lines and
	// cannot be deleted.
	ErrReferenced = errors.New("products: product has sales and cannot be deleted")
)

// Repository persists products.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, id int64, p Product) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const productColumns = `p.id, p.name, p.description, p.sale_price, p.stock_qty, p.min_qty, p.max_qty,
	p.expires_at, p.category, p.supplier_id, f.trade_name, p.created_at, p.updated_at`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		LEFT JOIN suppliers f ON p.supplier_id = f.id
		WHERE 1=1`, productColumns)
	args := []interface{}{}
	argPos := 1

	if filters.Search != "" {
		query += fmt.Sprintf(" AND p.name ILIKE $%d", argPos)
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}
	if filters.Category != "" {
		query += fmt.Sprintf(" AND p.category = $%d", argPos)
		args = append(args, filters.Category)
		argPos++
	}

	query += " ORDER BY p.name"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		LEFT JOIN suppliers f ON p.supplier_id = f.id
		WHERE p.id = $1`, productColumns)
	row := r.db.QueryRow(ctx, query, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, p Product) (Product, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx, `
		INSERT INTO products (name, description, sale_price, stock_qty, min_qty, max_qty, expires_at, category, supplier_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		p.Name, p.Description, p.SalePrice, p.StockQty, p.MinQty, p.MaxQty, p.ExpiresAt, p.Category, p.SupplierID, now, now).
		Scan(&p.ID)
	if err != nil {
		return Product{}, err
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

func (r *repository) Update(ctx context.Context, id int64, p Product) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products SET
			name = $1, description = $2, sale_price = $3, stock_qty = $4,
			min_qty = $5, max_qty = $6, expires_at = $7, category = $8,
			supplier_id = $9, updated_at = $10
		WHERE id = $11`,
		p.Name, p.Description, p.SalePrice, p.StockQty, p.MinQty, p.MaxQty,
		p.ExpiresAt, p.Category, p.SupplierID, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrReferenced
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.SalePrice, &p.StockQty, &p.MinQty, &p.MaxQty,
		&p.ExpiresAt, &p.Category, &p.SupplierID, &p.SupplierName, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
