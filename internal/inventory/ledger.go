package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx. Ledger operations that
// mutate stock must run on the transaction of the owning sale or return so
// the whole mutation commits or rolls back as one unit.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Ledger owns product stock on hand. Debits serialize concurrent writers with
// a row lock so two sales can never both read the same stock value.
type Ledger interface {
	ReserveAndDebit(ctx context.Context, productID int64, qty int, ref Ref) error
	Credit(ctx context.Context, productID int64, qty int, ref Ref) error
	CurrentStock(ctx context.Context, productID int64) (int, error)
}

type ledger struct {
	db DBTX
}

// NewLedger builds a Ledger bound to db, which may be a pool for reads or a
// transaction for debit/credit sequences.
func NewLedger(db DBTX) Ledger {
	return &ledger{db: db}
}

func (l *ledger) ReserveAndDebit(ctx context.Context, productID int64, qty int, ref Ref) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	var stock int
	err := l.db.QueryRow(ctx, `SELECT stock_qty FROM products WHERE id = $1 FOR UPDATE`, productID).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProductNotFound
		}
		return err
	}

	if qty > stock {
		return &InsufficientStockError{ProductID: productID, Requested: qty, Available: stock}
	}

	_, err = l.db.Exec(ctx, `UPDATE products SET stock_qty = stock_qty - $1, updated_at = NOW() WHERE id = $2`, qty, productID)
	if err != nil {
		return err
	}

	return l.recordMovement(ctx, productID, MovementOut, qty, ref)
}

func (l *ledger) Credit(ctx context.Context, productID int64, qty int, ref Ref) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	tag, err := l.db.Exec(ctx, `UPDATE products SET stock_qty = stock_qty + $1, updated_at = NOW() WHERE id = $2`, qty, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return l.recordMovement(ctx, productID, MovementIn, qty, ref)
}

func (l *ledger) CurrentStock(ctx context.Context, productID int64) (int, error) {
	var stock int
	err := l.db.QueryRow(ctx, `SELECT stock_qty FROM products WHERE id = $1`, productID).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrProductNotFound
		}
		return 0, err
	}
	return stock, nil
}

func (l *ledger) recordMovement(ctx context.Context, productID int64, direction MovementDirection, qty int, ref Ref) error {
	_, err := l.db.Exec(ctx, `
		INSERT INTO stock_movements (code, product_id, direction, qty, ref_module, ref_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.NewString(), productID, string(direction), qty, ref.Module, ref.ID, time.Now().UTC())
	return err
}

// ListMovements returns the movement trail for a product, newest first.
func ListMovements(ctx context.Context, db DBTX, productID int64, limit int) ([]Movement, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(ctx, `
		SELECT id, code, product_id, direction, qty, ref_module, ref_id, created_at
		FROM stock_movements
		WHERE product_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, productID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []Movement
	for rows.Next() {
		var m Movement
		var direction string
		if err := rows.Scan(&m.ID, &m.Code, &m.ProductID, &direction, &m.Qty, &m.RefModule, &m.RefID, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Direction = MovementDirection(direction)
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
