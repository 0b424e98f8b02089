package inventory

import (
	"errors"
	"fmt"
	"time"
)

// MovementDirection enumerates stock movement directions.
type MovementDirection string

const (
	// MovementIn represents stock entering inventory (returns, reversals).
	MovementIn MovementDirection = "IN"
	// MovementOut represents stock leaving inventory (sales).
	MovementOut MovementDirection = "OUT"
)

// Movement is an append-only audit record of a single stock mutation.
type Movement struct {
	ID        int64             `json:"id"`
	Code      string            `json:"code"`
	ProductID int64             `json:"product_id"`
	Direction MovementDirection `json:"direction"`
	Qty       int               `json:"qty"`
	RefModule string            `json:"ref_module"`
	RefID     int64             `json:"ref_id"`
	CreatedAt time.Time         `json:"created_at"`
}

// Ref identifies the business document that caused a movement.
type Ref struct {
	Module string
	ID     int64
}

// ErrProductNotFound indicates a debit or credit against an unknown product.
var ErrProductNotFound = errors.New("inventory: product not found")

// ErrInvalidQuantity indicates a non-positive movement quantity.
var ErrInvalidQuantity = errors.New("inventory: quantity must be positive")

// InsufficientStockError reports a debit larger than the stock on hand. The
// available quantity is carried so callers can tell the user what is left.
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("inventory: insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
