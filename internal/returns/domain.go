package returns

import (
	"errors"
	"fmt"
	"time"
)

// Return is an append-only record reducing a sale line's effective quantity.
// Once created it is never mutated or deleted. The sale, product and customer
// are snapshotted at acceptance time so the record survives later sale edits
// that delete and reinsert lines.
type Return struct {
	ID           int64     `json:"id"`
	SaleLineID   int64     `json:"sale_line_id"`
	SaleID       int64     `json:"sale_id"`
	ProductID    int64     `json:"product_id"`
	ProductName  string    `json:"product_name"`
	CustomerName string    `json:"customer_name"`
	Qty          int       `json:"qty"`
	Reason       string    `json:"reason"`
	Reusable     bool      `json:"reusable"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReturnDetail is the listing projection. SaleLineID is nil when a sale edit
// has since replaced the original line; the snapshot fields still identify
// what was returned.
type ReturnDetail struct {
	ID           int64     `json:"id"`
	SaleLineID   *int64    `json:"sale_line_id,omitempty"`
	SaleID       int64     `json:"sale_id"`
	CustomerName string    `json:"customer_name"`
	ProductName  string    `json:"product_name"`
	Qty          int       `json:"qty"`
	Reason       string    `json:"reason"`
	Reusable     bool      `json:"reusable"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateReturnRequest is the payload for recording a return.
type CreateReturnRequest struct {
	SaleLineID int64  `json:"sale_line_id" validate:"required,gt=0"`
	Qty        int    `json:"qty" validate:"required,gt=0"`
	Reason     string `json:"reason"`
	Reusable   bool   `json:"reusable"`
}

// ReusableFilter narrows listings by the reusable flag.
type ReusableFilter string

const (
	// FilterAll lists every return.
	FilterAll ReusableFilter = "ALL"
	// FilterOnlyReusable lists returns that re-entered inventory.
	FilterOnlyReusable ReusableFilter = "ONLY_REUSABLE"
	// FilterOnlyNonReusable lists scrapped returns.
	FilterOnlyNonReusable ReusableFilter = "ONLY_NON_REUSABLE"
)

// ListFilter carries listing filters for returns.
type ListFilter struct {
	Search   string
	Reusable ReusableFilter
}

var (
	// ErrLineNotFound indicates the referenced sale line does not exist.
	ErrLineNotFound = errors.New("returns: sale line not found")
	// ErrInvalidQuantity indicates a non-positive return quantity.
	ErrInvalidQuantity = errors.New("returns: quantity must be positive")
)

// ExcessReturnError reports a return larger than the line's remaining
// quantity. Remaining is carried so the caller can correct the input.
type ExcessReturnError struct {
	SaleLineID int64
	Requested  int
	Remaining  int
}

func (e *ExcessReturnError) Error() string {
	return fmt.Sprintf("returns: quantity %d exceeds remaining %d on sale line %d",
		e.Requested, e.Remaining, e.SaleLineID)
}
