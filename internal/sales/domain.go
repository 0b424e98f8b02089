package sales

import (
	"errors"
	"time"
)

// SaleStatus enumerates sale lifecycle states.
type SaleStatus string

const (
	// SaleStatusActive marks a committed, listable sale.
	SaleStatusActive SaleStatus = "ACTIVE"
	// SaleStatusCancelled marks a reversed sale kept for history.
	SaleStatusCancelled SaleStatus = "CANCELLED"
)

// Sale is the aggregate root: header plus ordered line items. Total is always
// derived from the lines, never authored by a caller.
type Sale struct {
	ID         int64      `json:"id"`
	CustomerID int64      `json:"customer_id"`
	Status     SaleStatus `json:"status"`
	Total      float64    `json:"total"`
	SaleDate   time.Time  `json:"sale_date"`
	Lines      []SaleLine `json:"lines"`
}

// SaleLine is one product-quantity-price entry within a sale. UnitPrice is
// captured from the product at insertion time and never recomputed.
type SaleLine struct {
	ID        int64   `json:"id"`
	SaleID    int64   `json:"sale_id"`
	ProductID int64   `json:"product_id"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
}

// SaleWithCustomer is the listing projection joined with the customer name.
type SaleWithCustomer struct {
	ID           int64      `json:"id"`
	CustomerID   int64      `json:"customer_id"`
	CustomerName string     `json:"customer_name"`
	Status       SaleStatus `json:"status"`
	Total        float64    `json:"total"`
	SaleDate     time.Time  `json:"sale_date"`
}

// LineRequest is one requested line on create or edit.
type LineRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Qty       int   `json:"qty" validate:"required,gt=0"`
}

// CreateSaleRequest is the payload for creating a sale.
type CreateSaleRequest struct {
	CustomerID int64         `json:"customer_id" validate:"required,gt=0"`
	Lines      []LineRequest `json:"lines" validate:"required,min=1,dive"`
}

// UpdateSaleRequest replaces the customer and the full line set of a sale.
type UpdateSaleRequest struct {
	CustomerID int64         `json:"customer_id" validate:"required,gt=0"`
	Lines      []LineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ListSalesRequest carries listing filters. Search matches the customer name
// as a case-insensitive substring or the sale id exactly. The date range is
// inclusive on both ends.
type ListSalesRequest struct {
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PerPage  int
}

// Stats aggregates active sales over a date range.
type Stats struct {
	Count         int     `json:"count"`
	Revenue       float64 `json:"revenue"`
	AverageTicket float64 `json:"average_ticket"`
}

var (
	// ErrNotFound indicates the sale does not exist or was cancelled.
	ErrNotFound = errors.New("sales: sale not found")
	// ErrCustomerNotFound indicates the referenced customer does not exist.
	ErrCustomerNotFound = errors.New("sales: customer not found")
	// ErrEmptyLines indicates a create or edit with no line items.
	ErrEmptyLines = errors.New("sales: at least one line item is required")
	// ErrInvalidQuantity indicates a line with a non-positive quantity.
	ErrInvalidQuantity = errors.New("sales: line quantity must be positive")
)
