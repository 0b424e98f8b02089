package products

import "time"

// Product represents a catalog product with its stock thresholds.
type Product struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Description  *string    `json:"description,omitempty"`
	SalePrice    float64    `json:"sale_price"`
	StockQty     int        `json:"stock_qty"`
	MinQty       int        `json:"min_qty"`
	MaxQty       int        `json:"max_qty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Category     string     `json:"category"`
	SupplierID   *int64     `json:"supplier_id,omitempty"`
	SupplierName *string    `json:"supplier_name,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateProductRequest is the payload for creating a product.
type CreateProductRequest struct {
	Name        string     `json:"name" validate:"required"`
	Description *string    `json:"description"`
	SalePrice   float64    `json:"sale_price" validate:"gte=0"`
	StockQty    int        `json:"stock_qty" validate:"gte=0"`
	MinQty      int        `json:"min_qty" validate:"gte=0"`
	MaxQty      int        `json:"max_qty" validate:"gte=0"`
	ExpiresAt   *time.Time `json:"expires_at"`
	Category    string     `json:"category"`
	SupplierID  *int64     `json:"supplier_id"`
}

// UpdateProductRequest is the payload for updating a product.
type UpdateProductRequest struct {
	Name        string     `json:"name" validate:"required"`
	Description *string    `json:"description"`
	SalePrice   float64    `json:"sale_price" validate:"gte=0"`
	StockQty    int        `json:"stock_qty" validate:"gte=0"`
	MinQty      int        `json:"min_qty" validate:"gte=0"`
	MaxQty      int        `json:"max_qty" validate:"gte=0"`
	ExpiresAt   *time.Time `json:"expires_at"`
	Category    string     `json:"category"`
	SupplierID  *int64     `json:"supplier_id"`
}

// ListFilters narrows product listings.
type ListFilters struct {
	Search   string
	Category string
}
