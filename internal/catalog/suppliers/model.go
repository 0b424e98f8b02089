package suppliers

import "time"

// Supplier represents a product supplier.
type Supplier struct {
	ID        int64     `json:"id"`
	TradeName string    `json:"trade_name"`
	LegalName *string   `json:"legal_name,omitempty"`
	CNPJ      *string   `json:"cnpj,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	City      *string   `json:"city,omitempty"`
	State     *string   `json:"state,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SupplierRequest is the payload for creating or updating a supplier.
type SupplierRequest struct {
	TradeName string  `json:"trade_name" validate:"required"`
	LegalName *string `json:"legal_name"`
	CNPJ      *string `json:"cnpj"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone"`
	City      *string `json:"city"`
	State     *string `json:"state" validate:"omitempty,len=2"`
}
