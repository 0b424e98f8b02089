package customers

import "time"

// Customer represents a registered customer.
type Customer struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Phone     *string    `json:"phone,omitempty"`
	Email     *string    `json:"email,omitempty"`
	Address   *string    `json:"address,omitempty"`
	City      *string    `json:"city,omitempty"`
	State     *string    `json:"state,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CustomerRequest is the payload for creating or updating a customer.
type CustomerRequest struct {
	Name      string     `json:"name" validate:"required"`
	Phone     *string    `json:"phone"`
	Email     *string    `json:"email" validate:"omitempty,email"`
	Address   *string    `json:"address"`
	City      *string    `json:"city"`
	State     *string    `json:"state" validate:"omitempty,len=2"`
	BirthDate *time.Time `json:"birth_date"`
}
