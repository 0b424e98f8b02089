package reports

import "time"

// MainStats backs the dashboard stat cards.
type MainStats struct {
	TotalProducts  int64   `json:"total_products"`
	TotalCustomers int64   `json:"total_customers"`
	TotalSales     int64   `json:"total_sales"`
	TotalRevenue   float64 `json:"total_revenue"`
}

// Stock statuses reported for critical products.
const (
	StockStatusCritical   = "CRITICAL"
	StockStatusOutOfStock = "OUT_OF_STOCK"
)

// CriticalProduct is a product at or below its minimum stock threshold.
type CriticalProduct struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	StockQty  int    `json:"stock_qty"`
	MinQty    int    `json:"min_qty"`
	Status    string `json:"status"`
}

// TopProduct is one of the best selling products by quantity.
type TopProduct struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	TotalSold int64  `json:"total_sold"`
}

// BirthdayCustomer is a customer whose birthday falls within the lookahead
// window.
type BirthdayCustomer struct {
	CustomerID   int64     `json:"customer_id"`
	Name         string    `json:"name"`
	BirthDate    time.Time `json:"birth_date"`
	NextBirthday time.Time `json:"next_birthday"`
	Email        *string   `json:"email,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
}

// RecentSale is a row of the recent sales dashboard panel.
type RecentSale struct {
	SaleID       int64     `json:"sale_id"`
	CustomerName string    `json:"customer_name"`
	Total        float64   `json:"total"`
	SaleDate     time.Time `json:"sale_date"`
}
