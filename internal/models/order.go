package models

import "time"

// Order is a customer's purchase record. Its numeric primary key doubles as
// the orderCode sent to the bank-transfer processor, which only accepts
// numeric order references.
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"order_id"`
	CustomerID  uint        `gorm:"index" json:"customer_id"`
	AddressID   uint        `json:"address_id"`
	OrderDate   time.Time   `json:"order_date"`
	TotalAmount float64     `json:"total_amount"`
	State       OrderState  `gorm:"size:32;index" json:"order_state"`
	Items       []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Payment     *Payment    `json:"payment,omitempty"`
	Customer    *Customer   `json:"customer,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// OrderItem is a line captured at checkout. Price is copied from the product
// row at creation time so later price changes never alter historical orders.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index" json:"order_id"`
	ProductID uint    `json:"product_id"`
	SizeID    *uint   `json:"size_id,omitempty"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderSummary is the flattened row the admin dashboard table renders.
type OrderSummary struct {
	OrderID       uint          `json:"order_id"`
	OrderDate     time.Time     `json:"order_date"`
	TotalAmount   float64       `json:"total_amount"`
	State         OrderState    `json:"order_state"`
	CustomerName  string        `json:"customer_name"`
	CustomerEmail string        `json:"customer_email"`
	Method        PaymentMethod `json:"payment_method"`
	PaymentStatus PaymentStatus `json:"payment_status"`
}

// OrderStats aggregates order counts and revenue for the admin dashboard.
type OrderStats struct {
	TotalOrders  int                `json:"total_orders"`
	TotalRevenue float64            `json:"total_revenue"`
	ByState      map[OrderState]int `json:"by_state"`
}
