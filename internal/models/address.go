package models

import "time"

// Address is a shipping address owned by exactly one customer. Ownership is
// checked at checkout before the address may be attached to an order.
type Address struct {
	ID         uint      `gorm:"primaryKey" json:"address_id"`
	CustomerID uint      `gorm:"index" json:"customer_id"`
	Street     string    `gorm:"size:255" json:"street"`
	City       string    `gorm:"size:64" json:"city"`
	Province   string    `gorm:"size:64" json:"province"`
	Phone      string    `gorm:"size:32" json:"phone"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
}
