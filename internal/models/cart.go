package models

import "time"

// Cart is ephemeral pre-order state, one per customer. It is consumed inside
// the order-creation transaction and never outlives a successful checkout.
type Cart struct {
	ID         uint       `gorm:"primaryKey" json:"cart_id"`
	CustomerID uint       `gorm:"uniqueIndex" json:"customer_id"`
	Items      []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt  time.Time  `json:"created_at"`
}

type CartItem struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	CartID    uint  `gorm:"index" json:"cart_id"`
	ProductID uint  `json:"product_id"`
	SizeID    *uint `json:"size_id,omitempty"`
	Quantity  int   `json:"quantity"`
}
