package models

import "time"

// Payment records one payment attempt against an order. Business logic
// assumes at most one payment per order whose status is not FAILED; the
// provider correlation fields stay empty for methods that do not use them.
type Payment struct {
	ID                  uint          `gorm:"primaryKey" json:"payment_id"`
	OrderID             uint          `gorm:"index" json:"order_id"`
	Method              PaymentMethod `gorm:"size:32" json:"payment_method"`
	Status              PaymentStatus `gorm:"size:32;index" json:"payment_status"`
	Amount              float64       `json:"payment_amount"`
	StripePaymentIntent string        `gorm:"size:64" json:"stripe_payment_intent,omitempty"`
	PayPalOrderID       string        `gorm:"size:64" json:"paypal_order_id,omitempty"`
	ProviderPaymentID   string        `gorm:"size:64" json:"provider_payment_id,omitempty"`
	CheckoutURL         string        `gorm:"size:512" json:"checkout_url,omitempty"`
	// QRCode holds the VietQR payload returned by the bank-transfer
	// processor, rendered to PNG on demand.
	QRCode    string    `gorm:"size:512" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
