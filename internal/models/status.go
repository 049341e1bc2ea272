package models

import "fmt"

// OrderState is the lifecycle status of an order.
type OrderState string

const (
	OrderPending    OrderState = "PENDING"
	OrderProcessing OrderState = "PROCESSING"
	OrderShipped    OrderState = "SHIPPED"
	OrderDelivered  OrderState = "DELIVERED"
	OrderCancelled  OrderState = "CANCELLED"
	OrderRefunded   OrderState = "REFUNDED"
)

// PaymentStatus is the status of a single payment attempt.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// PaymentMethod tags which processor a payment goes through.
type PaymentMethod string

const (
	MethodCreditCard   PaymentMethod = "CREDIT_CARD"
	MethodEWallet      PaymentMethod = "E_WALLET"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodCash         PaymentMethod = "CASH"
)

// orderTransitions is the closed transition table for order states.
// Anything not listed here is rejected; CANCELLED and REFUNDED have no
// outgoing edges, so a terminal order can never be resurrected.
var orderTransitions = map[OrderState][]OrderState{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled, OrderRefunded},
	OrderShipped:    {OrderDelivered, OrderRefunded},
	OrderDelivered:  {OrderRefunded},
	OrderCancelled:  {},
	OrderRefunded:   {},
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentCompleted, PaymentFailed},
	PaymentCompleted: {PaymentRefunded},
	PaymentFailed:    {},
	PaymentRefunded:  {},
}

// CanTransition reports whether an order may move from its current state
// to the requested one.
func (s OrderState) CanTransition(to OrderState) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the order state has no outgoing transitions.
func (s OrderState) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

func (s OrderState) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransition reports whether a payment may move from its current status
// to the requested one.
func (p PaymentStatus) CanTransition(to PaymentStatus) bool {
	for _, next := range paymentTransitions[p] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the payment status has no outgoing transitions.
func (p PaymentStatus) Terminal() bool {
	return len(paymentTransitions[p]) == 0
}

func (p PaymentStatus) Valid() bool {
	_, ok := paymentTransitions[p]
	return ok
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCreditCard, MethodEWallet, MethodBankTransfer, MethodCash:
		return true
	}
	return false
}

// ParseOrderState validates a raw status string coming from a request body.
func ParseOrderState(raw string) (OrderState, error) {
	s := OrderState(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown order state %q", raw)
	}
	return s, nil
}

// ParsePaymentStatus validates a raw payment status string.
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	p := PaymentStatus(raw)
	if !p.Valid() {
		return "", fmt.Errorf("unknown payment status %q", raw)
	}
	return p, nil
}
