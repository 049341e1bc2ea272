package reconcile

import (
	"fmt"

	"shopduy_back_end/internal/models"

	"github.com/sirupsen/logrus"
)

// Outcome is the signal a trigger (redirect or webhook) reports for an order.
type Outcome string

const (
	OutcomePaid      Outcome = "PAID"
	OutcomeCancelled Outcome = "CANCELLED"
)

// Store is the slice of the persistence layer the reconciler mutates through.
// Every method is a conditional write; false means the guard did not match.
type Store interface {
	CompletePayment(orderID uint) (bool, error)
	FailPayment(orderID uint) (bool, error)
	AdvanceOrder(orderID uint, from, to models.OrderState) (bool, error)
	OrderState(orderID uint) (models.OrderState, error)
}

// Result reports what a trigger invocation actually did.
type Result struct {
	// Applied is true when this invocation moved the order forward.
	Applied bool
	// AlreadyReconciled is true when another trigger got there first with
	// the same outcome; the invocation is a harmless duplicate.
	AlreadyReconciled bool
	// Anomaly is true when the outcome contradicts the order's current
	// state (e.g. a CANCELLED report for an order that is already paid).
	// The transition is refused and only logged.
	Anomaly bool
	State   models.OrderState
}

// Reconciler advances an order/payment pair toward a terminal status pair in
// response to redirect and webhook signals. Redirect-success, redirect-cancel
// and webhook deliveries for the same order run concurrently with no
// ordering; correctness rests entirely on the store's compare-and-set guards
// plus the refusal rule below.
type Reconciler struct {
	store  Store
	logger *logrus.Logger
}

func New(store Store, logger *logrus.Logger) *Reconciler {
	return &Reconciler{store: store, logger: logger}
}

// Apply moves the order to the status pair implied by the outcome:
//
//	PAID      → payment COMPLETED, order PROCESSING
//	CANCELLED → payment FAILED,    order CANCELLED
//
// Both writes are guarded on the current status, so duplicate deliveries
// converge. An outcome that contradicts an already-settled order (CANCELLED
// after PAID, or vice versa) is refused and surfaced as an anomaly instead
// of regressing the state.
func (r *Reconciler) Apply(orderID uint, outcome Outcome) (Result, error) {
	switch outcome {
	case OutcomePaid:
		return r.apply(orderID, outcome, r.store.CompletePayment, models.OrderProcessing)
	case OutcomeCancelled:
		return r.apply(orderID, outcome, r.store.FailPayment, models.OrderCancelled)
	default:
		return Result{}, fmt.Errorf("unknown outcome %q", outcome)
	}
}

func (r *Reconciler) apply(orderID uint, outcome Outcome, settlePayment func(uint) (bool, error), target models.OrderState) (Result, error) {
	paymentMoved, err := settlePayment(orderID)
	if err != nil {
		return Result{}, fmt.Errorf("settle payment for order %d: %w", orderID, err)
	}

	orderMoved, err := r.store.AdvanceOrder(orderID, models.OrderPending, target)
	if err != nil {
		return Result{}, fmt.Errorf("advance order %d: %w", orderID, err)
	}

	current, err := r.store.OrderState(orderID)
	if err != nil {
		return Result{}, err
	}

	if orderMoved {
		r.logger.WithFields(logrus.Fields{
			"order_id": orderID,
			"outcome":  outcome,
			"state":    current,
		}).Info("Order reconciled")
		return Result{Applied: true, State: current}, nil
	}

	// The guard did not fire. Either an identical signal won the race, or
	// the provider is contradicting settled state.
	if current == target {
		return Result{AlreadyReconciled: true, State: current}, nil
	}
	if outcome == OutcomePaid && consistentWithPaid(current) {
		return Result{AlreadyReconciled: true, State: current}, nil
	}

	r.logger.WithFields(logrus.Fields{
		"order_id":      orderID,
		"outcome":       outcome,
		"state":         current,
		"payment_moved": paymentMoved,
	}).Warn("Refusing to regress order state; outcome contradicts current state")
	return Result{Anomaly: true, State: current}, nil
}

// consistentWithPaid covers the states an order legitimately reaches after
// its payment completed; a late duplicate PAID signal for such an order is
// not an anomaly.
func consistentWithPaid(state models.OrderState) bool {
	switch state {
	case models.OrderProcessing, models.OrderShipped, models.OrderDelivered:
		return true
	}
	return false
}
