package reconcile

import (
	"testing"

	"shopduy_back_end/internal/models"
	"shopduy_back_end/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore mimics the conditional-update semantics of the SQL store.
type memStore struct {
	orderStates    map[uint]models.OrderState
	paymentStatues map[uint]models.PaymentStatus
}

func newMemStore() *memStore {
	return &memStore{
		orderStates:    make(map[uint]models.OrderState),
		paymentStatues: make(map[uint]models.PaymentStatus),
	}
}

func (m *memStore) add(orderID uint, state models.OrderState, status models.PaymentStatus) {
	m.orderStates[orderID] = state
	m.paymentStatues[orderID] = status
}

func (m *memStore) CompletePayment(orderID uint) (bool, error) {
	if m.paymentStatues[orderID] == models.PaymentPending {
		m.paymentStatues[orderID] = models.PaymentCompleted
		return true, nil
	}
	return false, nil
}

func (m *memStore) FailPayment(orderID uint) (bool, error) {
	if m.paymentStatues[orderID] == models.PaymentPending {
		m.paymentStatues[orderID] = models.PaymentFailed
		return true, nil
	}
	return false, nil
}

func (m *memStore) AdvanceOrder(orderID uint, from, to models.OrderState) (bool, error) {
	if m.orderStates[orderID] == from {
		m.orderStates[orderID] = to
		return true, nil
	}
	return false, nil
}

func (m *memStore) OrderState(orderID uint) (models.OrderState, error) {
	state, ok := m.orderStates[orderID]
	if !ok {
		return "", store.ErrOrderNotFound
	}
	return state, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestApplyPaid(t *testing.T) {
	st := newMemStore()
	st.add(1, models.OrderPending, models.PaymentPending)
	r := New(st, testLogger())

	result, err := r.Apply(1, OutcomePaid)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, models.OrderProcessing, st.orderStates[1])
	assert.Equal(t, models.PaymentCompleted, st.paymentStatues[1])
}

func TestApplyPaidIsIdempotent(t *testing.T) {
	st := newMemStore()
	st.add(1, models.OrderPending, models.PaymentPending)
	r := New(st, testLogger())

	first, err := r.Apply(1, OutcomePaid)
	require.NoError(t, err)
	require.True(t, first.Applied)

	second, err := r.Apply(1, OutcomePaid)
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.True(t, second.AlreadyReconciled)
	assert.False(t, second.Anomaly)
	assert.Equal(t, models.OrderProcessing, st.orderStates[1])
	assert.Equal(t, models.PaymentCompleted, st.paymentStatues[1])
}

func TestApplyCancelled(t *testing.T) {
	st := newMemStore()
	st.add(2, models.OrderPending, models.PaymentPending)
	r := New(st, testLogger())

	result, err := r.Apply(2, OutcomeCancelled)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, models.OrderCancelled, st.orderStates[2])
	assert.Equal(t, models.PaymentFailed, st.paymentStatues[2])
}

func TestCancelAfterPaidIsRefused(t *testing.T) {
	st := newMemStore()
	st.add(3, models.OrderPending, models.PaymentPending)
	r := New(st, testLogger())

	_, err := r.Apply(3, OutcomePaid)
	require.NoError(t, err)

	// A late CANCELLED report must not regress a paid order.
	result, err := r.Apply(3, OutcomeCancelled)
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.True(t, result.Anomaly)
	assert.Equal(t, models.OrderProcessing, st.orderStates[3])
	assert.Equal(t, models.PaymentCompleted, st.paymentStatues[3])
}

func TestPaidAfterCancelledIsRefused(t *testing.T) {
	st := newMemStore()
	st.add(4, models.OrderPending, models.PaymentPending)
	r := New(st, testLogger())

	_, err := r.Apply(4, OutcomeCancelled)
	require.NoError(t, err)

	result, err := r.Apply(4, OutcomePaid)
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.True(t, result.Anomaly)
	assert.Equal(t, models.OrderCancelled, st.orderStates[4])
	assert.Equal(t, models.PaymentFailed, st.paymentStatues[4])
}

func TestPaidOnShippedOrderIsDuplicate(t *testing.T) {
	st := newMemStore()
	st.add(5, models.OrderShipped, models.PaymentCompleted)
	r := New(st, testLogger())

	// The order moved on since the payment settled; a replayed PAID
	// signal is a duplicate, not an anomaly.
	result, err := r.Apply(5, OutcomePaid)
	require.NoError(t, err)
	assert.True(t, result.AlreadyReconciled)
	assert.False(t, result.Anomaly)
	assert.Equal(t, models.OrderShipped, st.orderStates[5])
}

func TestApplyUnknownOrder(t *testing.T) {
	r := New(newMemStore(), testLogger())
	_, err := r.Apply(99, OutcomePaid)
	assert.Error(t, err)
}

func TestApplyUnknownOutcome(t *testing.T) {
	r := New(newMemStore(), testLogger())
	_, err := r.Apply(1, Outcome("EXPLODED"))
	assert.Error(t, err)
}
