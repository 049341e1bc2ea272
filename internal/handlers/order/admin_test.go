package order

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopduy_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func putStatus(t *testing.T, env *testEnv, path string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router(99, "admin").ServeHTTP(w, req)
	return w
}

func TestUpdateOrderStatus(t *testing.T) {
	env := newTestEnv()
	env.store.seedOrder(42, models.OrderProcessing, models.MethodCash, models.PaymentPending)
	env.store.customers[1] = &models.Customer{ID: 1, Name: "Nguyen Van A", Email: "a@example.com"}

	w := putStatus(t, env, "/api/orders/42/status", map[string]any{
		"order_state":    "SHIPPED",
		"payment_status": "PENDING",
	})
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, models.OrderShipped, env.store.orders[42].State)

	// The customer is notified in the background.
	select {
	case to := <-env.mailer.sent:
		assert.Equal(t, "a@example.com", to)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a status email")
	}
}

func TestUpdateOrderStatusOverridesProviderOutcome(t *testing.T) {
	env := newTestEnv()
	env.store.seedOrder(42, models.OrderProcessing, models.MethodBankTransfer, models.PaymentCompleted)
	env.store.customers[1] = &models.Customer{ID: 1, Email: "a@example.com"}

	// The admin's decision is an unconditional overwrite, unlike the
	// provider-driven reconciliation paths.
	w := putStatus(t, env, "/api/orders/42/status", map[string]any{
		"order_state":    "CANCELLED",
		"payment_status": "REFUNDED",
	})
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, models.OrderCancelled, env.store.orders[42].State)
	assert.Equal(t, models.PaymentRefunded, env.store.payments[42].Status)
}

func TestUpdateOrderStatusRejectsUnknownState(t *testing.T) {
	env := newTestEnv()
	env.store.seedOrder(42, models.OrderPending, models.MethodCash, models.PaymentPending)

	w := putStatus(t, env, "/api/orders/42/status", map[string]any{
		"order_state":    "TELEPORTED",
		"payment_status": "PENDING",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.OrderPending, env.store.orders[42].State)
}

func TestUpdateOrderStatusUnknownOrder(t *testing.T) {
	env := newTestEnv()

	w := putStatus(t, env, "/api/orders/999/status", map[string]any{
		"order_state":    "SHIPPED",
		"payment_status": "COMPLETED",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListOrdersReturnsOwnOrders(t *testing.T) {
	env := newTestEnv()
	env.store.seedOrder(1, models.OrderPending, models.MethodCash, models.PaymentPending)
	env.store.orders[2] = &models.Order{ID: 2, CustomerID: 5, State: models.OrderPending}

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	w := httptest.NewRecorder()
	env.router(1, "").ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Orders       []models.Order `json:"orders"`
		ManageOrders []any          `json:"manage_orders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Orders, 1)
	assert.Equal(t, uint(1), resp.Orders[0].ID)
	assert.Nil(t, resp.ManageOrders)
}

func TestListOrdersAdminGetsManageList(t *testing.T) {
	env := newTestEnv()
	env.store.seedOrder(1, models.OrderPending, models.MethodCash, models.PaymentPending)
	env.store.orders[2] = &models.Order{ID: 2, CustomerID: 5, State: models.OrderPending}

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	w := httptest.NewRecorder()
	env.router(1, "admin").ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Orders       []models.Order        `json:"orders"`
		ManageOrders []models.OrderSummary `json:"manage_orders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.ManageOrders, 2)
}
