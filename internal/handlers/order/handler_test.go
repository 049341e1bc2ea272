package order

import (
	"context"
	"encoding/json"
	"testing"

	"shopduy_back_end/internal/models"
	"shopduy_back_end/internal/payments"
	"shopduy_back_end/internal/reconcile"
	"shopduy_back_end/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const testChecksumKey = "test-checksum-key"

// fakeStore is an in-memory double mirroring the conditional-update
// semantics of the SQL store.
type fakeStore struct {
	customers    map[uint]*models.Customer
	addressOwner map[uint]uint
	cartItems    map[uint][]models.CartItem
	orders       map[uint]*models.Order
	payments     map[uint]*models.Payment
	nextOrderID  uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers:    make(map[uint]*models.Customer),
		addressOwner: make(map[uint]uint),
		cartItems:    make(map[uint][]models.CartItem),
		orders:       make(map[uint]*models.Order),
		payments:     make(map[uint]*models.Payment),
		nextOrderID:  0,
	}
}

func (f *fakeStore) seedOrder(orderID uint, state models.OrderState, method models.PaymentMethod, status models.PaymentStatus) {
	f.orders[orderID] = &models.Order{ID: orderID, CustomerID: 1, State: state, TotalAmount: 150000}
	f.payments[orderID] = &models.Payment{OrderID: orderID, Method: method, Status: status, Amount: 150000}
}

func (f *fakeStore) CustomerByID(id uint) (*models.Customer, error) {
	customer, ok := f.customers[id]
	if !ok {
		return nil, store.ErrOrderNotFound
	}
	return customer, nil
}

func (f *fakeStore) AddressOwnedBy(addressID, customerID uint) (bool, error) {
	return f.addressOwner[addressID] == customerID, nil
}

func (f *fakeStore) CreateOrderFromCart(customerID, addressID uint, method models.PaymentMethod, total float64) (*models.Order, error) {
	items := f.cartItems[customerID]
	if len(items) == 0 {
		return nil, store.ErrEmptyCart
	}

	f.nextOrderID++
	ord := &models.Order{
		ID:          f.nextOrderID,
		CustomerID:  customerID,
		AddressID:   addressID,
		TotalAmount: total,
		State:       models.OrderPending,
	}
	for _, item := range items {
		ord.Items = append(ord.Items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     75000,
		})
	}
	payment := &models.Payment{OrderID: ord.ID, Method: method, Status: models.PaymentPending, Amount: total}
	ord.Payment = payment

	f.orders[ord.ID] = ord
	f.payments[ord.ID] = payment
	delete(f.cartItems, customerID)
	return ord, nil
}

func (f *fakeStore) SavePayment(payment *models.Payment) error {
	f.payments[payment.OrderID] = payment
	return nil
}

func (f *fakeStore) CompensateDispatchFailure(orderID uint) error {
	f.payments[orderID].Status = models.PaymentFailed
	f.orders[orderID].State = models.OrderCancelled
	return nil
}

func (f *fakeStore) OrderByID(id uint) (*models.Order, error) {
	ord, ok := f.orders[id]
	if !ok {
		return nil, store.ErrOrderNotFound
	}
	ord.Payment = f.payments[id]
	return ord, nil
}

func (f *fakeStore) OrdersByCustomer(customerID uint) ([]models.Order, error) {
	var orders []models.Order
	for _, ord := range f.orders {
		if ord.CustomerID == customerID {
			orders = append(orders, *ord)
		}
	}
	return orders, nil
}

func (f *fakeStore) AllOrderSummaries() ([]models.OrderSummary, error) {
	var rows []models.OrderSummary
	for _, ord := range f.orders {
		rows = append(rows, models.OrderSummary{OrderID: ord.ID, State: ord.State})
	}
	return rows, nil
}

func (f *fakeStore) Stats() (*models.OrderStats, error) {
	stats := &models.OrderStats{ByState: make(map[models.OrderState]int)}
	for _, ord := range f.orders {
		stats.TotalOrders++
		stats.TotalRevenue += ord.TotalAmount
		stats.ByState[ord.State]++
	}
	return stats, nil
}

func (f *fakeStore) SetStatuses(orderID uint, state models.OrderState, paymentStatus models.PaymentStatus) error {
	ord, ok := f.orders[orderID]
	if !ok {
		return store.ErrOrderNotFound
	}
	ord.State = state
	if payment, ok := f.payments[orderID]; ok {
		payment.Status = paymentStatus
	}
	return nil
}

func (f *fakeStore) AttachProviderPaymentID(orderID uint, providerID string) error {
	if payment, ok := f.payments[orderID]; ok && payment.ProviderPaymentID == "" {
		payment.ProviderPaymentID = providerID
	}
	return nil
}

func (f *fakeStore) CompletePayment(orderID uint) (bool, error) {
	payment, ok := f.payments[orderID]
	if !ok || payment.Status != models.PaymentPending {
		return false, nil
	}
	payment.Status = models.PaymentCompleted
	return true, nil
}

func (f *fakeStore) FailPayment(orderID uint) (bool, error) {
	payment, ok := f.payments[orderID]
	if !ok || payment.Status != models.PaymentPending {
		return false, nil
	}
	payment.Status = models.PaymentFailed
	return true, nil
}

func (f *fakeStore) AdvanceOrder(orderID uint, from, to models.OrderState) (bool, error) {
	ord, ok := f.orders[orderID]
	if !ok || ord.State != from {
		return false, nil
	}
	ord.State = to
	return true, nil
}

func (f *fakeStore) OrderState(orderID uint) (models.OrderState, error) {
	ord, ok := f.orders[orderID]
	if !ok {
		return "", store.ErrOrderNotFound
	}
	return ord.State, nil
}

// --- Provider fakes ---

type fakeCard struct {
	err   error
	calls int
}

func (f *fakeCard) CreateIntent(_ context.Context, orderID uint, amount float64) (*payments.CardIntent, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls++
	return &payments.CardIntent{IntentID: "pi_test_123", ClientSecret: "pi_test_123_secret"}, nil
}

type fakeWallet struct {
	err   error
	calls int
}

func (f *fakeWallet) CreateOrder(_ context.Context, orderID uint, amountVND float64) (*payments.WalletOrder, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls++
	return &payments.WalletOrder{
		ID:     "PAYPAL-ORDER-1",
		Status: "CREATED",
		Links:  []payments.WalletLink{{Href: "https://paypal.test/approve", Rel: "approve", Method: "GET"}},
	}, nil
}

type fakeBank struct {
	err     error
	lastReq payments.PaymentLinkRequest
	info    *payments.PaymentInfo
	infoErr error
}

func (f *fakeBank) CreatePaymentLink(_ context.Context, req payments.PaymentLinkRequest) (*payments.PaymentLink, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastReq = req
	return &payments.PaymentLink{
		PaymentLinkID: "plink-1",
		CheckoutURL:   "https://pay.payos.test/web/plink-1",
		QRCode:        "00020101021238570010A000000727",
		Status:        "PENDING",
	}, nil
}

func (f *fakeBank) GetPaymentInfo(_ context.Context, paymentID string) (*payments.PaymentInfo, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return f.info, nil
}

func (f *fakeBank) VerifyWebhook(payload map[string]any) bool {
	signature, _ := payload["signature"].(string)
	return payments.VerifySignature(testChecksumKey, signature, payload)
}

type fakePublisher struct {
	orderIDs []uint
}

func (f *fakePublisher) NewOrder(_ context.Context, orderID uint, _ string, _ float64) {
	f.orderIDs = append(f.orderIDs, orderID)
}

type fakeMailer struct {
	sent chan string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan string, 8)}
}

func (f *fakeMailer) SendStatusUpdate(to string, _ *models.Order, _ models.PaymentStatus) error {
	f.sent <- to
	return nil
}

// --- Test environment ---

type testEnv struct {
	store     *fakeStore
	card      *fakeCard
	wallet    *fakeWallet
	bank      *fakeBank
	publisher *fakePublisher
	mailer    *fakeMailer
	handler   *Handler
}

func newTestEnv() *testEnv {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	env := &testEnv{
		store:     newFakeStore(),
		card:      &fakeCard{},
		wallet:    &fakeWallet{},
		bank:      &fakeBank{},
		publisher: &fakePublisher{},
		mailer:    newFakeMailer(),
	}
	env.handler = NewHandler(
		env.store, env.card, env.wallet, env.bank, env.publisher, env.mailer,
		reconcile.New(env.store, logger),
		nil, logger,
		"http://api.test", "http://shop.test",
	)
	return env
}

// router wires the handler the way the real route table does, with a stub
// auth middleware injecting the given identity.
func (env *testEnv) router(customerID uint, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	auth := func(c *gin.Context) {
		if customerID != 0 {
			c.Set("customer_id", customerID)
		}
		if role != "" {
			c.Set("role", role)
		}
	}

	r.GET("/api/orders", auth, env.handler.ListOrders)
	r.POST("/api/orders", auth, env.handler.CreateOrder)
	r.PUT("/api/orders/:id/status", auth, env.handler.UpdateOrderStatus)
	r.GET("/api/payos/success", env.handler.PaymentSuccess)
	r.GET("/api/payos/cancel", env.handler.PaymentCancel)
	r.POST("/api/payos/webhook", env.handler.PayOSWebhook)
	return r
}

// signedWebhook builds a webhook body whose checksum matches what the
// handler recomputes after JSON decoding.
func signedWebhook(t *testing.T, data map[string]any) []byte {
	t.Helper()

	payload := map[string]any{
		"code":    "00",
		"desc":    "success",
		"success": true,
		"data":    data,
	}
	normalized, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	var roundTripped map[string]any
	if err := json.Unmarshal(normalized, &roundTripped); err != nil {
		t.Fatal(err)
	}
	payload["signature"] = payments.Sign(testChecksumKey, roundTripped)

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	return body
}
