package order

import (
	"context"

	"shopduy_back_end/internal/models"
	"shopduy_back_end/internal/payments"
	"shopduy_back_end/internal/reconcile"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Store is what the order handlers need from the persistence layer. It is an
// interface so tests can run against an in-memory double.
type Store interface {
	CustomerByID(id uint) (*models.Customer, error)
	AddressOwnedBy(addressID, customerID uint) (bool, error)
	CreateOrderFromCart(customerID, addressID uint, method models.PaymentMethod, total float64) (*models.Order, error)
	SavePayment(payment *models.Payment) error
	CompensateDispatchFailure(orderID uint) error
	OrderByID(id uint) (*models.Order, error)
	OrdersByCustomer(customerID uint) ([]models.Order, error)
	AllOrderSummaries() ([]models.OrderSummary, error)
	Stats() (*models.OrderStats, error)
	SetStatuses(orderID uint, state models.OrderState, paymentStatus models.PaymentStatus) error
	AttachProviderPaymentID(orderID uint, providerID string) error
}

// CardProcessor opens charge intents with the card provider.
type CardProcessor interface {
	CreateIntent(ctx context.Context, orderID uint, amount float64) (*payments.CardIntent, error)
}

// WalletProcessor creates redirect orders with the wallet provider.
type WalletProcessor interface {
	CreateOrder(ctx context.Context, orderID uint, amountVND float64) (*payments.WalletOrder, error)
}

// BankProcessor creates payment links, looks payments up and verifies
// webhook checksums for the bank-transfer provider.
type BankProcessor interface {
	CreatePaymentLink(ctx context.Context, req payments.PaymentLinkRequest) (*payments.PaymentLink, error)
	GetPaymentInfo(ctx context.Context, paymentID string) (*payments.PaymentInfo, error)
	VerifyWebhook(payload map[string]any) bool
}

// Publisher announces new orders to live dashboards. Best effort.
type Publisher interface {
	NewOrder(ctx context.Context, orderID uint, customerName string, totalAmount float64)
}

// Mailer notifies customers of manual status changes.
type Mailer interface {
	SendStatusUpdate(to string, order *models.Order, paymentStatus models.PaymentStatus) error
}

// Handler carries explicitly constructed dependencies; nothing here reaches
// for package-level SDK state.
type Handler struct {
	store      Store
	card       CardProcessor
	wallet     WalletProcessor
	bank       BankProcessor
	events     Publisher
	mailer     Mailer
	reconciler *reconcile.Reconciler
	rdb        *redis.Client
	logger     *logrus.Logger

	apiBaseURL      string
	frontendBaseURL string
}

func NewHandler(
	store Store,
	card CardProcessor,
	wallet WalletProcessor,
	bank BankProcessor,
	events Publisher,
	mailer Mailer,
	reconciler *reconcile.Reconciler,
	rdb *redis.Client,
	logger *logrus.Logger,
	apiBaseURL, frontendBaseURL string,
) *Handler {
	return &Handler{
		store:           store,
		card:            card,
		wallet:          wallet,
		bank:            bank,
		events:          events,
		mailer:          mailer,
		reconciler:      reconciler,
		rdb:             rdb,
		logger:          logger,
		apiBaseURL:      apiBaseURL,
		frontendBaseURL: frontendBaseURL,
	}
}
