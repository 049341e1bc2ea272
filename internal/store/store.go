package store

import (
	"errors"
	"fmt"
	"time"

	"shopduy_back_end/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart     = errors.New("cart is empty or does not exist")
	ErrOrderNotFound = errors.New("order not found")
)

// Store is the persistence layer. All status mutations coming from the
// reconciler are conditional updates so that redirect, webhook and retries
// racing on the same order converge instead of overwriting each other.
type Store struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func New(db *gorm.DB, logger *logrus.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// --- Customers & addresses ---

func (s *Store) CustomerByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// AddressOwnedBy reports whether the address exists and belongs to the
// customer. Checkout refuses addresses of other customers.
func (s *Store) AddressOwnedBy(addressID, customerID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Address{}).
		Where("id = ? AND customer_id = ?", addressID, customerID).
		Count(&count).Error
	return count > 0, err
}

func (s *Store) AddressesByCustomer(customerID uint) ([]models.Address, error) {
	var addresses []models.Address
	err := s.db.Where("customer_id = ?", customerID).Order("is_default DESC, id").Find(&addresses).Error
	return addresses, err
}

func (s *Store) CreateAddress(address *models.Address) error {
	return s.db.Create(address).Error
}

// --- Cart ---

func (s *Store) CartForCustomer(customerID uint) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Preload("Items").Where("customer_id = ?", customerID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Cart{CustomerID: customerID}, nil
	}
	return &cart, err
}

// AddCartItem creates the cart on first use and merges quantity for an item
// already present with the same product and size.
func (s *Store) AddCartItem(customerID, productID uint, sizeID *uint, quantity int) (*models.Cart, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.Where("customer_id = ?", customerID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart = models.Cart{CustomerID: customerID}
			if err := tx.Create(&cart).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		var item models.CartItem
		q := tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID)
		if sizeID != nil {
			q = q.Where("size_id = ?", *sizeID)
		} else {
			q = q.Where("size_id IS NULL")
		}
		err = q.First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&models.CartItem{
				CartID:    cart.ID,
				ProductID: productID,
				SizeID:    sizeID,
				Quantity:  quantity,
			}).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&item).Update("quantity", item.Quantity+quantity).Error
	})
	if err != nil {
		return nil, err
	}
	return s.CartForCustomer(customerID)
}

func (s *Store) RemoveCartItem(customerID, itemID uint) error {
	return s.db.
		Where("id = ? AND cart_id IN (?)", itemID,
			s.db.Model(&models.Cart{}).Select("id").Where("customer_id = ?", customerID)).
		Delete(&models.CartItem{}).Error
}

// --- Order intake ---

// CreateOrderFromCart turns the customer's cart into an order plus a PENDING
// payment and deletes the cart, all in one transaction. Item prices are
// copied from the product rows at this moment. The cart is consumed for
// every payment method, cash on delivery included.
func (s *Store) CreateOrderFromCart(customerID, addressID uint, method models.PaymentMethod, total float64) (*models.Order, error) {
	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.Preload("Items").Where("customer_id = ?", customerID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmptyCart
		}
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		now := time.Now()
		order = models.Order{
			CustomerID:  customerID,
			AddressID:   addressID,
			OrderDate:   now,
			TotalAmount: total,
			State:       models.OrderPending,
		}
		for _, item := range cart.Items {
			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				return fmt.Errorf("product %d: %w", item.ProductID, err)
			}
			order.Items = append(order.Items, models.OrderItem{
				ProductID: item.ProductID,
				SizeID:    item.SizeID,
				Quantity:  item.Quantity,
				Price:     product.Price,
			})
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		payment := models.Payment{
			OrderID: order.ID,
			Method:  method,
			Status:  models.PaymentPending,
			Amount:  total,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		order.Payment = &payment

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cart).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// SavePayment persists provider correlation fields set after dispatch.
func (s *Store) SavePayment(payment *models.Payment) error {
	return s.db.Save(payment).Error
}

// CompensateDispatchFailure rolls an order back after its provider call
// failed: the local rows already committed, so the payment is marked FAILED
// and the order CANCELLED.
func (s *Store) CompensateDispatchFailure(orderID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Payment{}).
			Where("order_id = ?", orderID).
			Update("status", models.PaymentFailed).Error; err != nil {
			return err
		}
		return tx.Model(&models.Order{}).
			Where("id = ?", orderID).
			Update("state", models.OrderCancelled).Error
	})
}

// --- Queries ---

func (s *Store) OrderByID(id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("Payment").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Store) OrdersByCustomer(customerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").Preload("Payment").
		Where("customer_id = ?", customerID).
		Order("order_date DESC").
		Find(&orders).Error
	return orders, err
}

// AllOrderSummaries returns the admin manage list, newest order first.
func (s *Store) AllOrderSummaries() ([]models.OrderSummary, error) {
	var rows []models.OrderSummary
	err := s.db.Table("orders").
		Select(`orders.id AS order_id, orders.order_date, orders.total_amount,
			orders.state AS state, customers.name AS customer_name,
			customers.email AS customer_email, payments.method AS method,
			payments.status AS payment_status`).
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Joins("LEFT JOIN payments ON payments.order_id = orders.id").
		Order("orders.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (s *Store) Stats() (*models.OrderStats, error) {
	var rows []struct {
		State   models.OrderState
		Count   int
		Revenue float64
	}
	err := s.db.Model(&models.Order{}).
		Select("state, COUNT(*) AS count, SUM(total_amount) AS revenue").
		Group("state").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &models.OrderStats{ByState: make(map[models.OrderState]int)}
	for _, row := range rows {
		stats.ByState[row.State] = row.Count
		stats.TotalOrders += row.Count
		stats.TotalRevenue += row.Revenue
	}
	return stats, nil
}

// --- Status mutations ---

// CompletePayment moves the order's payment PENDING → COMPLETED. Returns
// false with no error when the payment was not PENDING, which callers treat
// as "already reconciled".
func (s *Store) CompletePayment(orderID uint) (bool, error) {
	res := s.db.Model(&models.Payment{}).
		Where("order_id = ? AND status = ?", orderID, models.PaymentPending).
		Update("status", models.PaymentCompleted)
	return res.RowsAffected > 0, res.Error
}

// FailPayment moves the order's payment PENDING → FAILED.
func (s *Store) FailPayment(orderID uint) (bool, error) {
	res := s.db.Model(&models.Payment{}).
		Where("order_id = ? AND status = ?", orderID, models.PaymentPending).
		Update("status", models.PaymentFailed)
	return res.RowsAffected > 0, res.Error
}

// AdvanceOrder moves the order state from exactly `from` to `to`. The WHERE
// predicate is the compare-and-set guard: a lost race costs nothing.
func (s *Store) AdvanceOrder(orderID uint, from, to models.OrderState) (bool, error) {
	res := s.db.Model(&models.Order{}).
		Where("id = ? AND state = ?", orderID, from).
		Update("state", to)
	return res.RowsAffected > 0, res.Error
}

// OrderState reads the current order state.
func (s *Store) OrderState(orderID uint) (models.OrderState, error) {
	var order models.Order
	err := s.db.Select("state").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrOrderNotFound
	}
	if err != nil {
		return "", err
	}
	return order.State, nil
}

// AttachProviderPaymentID stores the provider's payment id once the webhook
// supplies it. Bank-transfer links have no correlation id at creation time.
func (s *Store) AttachProviderPaymentID(orderID uint, providerID string) error {
	return s.db.Model(&models.Payment{}).
		Where("order_id = ? AND provider_payment_id = ''", orderID).
		Update("provider_payment_id", providerID).Error
}

// SetStatuses is the manual admin overwrite: no compare-and-set guard, the
// admin's word is final even against a webhook.
func (s *Store) SetStatuses(orderID uint, state models.OrderState, paymentStatus models.PaymentStatus) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).Where("id = ?", orderID).Update("state", state)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOrderNotFound
		}
		return tx.Model(&models.Payment{}).
			Where("order_id = ?", orderID).
			Update("status", paymentStatus).Error
	})
}
