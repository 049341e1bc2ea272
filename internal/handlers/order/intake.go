package order

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"shopduy_back_end/internal/models"
	"shopduy_back_end/internal/payments"
	"shopduy_back_end/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CreateOrder validates the cart and address, persists the order with a
// PENDING payment, then dispatches to the processor picked by the method
// tag. The order/payment insert and cart deletion share one transaction; a
// provider failure after the commit is compensated, not rolled back.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req struct {
		AddressID     uint     `json:"address_id" binding:"required"`
		PaymentMethod string   `json:"payment_method" binding:"required"`
		FinalTotal    *float64 `json:"final_total" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	customerID := c.GetUint("customer_id")
	if customerID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please sign in"})
		return
	}

	method := models.PaymentMethod(req.PaymentMethod)
	if !method.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payment method"})
		return
	}

	total := *req.FinalTotal
	if math.IsNaN(total) || math.IsInf(total, 0) || total < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order total"})
		return
	}

	owned, err := h.store.AddressOwnedBy(req.AddressID, customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !owned {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shipping address"})
		return
	}

	ord, err := h.store.CreateOrderFromCart(customerID, req.AddressID, method, total)
	if err != nil {
		if errors.Is(err, store.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty or does not exist"})
			return
		}
		h.logger.WithError(err).Error("Failed to create order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	customer, err := h.store.CustomerByID(customerID)
	if err != nil {
		h.logger.WithError(err).WithField("customer_id", customerID).Warn("Customer lookup failed after order creation")
		customer = &models.Customer{ID: customerID}
	}

	h.logger.WithFields(logrus.Fields{
		"order_id":     ord.ID,
		"customer_id":  customerID,
		"method":       method,
		"total_amount": total,
	}).Info("Order created")

	h.events.NewOrder(c.Request.Context(), ord.ID, customer.Name, total)

	h.dispatch(c, ord, customer)
}

// dispatch branches on the payment-method tag. Each provider path stores its
// correlation fields on the payment and answers with what the storefront
// needs to continue the flow.
func (h *Handler) dispatch(c *gin.Context, ord *models.Order, customer *models.Customer) {
	ctx := c.Request.Context()
	payment := ord.Payment

	switch payment.Method {
	case models.MethodCreditCard:
		intent, err := h.card.CreateIntent(ctx, ord.ID, ord.TotalAmount)
		if err != nil {
			h.failDispatch(c, ord, "card", err)
			return
		}
		payment.StripePaymentIntent = intent.IntentID
		if err := h.store.SavePayment(payment); err != nil {
			h.logger.WithError(err).WithField("order_id", ord.ID).Error("Failed to store intent id")
		}
		c.JSON(http.StatusCreated, gin.H{
			"order":         ord,
			"client_secret": intent.ClientSecret,
			"message":       "Complete the payment with your card",
		})

	case models.MethodEWallet:
		walletOrder, err := h.wallet.CreateOrder(ctx, ord.ID, ord.TotalAmount)
		if err != nil {
			h.failDispatch(c, ord, "wallet", err)
			return
		}
		payment.PayPalOrderID = walletOrder.ID
		if err := h.store.SavePayment(payment); err != nil {
			h.logger.WithError(err).WithField("order_id", ord.ID).Error("Failed to store wallet order id")
		}
		c.JSON(http.StatusCreated, gin.H{
			"order":  ord,
			"id":     walletOrder.ID,
			"status": walletOrder.Status,
			"links":  walletOrder.Links,
		})

	case models.MethodBankTransfer:
		link, err := h.bank.CreatePaymentLink(ctx, payments.PaymentLinkRequest{
			OrderCode:   ord.ID,
			Amount:      int64(math.Round(ord.TotalAmount)),
			Description: fmt.Sprintf("Order #%d", ord.ID),
			Buyer: payments.Buyer{
				Name:  customer.Name,
				Email: customer.Email,
				Phone: customer.Phone,
			},
			CancelURL: fmt.Sprintf("%s/api/payos/cancel?orderCode=%d", h.apiBaseURL, ord.ID),
			ReturnURL: fmt.Sprintf("%s/api/payos/success?orderCode=%d", h.apiBaseURL, ord.ID),
		})
		if err != nil {
			h.failDispatch(c, ord, "bank-transfer", err)
			return
		}
		// No provider payment id yet; the webhook supplies it later.
		payment.CheckoutURL = link.CheckoutURL
		payment.QRCode = link.QRCode
		if err := h.store.SavePayment(payment); err != nil {
			h.logger.WithError(err).WithField("order_id", ord.ID).Error("Failed to store checkout link")
		}
		c.JSON(http.StatusCreated, gin.H{
			"order":       ord,
			"payment_url": link.CheckoutURL,
			"message":     "Complete the payment via bank transfer",
		})

	default:
		// Cash on delivery: no external call, settled on delivery.
		c.JSON(http.StatusCreated, gin.H{
			"order":   ord,
			"message": "Order placed successfully",
		})
	}
}

// failDispatch compensates an order whose provider call failed after the
// local transaction already committed.
func (h *Handler) failDispatch(c *gin.Context, ord *models.Order, provider string, err error) {
	h.logger.WithError(err).WithFields(logrus.Fields{
		"order_id": ord.ID,
		"provider": provider,
	}).Error("Payment dispatch failed")

	if cerr := h.store.CompensateDispatchFailure(ord.ID); cerr != nil {
		h.logger.WithError(cerr).WithField("order_id", ord.ID).Error("Compensation failed; order left inconsistent")
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate payment"})
}
