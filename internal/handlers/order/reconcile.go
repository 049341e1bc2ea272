package order

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"shopduy_back_end/internal/models"
	"shopduy_back_end/internal/reconcile"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PaymentSuccess handles the synchronous return redirect from the
// bank-transfer checkout page. It may race the webhook reporting the same
// payment; both converge through the reconciler's conditional updates.
func (h *Handler) PaymentSuccess(c *gin.Context) {
	paymentID := c.Query("paymentId")
	orderCode := c.Query("orderCode")
	status := c.Query("status")

	if paymentID == "" && orderCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing payment information"})
		return
	}

	var orderID uint
	paymentStatus := "UNKNOWN"

	if paymentID != "" {
		// The redirect carries a provider payment id: ask the provider
		// rather than trusting query parameters.
		info, err := h.bank.GetPaymentInfo(c.Request.Context(), paymentID)
		if err != nil {
			h.logger.WithError(err).WithField("payment_id", paymentID).Error("Payment lookup failed on success redirect")
			c.Redirect(http.StatusFound, h.frontendBaseURL+"/order/cancel")
			return
		}
		orderID = info.OrderCode
		paymentStatus = info.Status
	} else {
		parsed, err := strconv.ParseUint(orderCode, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order code"})
			return
		}
		orderID = uint(parsed)
		if status == "PAID" {
			paymentStatus = "PAID"
		} else if ord, err := h.store.OrderByID(orderID); err == nil &&
			ord.Payment != nil && ord.Payment.Status == models.PaymentCompleted {
			// The webhook may have settled the payment already.
			paymentStatus = "PAID"
		}
	}

	if paymentStatus != "PAID" {
		c.Redirect(http.StatusFound, fmt.Sprintf("%s/order/cancel?orderCode=%d", h.frontendBaseURL, orderID))
		return
	}

	result, err := h.reconciler.Apply(orderID, reconcile.OutcomePaid)
	if err != nil {
		h.logger.WithError(err).WithField("order_id", orderID).Error("Reconciliation failed on success redirect")
		c.Redirect(http.StatusFound, fmt.Sprintf("%s/order/cancel?orderCode=%d", h.frontendBaseURL, orderID))
		return
	}
	if result.Anomaly {
		c.Redirect(http.StatusFound, fmt.Sprintf("%s/order/cancel?orderCode=%d", h.frontendBaseURL, orderID))
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("%s/order/success?orderCode=%d", h.frontendBaseURL, orderID))
}

// PaymentCancel handles the cancel redirect from the checkout page. The
// reconciler refuses to cancel an order whose payment already completed.
func (h *Handler) PaymentCancel(c *gin.Context) {
	orderCode := c.Query("orderCode")
	if orderCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing order information"})
		return
	}
	parsed, err := strconv.ParseUint(orderCode, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order code"})
		return
	}
	orderID := uint(parsed)

	if _, err := h.reconciler.Apply(orderID, reconcile.OutcomeCancelled); err != nil {
		h.logger.WithError(err).WithField("order_id", orderID).Error("Reconciliation failed on cancel redirect")
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("%s/order/cancel?orderCode=%d", h.frontendBaseURL, orderID))
}

type webhookData struct {
	OrderCode uint   `json:"orderCode"`
	ID        string `json:"id"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
}

// PayOSWebhook processes asynchronous payment notifications. Whatever goes
// wrong, the response is 200: a non-2xx answer only triggers provider retry
// storms, and a malformed or forged delivery will not get better on retry.
// Failures are visible in the logs only.
func (h *Handler) PayOSWebhook(c *gin.Context) {
	const maxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	raw, err := c.GetRawData()
	if err != nil {
		h.logger.WithError(err).Error("Webhook body read failed")
		c.JSON(http.StatusOK, gin.H{"received": false, "error": "Unreadable body"})
		return
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.logger.WithError(err).Error("Webhook payload is not valid JSON")
		c.JSON(http.StatusOK, gin.H{"received": false, "error": "Invalid JSON"})
		return
	}

	if _, ok := payload["signature"].(string); !ok {
		h.logger.Warn("Webhook delivery without signature")
		c.JSON(http.StatusOK, gin.H{"received": true, "warning": "Missing signature"})
		return
	}
	if !h.bank.VerifyWebhook(payload) {
		h.logger.Warn("Webhook signature verification failed")
		c.JSON(http.StatusOK, gin.H{"received": true, "warning": "Invalid signature"})
		return
	}

	var body struct {
		Data webhookData `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Data.OrderCode == 0 {
		h.logger.Warn("Webhook delivery without order information")
		c.JSON(http.StatusOK, gin.H{"received": true, "error": "Missing order information"})
		return
	}
	data := body.Data

	h.logger.WithFields(logrus.Fields{
		"order_id":            data.OrderCode,
		"provider_payment_id": data.ID,
		"status":              data.Status,
	}).Info("Webhook received")

	var outcome reconcile.Outcome
	switch data.Status {
	case "PAID":
		outcome = reconcile.OutcomePaid
	case "CANCELLED", "EXPIRED":
		outcome = reconcile.OutcomeCancelled
	default:
		c.JSON(http.StatusOK, gin.H{"received": true, "status": "ignored"})
		return
	}

	result, err := h.reconciler.Apply(data.OrderCode, outcome)
	if err != nil {
		h.logger.WithError(err).WithField("order_id", data.OrderCode).Error("Webhook reconciliation failed")
		c.JSON(http.StatusOK, gin.H{"received": true, "error": "Order not found or update failed"})
		return
	}

	if outcome == reconcile.OutcomePaid && data.ID != "" {
		if err := h.store.AttachProviderPaymentID(data.OrderCode, data.ID); err != nil {
			h.logger.WithError(err).WithField("order_id", data.OrderCode).Warn("Failed to attach provider payment id")
		}
	}

	if result.Anomaly {
		c.JSON(http.StatusOK, gin.H{"received": true, "warning": "Outcome contradicts current order state"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true, "status": "success"})
}
