package order

import (
	"errors"
	"net/http"
	"strconv"

	"shopduy_back_end/internal/models"
	"shopduy_back_end/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UpdateOrderStatus lets an admin set the order/payment status pair
// directly. This is an unconditional overwrite: the admin's decision stands
// even against a provider callback. The customer is notified by email.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req struct {
		OrderState    string `json:"order_state" binding:"required"`
		PaymentStatus string `json:"payment_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	state, err := models.ParseOrderState(req.OrderState)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	paymentStatus, err := models.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.SetStatuses(uint(orderID), state, paymentStatus); err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		h.logger.WithError(err).WithField("order_id", orderID).Error("Failed to update order status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"order_id":       orderID,
		"order_state":    state,
		"payment_status": paymentStatus,
	}).Info("Order status updated by admin")

	h.notifyStatusChange(uint(orderID), paymentStatus)

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"order_id":       orderID,
		"order_state":    state,
		"payment_status": paymentStatus,
	})
}

// notifyStatusChange emails the order's customer in the background.
func (h *Handler) notifyStatusChange(orderID uint, paymentStatus models.PaymentStatus) {
	ord, err := h.store.OrderByID(orderID)
	if err != nil {
		h.logger.WithError(err).WithField("order_id", orderID).Warn("Skipping status email: order lookup failed")
		return
	}
	customer, err := h.store.CustomerByID(ord.CustomerID)
	if err != nil || customer.Email == "" {
		h.logger.WithField("order_id", orderID).Warn("Skipping status email: no customer email")
		return
	}

	go func() {
		if err := h.mailer.SendStatusUpdate(customer.Email, ord, paymentStatus); err != nil {
			h.logger.WithError(err).WithField("order_id", orderID).Warn("Failed to send status email")
		}
	}()
}

// OrderStats returns order counts and revenue grouped by state.
func (h *Handler) OrderStats(c *gin.Context) {
	stats, err := h.store.Stats()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load order stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
