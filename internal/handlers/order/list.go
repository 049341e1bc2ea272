package order

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListOrders returns the caller's own orders; admins additionally receive
// the manage list covering every customer.
func (h *Handler) ListOrders(c *gin.Context) {
	customerID := c.GetUint("customer_id")
	if customerID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please sign in"})
		return
	}

	orders, err := h.store.OrdersByCustomer(customerID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list orders")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}

	response := gin.H{"orders": orders}

	if role, _ := c.Get("role"); role == "admin" {
		manage, err := h.store.AllOrderSummaries()
		if err != nil {
			h.logger.WithError(err).Error("Failed to load manage list")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
			return
		}
		response["manage_orders"] = manage
	}

	c.JSON(http.StatusOK, response)
}
