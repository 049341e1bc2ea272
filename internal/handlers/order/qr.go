package order

import (
	"net/http"
	"strconv"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/gin-gonic/gin"
)

// PaymentQR renders the VietQR payload of a pending bank-transfer payment as
// a PNG, so the storefront can show a scannable code next to the checkout
// link.
func (h *Handler) PaymentQR(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	ord, err := h.store.OrderByID(uint(orderID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	customerID := c.GetUint("customer_id")
	if role, _ := c.Get("role"); role != "admin" && ord.CustomerID != customerID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if ord.Payment == nil || ord.Payment.QRCode == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No QR code for this order"})
		return
	}

	png, err := qrcode.Encode(ord.Payment.QRCode, qrcode.Medium, 256)
	if err != nil {
		h.logger.WithError(err).WithField("order_id", orderID).Error("QR encoding failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render QR code"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
