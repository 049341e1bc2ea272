package cart

import (
	"net/http"
	"strconv"

	"shopduy_back_end/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handler serves the customer's cart. The cart itself is throwaway state:
// checkout consumes it inside the order-creation transaction.
type Handler struct {
	store  *store.Store
	logger *logrus.Logger
}

func NewHandler(store *store.Store, logger *logrus.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

func (h *Handler) GetCart(c *gin.Context) {
	customerID := c.GetUint("customer_id")
	if customerID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please sign in"})
		return
	}

	cart, err := h.store.CartForCustomer(customerID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load cart")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) AddItem(c *gin.Context) {
	customerID := c.GetUint("customer_id")
	if customerID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please sign in"})
		return
	}

	var req struct {
		ProductID uint  `json:"product_id" binding:"required"`
		SizeID    *uint `json:"size_id"`
		Quantity  int   `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	cart, err := h.store.AddCartItem(customerID, req.ProductID, req.SizeID, req.Quantity)
	if err != nil {
		h.logger.WithError(err).Error("Failed to add cart item")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) RemoveItem(c *gin.Context) {
	customerID := c.GetUint("customer_id")
	if customerID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please sign in"})
		return
	}

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	if err := h.store.RemoveCartItem(customerID, uint(itemID)); err != nil {
		h.logger.WithError(err).Error("Failed to remove cart item")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
