package address

import (
	"net/http"

	"shopduy_back_end/internal/models"
	"shopduy_back_end/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	store  *store.Store
	logger *logrus.Logger
}

func NewHandler(store *store.Store, logger *logrus.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

func (h *Handler) ListAddresses(c *gin.Context) {
	customerID := c.GetUint("customer_id")
	if customerID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please sign in"})
		return
	}

	addresses, err := h.store.AddressesByCustomer(customerID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list addresses")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load addresses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

func (h *Handler) CreateAddress(c *gin.Context) {
	customerID := c.GetUint("customer_id")
	if customerID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please sign in"})
		return
	}

	var req struct {
		Street    string `json:"street" binding:"required"`
		City      string `json:"city" binding:"required"`
		Province  string `json:"province"`
		Phone     string `json:"phone"`
		IsDefault bool   `json:"is_default"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	addr := models.Address{
		CustomerID: customerID,
		Street:     req.Street,
		City:       req.City,
		Province:   req.Province,
		Phone:      req.Phone,
		IsDefault:  req.IsDefault,
	}
	if err := h.store.CreateAddress(&addr); err != nil {
		h.logger.WithError(err).Error("Failed to create address")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save address"})
		return
	}
	c.JSON(http.StatusCreated, addr)
}
