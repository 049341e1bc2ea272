package routes

import (
	"shopduy_back_end/internal/handlers/address"
	"shopduy_back_end/internal/handlers/cart"
	"shopduy_back_end/internal/handlers/order"
	"shopduy_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Register wires every route. Provider callbacks (redirects and the webhook)
// are unauthenticated by design; everything else requires a bearer token.
func Register(
	r *gin.Engine,
	jwtSecret []byte,
	orderHandler *order.Handler,
	cartHandler *cart.Handler,
	addressHandler *address.Handler,
) {
	api := r.Group("/api")

	// Provider callbacks.
	api.GET("/payos/success", orderHandler.PaymentSuccess)
	api.GET("/payos/cancel", orderHandler.PaymentCancel)
	api.POST("/payos/webhook", orderHandler.PayOSWebhook)

	authed := api.Group("", middleware.AuthRequired(jwtSecret))

	authed.GET("/orders", orderHandler.ListOrders)
	authed.POST("/orders", orderHandler.CreateOrder)
	authed.GET("/orders/:id/qr", orderHandler.PaymentQR)

	authed.GET("/cart", cartHandler.GetCart)
	authed.POST("/cart/items", cartHandler.AddItem)
	authed.DELETE("/cart/items/:id", cartHandler.RemoveItem)

	authed.GET("/addresses", addressHandler.ListAddresses)
	authed.POST("/addresses", addressHandler.CreateAddress)

	admin := authed.Group("", middleware.RequireAdmin)
	admin.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)
	admin.GET("/admin/orders/stats", orderHandler.OrderStats)

	r.GET("/ws/orders", middleware.AuthRequired(jwtSecret), middleware.RequireAdmin, orderHandler.LiveOrderFeed)
}
