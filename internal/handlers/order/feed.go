package order

import (
	"context"
	"net/http"

	"shopduy_back_end/internal/events"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The dashboard runs on a different origin in development.
		return true
	},
}

// LiveOrderFeed streams new-order events to an admin dashboard over a
// websocket, bridged from the Redis Pub/Sub channel the intake publishes to.
func (h *Handler) LiveOrderFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Error("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	pubsub := h.rdb.Subscribe(ctx, events.NewOrderChannel)
	defer pubsub.Close()
	ch := pubsub.Channel()

	conn.WriteJSON(gin.H{"type": "connected", "channel": events.NewOrderChannel})

	// Drain reads so client close is noticed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
