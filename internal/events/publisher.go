package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// NewOrderChannel is the Redis Pub/Sub channel live admin dashboards follow.
const NewOrderChannel = "orders:new"

// NewOrderEvent announces a freshly created order to dashboard subscribers.
type NewOrderEvent struct {
	EventID      string    `json:"event_id"`
	OrderID      uint      `json:"order_id"`
	CustomerName string    `json:"customer_name"`
	TotalAmount  float64   `json:"total_amount"`
	CreatedAt    time.Time `json:"created_at"`
}

// Publisher fans out order events over Redis Pub/Sub. Publishing is best
// effort: a dashboard that misses an event re-fetches the order list anyway.
type Publisher struct {
	rdb    *redis.Client
	logger *logrus.Logger
}

func NewPublisher(rdb *redis.Client, logger *logrus.Logger) *Publisher {
	return &Publisher{rdb: rdb, logger: logger}
}

func (p *Publisher) NewOrder(ctx context.Context, orderID uint, customerName string, totalAmount float64) {
	event := NewOrderEvent{
		EventID:      uuid.NewString(),
		OrderID:      orderID,
		CustomerName: customerName,
		TotalAmount:  totalAmount,
		CreatedAt:    time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.WithError(err).Error("Failed to marshal new-order event")
		return
	}
	if err := p.rdb.Publish(ctx, NewOrderChannel, payload).Err(); err != nil {
		p.logger.WithError(err).WithField("order_id", orderID).Error("Failed to publish new-order event")
		return
	}

	p.logger.WithFields(logrus.Fields{
		"event_id": event.EventID,
		"order_id": orderID,
	}).Info("New-order event published")
}
