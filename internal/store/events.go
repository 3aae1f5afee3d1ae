package store

import (
	"encoding/json"
	"time"

	"github.com/vaidashi/order-admin/internal/models"
	"github.com/vaidashi/order-admin/pkg/kafka"
	"github.com/vaidashi/order-admin/pkg/logger"
)

// Event types published by the store.
const (
	EventOrderCreated = "order_created"
	EventOrderUpdated = "order_updated"
	EventOrderDeleted = "order_deleted"
)

// OrderEvent is the change-event envelope published to Kafka.
type OrderEvent struct {
	EventType  string        `json:"event_type"`
	EventID    string        `json:"event_id"`
	OrderID    string        `json:"order_id"`
	OccurredAt time.Time     `json:"occurred_at"`
	Order      *models.Order `json:"order,omitempty"`
}

// EventPublisher publishes order change events. Publishing is
// best-effort: a failed publish is logged and never fails the request
// that caused it.
type EventPublisher struct {
	producer *kafka.Producer
	topic    string
	logger   logger.Logger
}

// NewEventPublisher creates a publisher for the given topic. A nil
// producer yields a publisher that drops everything, so the store runs
// unchanged without brokers configured.
func NewEventPublisher(producer *kafka.Producer, topic string, logger logger.Logger) *EventPublisher {
	return &EventPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish emits one change event for the order with the given identity.
func (p *EventPublisher) Publish(eventType, orderID string, order *models.Order) {
	if p.producer == nil {
		return
	}

	event := OrderEvent{
		EventType:  eventType,
		EventID:    models.GenerateID("evt"),
		OrderID:    orderID,
		OccurredAt: models.GetCurrentTime(),
		Order:      order,
	}

	payload, err := json.Marshal(event)

	if err != nil {
		p.logger.Error("Failed to marshal order event", "error", err, "eventType", eventType)
		return
	}

	if err := p.producer.SendMessage(p.topic, orderID, payload); err != nil {
		p.logger.Warn("Failed to publish order event", "error", err, "eventType", eventType, "orderID", orderID)
	}
}
