// Package events publishes catalog changes to downstream consumers through a
// transactional outbox in the document store and a Redis-stream relay.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Ad4rshS/am-zone/internal/models"
	"github.com/Ad4rshS/am-zone/internal/store"
)

// EventType represents the type of event
type EventType string

const (
	EventTypeProductCreated EventType = "PRODUCT_CREATED"
	EventTypeProductUpdated EventType = "PRODUCT_UPDATED"
	EventTypeProductDeleted EventType = "PRODUCT_DELETED"
)

const aggregateTypeProduct = "product"

// ProductEventPayload is the wire payload for catalog change events.
type ProductEventPayload struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	ProductID string    `json:"product_id"`
	Name      string    `json:"name,omitempty"`
	Price     int       `json:"price,omitempty"`
	SourceURL string    `json:"source_url,omitempty"`
	Source    string    `json:"source"`
}

// Publisher stages events in the store outbox; the relay moves them to Redis.
// Staging never blocks a catalog mutation on Redis being reachable.
type Publisher struct {
	store  *store.Store
	stream string
	logger *slog.Logger
}

func NewPublisher(st *store.Store, stream string, logger *slog.Logger) *Publisher {
	return &Publisher{
		store:  st,
		stream: stream,
		logger: logger.With("component", "event_publisher"),
	}
}

// PublishProductEvent stages a catalog change event for the given product.
// For deletions the product record may carry only its ID.
func (p *Publisher) PublishProductEvent(eventType EventType, product *models.Product) error {
	payload := ProductEventPayload{
		EventID:   uuid.NewString(),
		EventType: string(eventType),
		Timestamp: time.Now(),
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		SourceURL: product.SourceURL,
		Source:    "am-zone",
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	event := &store.OutboxEvent{
		AggregateType: aggregateTypeProduct,
		AggregateID:   product.ID,
		EventType:     string(eventType),
		Payload:       data,
		TargetStream:  p.stream,
	}

	if err := p.store.AppendEvent(event); err != nil {
		return fmt.Errorf("failed to append outbox event: %w", err)
	}

	p.logger.Debug("event staged",
		"event_type", eventType,
		"product_id", product.ID)

	return nil
}
