package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventLeadCreated       EventType = "LEAD_CREATED"
	EventLeadStatusChanged EventType = "LEAD_STATUS_CHANGED"
	EventSaleRegistered    EventType = "SALE_REGISTERED"
)

// LeadEvent is the message published after a lead mutation commits.
// Consumers must tolerate duplicates.
type LeadEvent struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	LeadID        string          `json:"lead_id"`
	LeadName      string          `json:"lead_name"`
	ResponsibleID string          `json:"responsible_id,omitempty"`
	OldStatus     string          `json:"old_status,omitempty"`
	NewStatus     string          `json:"new_status,omitempty"`
	Value         decimal.Decimal `json:"value"`
	Note          string          `json:"note,omitempty"`
	ActorID       string          `json:"actor_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

func routingKey(t EventType) (string, error) {
	switch t {
	case EventLeadCreated:
		return RoutingLeadCreated, nil
	case EventLeadStatusChanged:
		return RoutingStatusChanged, nil
	case EventSaleRegistered:
		return RoutingSaleRegistered, nil
	}
	return "", fmt.Errorf("tipo de evento desconhecido: %q", t)
}

// Publisher is the subset of *amqp.Channel the producer needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishLeadEvent(ctx context.Context, event LeadEvent) error {
	key, err := routingKey(event.Type)
	if err != nil {
		return err
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		key,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.ID,
			Type:         string(event.Type),
			Timestamp:    event.OccurredAt,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}
	return nil
}
