package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// SaleNotifier handles SALE_REGISTERED events.
type SaleNotifier interface {
	NotifySale(ctx context.Context, event LeadEvent) error
}

// Consumer is the subset of *amqp.Channel the worker needs.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel  Consumer
	Notifier SaleNotifier
	Logger   *zap.Logger
}

func NewWorker(ch Consumer, notifier SaleNotifier, logger *zap.Logger) *Worker {
	return &Worker{Channel: ch, Notifier: notifier, Logger: logger}
}

// Start consumes queueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.Logger.Info(" [*] Worker aguardando na fila", zap.String("queue", queueName))
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("canal de consumo fechado")
			}
			w.handleDelivery(ctx, d)
		}
	}
}

func (w *Worker) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var event LeadEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		w.Logger.Error("❌ [WORKER] JSON inválido, enviando para DLQ", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	log := w.Logger.With(zap.String("event_id", event.ID), zap.String("type", string(event.Type)), zap.String("lead_id", event.LeadID))
	log.Debug("📥 [WORKER] mensagem recebida")

	if err := w.processMessage(ctx, event); err != nil {
		log.Error("❌ [WORKER] falha ao processar evento", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func (w *Worker) processMessage(ctx context.Context, event LeadEvent) error {
	switch event.Type {
	case EventSaleRegistered:
		return w.Notifier.NotifySale(ctx, event)
	case EventLeadCreated, EventLeadStatusChanged:
		return nil
	default:
		w.Logger.Warn("⚠️ tipo de evento desconhecido, apenas logando", zap.String("type", string(event.Type)))
		return nil
	}
}
