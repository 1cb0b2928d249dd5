package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "ex.crm"
	QueueName    = "q.crm.notifications"
	DLQName      = "q.crm.notifications.dlq"
	DLXName      = "ex.crm.dlx" // Dead Letter Exchange
	DeadLetterRK = "k.dead"
)

// Routing keys, one per event type.
const (
	RoutingLeadCreated    = "k.lead.created"
	RoutingStatusChanged  = "k.lead.status_changed"
	RoutingSaleRegistered = "k.sale.registered"
)

var notificationBindings = []string{RoutingLeadCreated, RoutingStatusChanged, RoutingSaleRegistered}

type RabbitMQ struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("falha ao abrir canal: %w", err)
	}

	if err := setupTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("falha ao declarar topologia: %w", err)
	}

	return &RabbitMQ{Conn: conn, Ch: ch}, nil
}

// Topology is the subset of *amqp.Channel used to declare exchanges and
// queues.
type Topology interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

func setupTopology(ch Topology) error {
	if err := ch.ExchangeDeclare(DLXName, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(DLQName, true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.QueueBind(DLQName, DeadLetterRK, DLXName, false, nil); err != nil {
		return err
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    DLXName, // Nack sem requeue vai pra DLX
		"x-dead-letter-routing-key": DeadLetterRK,
	}

	if err := ch.ExchangeDeclare(ExchangeName, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, args); err != nil {
		return err
	}
	for _, key := range notificationBindings {
		if err := ch.QueueBind(QueueName, key, ExchangeName, false, nil); err != nil {
			return err
		}
	}
	return nil
}

// Healthy reports whether the broker connection is still open.
func (r *RabbitMQ) Healthy() bool {
	return r != nil && r.Conn != nil && !r.Conn.IsClosed()
}

func (r *RabbitMQ) Close() error {
	if r.Ch != nil {
		_ = r.Ch.Close()
	}
	if r.Conn != nil {
		return r.Conn.Close()
	}
	return nil
}
