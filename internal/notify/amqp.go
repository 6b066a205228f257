package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/avstrong/hotelcart/internal/booking"
	"github.com/avstrong/hotelcart/internal/logger"
)

type AMQPConfig struct {
	L     *logger.Logger
	URL   string
	Queue string
}

// AMQPPublisher sends confirmations to a durable RabbitMQ queue through the
// default exchange.
type AMQPPublisher struct {
	l     *logger.Logger
	conn  *amqp.Connection
	queue string
}

func NewAMQPPublisher(conf AMQPConfig) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(conf.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(conf.Queue, true, false, false, false, nil); err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("declare queue %s: %w", conf.Queue, err)
	}

	return &AMQPPublisher{l: conf.L, conn: conn, queue: conf.Queue}, nil
}

func (p *AMQPPublisher) PublishOrderConfirmed(ctx context.Context, order *booking.Order) error {
	body, err := json.Marshal(NewOrderConfirmedEvent(order))
	if err != nil {
		return fmt.Errorf("marshal order confirmed event: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	//nolint:exhaustruct
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    fmt.Sprintf("order-%d", order.ID),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", p.queue, err)
	}

	p.l.LogInfo("Order %d confirmation published to %s", order.ID, p.queue)

	return nil
}

func (p *AMQPPublisher) Close() error {
	if err := p.conn.Close(); err != nil {
		return fmt.Errorf("close rabbitmq connection: %w", err)
	}

	return nil
}
