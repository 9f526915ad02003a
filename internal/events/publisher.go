package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher delivers an already-built event to a queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, event any) error
}

// AMQPPublisher publishes JSON events through the default exchange.
type AMQPPublisher struct {
	ch *amqp.Channel
}

func NewAMQPPublisher(conn *amqp.Connection) (*AMQPPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(OrderPlacedQueue, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare %s: %w", OrderPlacedQueue, err)
	}
	return &AMQPPublisher{ch: ch}, nil
}

func (p *AMQPPublisher) Close() error {
	return p.ch.Close()
}

func (p *AMQPPublisher) Publish(ctx context.Context, queue string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		"",    // default exchange
		queue, // queue name as routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

// LogPublisher writes events to a logger. Used when no broker is configured.
type LogPublisher struct {
	logger *log.Logger
}

func NewLogPublisher(l *log.Logger) *LogPublisher {
	return &LogPublisher{logger: l}
}

func (p *LogPublisher) Publish(_ context.Context, queue string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	p.logger.Printf("event %s: %s", queue, body)
	return nil
}
