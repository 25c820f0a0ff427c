package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultDialTimeout bounds connect and handshake when none is configured.
const DefaultDialTimeout = 2 * time.Second

// AMQPPublisher publishes events as persistent JSON messages on a durable
// queue through the default exchange.  Each publish opens its own
// connection, so a broker outage never leaves a broken channel behind.
// Publishes run on the request path; DialTimeout caps what an unreachable
// or stalled broker can add to a request.
type AMQPPublisher struct {
	URL         string
	Queue       string
	DialTimeout time.Duration
}

func NewAMQPPublisher(url, queue string, dialTimeout time.Duration) *AMQPPublisher {
	if dialTimeout <= 0 {
		dialTimeout = DefaultDialTimeout
	}
	return &AMQPPublisher{URL: url, Queue: queue, DialTimeout: dialTimeout}
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev Event) error {
	timeout := p.DialTimeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	// DefaultDial also sets a deadline on the AMQP handshake, so a broker
	// that accepts but never answers fails after timeout too.
	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Dial:      amqp.DefaultDial(timeout),
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
	})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}
