// Package service holds adapters between the inventory core and outside
// systems.  The notification publisher turns inventory notifications
// into messages on a durable RabbitMQ queue.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/iliyamo/flight-inventory/internal/inventory"
	"github.com/iliyamo/flight-inventory/internal/queue"
)

var _ inventory.Notifier = (*Publisher)(nil)

// Publisher publishes notification events with publisher confirms.  The
// connection is opened lazily and reopened after the broker drops it.
type Publisher struct {
	url   string
	queue string
	log   *zap.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher connects to the broker and declares the queue.
func NewPublisher(url, queueName string, log *zap.Logger) (*Publisher, error) {
	p := &Publisher{url: url, queue: queueName, log: log}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connectLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connectLocked() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("rabbitmq confirm mode: %w", err)
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *Publisher) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.closeLocked()
	if err := p.connectLocked(); err != nil {
		return nil, err
	}
	p.log.Info("rabbitmq publisher reconnected", zap.String("queue", p.queue))
	return p.ch, nil
}

// Send implements inventory.Notifier.  It returns once the broker has
// confirmed the message, or with the reason it could not.
func (p *Publisher) Send(ctx context.Context, recipients []string, subject, body string) error {
	ev := queue.NewNotificationEvent(recipients, subject, body)
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	headers := amqp.Table{}
	otel.GetTextMapPropagator().Inject(ctx, queue.HeaderCarrier(headers))

	ch, err := p.channel()
	if err != nil {
		return err
	}
	conf, err := ch.PublishWithDeferredConfirmWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID.String(),
		Timestamp:    ev.CreatedAt,
		Type:         ev.Kind,
		Headers:      headers,
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	ok, err := conf.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("await confirm: %w", err)
	}
	if !ok {
		return errors.New("broker nacked notification " + ev.ID.String())
	}
	p.log.Debug("notification published", zap.Stringer("event_id", ev.ID), zap.Int("recipients", len(recipients)))
	return nil
}

// Close shuts the channel and connection.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
}

func (p *Publisher) closeLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
