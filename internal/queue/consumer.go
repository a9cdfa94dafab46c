package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	prefetch   = 20
	maxBackoff = 30 * time.Second
	tracerName = "github.com/iliyamo/flight-inventory/internal/queue"
)

// Consumer drains the notification queue into a Mailer.
type Consumer struct {
	url         string
	queue       string
	mailer      Mailer
	log         *zap.Logger
	tracer      trace.Tracer
	sendTimeout time.Duration
}

// NewConsumer builds a consumer for queue on the broker at url.
func NewConsumer(url, queue string, mailer Mailer, log *zap.Logger, sendTimeout time.Duration) *Consumer {
	if sendTimeout <= 0 {
		sendTimeout = 30 * time.Second
	}
	return &Consumer{
		url:         url,
		queue:       queue,
		mailer:      mailer,
		log:         log.With(zap.String("queue", queue)),
		tracer:      otel.Tracer(tracerName),
		sendTimeout: sendTimeout,
	}
}

// Run consumes until ctx is cancelled, redialing the broker with
// exponential backoff whenever the connection drops.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		err := c.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("notification consumer disconnected", zap.Error(err), zap.Duration("retry_in", backoff))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < maxBackoff {
			backoff *= 2
		}
	}
}

// session runs one connection's worth of consuming.
func (c *Consumer) session(ctx context.Context) error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	tag := "notify-" + uuid.NewString()
	msgs, err := ch.Consume(c.queue, tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	c.log.Info("notification consumer started", zap.String("consumer_tag", tag))

	for {
		select {
		case <-ctx.Done():
			_ = ch.Cancel(tag, false)
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.handle(ctx, d)
		}
	}
}

// handle delivers one message and settles it.  Undecodable messages are
// dropped; a failed send is requeued once and dropped on redelivery.
func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	if d.Headers == nil {
		d.Headers = amqp.Table{}
	}
	ctx = otel.GetTextMapPropagator().Extract(ctx, HeaderCarrier(d.Headers))
	ctx, span := c.tracer.Start(ctx, "notification.deliver",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "rabbitmq"),
			attribute.String("messaging.destination.name", c.queue),
			attribute.String("messaging.message.id", d.MessageId),
		))
	defer span.End()

	ev, err := DecodeNotificationEvent(d.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode")
		c.log.Error("dropping undecodable notification", zap.String("message_id", d.MessageId), zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, c.sendTimeout)
	defer cancel()
	if err := c.mailer.Send(sendCtx, ev.Recipients, ev.Subject, ev.Body); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send")
		requeue := !d.Redelivered
		c.log.Warn("notification send failed",
			zap.Stringer("event_id", ev.ID),
			zap.Bool("requeue", requeue),
			zap.Error(err))
		_ = d.Nack(false, requeue)
		return
	}

	c.log.Debug("notification delivered", zap.Stringer("event_id", ev.ID), zap.Int("recipients", len(ev.Recipients)))
	_ = d.Ack(false)
}
