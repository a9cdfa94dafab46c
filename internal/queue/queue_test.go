package queue

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type settle struct {
	acked   bool
	nacked  bool
	requeue bool
}

// fakeAcker records how a delivery was settled.
type fakeAcker struct {
	mu  sync.Mutex
	got settle
}

func (a *fakeAcker) Ack(uint64, bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.got.acked = true
	return nil
}

func (a *fakeAcker) Nack(_ uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.got.nacked, a.got.requeue = true, requeue
	return nil
}

func (a *fakeAcker) Reject(tag uint64, requeue bool) error { return a.Nack(tag, false, requeue) }

type mailerFunc func(ctx context.Context, to []string, subject, body string) error

func (f mailerFunc) Send(ctx context.Context, to []string, subject, body string) error {
	return f(ctx, to, subject, body)
}

func delivery(t *testing.T, ack amqp.Acknowledger, body []byte, redelivered bool) amqp.Delivery {
	t.Helper()
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: body, Redelivered: redelivered}
}

func encoded(t *testing.T, ev NotificationEvent) []byte {
	t.Helper()
	bs, err := json.Marshal(ev)
	require.NoError(t, err)
	return bs
}

func TestHandleDeliversAndAcks(t *testing.T) {
	var got []string
	c := NewConsumer("", "q", mailerFunc(func(ctx context.Context, to []string, subject, body string) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		got = append(got, to...)
		assert.Equal(t, "Flight cancelled", subject)
		return nil
	}), zap.NewNop(), time.Second)

	ack := &fakeAcker{}
	ev := NewNotificationEvent([]string{"a@x.test", "b@x.test"}, "Flight cancelled", "body")
	c.handle(context.Background(), delivery(t, ack, encoded(t, ev), false))

	assert.Equal(t, settle{acked: true}, ack.got)
	assert.Equal(t, []string{"a@x.test", "b@x.test"}, got)
}

func TestHandleDropsUndecodable(t *testing.T) {
	c := NewConsumer("", "q", mailerFunc(func(context.Context, []string, string, string) error {
		t.Fatal("mailer must not be called")
		return nil
	}), zap.NewNop(), time.Second)

	for name, body := range map[string][]byte{
		"not json":      []byte("{"),
		"no recipients": encoded(t, NewNotificationEvent(nil, "s", "b")),
		"unknown kind":  []byte(`{"kind":"sms","recipients":["a@x.test"]}`),
	} {
		t.Run(name, func(t *testing.T) {
			ack := &fakeAcker{}
			c.handle(context.Background(), delivery(t, ack, body, false))
			assert.Equal(t, settle{nacked: true}, ack.got)
		})
	}
}

func TestHandleRequeuesOnce(t *testing.T) {
	c := NewConsumer("", "q", mailerFunc(func(context.Context, []string, string, string) error {
		return errors.New("relay down")
	}), zap.NewNop(), time.Second)
	body := encoded(t, NewNotificationEvent([]string{"a@x.test"}, "s", "b"))

	first := &fakeAcker{}
	c.handle(context.Background(), delivery(t, first, body, false))
	assert.Equal(t, settle{nacked: true, requeue: true}, first.got)

	second := &fakeAcker{}
	c.handle(context.Background(), delivery(t, second, body, true))
	assert.Equal(t, settle{nacked: true}, second.got)
}

func TestHeaderCarrier(t *testing.T) {
	h := HeaderCarrier(amqp.Table{"traceparent": "00-abc-def-01", "retries": int32(2)})
	assert.Equal(t, "00-abc-def-01", h.Get("traceparent"))
	assert.Equal(t, "", h.Get("retries"))
	h.Set("baggage", "k=v")
	assert.ElementsMatch(t, []string{"traceparent", "retries", "baggage"}, h.Keys())
}

func TestBuildMessage(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	msg := string(buildMessage("ops@air.test", []string{"a@x.test", "b@x.test"}, "Hello", "line1\nline2", now))

	assert.True(t, strings.HasPrefix(msg, "From: ops@air.test\r\nTo: a@x.test, b@x.test\r\nSubject: Hello\r\n"))
	assert.Contains(t, msg, "Date: Wed, 10 Jan 2024 12:00:00 +0000\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nline1\r\nline2"))
}

func TestLogMailer(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := NewLogMailer(zap.New(core))

	require.NoError(t, m.Send(context.Background(), []string{"a@x.test"}, "Subj", "Body"))
	entries := logs.FilterMessage("mail").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Subj", entries[0].ContextMap()["subject"])
}
