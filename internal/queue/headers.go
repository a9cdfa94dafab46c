package queue

import (
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel/propagation"
)

// HeaderCarrier lets the otel propagators read and write AMQP headers.
type HeaderCarrier amqp.Table

var _ propagation.TextMapCarrier = HeaderCarrier{}

func (h HeaderCarrier) Get(key string) string {
	v, _ := h[key].(string)
	return v
}

func (h HeaderCarrier) Set(key, value string) { h[key] = value }

func (h HeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	return keys
}
