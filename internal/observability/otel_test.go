package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/iliyamo/flight-inventory/internal/config"
)

func TestSetupTracingSDKWithoutEndpoint(t *testing.T) {
	shutdown, err := SetupTracingSDK(context.Background(), config.TracingConfig{ServiceName: "test"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	fields := otel.GetTextMapPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")
}

func TestSetupTracingSDKWithEndpoint(t *testing.T) {
	shutdown, err := SetupTracingSDK(context.Background(), config.TracingConfig{
		ServiceName: "test",
		Endpoint:    "localhost:4318",
		Insecure:    true,
		SampleRatio: 1,
	})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "probe")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
