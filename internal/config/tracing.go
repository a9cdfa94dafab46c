package config

import "os"

// TracingConfig configures the OTLP/HTTP trace exporter.  Tracing is off
// when Endpoint is empty.
type TracingConfig struct {
	ServiceName string
	Endpoint    string // host:port of the OTLP/HTTP collector
	AuthHeader  string // optional Authorization header value
	Insecure    bool
	SampleRatio float64
}

// LoadTracingConfig reads the OTEL_* variables.
func LoadTracingConfig() TracingConfig {
	ratio := 1.0
	if n := envInt("OTEL_SAMPLE_PERCENT", 100); n >= 0 && n < 100 {
		ratio = float64(n) / 100
	}
	return TracingConfig{
		ServiceName: envStr("OTEL_SERVICE_NAME", "flight-inventory"),
		Endpoint:    os.Getenv("OTEL_ENDPOINT"),
		AuthHeader:  os.Getenv("OTEL_AUTH_HEADER"),
		Insecure:    envBool("OTEL_INSECURE", true),
		SampleRatio: ratio,
	}
}
