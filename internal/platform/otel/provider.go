// Package otel wires OpenTelemetry tracing for notebook commands.
package otel

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/notebook/internal/platform/config"
)

const (
	// EndpointEnv names the OTLP HTTP endpoint variable.
	EndpointEnv = "NOTEBOOK_OTEL_ENDPOINT"
	// EnabledEnv can be set to "false" to disable tracing even with an endpoint.
	EnabledEnv = "NOTEBOOK_OTEL_ENABLED"
	// SampleRatioEnv is the fraction of new traces kept. 1 keeps every trace.
	SampleRatioEnv = "NOTEBOOK_OTEL_SAMPLE_RATIO"
)

// Config selects the trace exporter and sampler.
type Config struct {
	Endpoint    string  `env:"NOTEBOOK_OTEL_ENDPOINT"`
	Enabled     bool    `env:"NOTEBOOK_OTEL_ENABLED" envDefault:"true"`
	SampleRatio float64 `env:"NOTEBOOK_OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// LoadConfig reads tracing settings from the process environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("otel config: %w", err)
	}
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	return cfg, nil
}

// Setup initialises OpenTelemetry tracing for the given service from the
// environment.
//
// Tracing is opt-in: with no endpoint, or with EnabledEnv set to "false",
// Setup registers nothing and returns a no-op shutdown function.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	cfg, err := LoadConfig()
	if err != nil {
		return func(context.Context) error { return nil }, err
	}
	return SetupWithConfig(ctx, serviceName, cfg)
}

// SetupWithConfig registers a global tracer provider exporting to
// cfg.Endpoint. The returned shutdown function flushes pending spans.
func SetupWithConfig(ctx context.Context, serviceName string, cfg Config) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled || cfg.Endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.Endpoint))
	if err != nil {
		return noop, err
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(Sampler(cfg.SampleRatio)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Sampler keeps every trace at ratio 1 or above and none at 0 or below.
// Ratios in between sample new traces by trace ID and follow the parent's
// decision for propagated ones.
func Sampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.AlwaysSample()
	case ratio <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

// Tracer returns a named tracer from the globally registered provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
