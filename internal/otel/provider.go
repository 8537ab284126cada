// Package otel installs the tracer provider that pkg/otelhooks spans are
// exported through when the CLI is pointed at a collector.
package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Shutdown flushes buffered spans and stops the exporter.
type Shutdown func(context.Context) error

func nopShutdown(context.Context) error { return nil }

// Setup points the global tracer provider at an OTLP/HTTP collector.
//
// Graph spans are only worth exporting when someone is listening, so with
// an empty endpoint or enabled false the global provider is left untouched
// and the returned Shutdown does nothing.
func Setup(ctx context.Context, serviceName, endpoint string, enabled bool) (Shutdown, error) {
	if !enabled || endpoint == "" {
		return nopShutdown, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return nopShutdown, fmt.Errorf("otlp exporter: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return nopShutdown, fmt.Errorf("otel resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown, nil
}
