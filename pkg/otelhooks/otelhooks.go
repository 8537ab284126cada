// Package otelhooks traces reactive graph activity with OpenTelemetry.
//
// Each derived compute, effect run and flush becomes a span whose start
// and end times are the ones the graph measured. Signal writes are
// recorded only when enabled, since they are usually too frequent to be
// worth a span each.
package otelhooks

import (
	"context"
	"time"

	"github.com/delaneyj/signalgraph/reactive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "signalgraph"

const (
	SpanSignalSet      = "signalgraph.signal.set"
	SpanDerivedCompute = "signalgraph.derived.compute"
	SpanEffectRun      = "signalgraph.effect.run"
	SpanFlush          = "signalgraph.flush"
)

// Config configures the tracing hooks.
type Config struct {
	// TracerName is the name of the tracer (default: "signalgraph").
	TracerName string

	// TracerProvider supplies the tracer.
	// Default: the global provider.
	TracerProvider trace.TracerProvider

	// SignalSpans records a span for every signal write.
	SignalSpans bool

	// Attributes are added to every span.
	Attributes []attribute.KeyValue
}

type Option func(*Config)

func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) {
		c.TracerProvider = tp
	}
}

func WithSignalSpans(enabled bool) Option {
	return func(c *Config) {
		c.SignalSpans = enabled
	}
}

func WithAttributes(attrs ...attribute.KeyValue) Option {
	return func(c *Config) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// Hooks implements reactive.Hooks by emitting spans.
type Hooks struct {
	tracer      trace.Tracer
	signalSpans bool
	attrs       []attribute.KeyValue
}

var _ reactive.Hooks = (*Hooks)(nil)

func New(opts ...Option) *Hooks {
	config := Config{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Hooks{
		tracer:      tp.Tracer(config.TracerName),
		signalSpans: config.SignalSpans,
		attrs:       config.Attributes,
	}
}

func (h *Hooks) span(name string, start time.Time, attrs ...attribute.KeyValue) trace.Span {
	_, span := h.tracer.Start(context.Background(), name,
		trace.WithTimestamp(start),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(h.attrs...),
		trace.WithAttributes(attrs...),
	)
	return span
}

func (h *Hooks) SignalSet(id reactive.SignalID, version uint64) {
	if !h.signalSpans {
		return
	}
	now := time.Now()
	span := h.span(SpanSignalSet, now,
		attribute.String("signalgraph.signal", id.String()),
		attribute.Int64("signalgraph.signal.version", int64(version)),
	)
	span.End(trace.WithTimestamp(now))
}

func (h *Hooks) DerivedComputed(id reactive.DerivedID, start time.Time, took time.Duration) {
	span := h.span(SpanDerivedCompute, start,
		attribute.String("signalgraph.derived", id.String()),
	)
	span.End(trace.WithTimestamp(start.Add(took)))
}

func (h *Hooks) EffectRan(id reactive.EffectID, start time.Time, took time.Duration, err error) {
	span := h.span(SpanEffectRun, start,
		attribute.String("signalgraph.effect", id.String()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(start.Add(took)))
}

func (h *Hooks) Flushed(passes, ran int, start time.Time, took time.Duration) {
	span := h.span(SpanFlush, start,
		attribute.Int("signalgraph.flush.passes", passes),
		attribute.Int("signalgraph.flush.ran", ran),
	)
	span.End(trace.WithTimestamp(start.Add(took)))
}
