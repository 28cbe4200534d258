package core

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// OTelTelemetry implements Telemetry on the global OpenTelemetry
// tracer/meter providers, grounded on gomind's telemetry package, which
// wires the same pipeline's resilience metrics through otel/metric and
// otel/trace (resilience/metrics_otel.go).
type OTelTelemetry struct {
	tracer  trace.Tracer
	counter metric.Float64Counter
}

// NewOTelTelemetry constructs an OTelTelemetry reporting under
// instrumentationName, e.g. "cosmiq-graphql".
func NewOTelTelemetry(instrumentationName string) (*OTelTelemetry, error) {
	counter, err := otel.Meter(instrumentationName).Float64Counter(instrumentationName + ".events")
	if err != nil {
		return nil, err
	}
	return &OTelTelemetry{
		tracer:  otel.Tracer(instrumentationName),
		counter: counter,
	}, nil
}

func (t *OTelTelemetry) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name)
	return ctx, &otelSpan{span: span}
}

func (t *OTelTelemetry) RecordMetric(name string, value float64, labels map[string]string) {
	attrs := make([]attribute.KeyValue, 0, len(labels)+1)
	attrs = append(attrs, attribute.String("metric", name))
	for k, v := range labels {
		attrs = append(attrs, attribute.String(k, v))
	}
	t.counter.Add(context.Background(), value, metric.WithAttributes(attrs...))
}

var _ Telemetry = (*OTelTelemetry)(nil)

type otelSpan struct {
	span trace.Span
}

func (s *otelSpan) End() { s.span.End() }

func (s *otelSpan) SetAttribute(key string, value interface{}) {
	s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", value)))
}

func (s *otelSpan) RecordError(err error) { s.span.RecordError(err) }

var _ Span = (*otelSpan)(nil)
