package resilience

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetricsCollector implements MetricsCollector directly against the
// OpenTelemetry SDK, one counter per outcome, grounded on gomind's
// resilience/metrics_otel.go (same interface, same per-outcome counter
// shape) — adapted here to call otel/metric directly since this repo
// doesn't carry gomind's telemetry.MetricInstruments wrapper.
type OTelMetricsCollector struct {
	successes    metric.Int64Counter
	failures     metric.Int64Counter
	rejections   metric.Int64Counter
	stateChanges metric.Int64Counter
}

// NewOTelMetricsCollector constructs an OTelMetricsCollector reporting
// under instrumentationName.
func NewOTelMetricsCollector(instrumentationName string) (*OTelMetricsCollector, error) {
	meter := otel.Meter(instrumentationName)

	successes, err := meter.Int64Counter("circuit_breaker.success")
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("circuit_breaker.failure")
	if err != nil {
		return nil, err
	}
	rejections, err := meter.Int64Counter("circuit_breaker.rejected")
	if err != nil {
		return nil, err
	}
	stateChanges, err := meter.Int64Counter("circuit_breaker.state_change")
	if err != nil {
		return nil, err
	}

	return &OTelMetricsCollector{
		successes:    successes,
		failures:     failures,
		rejections:   rejections,
		stateChanges: stateChanges,
	}, nil
}

var _ MetricsCollector = (*OTelMetricsCollector)(nil)

func (o *OTelMetricsCollector) RecordSuccess(name string) {
	o.successes.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("circuit_breaker", name),
	))
}

func (o *OTelMetricsCollector) RecordFailure(name string, errorType string) {
	o.failures.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("circuit_breaker", name),
		attribute.String("error_type", errorType),
	))
}

func (o *OTelMetricsCollector) RecordStateChange(name, from, to string) {
	o.stateChanges.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("circuit_breaker", name),
		attribute.String("from_state", from),
		attribute.String("to_state", to),
	))
}

func (o *OTelMetricsCollector) RecordRejection(name string) {
	o.rejections.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("circuit_breaker", name),
	))
}
