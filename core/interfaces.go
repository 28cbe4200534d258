package core

import (
	"context"
)

// Logger is the minimal structured-logging interface consumed throughout
// the pipeline. Implementations receive a message plus a field map, in the
// teacher framework's style, rather than printf-style varargs.
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Debug(msg string, fields map[string]interface{})

	InfoWithContext(ctx context.Context, msg string, fields map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, fields map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, fields map[string]interface{})
	DebugWithContext(ctx context.Context, msg string, fields map[string]interface{})
}

// ComponentAwareLogger extends Logger with a component tag, so a single
// process building schemas for several containers can filter logs per
// binding (e.g. "sampler/users", "resolver/orders").
type ComponentAwareLogger interface {
	Logger
	WithComponent(component string) Logger
}

// Telemetry is the optional tracing/metrics hook, with NoOpTelemetry as
// its no-op default in the teacher's "optional support with a no-op
// default" convention. Config.Telemetry accepts one, but no pipeline
// stage (sampling, inference, resolver execution) reads it or emits
// spans or metrics through it.
type Telemetry interface {
	StartSpan(ctx context.Context, name string) (context.Context, Span)
	RecordMetric(name string, value float64, labels map[string]string)
}

// Span represents a single traced operation.
type Span interface {
	End()
	SetAttribute(key string, value interface{})
	RecordError(err error)
}

// NoOpLogger discards everything. It is the zero-value default whenever a
// caller does not supply a Logger.
type NoOpLogger struct{}

func (NoOpLogger) Info(msg string, fields map[string]interface{})  {}
func (NoOpLogger) Error(msg string, fields map[string]interface{}) {}
func (NoOpLogger) Warn(msg string, fields map[string]interface{})  {}
func (NoOpLogger) Debug(msg string, fields map[string]interface{}) {}

func (NoOpLogger) InfoWithContext(ctx context.Context, msg string, fields map[string]interface{}) {}
func (NoOpLogger) ErrorWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
}
func (NoOpLogger) WarnWithContext(ctx context.Context, msg string, fields map[string]interface{}) {}
func (NoOpLogger) DebugWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
}

func (n NoOpLogger) WithComponent(component string) Logger { return n }

// NoOpTelemetry discards every span and metric. It is the zero-value
// default whenever a caller does not supply a Telemetry.
type NoOpTelemetry struct{}

func (NoOpTelemetry) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	return ctx, noOpSpan{}
}

func (NoOpTelemetry) RecordMetric(name string, value float64, labels map[string]string) {}

type noOpSpan struct{}

func (noOpSpan) End()                                       {}
func (noOpSpan) SetAttribute(key string, value interface{}) {}
func (noOpSpan) RecordError(err error)                      {}
