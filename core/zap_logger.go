package core

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
)

// ZapLogger adapts a *zap.Logger into Logger through go-logr/zapr —
// the same zap.Logger-to-logr.Logger conversion the kubernaut gateway
// test harness performs for its own unified logging.
type ZapLogger struct {
	logr logr.Logger
}

// NewZapLogger builds a production zap.Logger and wraps it as a Logger.
func NewZapLogger() (*ZapLogger, error) {
	zl, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return &ZapLogger{logr: zapr.NewLogger(zl)}, nil
}

// NewZapLoggerFrom wraps a caller-constructed *zap.Logger, for callers
// that need custom zap output encoding or level wiring.
func NewZapLoggerFrom(zl *zap.Logger) *ZapLogger {
	return &ZapLogger{logr: zapr.NewLogger(zl)}
}

func fieldsToKV(fields map[string]interface{}) []interface{} {
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return kv
}

// Info logs at logr's default verbosity (V(0)).
func (z *ZapLogger) Info(msg string, fields map[string]interface{}) {
	z.logr.WithValues(fieldsToKV(fields)...).Info(msg)
}

// Error logs msg without a wrapped error; callers that have one should
// log it as a field instead, since core.Logger carries no error param.
func (z *ZapLogger) Error(msg string, fields map[string]interface{}) {
	z.logr.WithValues(fieldsToKV(fields)...).Error(nil, msg)
}

// Warn maps to logr verbosity level 1, since logr has no distinct warn
// level of its own.
func (z *ZapLogger) Warn(msg string, fields map[string]interface{}) {
	z.logr.WithValues(fieldsToKV(fields)...).V(1).Info(msg)
}

// Debug maps to logr verbosity level 2.
func (z *ZapLogger) Debug(msg string, fields map[string]interface{}) {
	z.logr.WithValues(fieldsToKV(fields)...).V(2).Info(msg)
}

func (z *ZapLogger) InfoWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	z.Info(msg, fields)
}

func (z *ZapLogger) ErrorWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	z.Error(msg, fields)
}

func (z *ZapLogger) WarnWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	z.Warn(msg, fields)
}

func (z *ZapLogger) DebugWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	z.Debug(msg, fields)
}

// WithComponent tags every subsequent log line with component through
// logr's hierarchical naming.
func (z *ZapLogger) WithComponent(component string) Logger {
	return &ZapLogger{logr: z.logr.WithName(component)}
}

var _ ComponentAwareLogger = (*ZapLogger)(nil)
