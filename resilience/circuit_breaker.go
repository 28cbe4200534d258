package resilience

import (
	"time"

	"github.com/sony/gobreaker"

	"github.com/oneiriq/cosmiq-graphql/core"
)

// MetricsCollector reports circuit breaker transitions and outcomes,
// mirroring the teacher framework's resilience.MetricsCollector
// interface. NoopMetricsCollector is used when a caller doesn't wire
// one in.
type MetricsCollector interface {
	RecordSuccess(name string)
	RecordFailure(name string, errorType string)
	RecordStateChange(name, from, to string)
	RecordRejection(name string)
}

// NoopMetricsCollector discards every event.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSuccess(name string)                  {}
func (NoopMetricsCollector) RecordFailure(name, errorType string)       {}
func (NoopMetricsCollector) RecordStateChange(name, from, to string)    {}
func (NoopMetricsCollector) RecordRejection(name string)                {}

// ErrorClassifier decides which errors count toward the circuit
// breaker's failure threshold. Validation-shaped errors are caller
// mistakes, not infrastructure trouble, so they never trip the breaker
// (spec.md §4.2 "only transient/infra errors count").
type ErrorClassifier func(error) bool

// DefaultErrorClassifier counts everything except validation, bad
// filter, configuration, not-found, precondition-failed, conflict, and
// type-conflict — those are the caller's fault, not the store's.
func DefaultErrorClassifier(err error) bool {
	if err == nil {
		return false
	}
	switch core.KindOf(err) {
	case core.KindValidation, core.KindBadFilter, core.KindConfiguration,
		core.KindNotFound, core.KindPreconditionFailed, core.KindConflict, core.KindTypeConflict:
		return false
	default:
		return true
	}
}

// CircuitBreakerConfig configures Breaker.
type CircuitBreakerConfig struct {
	Name             string
	MaxFailures      uint32        // consecutive failures before opening
	Timeout          time.Duration // how long the breaker stays open before probing
	HalfOpenMaxCalls uint32        // calls allowed through while half-open
	Classifier       ErrorClassifier
	Metrics          MetricsCollector
}

// Breaker wraps sony/gobreaker behind the core.CircuitBreaker capability
// interface (CanExecute/RecordSuccess/RecordFailure) so resolvers and
// samplers can depend on core without importing resilience.
type Breaker struct {
	cb         *gobreaker.CircuitBreaker
	classifier ErrorClassifier
	metrics    MetricsCollector
	name       string
}

var _ core.CircuitBreaker = (*Breaker)(nil)

// NewBreaker constructs a Breaker, filling in the spec's documented
// defaults (5 consecutive failures, 30s open timeout, 1 half-open probe).
func NewBreaker(cfg CircuitBreakerConfig) *Breaker {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.HalfOpenMaxCalls == 0 {
		cfg.HalfOpenMaxCalls = 1
	}
	if cfg.Classifier == nil {
		cfg.Classifier = DefaultErrorClassifier
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NoopMetricsCollector{}
	}

	b := &Breaker{classifier: cfg.Classifier, metrics: cfg.Metrics, name: cfg.Name}

	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.HalfOpenMaxCalls,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.metrics.RecordStateChange(name, from.String(), to.String())
		},
	})

	return b
}

// CanExecute reports whether the breaker currently permits a call.
func (b *Breaker) CanExecute() bool {
	state := b.cb.State()
	if state == gobreaker.StateOpen {
		b.metrics.RecordRejection(b.name)
		return false
	}
	return true
}

// RecordSuccess counts one successful call, for callers that gate their
// own work with CanExecute rather than running it through Execute.
// gobreaker tracks state purely from Execute's callback, so the outcome
// is fed to it through a no-op Execute, then recorded in metrics.
func (b *Breaker) RecordSuccess() {
	b.cb.Execute(func() (interface{}, error) { return nil, nil })
	b.metrics.RecordSuccess(b.name)
}

// RecordFailure counts one failed call toward the trip threshold, the
// same way RecordSuccess counts a success. Prefer Execute when the
// caller can express its work as a single func() error.
func (b *Breaker) RecordFailure() {
	b.cb.Execute(func() (interface{}, error) {
		return nil, core.New("breaker.record", core.KindServiceUnavailable, "recorded failure")
	})
	b.metrics.RecordFailure(b.name, "")
}

// Execute runs fn through the breaker, classifying fn's error to decide
// whether it counts toward the trip threshold. Non-counting errors
// (validation, not-found, ...) are returned but treated as successes by
// gobreaker's bookkeeping — the caller's mistake shouldn't open the
// breaker for everyone else.
func (b *Breaker) Execute(fn func() error) error {
	var nonCountingErr error

	_, gbErr := b.cb.Execute(func() (interface{}, error) {
		innerErr := fn()
		switch {
		case innerErr != nil && b.classifier(innerErr):
			b.metrics.RecordFailure(b.name, string(core.KindOf(innerErr)))
			return nil, innerErr
		case innerErr != nil:
			// Caller-fault error: surface it to our own caller without
			// letting gobreaker count it toward the trip threshold.
			nonCountingErr = innerErr
			return nil, nil
		default:
			b.metrics.RecordSuccess(b.name)
			return nil, nil
		}
	})

	if nonCountingErr != nil {
		return nonCountingErr
	}
	return gbErr
}
