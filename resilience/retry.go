// Package resilience wraps the resolver engine's calls to the
// underlying document database with retry, circuit-breaking, and
// metrics, grounded on the gomind framework's resilience package.
package resilience

import (
	"context"
	"math/rand"
	"time"

	"github.com/oneiriq/cosmiq-graphql/core"
)

// Classifier decides whether an error returned from an attempt is worth
// retrying. The default classifies by core.Kind; callers may override it
// via core.RetryConfig.ShouldRetry.
type Classifier func(error) bool

// DefaultClassifier retries rate-limited, service-unavailable, and
// timeout errors — the three Kinds spec.md §4.2 documents as transient.
func DefaultClassifier(err error) bool {
	return core.IsRetryable(err)
}

// retryAfterErr is implemented by driver errors that carry a
// server-provided retry-after hint (spec.md §4.2 "respects RetryAfter
// headers").
type retryAfterErr interface {
	RetryAfter() time.Duration
}

// Do executes fn, retrying according to cfg's backoff schedule while
// classify (or cfg.ShouldRetry, or DefaultClassifier) reports the
// failure as retryable. Delay grows by BackoffMultiplier each attempt,
// capped at MaxDelay, and each computed delay is randomized by up to
// ±Jitter of its length. When cfg.RespectRetryAfter is set, a
// driver-reported RetryAfter duration longer than that jittered delay
// is waited out unjittered in its place.
func Do(ctx context.Context, cfg core.RetryConfig, fn func(ctx context.Context) error) error {
	classify := cfg.ShouldRetry
	if classify == nil {
		classify = DefaultClassifier
	}

	delay := cfg.BaseDelay
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == cfg.MaxRetries || !classify(lastErr) {
			return lastErr
		}

		wait := applyJitter(delay, cfg.Jitter)
		if cfg.RespectRetryAfter {
			if ra, ok := lastErr.(retryAfterErr); ok && ra.RetryAfter() > wait {
				wait = ra.RetryAfter()
			}
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * cfg.BackoffMultiplier)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return lastErr
}

func applyJitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 {
		return d
	}
	spread := float64(d) * fraction
	offset := (rand.Float64()*2 - 1) * spread
	result := time.Duration(float64(d) + offset)
	if result < 0 {
		return 0
	}
	return result
}
