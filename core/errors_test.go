package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"rate-limited is retryable", Wrap("q", KindRateLimited, errors.New("429")), true},
		{"service-unavailable is retryable", Wrap("q", KindServiceUnavailable, errors.New("503")), true},
		{"timeout is retryable", Wrap("q", KindTimeout, errors.New("ctx")), true},
		{"wrapped retryable error is retryable", fmt.Errorf("op failed: %w", Wrap("q", KindTimeout, errors.New("ctx"))), true},
		{"not-found is not retryable", New("q", KindNotFound, "missing"), false},
		{"configuration is not retryable", New("q", KindConfiguration, "bad"), false},
		{"precondition-failed is not retryable", New("q", KindPreconditionFailed, "etag"), false},
		{"bare driver error is not retryable", errors.New("boom"), false},
		{"nil error is not retryable", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.expected {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(New("point", KindNotFound, "")) {
		t.Error("expected not-found classification")
	}
	if IsNotFound(New("point", KindTimeout, "")) {
		t.Error("timeout must not classify as not-found")
	}
	if IsNotFound(nil) {
		t.Error("nil must not classify as not-found")
	}
}

func TestIsPreconditionFailed(t *testing.T) {
	if !IsPreconditionFailed(New("update", KindPreconditionFailed, "etag mismatch")) {
		t.Error("expected precondition-failed classification")
	}
	if IsPreconditionFailed(New("update", KindConflict, "")) {
		t.Error("conflict must not classify as precondition-failed")
	}
}

func TestIsValidation(t *testing.T) {
	for _, k := range []Kind{KindValidation, KindBadFilter, KindConfiguration} {
		if !IsValidation(New("op", k, "")) {
			t.Errorf("kind %q should classify as validation", k)
		}
	}
	for _, k := range []Kind{KindRateLimited, KindNotFound, KindConflict} {
		if IsValidation(New("op", k, "")) {
			t.Errorf("kind %q should not classify as validation", k)
		}
	}
}

func TestErrorWrapping(t *testing.T) {
	base := New("resolver.point", KindNotFound, "document missing")
	wrapped := fmt.Errorf("lookup failed: %w", base)

	var ce *Error
	if !errors.As(wrapped, &ce) {
		t.Fatal("errors.As should unwrap to *Error")
	}
	if ce.Kind != KindNotFound {
		t.Errorf("unwrapped Kind = %q, want %q", ce.Kind, KindNotFound)
	}
}

func TestErrorString(t *testing.T) {
	e := Wrap("sampling.top", KindQueryFailed, errors.New("dial tcp: timeout")).WithID("users")
	got := e.Error()
	want := "sampling.top [users]: dial tcp: timeout"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	msgOnly := New("validate.identifier", KindBadFilter, "invalid field name")
	if msgOnly.Error() != "invalid field name" {
		t.Errorf("Error() = %q, want message-only rendering", msgOnly.Error())
	}
}

func BenchmarkIsRetryable(b *testing.B) {
	err := fmt.Errorf("wrapped: %w", New("q", KindRateLimited, "429"))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = IsRetryable(err)
	}
}
