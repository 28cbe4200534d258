package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneiriq/cosmiq-graphql/core"
)

func TestBreaker_ClosedAllowsCalls(t *testing.T) {
	b := NewBreaker(CircuitBreakerConfig{Name: "test"})
	assert.True(t, b.CanExecute())
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	b := NewBreaker(CircuitBreakerConfig{Name: "test", MaxFailures: 2, Timeout: time.Minute})

	err := b.Execute(func() error { return core.New("op", core.KindServiceUnavailable, "down") })
	require.Error(t, err)
	assert.True(t, b.CanExecute())

	err = b.Execute(func() error { return core.New("op", core.KindServiceUnavailable, "down") })
	require.Error(t, err)
	assert.False(t, b.CanExecute())
}

func TestBreaker_NonCountingErrorsDontTrip(t *testing.T) {
	b := NewBreaker(CircuitBreakerConfig{Name: "test", MaxFailures: 1, Timeout: time.Minute})

	for i := 0; i < 5; i++ {
		err := b.Execute(func() error { return core.New("op", core.KindNotFound, "missing") })
		require.Error(t, err)
	}
	assert.True(t, b.CanExecute())
}

func TestBreaker_SuccessPropagates(t *testing.T) {
	b := NewBreaker(CircuitBreakerConfig{Name: "test"})
	err := b.Execute(func() error { return nil })
	assert.NoError(t, err)
}

func TestDefaultErrorClassifier(t *testing.T) {
	assert.False(t, DefaultErrorClassifier(nil))
	assert.False(t, DefaultErrorClassifier(core.New("op", core.KindValidation, "x")))
	assert.False(t, DefaultErrorClassifier(core.New("op", core.KindNotFound, "x")))
	assert.True(t, DefaultErrorClassifier(core.New("op", core.KindServiceUnavailable, "x")))
	assert.True(t, DefaultErrorClassifier(errors.New("plain")))
}
