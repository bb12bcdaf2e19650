package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("schedule upstream unavailable")

func fail(context.Context) error    { return errUpstream }
func succeed(context.Context) error { return nil }

type transitions struct {
	mu  sync.Mutex
	got []string
}

func (r *transitions) record(from, to CircuitState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, string(from)+"->"+string(to))
}

func newTestBreaker(cfg CircuitBreakerConfig) (*CircuitBreaker, *time.Time, *transitions) {
	rec := &transitions{}
	cfg.Enabled = true
	cfg.OnStateChange = rec.record
	b := NewCircuitBreaker(cfg)
	now := time.Date(2026, 8, 14, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return b, &now, rec
}

func TestCircuitBreaker_Lifecycle(t *testing.T) {
	b, now, rec := newTestBreaker(CircuitBreakerConfig{FailureThreshold: 2, OpenTimeout: 5 * time.Second, HalfOpenMaxReq: 1})

	assert.ErrorIs(t, b.Execute(t.Context(), fail), errUpstream)
	assert.Equal(t, CircuitStateClosed, b.State())
	assert.Equal(t, 1, b.Counts().ConsecutiveFailures)

	assert.ErrorIs(t, b.Execute(t.Context(), fail), errUpstream)
	assert.Equal(t, CircuitStateOpen, b.State())

	calls := 0
	err := b.Execute(t.Context(), func(context.Context) error { calls++; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Zero(t, calls)

	*now = now.Add(5 * time.Second)
	assert.Equal(t, CircuitStateHalfOpen, b.State())
	require.NoError(t, b.Execute(t.Context(), succeed))
	assert.Equal(t, CircuitStateClosed, b.State())

	assert.Equal(t, []string{"closed->open", "open->half_open", "half_open->closed"}, rec.got)
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	b, now, _ := newTestBreaker(CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Second, HalfOpenMaxReq: 2})

	_ = b.Execute(t.Context(), fail)
	*now = now.Add(time.Second)

	assert.ErrorIs(t, b.Execute(t.Context(), fail), errUpstream)
	assert.Equal(t, CircuitStateOpen, b.State())
}

func TestCircuitBreaker_HalfOpenLimitsProbes(t *testing.T) {
	b, now, _ := newTestBreaker(CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Second, HalfOpenMaxReq: 1})
	_ = b.Execute(t.Context(), fail)
	*now = now.Add(time.Second)

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- b.Execute(context.Background(), func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	assert.ErrorIs(t, b.Execute(t.Context(), succeed), ErrCircuitOpen)
	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, CircuitStateClosed, b.State())
}

func TestCircuitBreaker_IgnoredErrorsDoNotTrip(t *testing.T) {
	errNotFound := errors.New("gameweek not in schedule")
	b, _, _ := newTestBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		IsFailure:        func(err error) bool { return !errors.Is(err, errNotFound) },
	})

	for range 3 {
		assert.ErrorIs(t, b.Execute(t.Context(), func(context.Context) error { return errNotFound }), errNotFound)
	}
	assert.Equal(t, CircuitStateClosed, b.State())
}

func TestCircuitBreaker_CancellationIsNotAFailure(t *testing.T) {
	b, _, _ := newTestBreaker(CircuitBreakerConfig{FailureThreshold: 1})

	err := b.Execute(t.Context(), func(context.Context) error { return context.Canceled })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, CircuitStateClosed, b.State())
}

func TestCircuitBreaker_DisabledPassesThrough(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1})

	for range 3 {
		assert.ErrorIs(t, b.Execute(t.Context(), fail), errUpstream)
	}
	assert.Equal(t, CircuitStateClosed, b.State())

	var nilBreaker *CircuitBreaker
	assert.NoError(t, nilBreaker.Execute(t.Context(), succeed))
}

func TestCircuitBreakerConfig_Validate(t *testing.T) {
	assert.NoError(t, CircuitBreakerConfig{}.Validate())
	assert.NoError(t, CircuitBreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Second, HalfOpenMaxReq: 1}.Validate())
	assert.Error(t, CircuitBreakerConfig{Enabled: true, OpenTimeout: time.Second, HalfOpenMaxReq: 1}.Validate())
	assert.Error(t, CircuitBreakerConfig{Enabled: true, FailureThreshold: 1, HalfOpenMaxReq: 1}.Validate())
}
