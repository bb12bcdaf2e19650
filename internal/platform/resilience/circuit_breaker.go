package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// Counts are reset on every state change.
type Counts struct {
	Requests             int
	ConsecutiveFailures  int
	ConsecutiveSuccesses int
}

// CircuitBreaker guards calls to a remote dependency. Each state change starts
// a new generation; outcomes reported for an older generation are dropped.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu         sync.Mutex
	state      CircuitState
	generation uint64
	counts     Counts
	expiry     time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		cfg:   cfg.withDefaults(),
		now:   time.Now,
		state: CircuitStateClosed,
	}
}

// Execute runs fn when the breaker admits the call and records its outcome.
func (b *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if b == nil || !b.cfg.Enabled {
		return fn(ctx)
	}

	generation, err := b.before()
	if err != nil {
		return err
	}

	defer func() {
		if rec := recover(); rec != nil {
			b.after(generation, false)
			panic(rec)
		}
	}()

	err = fn(ctx)
	b.after(generation, err == nil || !b.cfg.IsFailure(err))
	return err
}

func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	state, _, change := b.current(b.now())
	b.mu.Unlock()
	b.notify(change)
	return state
}

func (b *CircuitBreaker) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts
}

func (b *CircuitBreaker) before() (uint64, error) {
	b.mu.Lock()
	state, generation, change := b.current(b.now())
	admitted := true
	switch {
	case state == CircuitStateOpen:
		admitted = false
	case state == CircuitStateHalfOpen && b.counts.Requests >= b.cfg.HalfOpenMaxReq:
		admitted = false
	default:
		b.counts.Requests++
	}
	b.mu.Unlock()

	b.notify(change)
	if !admitted {
		return generation, ErrCircuitOpen
	}
	return generation, nil
}

func (b *CircuitBreaker) after(generation uint64, success bool) {
	now := b.now()
	b.mu.Lock()
	state, current, change := b.current(now)
	if current != generation {
		b.mu.Unlock()
		b.notify(change)
		return
	}

	if success {
		b.counts.ConsecutiveSuccesses++
		b.counts.ConsecutiveFailures = 0
		if state == CircuitStateHalfOpen && b.counts.ConsecutiveSuccesses >= b.cfg.HalfOpenMaxReq {
			change = b.setState(CircuitStateClosed, now)
		}
	} else {
		b.counts.ConsecutiveFailures++
		b.counts.ConsecutiveSuccesses = 0
		if state == CircuitStateHalfOpen || b.counts.ConsecutiveFailures >= b.cfg.FailureThreshold {
			change = b.setState(CircuitStateOpen, now)
		}
	}
	b.mu.Unlock()
	b.notify(change)
}

type stateChange struct {
	from, to CircuitState
}

// current moves an expired open breaker to half-open. Callers hold b.mu.
func (b *CircuitBreaker) current(now time.Time) (CircuitState, uint64, *stateChange) {
	var change *stateChange
	if b.state == CircuitStateOpen && !now.Before(b.expiry) {
		change = b.setState(CircuitStateHalfOpen, now)
	}
	return b.state, b.generation, change
}

func (b *CircuitBreaker) setState(next CircuitState, now time.Time) *stateChange {
	if b.state == next {
		return nil
	}
	change := &stateChange{from: b.state, to: next}
	b.state = next
	b.generation++
	b.counts = Counts{}
	b.expiry = time.Time{}
	if next == CircuitStateOpen {
		b.expiry = now.Add(b.cfg.OpenTimeout)
	}
	return change
}

func (b *CircuitBreaker) notify(change *stateChange) {
	if change != nil && b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(change.from, change.to)
	}
}
