package resilience

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

const (
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 15 * time.Second
	defaultHalfOpenProbes   = 2
)

// CircuitBreakerConfig is loaded from the AUTH_CIRCUIT_* settings. Zero
// numeric fields fall back to defaults.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenProbes   int

	// OnStateChange, when set, is called outside the lock after each
	// transition.
	OnStateChange func(from, to CircuitState)
}

func (c CircuitBreakerConfig) withDefaults() CircuitBreakerConfig {
	if c.FailureThreshold < 1 {
		c.FailureThreshold = defaultFailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaultOpenTimeout
	}
	if c.HalfOpenProbes < 1 {
		c.HalfOpenProbes = defaultHalfOpenProbes
	}
	return c
}

// CircuitBreaker trips after a run of consecutive failures. Once the open
// timeout has elapsed it admits HalfOpenProbes trial calls; all of them must
// succeed to close again, and any failure reopens it.
//
// A nil *CircuitBreaker admits every call.
type CircuitBreaker struct {
	cfg   CircuitBreakerConfig
	clock clockwork.Clock

	mu        sync.Mutex
	state     CircuitState
	failures  int
	openedAt  time.Time
	inFlight  int
	successes int
}

// NewCircuitBreaker returns nil when cfg is disabled.
func NewCircuitBreaker(cfg CircuitBreakerConfig, clock clockwork.Clock) *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CircuitBreaker{
		cfg:   cfg.withDefaults(),
		clock: clock,
		state: CircuitStateClosed,
	}
}

// Allow reports whether a call may proceed. Every nil return must be paired
// with RecordSuccess or RecordFailure.
func (b *CircuitBreaker) Allow() error {
	if b == nil {
		return nil
	}

	b.mu.Lock()
	from := b.state
	if b.state == CircuitStateOpen && b.cooledDown() {
		b.transition(CircuitStateHalfOpen)
	}

	var err error
	switch b.state {
	case CircuitStateOpen:
		err = ErrCircuitOpen
	case CircuitStateHalfOpen:
		if b.inFlight >= b.cfg.HalfOpenProbes {
			err = ErrCircuitOpen
		} else {
			b.inFlight++
		}
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
	return err
}

func (b *CircuitBreaker) RecordSuccess() {
	if b == nil {
		return
	}

	b.mu.Lock()
	from := b.state
	switch b.state {
	case CircuitStateClosed:
		b.failures = 0
	case CircuitStateHalfOpen:
		b.releaseProbe()
		b.successes++
		if b.successes >= b.cfg.HalfOpenProbes && b.inFlight == 0 {
			b.transition(CircuitStateClosed)
		}
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

func (b *CircuitBreaker) RecordFailure() {
	if b == nil {
		return
	}

	b.mu.Lock()
	from := b.state
	switch b.state {
	case CircuitStateClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.transition(CircuitStateOpen)
		}
	case CircuitStateHalfOpen:
		b.releaseProbe()
		b.transition(CircuitStateOpen)
	case CircuitStateOpen:
		b.openedAt = b.clock.Now()
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

// State reports the current state. An open breaker whose timeout has elapsed
// reads as half open even before the next Allow moves it there.
func (b *CircuitBreaker) State() CircuitState {
	if b == nil {
		return CircuitStateClosed
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == CircuitStateOpen && b.cooledDown() {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) cooledDown() bool {
	return b.clock.Since(b.openedAt) >= b.cfg.OpenTimeout
}

func (b *CircuitBreaker) releaseProbe() {
	if b.inFlight > 0 {
		b.inFlight--
	}
}

// transition resets the per-state counters. Callers hold mu.
func (b *CircuitBreaker) transition(to CircuitState) {
	b.state = to
	b.inFlight = 0
	b.successes = 0
	switch to {
	case CircuitStateOpen:
		b.openedAt = b.clock.Now()
	case CircuitStateClosed:
		b.failures = 0
		b.openedAt = time.Time{}
	}
}

func (b *CircuitBreaker) notify(from, to CircuitState) {
	if from != to && b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(from, to)
	}
}
