package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func newTestBreaker(t *testing.T, cfg CircuitBreakerConfig) (*CircuitBreaker, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	cfg.Enabled = true
	return NewCircuitBreaker(cfg, clock), clock
}

func TestCircuitBreaker_OpensAndRecovers(t *testing.T) {
	var transitions []string
	b, clock := newTestBreaker(t, CircuitBreakerConfig{
		FailureThreshold: 2,
		OpenTimeout:      5 * time.Second,
		HalfOpenProbes:   1,
		OnStateChange: func(from, to CircuitState) {
			transitions = append(transitions, string(from)+"->"+string(to))
		},
	})

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}
	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}
	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	clock.Advance(6 * time.Second)
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half open after timeout, got %s", state)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe to pass, got %v", err)
	}
	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful probe, got %s", state)
	}

	want := []string{"closed->open", "open->half_open", "half_open->closed"}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("transitions = %v, want %v", transitions, want)
		}
	}
}

func TestCircuitBreaker_ProbeFailureReopens(t *testing.T) {
	b, clock := newTestBreaker(t, CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Second, HalfOpenProbes: 1})

	b.RecordFailure()
	clock.Advance(2 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe to pass: %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second probe to be rejected, got %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after failed probe, got %s", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected reopened breaker to reject, got %v", err)
	}
}

func TestCircuitBreaker_SuccessResetsFailureRun(t *testing.T) {
	b, _ := newTestBreaker(t, CircuitBreakerConfig{FailureThreshold: 2})

	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected non-consecutive failures to keep breaker closed, got %s", state)
	}
}

func TestNewCircuitBreaker(t *testing.T) {
	if b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: false}, nil); b != nil {
		t.Fatalf("expected nil breaker when disabled")
	}

	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: true}, clockwork.NewFakeClock())
	if b == nil {
		t.Fatalf("expected breaker when enabled")
	}
	if b.cfg.FailureThreshold != defaultFailureThreshold || b.cfg.HalfOpenProbes != defaultHalfOpenProbes || b.cfg.OpenTimeout != defaultOpenTimeout {
		t.Fatalf("expected defaults, got %+v", b.cfg)
	}
}

func TestCircuitBreaker_NilAdmitsEverything(t *testing.T) {
	var b *CircuitBreaker
	if err := b.Allow(); err != nil {
		t.Fatalf("nil breaker should allow: %v", err)
	}
	b.RecordFailure()
	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("nil breaker should read closed, got %s", state)
	}
}
