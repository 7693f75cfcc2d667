package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do(t *testing.T) {
	var g SingleFlight[string]
	var counter atomic.Int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			got, err, _ := g.Do("roster", func() (string, error) {
				counter.Add(1)
				time.Sleep(20 * time.Millisecond)
				return "ok", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if got != "ok" {
				t.Errorf("unexpected value %q", got)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := counter.Load(); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestSingleFlight_ErrorIsNotCached(t *testing.T) {
	var g SingleFlight[int]
	boom := errors.New("boom")

	if _, err, _ := g.Do("k", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	got, err, shared := g.Do("k", func() (int, error) { return 7, nil })
	if err != nil || got != 7 || shared {
		t.Fatalf("expected fresh call, got value=%d err=%v shared=%v", got, err, shared)
	}
}

func TestSingleFlight_InFlightClearsAfterCall(t *testing.T) {
	var g SingleFlight[string]
	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_, _, _ = g.Do("events", func() (string, error) {
			close(started)
			<-release
			return "done", nil
		})
	}()

	<-started
	if got := g.InFlight(); got != 1 {
		t.Fatalf("expected one call in flight, got %d", got)
	}
	close(release)

	deadline := time.Now().Add(time.Second)
	for g.InFlight() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("in-flight call was never cleared")
		}
		time.Sleep(time.Millisecond)
	}
}
