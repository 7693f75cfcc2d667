package resilience

import "sync"

// SingleFlight collapses concurrent loads of the same key into one call. It
// keeps no results once a call returns. The zero value is ready to use.
type SingleFlight[V any] struct {
	mu       sync.Mutex
	inflight map[string]*flight[V]
}

type flight[V any] struct {
	done  chan struct{}
	value V
	err   error
}

// Do runs fn unless a call for key is already running, in which case it waits
// for that call and returns its result with shared set.
func (g *SingleFlight[V]) Do(key string, fn func() (V, error)) (V, error, bool) {
	g.mu.Lock()
	if f, ok := g.inflight[key]; ok {
		g.mu.Unlock()
		<-f.done
		return f.value, f.err, true
	}
	if g.inflight == nil {
		g.inflight = make(map[string]*flight[V])
	}
	f := &flight[V]{done: make(chan struct{})}
	g.inflight[key] = f
	g.mu.Unlock()

	defer g.finish(key, f)
	f.value, f.err = fn()
	return f.value, f.err, false
}

func (g *SingleFlight[V]) finish(key string, f *flight[V]) {
	g.mu.Lock()
	if g.inflight[key] == f {
		delete(g.inflight, key)
	}
	g.mu.Unlock()
	close(f.done)
}

// InFlight reports how many keys currently have a running call.
func (g *SingleFlight[V]) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.inflight)
}
