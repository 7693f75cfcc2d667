package usecase

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

var testNow = time.Date(2025, time.March, 10, 18, 0, 0, 0, time.UTC)

type sequenceIDs struct {
	mu     sync.Mutex
	prefix string
	next   int
}

func newSequenceIDs(prefix string) *sequenceIDs {
	return &sequenceIDs{prefix: prefix}
}

func (g *sequenceIDs) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%03d", g.prefix, g.next), nil
}

type failingIDs struct{}

func (failingIDs) NewID() (string, error) {
	return "", errors.New("entropy exhausted")
}

func newTestClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(testNow)
}

func ptr[T any](v T) *T {
	return &v
}
