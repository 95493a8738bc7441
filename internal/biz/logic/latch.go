package logic

import (
	"sync"
	"time"
)

// latch is a countdown gate the game loop blocks on while players act. It
// can be released early so a cancelled game never leaves the loop stuck in
// a timeout wait.
type latch struct {
	mu    sync.Mutex
	count int
	done  chan struct{}
}

func newLatch(count int) *latch {
	l := &latch{count: count, done: make(chan struct{})}
	if count <= 0 {
		close(l.done)
	}
	return l
}

// countDown decrements once; the gate opens at zero. Extra calls are no-ops.
func (l *latch) countDown() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.count <= 0 {
		return
	}
	l.count--
	if l.count == 0 {
		close(l.done)
	}
}

// release opens the gate regardless of the remaining count.
func (l *latch) release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.count > 0 {
		l.count = 0
		close(l.done)
	}
}

// remaining returns how many countDown calls are still outstanding.
func (l *latch) remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// wait blocks until the gate opens or the timeout elapses. Returns true if
// the count reached zero in time.
func (l *latch) wait(timeout time.Duration) bool {
	select {
	case <-l.done:
		return true
	case <-time.After(timeout):
		return l.remaining() == 0
	}
}
