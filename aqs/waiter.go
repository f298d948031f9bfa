package aqs

import (
	"time"

	"go.uber.org/atomic"
)

var waiterIDs atomic.Uint64

// A waiter is the handle a queued node keeps to its blocked goroutine.
// It is a binary semaphore holding at most one permit: unpark deposits the
// permit, park consumes it. An unpark that arrives before the matching park
// is therefore never lost, and repeated unparks coalesce.
type waiter struct {
	id  uint64
	sem chan struct{}
}

func newWaiter() *waiter {
	return &waiter{id: waiterIDs.Inc(), sem: make(chan struct{}, 1)}
}

type wakeReason int

const (
	woken wakeReason = iota
	expired
	cancelled
)

// unpark makes the permit available. It never blocks.
func (w *waiter) unpark() {
	select {
	case w.sem <- struct{}{}:
	default: // Permit already available.
	}
}

// park blocks until the permit is available, timeout elapses (if positive), or
// done becomes readable (if non-nil). Callers must tolerate spurious returns
// and re-check their condition.
func (w *waiter) park(done <-chan struct{}, timeout time.Duration) wakeReason {
	// Avoid select and timers in the plain case.
	if done == nil && timeout <= 0 {
		<-w.sem
		return woken
	}

	var expiry <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expiry = t.C
	}
	select {
	case <-w.sem:
		return woken
	case <-expiry:
		return expired
	case <-done:
		return cancelled
	}
}
