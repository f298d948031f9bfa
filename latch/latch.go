// Package latch implements a count-down latch on the aqs engine's shared mode.
// A Latch starts at a count; CountDown decrements it and Wait blocks until it
// reaches zero, at which point every waiter is released together and later
// Waits return immediately. A Latch cannot be reset.
//
// Example usage:
//
//	done := latch.New(3) // Wait for three workers
//
//	for i := 0; i < 3; i++ {
//	    go func() {
//	        defer done.CountDown()
//	        // ... work ...
//	    }()
//	}
//	done.Wait()
package latch

import (
	"context"
	"errors"
	"time"

	"github.com/ahrav/go-aqs/aqs"
)

// ErrNegativeCount is the panic value of New with a negative count.
var ErrNegativeCount = errors.New("latch: negative count")

type hooks struct{ aqs.Unsupported }

func (hooks) TryAcquireShared(s *aqs.State, _ int32) int32 {
	if s.Load() == 0 {
		return 1
	}
	return -1
}

// TryReleaseShared decrements the count and reports whether it just reached
// zero. Counting down an open latch does nothing.
func (hooks) TryReleaseShared(s *aqs.State, _ int32) bool {
	for {
		c := s.Load()
		if c == 0 {
			return false
		}
		if s.CompareAndSwap(c, c-1) {
			return c == 1
		}
	}
}

// Latch is a count-down latch. A Latch must be created with New.
type Latch struct {
	sync *aqs.Synchronizer
}

// New creates a latch that opens after count calls to CountDown.
func New(count int32) *Latch {
	if count < 0 {
		panic(ErrNegativeCount)
	}
	l := &Latch{sync: aqs.New(hooks{}, aqs.WithName("latch"))}
	l.sync.SetState(count)
	return l
}

// CountDown decrements the count, releasing all waiters when it reaches zero.
func (l *Latch) CountDown() { l.sync.ReleaseShared(1) }

// Wait blocks until the count reaches zero.
func (l *Latch) Wait() { l.sync.AcquireShared(1) }

// WaitContext blocks until the count reaches zero or ctx is done. On failure
// the returned error wraps aqs.ErrInterrupted.
func (l *Latch) WaitContext(ctx context.Context) error {
	return l.sync.AcquireSharedContext(ctx, 1)
}

// WaitTimeout blocks until the count reaches zero or timeout elapses, and
// reports whether the latch opened.
func (l *Latch) WaitTimeout(ctx context.Context, timeout time.Duration) (bool, error) {
	return l.sync.TryAcquireSharedTimeout(ctx, 1, timeout)
}

// Count returns the current count.
func (l *Latch) Count() int32 { return l.sync.State() }

// Stats returns the counters of the underlying synchronizer.
func (l *Latch) Stats() aqs.Stats { return l.sync.Stats() }

func (l *Latch) String() string { return l.sync.String() }
