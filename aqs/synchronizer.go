// Package aqs implements a queue-based synchronization engine from which locks,
// semaphores, latches and barriers are built. A Synchronizer owns a single
// int32 State, changed by compare-and-swap, and a lock-free FIFO queue of
// blocked goroutines. Concrete synchronizers decide when an acquire or release
// succeeds by implementing Hooks; the engine does the queueing, parking,
// waking and cancellation.
//
// The engine provides:
//   - Exclusive and shared acquisition, with shared releases cascading through
//     consecutive shared waiters in one pass
//   - Uninterruptible, context-interruptible and timed acquire variants
//   - Approximately FIFO wakeup order, with cancelled waiters skipped
//   - No engine-wide lock: queue links change only by CAS or benign stores
//
// Example usage, a binary exclusive lock:
//
//	type lockHooks struct{ aqs.Unsupported }
//
//	func (lockHooks) TryAcquire(s *aqs.State, _ int32) bool { return s.CompareAndSwap(0, 1) }
//	func (lockHooks) TryRelease(s *aqs.State, _ int32) bool { s.Store(0); return true }
//
//	s := aqs.New(lockHooks{})
//	s.Acquire(1)
//	// ... critical section ...
//	s.Release(1)
//
// Being at the front of the queue is necessary but not sufficient to acquire:
// the hooks alone decide. A goroutine arriving from outside the queue may win
// against a freshly woken waiter unless the hooks forbid it.
package aqs

import (
	"fmt"
	"time"

	"go.uber.org/atomic"
)

// SpinForTimeoutThreshold is the remaining wait below which timed acquires
// spin instead of parking; a timer costs more than the wait itself.
const SpinForTimeoutThreshold = 1000 * time.Nanosecond

// Synchronizer is the engine shared by every concrete synchronizer.
// It must be created with New and must not be copied after first use.
type Synchronizer struct {
	state State
	head  atomic.Pointer[node] // lazily initialized sentinel; holder always nil
	tail  atomic.Pointer[node]
	hooks Hooks
	name  string
	stats counters
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithName sets the name used by String and in log lines.
func WithName(name string) Option {
	return func(s *Synchronizer) { s.name = name }
}

// New creates a Synchronizer whose acquire and release policy is hooks.
// The State starts at zero; use SetState to initialize it before sharing the
// Synchronizer with other goroutines.
func New(hooks Hooks, opts ...Option) *Synchronizer {
	s := &Synchronizer{hooks: hooks, name: "aqs"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current synchronization state.
func (s *Synchronizer) State() int32 { return s.state.Load() }

// SetState sets the synchronization state unconditionally.
func (s *Synchronizer) SetState(v int32) { s.state.Store(v) }

// CompareAndSetState sets the state to update if it currently equals expect.
func (s *Synchronizer) CompareAndSetState(expect, update int32) bool {
	return s.state.CompareAndSwap(expect, update)
}

// String identifies the synchronizer along with its state and whether
// anything is queued.
func (s *Synchronizer) String() string {
	q := "empty queue"
	if s.HasQueuedWaiters() {
		q = "nonempty queue"
	}
	return fmt.Sprintf("%s[state = %d, %s]", s.name, s.state.Load(), q)
}

// Stats is a snapshot of a Synchronizer's event counters.
type Stats struct {
	Enqueued       uint64 // nodes added to the wait queue
	Parks          uint64 // times a queued goroutine blocked
	Unparks        uint64 // wakeups issued to a queued goroutine
	Cancelled      uint64 // nodes abandoned by timeout, interruption or panic
	Releases       uint64 // successful exclusive releases
	SharedReleases uint64 // successful shared releases
	Propagations   uint64 // release passes started by a newly installed shared head
}

type counters struct {
	enqueued       atomic.Uint64
	parks          atomic.Uint64
	unparks        atomic.Uint64
	cancelled      atomic.Uint64
	releases       atomic.Uint64
	sharedReleases atomic.Uint64
	propagations   atomic.Uint64
}

// Stats returns the current counters. Individual fields are read atomically
// but not as a group.
func (s *Synchronizer) Stats() Stats {
	return Stats{
		Enqueued:       s.stats.enqueued.Load(),
		Parks:          s.stats.parks.Load(),
		Unparks:        s.stats.unparks.Load(),
		Cancelled:      s.stats.cancelled.Load(),
		Releases:       s.stats.releases.Load(),
		SharedReleases: s.stats.sharedReleases.Load(),
		Propagations:   s.stats.propagations.Load(),
	}
}
