// Package mutex provides a non-reentrant mutual exclusion lock built on the aqs
// engine. Unlike sync.Mutex it supports acquisition that can be abandoned,
// either through a context or after a timeout, and it exposes how many
// goroutines are waiting.
//
// Example usage:
//
//	mu := mutex.New()
//
//	// Blocking acquisition
//	mu.Lock()
//	// ... critical section ...
//	mu.Unlock()
//
//	// Bounded acquisition
//	if ok, err := mu.TryLockTimeout(ctx, 50*time.Millisecond); err == nil && ok {
//	    // ... critical section ...
//	    mu.Unlock()
//	}
//
// Waiters are woken in approximately FIFO order, but a goroutine calling Lock
// at the moment the mutex is released may take it ahead of the woken waiter.
package mutex

import (
	"context"
	"errors"
	"time"

	"github.com/ahrav/go-aqs/aqs"
)

// ErrNotLocked is the panic value of Unlock on an unlocked Mutex.
var ErrNotLocked = errors.New("mutex: unlock of unlocked mutex")

const (
	unlocked int32 = 0
	locked   int32 = 1
)

// hooks implements the exclusive half of aqs.Hooks: the state is 0 when the
// mutex is free and 1 when it is held.
type hooks struct{ aqs.Unsupported }

func (hooks) TryAcquire(s *aqs.State, _ int32) bool {
	return s.CompareAndSwap(unlocked, locked)
}

func (hooks) TryRelease(s *aqs.State, _ int32) bool {
	if s.Load() == unlocked {
		panic(ErrNotLocked)
	}
	s.Store(unlocked)
	return true
}

// Mutex is a mutual exclusion lock. A Mutex must be created with New.
// It is not tied to a goroutine: one goroutine may lock it and another unlock it.
type Mutex struct {
	sync *aqs.Synchronizer
}

// New creates an unlocked Mutex.
func New() *Mutex {
	return &Mutex{sync: aqs.New(hooks{}, aqs.WithName("mutex"))}
}

// Lock blocks until the mutex is acquired.
func (m *Mutex) Lock() { m.sync.Acquire(1) }

// LockContext blocks until the mutex is acquired or ctx is done. On failure
// the returned error wraps aqs.ErrInterrupted and the context's cause.
func (m *Mutex) LockContext(ctx context.Context) error {
	return m.sync.AcquireContext(ctx, 1)
}

// TryLock attempts to acquire the mutex without blocking.
func (m *Mutex) TryLock() bool { return m.sync.TryAcquireNow(1) }

// TryLockTimeout attempts to acquire the mutex, waiting at most timeout. It
// returns false and a nil error if the timeout elapsed first.
func (m *Mutex) TryLockTimeout(ctx context.Context, timeout time.Duration) (bool, error) {
	return m.sync.TryAcquireTimeout(ctx, 1, timeout)
}

// Unlock releases the mutex and wakes the longest-waiting goroutine, if any.
// It panics with ErrNotLocked if the mutex is not locked.
func (m *Mutex) Unlock() { m.sync.Release(1) }

// IsLocked reports whether the mutex is currently held.
func (m *Mutex) IsLocked() bool { return m.sync.State() == locked }

// QueueLength estimates the number of goroutines waiting in Lock.
func (m *Mutex) QueueLength() int { return m.sync.QueueLength() }

// Stats returns the counters of the underlying synchronizer.
func (m *Mutex) Stats() aqs.Stats { return m.sync.Stats() }

func (m *Mutex) String() string { return m.sync.String() }
