// Package semaphore implements a counting semaphore on the aqs engine's shared
// mode. The state holds the number of available permits; acquirers take
// permits by CAS and queue when too few are available.
//
// A semaphore provides:
//   - Bounded concurrency over a pool of interchangeable resources
//   - Acquisition that can be abandoned through a context or a timeout
//   - A single Release that can admit several queued waiters at once
//
// Example usage:
//
//	sem := semaphore.New(3) // At most 3 concurrent holders
//
//	sem.Acquire(1)
//	// ... use one of the resources ...
//	sem.Release(1)
//
// Permits have no owner: any goroutine may release permits it never acquired,
// which also means Release can raise the count above its initial value.
package semaphore

import (
	"context"
	"errors"
	"time"

	"github.com/ahrav/go-aqs/aqs"
)

var (
	// ErrNegativePermits is the panic value when a negative permit count is
	// passed to New, an acquire, or Release.
	ErrNegativePermits = errors.New("semaphore: negative permit count")

	// ErrPermitOverflow is the panic value when Release would overflow the
	// permit count.
	ErrPermitOverflow = errors.New("semaphore: permit count overflow")
)

type hooks struct{ aqs.Unsupported }

// TryAcquireShared returns the permits left after taking n, or a negative
// value if there were not enough.
func (hooks) TryAcquireShared(s *aqs.State, n int32) int32 {
	for {
		available := s.Load()
		remaining := available - n
		if remaining < 0 || s.CompareAndSwap(available, remaining) {
			return remaining
		}
	}
}

func (hooks) TryReleaseShared(s *aqs.State, n int32) bool {
	for {
		current := s.Load()
		next := current + n
		if next < current {
			panic(ErrPermitOverflow)
		}
		if s.CompareAndSwap(current, next) {
			return true
		}
	}
}

// Semaphore is a counting semaphore. A Semaphore must be created with New.
type Semaphore struct {
	sync *aqs.Synchronizer
}

// New creates a semaphore with the given number of permits.
func New(permits int32) *Semaphore {
	checkPermits(permits)
	s := &Semaphore{sync: aqs.New(hooks{}, aqs.WithName("semaphore"))}
	s.sync.SetState(permits)
	return s
}

func checkPermits(n int32) {
	if n < 0 {
		panic(ErrNegativePermits)
	}
}

// Acquire blocks until n permits are available and takes them.
func (s *Semaphore) Acquire(n int32) {
	checkPermits(n)
	s.sync.AcquireShared(n)
}

// AcquireContext blocks until n permits are taken or ctx is done. On failure
// the returned error wraps aqs.ErrInterrupted and no permits are taken.
func (s *Semaphore) AcquireContext(ctx context.Context, n int32) error {
	checkPermits(n)
	return s.sync.AcquireSharedContext(ctx, n)
}

// TryAcquire takes n permits if they are available right now.
func (s *Semaphore) TryAcquire(n int32) bool {
	checkPermits(n)
	return s.sync.TryAcquireSharedNow(n)
}

// TryAcquireTimeout takes n permits, waiting at most timeout. It returns false
// and a nil error if the timeout elapsed first.
func (s *Semaphore) TryAcquireTimeout(ctx context.Context, n int32, timeout time.Duration) (bool, error) {
	checkPermits(n)
	return s.sync.TryAcquireSharedTimeout(ctx, n, timeout)
}

// Release returns n permits, waking as many queued acquirers as they satisfy.
func (s *Semaphore) Release(n int32) {
	checkPermits(n)
	s.sync.ReleaseShared(n)
}

// Available returns the number of permits currently available.
func (s *Semaphore) Available() int32 { return s.sync.State() }

// Drain takes every available permit and returns how many it took.
func (s *Semaphore) Drain() int32 {
	for {
		current := s.sync.State()
		if current == 0 || s.sync.CompareAndSetState(current, 0) {
			return current
		}
	}
}

// QueueLength estimates the number of goroutines waiting for permits.
func (s *Semaphore) QueueLength() int { return s.sync.QueueLength() }

func (s *Semaphore) String() string { return s.sync.String() }
