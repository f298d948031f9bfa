package aqs

import (
	"context"
	"runtime"
	"time"
)

// Acquire acquires in exclusive mode, blocking until TryAcquire succeeds.
// It cannot be interrupted.
func (s *Synchronizer) Acquire(arg int32) {
	s.acquireUninterruptibly(context.Background(), Exclusive, arg)
}

// AcquireUninterruptibly is Acquire for callers that also carry a context.
// Cancellation of ctx does not abandon the acquire; it is remembered and
// reported once the acquire succeeds, so the caller can act on it.
func (s *Synchronizer) AcquireUninterruptibly(ctx context.Context, arg int32) (interrupted bool) {
	return s.acquireUninterruptibly(ctx, Exclusive, arg)
}

// AcquireContext acquires in exclusive mode, giving up when ctx is done.
// The returned error wraps ErrInterrupted and context.Cause(ctx).
func (s *Synchronizer) AcquireContext(ctx context.Context, arg int32) error {
	return s.acquireInterruptibly(ctx, Exclusive, arg)
}

// TryAcquireTimeout acquires in exclusive mode, giving up after timeout.
// It returns false with a nil error on timeout, and an error wrapping
// ErrInterrupted if ctx is done first.
func (s *Synchronizer) TryAcquireTimeout(ctx context.Context, arg int32, timeout time.Duration) (bool, error) {
	return s.acquireTimed(ctx, Exclusive, arg, timeout)
}

// TryAcquireNow makes a single exclusive attempt without queueing.
func (s *Synchronizer) TryAcquireNow(arg int32) bool {
	return s.tryAcquire(Exclusive, arg)
}

// AcquireShared acquires in shared mode, blocking until TryAcquireShared
// succeeds. It cannot be interrupted.
func (s *Synchronizer) AcquireShared(arg int32) {
	s.acquireUninterruptibly(context.Background(), Shared, arg)
}

// AcquireSharedUninterruptibly is the shared-mode AcquireUninterruptibly.
func (s *Synchronizer) AcquireSharedUninterruptibly(ctx context.Context, arg int32) (interrupted bool) {
	return s.acquireUninterruptibly(ctx, Shared, arg)
}

// AcquireSharedContext is the shared-mode AcquireContext.
func (s *Synchronizer) AcquireSharedContext(ctx context.Context, arg int32) error {
	return s.acquireInterruptibly(ctx, Shared, arg)
}

// TryAcquireSharedTimeout is the shared-mode TryAcquireTimeout.
func (s *Synchronizer) TryAcquireSharedTimeout(ctx context.Context, arg int32, timeout time.Duration) (bool, error) {
	return s.acquireTimed(ctx, Shared, arg, timeout)
}

// TryAcquireSharedNow makes a single shared attempt without queueing.
func (s *Synchronizer) TryAcquireSharedNow(arg int32) bool {
	return s.tryAcquire(Shared, arg)
}

func (s *Synchronizer) tryAcquire(mode Mode, arg int32) bool {
	if mode == Shared {
		return s.hooks.TryAcquireShared(&s.state, arg) >= 0
	}
	return s.hooks.TryAcquire(&s.state, arg)
}

func (s *Synchronizer) acquireUninterruptibly(ctx context.Context, mode Mode, arg int32) bool {
	if s.tryAcquire(mode, arg) {
		return ctx.Err() != nil
	}
	_, interrupted, _ := s.acquireQueued(ctx, mode, arg, waitPolicy{})
	return interrupted
}

func (s *Synchronizer) acquireInterruptibly(ctx context.Context, mode Mode, arg int32) error {
	if ctx.Err() != nil {
		return interruptedError(ctx)
	}
	if s.tryAcquire(mode, arg) {
		return nil
	}
	_, _, err := s.acquireQueued(ctx, mode, arg, waitPolicy{interruptible: true})
	return err
}

func (s *Synchronizer) acquireTimed(ctx context.Context, mode Mode, arg int32, timeout time.Duration) (bool, error) {
	if ctx.Err() != nil {
		return false, interruptedError(ctx)
	}
	if s.tryAcquire(mode, arg) {
		return true, nil
	}
	if timeout <= 0 {
		return false, nil
	}
	policy := waitPolicy{interruptible: true, deadline: time.Now().Add(timeout)}
	acquired, _, err := s.acquireQueued(ctx, mode, arg, policy)
	return acquired, err
}

// waitPolicy describes how a queued acquire may end without acquiring.
type waitPolicy struct {
	interruptible bool      // a done ctx abandons the acquire
	deadline      time.Time // zero means no deadline
}

// acquireQueued enqueues the caller and loops until it acquires from the front
// of the queue, its ctx is done (interruptible policies), or its deadline
// passes. Any exit without acquiring, including a panicking hook, cancels
// the node first.
func (s *Synchronizer) acquireQueued(
	ctx context.Context, mode Mode, arg int32, policy waitPolicy,
) (acquired, interrupted bool, err error) {
	w := newWaiter()
	n := s.addWaiter(mode, w)

	failed := true
	defer func() {
		if failed {
			s.cancelAcquire(n)
		}
	}()

	done := ctx.Done()
	timed := !policy.deadline.IsZero()
	for {
		pred := n.predecessor()
		if pred == s.head.Load() && s.acquireAtHead(n, pred, arg) {
			failed = false
			return true, interrupted, nil
		}

		var remaining time.Duration
		if timed {
			remaining = time.Until(policy.deadline)
			if remaining <= 0 {
				return false, interrupted, nil
			}
		}

		signalled := false
		if shouldParkAfterFailedAcquire(pred, n) {
			switch {
			case !timed:
				s.stats.parks.Inc()
				signalled = w.park(done, 0) == cancelled
			case remaining > SpinForTimeoutThreshold:
				s.stats.parks.Inc()
				signalled = w.park(done, remaining) == cancelled
			default:
				runtime.Gosched()
			}
		}
		if !signalled && done != nil {
			select {
			case <-done:
				signalled = true
			default:
			}
		}
		if signalled {
			if policy.interruptible {
				return false, true, interruptedError(ctx)
			}
			// Remember the cancellation and stop watching for it.
			interrupted = true
			done = nil
		}
	}
}

// acquireAtHead runs the hook for n, whose predecessor pred is the head, and
// on success dequeues pred by installing n as the head.
func (s *Synchronizer) acquireAtHead(n, pred *node, arg int32) bool {
	if n.isShared() {
		r := s.hooks.TryAcquireShared(&s.state, arg)
		if r < 0 {
			return false
		}
		s.setHeadAndPropagate(n, r)
	} else {
		if !s.hooks.TryAcquire(&s.state, arg) {
			return false
		}
		s.setHead(n)
	}
	pred.next.Store(nil)
	return true
}

// shouldParkAfterFailedAcquire updates pred after n failed to acquire and
// reports whether n may now park. It only returns true once pred is known to
// carry statusSignal, so that pred's release or cancellation will wake n.
// Otherwise it either skips n back over cancelled predecessors or marks pred,
// and the caller retries before parking.
func shouldParkAfterFailedAcquire(pred, n *node) bool {
	ws := pred.status.Load()
	if ws == statusSignal {
		return true
	}
	if ws > 0 {
		// The head is never cancelled, so this stops at the head at worst.
		for {
			pred = pred.prev.Load()
			n.prev.Store(pred)
			if pred.status.Load() <= 0 {
				break
			}
		}
		pred.next.Store(n)
	} else {
		// Initial or propagate. A failed CAS is fine; the next lap rechecks.
		pred.status.CompareAndSwap(ws, statusSignal)
	}
	return false
}
