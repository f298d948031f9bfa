package aqs

import "v.io/x/lib/vlog"

// cancelAcquire abandons n's acquire and unlinks it as far as it safely can.
// Whatever it cannot unlink is finished by a later cancellation or release;
// it never leaves a live successor without someone responsible for waking it.
func (s *Synchronizer) cancelAcquire(n *node) {
	n.holder.Store(nil)

	// A node without a predecessor is already a broken queue; leave it as is
	// so the predecessor fault reaches the caller.
	pred := n.prev.Load()
	if pred == nil {
		return
	}
	// Skip cancelled predecessors.
	for pred.status.Load() > 0 {
		pred = pred.prev.Load()
		n.prev.Store(pred)
	}

	// predNext is not re-read before the CASes below. A failed CAS means some
	// other cancel or signal already moved on and will repair the link.
	predNext := pred.next.Load()

	// After this store other nodes may skip past n; before it, n is
	// untouched by them.
	n.status.Store(statusCancelled)

	if n == s.tail.Load() && s.tail.CompareAndSwap(n, pred) {
		pred.next.CompareAndSwap(predNext, nil)
	} else {
		// If pred is a live interior node that will signal its successor,
		// splice n out. Otherwise wake n's successor so it can relink itself.
		ws := pred.status.Load()
		if pred != s.head.Load() &&
			(ws == statusSignal || (ws <= 0 && pred.status.CompareAndSwap(ws, statusSignal))) &&
			pred.holder.Load() != nil {
			if next := n.next.Load(); next != nil && next.status.Load() <= 0 {
				pred.next.CompareAndSwap(predNext, next)
			}
		} else {
			s.unparkSuccessor(n)
		}
		n.next.Store(n)
	}

	s.stats.cancelled.Inc()
	vlog.VI(2).Infof("%s: cancelled %s waiter", s.name, n.mode)
}
