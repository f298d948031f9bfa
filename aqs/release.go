package aqs

// Release releases in exclusive mode. If TryRelease reports the synchronizer
// free, the first live waiter is woken. It returns the result of TryRelease.
func (s *Synchronizer) Release(arg int32) bool {
	if !s.hooks.TryRelease(&s.state, arg) {
		return false
	}
	s.stats.releases.Inc()
	if h := s.head.Load(); h != nil && h.status.Load() != statusInitial {
		s.unparkSuccessor(h)
	}
	return true
}

// ReleaseShared releases in shared mode. If TryReleaseShared reports that
// waiters may proceed, a release pass starts at the head and cascades through
// the shared waiters behind it. It returns the result of TryReleaseShared.
func (s *Synchronizer) ReleaseShared(arg int32) bool {
	if !s.hooks.TryReleaseShared(&s.state, arg) {
		return false
	}
	s.stats.sharedReleases.Inc()
	s.doReleaseShared()
	return true
}

// unparkSuccessor wakes the first live waiter after n.
func (s *Synchronizer) unparkSuccessor(n *node) {
	// Clearing the signal is best effort; the woken waiter tolerates either.
	if ws := n.status.Load(); ws < 0 {
		n.status.CompareAndSwap(ws, statusInitial)
	}

	// next may be missing or cancelled. prev links are complete, so walk back
	// from tail and keep the live node closest to n.
	next := n.next.Load()
	if next == nil || next.status.Load() > 0 {
		next = nil
		for t := s.tail.Load(); t != nil && t != n; t = t.prev.Load() {
			if t.status.Load() <= 0 {
				next = t
			}
		}
	}
	if next == nil {
		return
	}
	if w := next.holder.Load(); w != nil {
		s.stats.unparks.Inc()
		w.unpark()
	}
}

// doReleaseShared signals the head's successor, or marks the head
// statusPropagate when nothing needs signalling so that a goroutine busy
// installing a new head will continue the cascade. It repeats while the head
// moves under it.
func (s *Synchronizer) doReleaseShared() {
	for {
		h := s.head.Load()
		if h != nil && h != s.tail.Load() {
			ws := h.status.Load()
			if ws == statusSignal {
				if !h.status.CompareAndSwap(statusSignal, statusInitial) {
					continue
				}
				s.unparkSuccessor(h)
			} else if ws == statusInitial && !h.status.CompareAndSwap(statusInitial, statusPropagate) {
				continue
			}
		}
		if h == s.head.Load() {
			return
		}
	}
}

// setHeadAndPropagate installs n as the head after a shared acquire and, if
// more shared acquires may succeed, wakes the next shared waiter. The checks
// are deliberately conservative: a spare release pass is cheap, a missed one
// strands waiters.
func (s *Synchronizer) setHeadAndPropagate(n *node, propagate int32) {
	old := s.head.Load()
	s.setHead(n)

	pending := propagate > 0 || old == nil || old.status.Load() < 0
	if !pending {
		h := s.head.Load()
		pending = h == nil || h.status.Load() < 0
	}
	if !pending {
		return
	}
	if next := n.next.Load(); next == nil || next.isShared() {
		s.stats.propagations.Inc()
		s.doReleaseShared()
	}
}
