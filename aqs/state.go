package aqs

import "go.uber.org/atomic"

// State is the single synchronization word guarded by a Synchronizer.
// Its meaning is defined entirely by the Hooks: 0 might be "unlocked" for a
// mutex, or the number of available permits for a semaphore.
//
// Every acquire or release decision a hook makes should be linearized by a
// successful CompareAndSwap. Store is reserved for a caller that already has
// exclusive ownership, e.g. a mutex owner clearing the word on unlock.
type State struct {
	v atomic.Int32
}

// Load returns the current value.
func (s *State) Load() int32 { return s.v.Load() }

// Store sets the value unconditionally.
func (s *State) Store(v int32) { s.v.Store(v) }

// CompareAndSwap sets the value to update if it currently equals expect and
// reports whether it did.
func (s *State) CompareAndSwap(expect, update int32) bool {
	return s.v.CompareAndSwap(expect, update)
}
