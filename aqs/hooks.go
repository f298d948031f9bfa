package aqs

// Hooks encode the acquire and release policy of a concrete synchronizer.
// The engine calls them, never interprets State itself, and retries them as
// often as it needs to, so every hook must be safe to call repeatedly after a
// failure.
//
// A synchronizer that supports only one mode embeds Unsupported to supply the
// other mode's methods.
type Hooks interface {
	// TryAcquire attempts to take exclusive ownership by transitioning state.
	TryAcquire(state *State, arg int32) bool

	// TryRelease releases exclusive ownership and reports whether the
	// synchronizer is now fully free, i.e. whether a waiter should be woken.
	TryRelease(state *State, arg int32) bool

	// TryAcquireShared attempts a shared acquire. A negative result is a
	// failure, zero is a success after which no further shared acquire can
	// succeed, and a positive value is a success that leaves room for more.
	TryAcquireShared(state *State, arg int32) int32

	// TryReleaseShared releases a shared hold and reports whether waiting
	// shared acquirers may now succeed.
	TryReleaseShared(state *State, arg int32) bool
}

// Unsupported implements every hook by panicking with an error wrapping
// ErrUnsupported. Embed it and override the hooks the synchronizer needs:
//
//	type latchHooks struct{ aqs.Unsupported }
//
//	func (latchHooks) TryAcquireShared(s *aqs.State, _ int32) int32 { ... }
//	func (latchHooks) TryReleaseShared(s *aqs.State, _ int32) bool  { ... }
//
// Each acquire variant calls its hook before touching the queue, so an
// unsupported call fails without enqueueing anything.
type Unsupported struct{}

func (Unsupported) TryAcquire(*State, int32) bool { panic(unsupported("TryAcquire")) }

func (Unsupported) TryRelease(*State, int32) bool { panic(unsupported("TryRelease")) }

func (Unsupported) TryAcquireShared(*State, int32) int32 { panic(unsupported("TryAcquireShared")) }

func (Unsupported) TryReleaseShared(*State, int32) bool { panic(unsupported("TryReleaseShared")) }
