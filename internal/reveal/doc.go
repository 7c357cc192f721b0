// Package reveal animates the reveal radius that gates the field.
//
// A [Transition] turns elapsed wall-clock time into eased progress and hands
// out the increment since the previous poll. [Run] drives one transition
// from a ticker goroutine, yielding increments to a callback and firing a
// completion callback exactly once, even when the context is canceled.
//
// [Controller] composes transitions into the startup grow and the optional
// shrink-then-grow restart cycle:
//
//	Idle -> Growing -> Settled -> Shrinking -> Growing -> Settled
//
// Only one sequence runs at a time; a restart requested while animating is
// ignored.
package reveal
