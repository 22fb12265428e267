package outbox

import "errors"

var (
	// ErrEntryNotFound indicates an operation referenced an unknown
	// message id.
	ErrEntryNotFound = errors.New("outbox: entry not found")

	// ErrInvalidTransition indicates a state transition was attempted
	// from a state that does not permit it (e.g. marking a delivered
	// entry as sending).
	ErrInvalidTransition = errors.New("outbox: invalid state transition")

	// ErrPersistFailed wraps a Store write failure on enqueue or a
	// terminal transition, both of which must persist synchronously.
	ErrPersistFailed = errors.New("outbox: durable persistence failed")
)
