package orchestrator

import "errors"

var (
	// ErrInvalidTransition indicates an event was delivered that the
	// current state does not accept.
	ErrInvalidTransition = errors.New("orchestrator: event not valid in current state")

	// ErrStateTimeout indicates a per-state timeout elapsed before the
	// expected event arrived.
	ErrStateTimeout = errors.New("orchestrator: state timed out")

	// ErrAlreadyRunning indicates Start was called on an orchestrator
	// already driving its link.
	ErrAlreadyRunning = errors.New("orchestrator: already running")
)
