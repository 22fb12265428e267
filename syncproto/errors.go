package syncproto

import "errors"

var (
	// ErrInvalidFPR indicates a non-positive or >=1 false-positive rate
	// was requested.
	ErrInvalidFPR = errors.New("syncproto: false-positive rate must be in (0, 1)")

	// ErrEnvelopeTooSmall indicates maxBytes cannot hold even an empty
	// filter's fixed header.
	ErrEnvelopeTooSmall = errors.New("syncproto: envelope budget too small for filter header")

	// ErrTruncatedFilter indicates a serialized filter's byte slice
	// ended before the declared bit stream was fully consumed.
	ErrTruncatedFilter = errors.New("syncproto: truncated filter encoding")
)
