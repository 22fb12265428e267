package noisehs

import "errors"

// Sentinel errors for the handshake state machine. Classified as
// Handshake::* in the project's error taxonomy: fatal to the handshake in
// progress, never to an already-established session.
var (
	// ErrDecryptFailure indicates a handshake message failed AEAD
	// authentication (includes flynn/noise's low-order ephemeral rejection,
	// which surfaces as a DH failure during message processing).
	ErrDecryptFailure = errors.New("noisehs: handshake message decrypt failed")

	// ErrMalformedMessage indicates a handshake message could not be parsed.
	ErrMalformedMessage = errors.New("noisehs: malformed handshake message")

	// ErrOutOfSequence indicates WriteMessage or ReadMessage was called out
	// of the pattern's required message order for this role.
	ErrOutOfSequence = errors.New("noisehs: handshake message out of sequence")

	// ErrTimeout indicates the handshake exceeded its wall-clock budget.
	ErrTimeout = errors.New("noisehs: handshake timed out")

	// ErrAlreadyComplete indicates an operation was attempted after split().
	ErrAlreadyComplete = errors.New("noisehs: handshake already complete")

	// ErrNotComplete indicates Split was called before the final message.
	ErrNotComplete = errors.New("noisehs: handshake not complete")

	// ErrMissingRemoteStatic indicates KK was requested without a known
	// remote static key, or XX was requested with one (XX must not know it).
	ErrMissingRemoteStatic = errors.New("noisehs: pattern requires a remote static key")
)
