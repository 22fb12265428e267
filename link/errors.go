package link

import "errors"

var (
	// ErrUnknownPeer indicates an operation referenced a peer the link
	// has no active connection for.
	ErrUnknownPeer = errors.New("link: unknown peer")

	// ErrMalformedHeader indicates a packet's protocol header failed to
	// decode.
	ErrMalformedHeader = errors.New("link: malformed packet header")

	// ErrPayloadTooLarge indicates a payload exceeds the 16-bit
	// payload_len field's range.
	ErrPayloadTooLarge = errors.New("link: payload exceeds 65535 bytes")
)
