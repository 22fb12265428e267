package framing

import "errors"

var (
	// ErrMalformedFragment indicates a fragment header failed validation,
	// or a later fragment in a stream reported a different total than
	// earlier ones.
	ErrMalformedFragment = errors.New("framing: malformed fragment")

	// ErrReassemblyTimeout indicates a reassembly buffer expired before
	// all fragments arrived.
	ErrReassemblyTimeout = errors.New("framing: reassembly timeout")

	// ErrBufferExhausted indicates the reassembly table is full and the
	// oldest buffer was evicted to make room for a new fragment-id.
	ErrBufferExhausted = errors.New("framing: reassembly buffer table exhausted")

	// ErrPayloadTooLarge indicates a payload cannot be fragmented because
	// it would require more than 65535 fragments (total is a uint16), or,
	// from Reassembler.Ingest, that a reassembled payload exceeds
	// limits.MaxProcessingBuffer.
	ErrPayloadTooLarge = errors.New("framing: payload too large to fragment")

	// ErrMTUTooSmall indicates the configured MTU cannot hold even a
	// single byte of fragment payload after the header.
	ErrMTUTooSmall = errors.New("framing: mtu too small for fragment header")
)
