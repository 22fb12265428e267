// Package limits provides centralized message size bounds used across
// the outbox, framer, and sync protocol, so a single place governs what
// "too large to handle" means instead of each caller picking its own
// magic number.
package limits

import "errors"

const (
	// MaxMessageSize is the largest single logical payload the outbox
	// will accept and the framer is expected to fragment, matching
	// spec.md's max_message_size used in the fragmenter round-trip
	// property.
	MaxMessageSize = 65536

	// MaxProcessingBuffer is the absolute ceiling for any inbound byte
	// buffer (a reassembled payload, a GCS envelope) regardless of its
	// declared length, guarding against memory-exhaustion from a
	// corrupt or hostile length prefix.
	MaxProcessingBuffer = 4 << 20

	// MaxAggregateReassemblyBytes bounds the total bytes held across
	// every in-progress fragment reassembly buffer at once, regardless
	// of how many distinct buffers that spans. A peer holding open many
	// large, never-completed fragment streams would otherwise exhaust
	// memory well before any single buffer's completed size tripped
	// MaxProcessingBuffer or the buffer-count limit was reached.
	MaxAggregateReassemblyBytes = 1 << 20
)

var (
	// ErrMessageEmpty indicates an empty message was provided where a
	// non-empty payload is required.
	ErrMessageEmpty = errors.New("limits: empty message")

	// ErrMessageTooLarge indicates a payload exceeds its applicable
	// maximum size.
	ErrMessageTooLarge = errors.New("limits: message too large")
)

// ValidateMessageSize validates message against maxSize, rejecting both
// the empty and the oversize case.
func ValidateMessageSize(message []byte, maxSize int) error {
	if len(message) == 0 {
		return ErrMessageEmpty
	}
	if len(message) > maxSize {
		return ErrMessageTooLarge
	}
	return nil
}

// ValidateOutboxMessage validates a payload against MaxMessageSize,
// the bound the outbox enforces on Enqueue.
func ValidateOutboxMessage(message []byte) error {
	return ValidateMessageSize(message, MaxMessageSize)
}

// ValidateProcessingBuffer validates data against MaxProcessingBuffer,
// the bound inbound reassembly and sync-envelope parsing enforce before
// trusting a declared length.
func ValidateProcessingBuffer(data []byte) error {
	if len(data) > MaxProcessingBuffer {
		return ErrMessageTooLarge
	}
	return nil
}
