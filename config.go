package meshmsg

import "time"

// Config holds the node's tunable parameters, all optional with the
// documented defaults. Mirrors the teacher's Options/NewOptions
// convention: construct with DefaultConfig and mutate fields directly.
type Config struct {
	// MaxHops is the hop ceiling for relay forwarding.
	MaxHops int
	// SeenWindow is the duplicate-suppression window.
	SeenWindow time.Duration
	// OutboxCapacity is the outbox hard ceiling.
	OutboxCapacity int
	// RekeyMessages is the per-session send-count trigger for rekey.
	RekeyMessages uint64
	// RekeyAge is the per-session age trigger for rekey.
	RekeyAge time.Duration
	// HandshakeTimeout is the handshake deadline.
	HandshakeTimeout time.Duration
	// FragmentTimeout is the reassembly deadline.
	FragmentTimeout time.Duration
	// SyncFPR is the GCS filter target false-positive rate.
	SyncFPR float64
	// SyncEnvelopeBytes is the GCS filter size cap.
	SyncEnvelopeBytes int
}

// DefaultConfig returns a Config populated with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxHops:           5,
		SeenWindow:        5 * time.Minute,
		OutboxCapacity:    10000,
		RekeyMessages:     10000,
		RekeyAge:          time.Hour,
		HandshakeTimeout:  5 * time.Second,
		FragmentTimeout:   30 * time.Second,
		SyncFPR:           0.01,
		SyncEnvelopeBytes: 512,
	}
}
