package relay

import (
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DefaultMaxHops bounds how many times a relayed message may be
// forwarded before it is dropped.
const DefaultMaxHops = 5

// DefaultTTL is how long relay metadata remains valid after creation.
const DefaultTTL = time.Hour

// Metadata wraps a relayed payload with the routing information the
// engine needs to classify and forward it.
type Metadata struct {
	OriginalMessageID [16]byte
	OriginalSender    string
	FinalRecipient    string
	HopCount          int
	MaxHops           int
	CreatedAt         time.Time
	TTL               time.Duration
}

// NewOutboundMetadata wraps a payload originated locally by sender and
// addressed to recipient, per the outbound wrapping rule in spec §4.7.
func NewOutboundMetadata(sender, recipient string, content []byte, now time.Time) Metadata {
	return Metadata{
		OriginalMessageID: originalMessageID(sender, content, now),
		OriginalSender:    sender,
		FinalRecipient:    recipient,
		HopCount:          0,
		MaxHops:           DefaultMaxHops,
		CreatedAt:         now,
		TTL:               DefaultTTL,
	}
}

func originalMessageID(sender string, content []byte, now time.Time) [16]byte {
	h := sha256.New()
	var tsBuf [8]byte
	binary.LittleEndian.PutUint64(tsBuf[:], uint64(now.UnixNano()))
	h.Write(tsBuf[:])
	h.Write([]byte(sender))
	h.Write(content)
	sum := h.Sum(nil)
	var id [16]byte
	copy(id[:], sum[:16])
	return id
}

// Expired reports whether meta's TTL has elapsed as of now.
func (m Metadata) Expired(now time.Time) bool {
	return now.Sub(m.CreatedAt) >= m.TTL
}

// fingerprint reduces the 16-byte message id to the 64-bit key the
// seen-message store indexes on.
func (m Metadata) fingerprint() uint64 {
	return binary.LittleEndian.Uint64(m.OriginalMessageID[:8])
}

// forwarded returns a copy of m with hop_count incremented, for the next
// hop in the relay chain.
func (m Metadata) forwarded() Metadata {
	next := m
	next.HopCount++
	return next
}
