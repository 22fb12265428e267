package noisehs

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/flynn/noise"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/meshmsg/cryptoprim"
)

// Pattern identifies which Noise handshake pattern a Handshake runs.
type Pattern uint8

const (
	// PatternXX is the three-message mutual-authentication pattern used
	// when neither party knows the other's static key in advance.
	PatternXX Pattern = iota
	// PatternKK is the two-message pattern used when both parties already
	// know each other's static public keys.
	PatternKK
)

// Role is whether this side initiates or responds to the handshake.
type Role uint8

const (
	Initiator Role = iota
	Responder
)

// DefaultTimeout is the recommended wall-clock budget for a handshake to
// complete, per spec §4.2.
const DefaultTimeout = 5 * time.Second

var log = logrus.WithField("package", "noisehs")

// Handshake drives one Noise XX or KK handshake to completion. A Handshake
// is single-use: once Split succeeds, or the deadline passes, it must be
// discarded.
type Handshake struct {
	pattern   Pattern
	role      Role
	state     *noise.HandshakeState
	step      int
	total     int
	deadline  time.Time
	complete  bool
	nonce     [32]byte
	startedAt time.Time

	sendCipher *noise.CipherState
	recvCipher *noise.CipherState
}

var cipherSuite = noise.NewCipherSuite(noise.DH25519, noise.CipherChaChaPoly, noise.HashSHA256)

// New creates a handshake state machine for the given pattern and role.
// remoteStatic is required (and must be 32 bytes) for a KK initiator or
// responder; it must be nil for XX, where neither side knows it yet.
func New(pattern Pattern, role Role, local cryptoprim.StaticKeyPair, remoteStatic []byte, now time.Time) (*Handshake, error) {
	if pattern == PatternKK && remoteStatic == nil {
		return nil, ErrMissingRemoteStatic
	}
	if pattern == PatternXX && remoteStatic != nil {
		return nil, ErrMissingRemoteStatic
	}

	staticKey := noise.DHKey{
		Private: append([]byte(nil), local.Private[:]...),
		Public:  append([]byte(nil), local.Public[:]...),
	}

	cfg := noise.Config{
		CipherSuite:   cipherSuite,
		Random:        rand.Reader,
		Initiator:     role == Initiator,
		StaticKeypair: staticKey,
	}
	total := 3
	if pattern == PatternXX {
		cfg.Pattern = noise.HandshakeXX
	} else {
		cfg.Pattern = noise.HandshakeKK
		cfg.PeerStatic = append([]byte(nil), remoteStatic...)
		total = 2
	}

	state, err := noise.NewHandshakeState(cfg)
	if err != nil {
		cryptoprim.ZeroBytes(staticKey.Private)
		return nil, fmt.Errorf("noisehs: creating handshake state: %w", err)
	}

	hs := &Handshake{
		pattern:   pattern,
		role:      role,
		state:     state,
		total:     total,
		deadline:  now.Add(DefaultTimeout),
		startedAt: now,
	}
	if _, err := rand.Read(hs.nonce[:]); err != nil {
		return nil, fmt.Errorf("noisehs: generating replay nonce: %w", err)
	}

	log.WithFields(logrus.Fields{
		"pattern": pattern,
		"role":    role,
	}).Debug("handshake initiated")
	return hs, nil
}

// writerTurn reports whether it is this role's turn to call WriteMessage at
// the current step, given the pattern's fixed message ordering (spec §4.2:
// XX is write/read/write for the initiator; KK is write/read).
func (h *Handshake) writerTurn() bool {
	isInitiatorStep := h.step%2 == 0
	if h.role == Initiator {
		return isInitiatorStep
	}
	return !isInitiatorStep
}

// WriteMessage advances the handshake by one message when it is this
// role's turn to write, returning the bytes to send to the peer.
func (h *Handshake) WriteMessage(now time.Time, payload []byte) ([]byte, error) {
	if h.complete {
		return nil, ErrAlreadyComplete
	}
	if now.After(h.deadline) {
		return nil, ErrTimeout
	}
	if h.step >= h.total || !h.writerTurn() {
		return nil, ErrOutOfSequence
	}

	out, cs1, cs2, err := h.state.WriteMessage(nil, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	h.step++
	if h.step == h.total {
		h.complete = true
		h.sendCipher, h.recvCipher = selectCiphers(h.role, cs1, cs2)
	}
	return out, nil
}

// ReadMessage advances the handshake by one message when it is this role's
// turn to read, returning whatever payload the peer carried in the
// message (empty when the peer wrote none).
func (h *Handshake) ReadMessage(now time.Time, message []byte) ([]byte, error) {
	if h.complete {
		return nil, ErrAlreadyComplete
	}
	if now.After(h.deadline) {
		return nil, ErrTimeout
	}
	if h.step >= h.total || h.writerTurn() {
		return nil, ErrOutOfSequence
	}

	payload, cs1, cs2, err := h.state.ReadMessage(nil, message)
	if err != nil {
		// flynn/noise surfaces a low-order or malformed ephemeral as a
		// DH/decrypt failure here; the spec requires responders to reject
		// it, which this propagation already achieves.
		return nil, fmt.Errorf("%w: %v", ErrDecryptFailure, err)
	}
	h.step++
	if h.step == h.total {
		h.complete = true
		h.sendCipher, h.recvCipher = selectCiphers(h.role, cs1, cs2)
	}
	return payload, nil
}

// selectCiphers maps flynn/noise's (cs1, cs2) split convention — cs1 is
// always the initiator's send cipher — onto this role's (send, receive)
// pair.
func selectCiphers(role Role, cs1, cs2 *noise.CipherState) (send, recv *noise.CipherState) {
	if role == Initiator {
		return cs1, cs2
	}
	return cs2, cs1
}

// IsComplete reports whether the handshake has produced cipher states.
func (h *Handshake) IsComplete() bool {
	return h.complete
}

// Split returns the send and receive cipher states once the handshake is
// complete. The handshake's internal chaining key becomes unreachable once
// this returns and is eligible for garbage collection; flynn/noise never
// exposes it outside the package, so there is no chaining-key buffer for
// this layer to zero explicitly.
func (h *Handshake) Split() (send, recv *noise.CipherState, err error) {
	if !h.complete {
		return nil, nil, ErrNotComplete
	}
	return h.sendCipher, h.recvCipher, nil
}

// RemoteStatic returns the peer's static public key once it has been
// learned (after message 2 of XX, or immediately for KK).
func (h *Handshake) RemoteStatic() []byte {
	return h.state.PeerStatic()
}

// Nonce returns the handshake's replay-protection nonce, generated fresh
// per attempt.
func (h *Handshake) Nonce() [32]byte {
	return h.nonce
}
