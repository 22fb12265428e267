package session

import (
	"sync"
	"time"

	"github.com/opd-ai/meshmsg/noisehs"
)

// Phase is a mutually-exclusive session state. It tags which of the
// Session's phase-specific fields is valid: the handshake while
// PhaseHandshake, the cipher states while PhaseEstablished.
type Phase uint8

const (
	// PhaseHandshake means the session has an in-progress handshake and
	// no cipher states yet.
	PhaseHandshake Phase = iota
	// PhaseEstablished means the handshake completed and split into a
	// send/receive cipher pair.
	PhaseEstablished
)

// Session is one per ordered peer pair (spec §3). It carries its Noise
// pattern and role for its entire life, and transitions exactly once from
// PhaseHandshake to PhaseEstablished.
type Session struct {
	mu      sync.RWMutex
	pattern noisehs.Pattern
	role    noisehs.Role
	phase   Phase

	hs *noisehs.Handshake // valid only while phase == PhaseHandshake

	send         *CipherState // valid only while phase == PhaseEstablished
	recv         *CipherState
	remoteStatic [32]byte
	establishedAt time.Time
}

// NewHandshakingSession wraps a just-created handshake as a new session.
func NewHandshakingSession(hs *noisehs.Handshake, pattern noisehs.Pattern, role noisehs.Role) *Session {
	return &Session{pattern: pattern, role: role, phase: PhaseHandshake, hs: hs}
}

// Pattern returns which Noise pattern this session is running.
func (s *Session) Pattern() noisehs.Pattern {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pattern
}

// Role returns whether this side initiated or responded.
func (s *Session) Role() noisehs.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Handshake returns the in-progress handshake, or nil once established.
func (s *Session) Handshake() *noisehs.Handshake {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hs
}

// CompleteHandshake splits the underlying handshake into cipher states and
// transitions the session to PhaseEstablished. Returns the handshake's own
// Split error if the handshake has not produced cipher states yet, and
// nil without doing anything if the session is already established.
func (s *Session) CompleteHandshake(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseHandshake {
		return nil
	}
	send, recv, err := s.hs.Split()
	if err != nil {
		return err
	}
	copy(s.remoteStatic[:], s.hs.RemoteStatic())
	s.send = NewCipherState(send, now)
	s.recv = NewCipherState(recv, now)
	s.establishedAt = now
	s.hs = nil
	s.phase = PhaseEstablished
	return nil
}

// Send returns the send-direction cipher state. Returns ErrNotEstablished
// if the session has not completed its handshake.
func (s *Session) Send() (*CipherState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.phase != PhaseEstablished {
		return nil, ErrNotEstablished
	}
	return s.send, nil
}

// Recv returns the receive-direction cipher state. Returns
// ErrNotEstablished if the session has not completed its handshake.
func (s *Session) Recv() (*CipherState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.phase != PhaseEstablished {
		return nil, ErrNotEstablished
	}
	return s.recv, nil
}

// RemoteStatic returns the peer's static public key. It is set when
// CompleteHandshake succeeds and is all zeros before that, for both
// patterns.
func (s *Session) RemoteStatic() [32]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remoteStatic
}

// EstablishedAt returns when the session completed its handshake.
func (s *Session) EstablishedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.establishedAt
}

// MaybeRekey rekeys either direction whose cipher state has crossed the
// message-count or age threshold. Safe to call opportunistically before
// every encrypt/decrypt.
func (s *Session) MaybeRekey(now time.Time) {
	s.mu.RLock()
	established := s.phase == PhaseEstablished
	send, recv := s.send, s.recv
	s.mu.RUnlock()
	if !established {
		return
	}
	if send.ShouldRekey(now) {
		send.Rekey(now)
	}
	if recv.ShouldRekey(now) {
		recv.Rekey(now)
	}
}
