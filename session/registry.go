package session

import (
	"encoding/hex"
	"sync"

	"github.com/sirupsen/logrus"
)

var registryLog = logrus.WithField("package", "session")

// PeerIdentity is the three-tier peer identity model from spec §3: a
// public key that is the primary, immutable identifier; an optional
// persistent static key set after a verified security upgrade; and an
// optional short-lived ephemeral identifier rotated per connection.
type PeerIdentity struct {
	PublicKey        [32]byte
	PersistentStatic *[32]byte
	EphemeralID      *string
}

// ChatKey resolves to the persistent static key when present, else the
// original public key: stable across sessions for addressing a contact.
func (p PeerIdentity) ChatKey() string {
	if p.PersistentStatic != nil {
		return hex.EncodeToString(p.PersistentStatic[:])
	}
	return hex.EncodeToString(p.PublicKey[:])
}

// SessionKey resolves to the current ephemeral identifier when present,
// else the original public key: privacy-preserving, used to look up the
// live session for a currently-connected peer.
func (p PeerIdentity) SessionKey() string {
	if p.EphemeralID != nil {
		return *p.EphemeralID
	}
	return hex.EncodeToString(p.PublicKey[:])
}

// Registry maps peers to their established session. It holds at most one
// established session per peer; a new successful handshake replaces the
// old session atomically. Reads take a shared lock; writes (replace,
// remove) take an exclusive one, per spec §4.10 and §5.
type Registry struct {
	mu        sync.RWMutex
	bySession map[string]*Session // keyed by PeerIdentity.SessionKey()
	byChat    map[string]*Session // keyed by PeerIdentity.ChatKey(), lockstep with bySession
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		bySession: make(map[string]*Session),
		byChat:    make(map[string]*Session),
	}
}

// Put installs session for identity, replacing and discarding any prior
// session for the same peer. The prior session's cipher states are
// dereferenced here, making them eligible for garbage collection; this is
// the zeroization boundary this package can reach, since the underlying
// Noise cipher state keeps its symmetric key in an unexported field with
// no public scrub hook (documented in DESIGN.md).
func (r *Registry) Put(identity PeerIdentity, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessionKey := identity.SessionKey()
	chatKey := identity.ChatKey()

	if old, ok := r.bySession[sessionKey]; ok && old != s {
		registryLog.WithField("session_key", sessionKey).Debug("replacing established session")
	}

	r.bySession[sessionKey] = s
	r.byChat[chatKey] = s
}

// LookupBySession finds the session currently addressed by a peer's
// session-aware identifier (ephemeral id if connected, else public key).
func (r *Registry) LookupBySession(sessionKey string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.bySession[sessionKey]
	return s, ok
}

// LookupByChat finds the session for a peer's stable chat identifier
// (persistent static key if known, else public key).
func (r *Registry) LookupByChat(chatKey string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byChat[chatKey]
	return s, ok
}

// Remove deletes any session recorded under identity's keys, used on
// explicit peer removal or a failed handshake.
func (r *Registry) Remove(identity PeerIdentity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bySession, identity.SessionKey())
	delete(r.byChat, identity.ChatKey())
}

// Len reports the number of distinct sessions tracked by session key,
// mainly for tests and statistics.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySession)
}
