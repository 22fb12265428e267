package session

import (
	"errors"
	"sync"
	"time"

	"github.com/flynn/noise"
	"github.com/sirupsen/logrus"
)

// RekeyMessageThreshold triggers a rekey once a direction's send count
// reaches this many messages (spec §4.3 rekey policy (a)).
const RekeyMessageThreshold = 10000

// RekeyAgeThreshold triggers a rekey once a session has been established
// this long (spec §4.3 rekey policy (b)).
const RekeyAgeThreshold = time.Hour

var cipherLog = logrus.WithField("package", "session")

// CipherState is exactly one per direction: a symmetric key with a
// monotonically increasing 64-bit counter that is never reused for the
// same key. It wraps a *noise.CipherState, whose Encrypt/Decrypt already
// provide the atomicity and no-advance-on-failure semantics the spec
// requires, and whose Rekey performs the Noise protocol's standard
// AEAD-based rekey primitive.
type CipherState struct {
	mu            sync.Mutex
	cs            *noise.CipherState
	establishedAt time.Time
	// rekeyBase is the underlying *noise.CipherState nonce value at the
	// start of the current key epoch. flynn/noise's Rekey derives a fresh
	// key but leaves its internal nonce counter climbing rather than
	// zeroing it, so Counter subtracts this offset to present the
	// "counter resets to zero on rekey" view spec §4.3 requires, while the
	// real AEAD nonce passed to ChaCha20-Poly1305 still never repeats for
	// the lifetime of the CipherState — a strictly stronger guarantee.
	rekeyBase uint64
}

// NewCipherState wraps a cipher state produced by Handshake.Split().
func NewCipherState(cs *noise.CipherState, now time.Time) *CipherState {
	return &CipherState{cs: cs, establishedAt: now}
}

// Encrypt seals plaintext under the current key and counter, then
// increments the counter. Returns ErrNonceExhausted if the counter would
// overflow.
func (c *CipherState) Encrypt(ad, plaintext []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ct, err := c.cs.Encrypt(nil, ad, plaintext)
	if err != nil {
		if errors.Is(err, noise.ErrMaxNonce) {
			return nil, ErrNonceExhausted
		}
		return nil, err
	}
	return ct, nil
}

// Decrypt authenticates and opens ciphertext under the current key and
// counter. On authentication failure the counter is left unchanged; the
// caller decides retry/reject policy.
func (c *CipherState) Decrypt(ad, ciphertext []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pt, err := c.cs.Decrypt(nil, ad, ciphertext)
	if err != nil {
		if errors.Is(err, noise.ErrMaxNonce) {
			return nil, ErrNonceExhausted
		}
		return nil, ErrAuthFailure
	}
	return pt, nil
}

// Counter returns the number of messages processed in this direction
// since the last rekey (or since establishment, if never rekeyed).
func (c *CipherState) Counter() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cs.Nonce() - c.rekeyBase
}

// ShouldRekey reports whether the owning session should trigger a rekey
// for this direction, per spec §4.3: send-count >= 10000 OR session age
// >= 1 hour.
func (c *CipherState) ShouldRekey(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cs.Nonce()-c.rekeyBase >= RekeyMessageThreshold || now.Sub(c.establishedAt) >= RekeyAgeThreshold
}

// Rekey replaces the current key with a fresh pseudorandom key derived by
// the Noise protocol's AEAD-based rekey primitive, resets the externally
// visible counter to zero, and resets establishedAt so the age trigger
// restarts.
func (c *CipherState) Rekey(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cs.Rekey()
	c.rekeyBase = c.cs.Nonce()
	c.establishedAt = now
	cipherLog.Debug("cipher state rekeyed")
}
