package cryptoprim

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"io"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"
)

// KeySize is the width in bytes of a Curve25519 private or public key, a
// ChaCha20-Poly1305 key, and an HKDF chaining key.
const KeySize = 32

// NonceSize is the width in bytes of an AEAD nonce: 4 zero bytes followed
// by a 64-bit little-endian counter, per Noise convention.
const NonceSize = chacha20poly1305.NonceSize

// TagSize is the width in bytes of the ChaCha20-Poly1305 authentication tag.
const TagSize = chacha20poly1305.Overhead

var log = logrus.WithField("package", "cryptoprim")

// StaticKeyPair is a Curve25519 key pair used as a long-term identity key
// or as a handshake ephemeral.
type StaticKeyPair struct {
	Private [KeySize]byte
	Public  [KeySize]byte
}

// GenerateStaticKeypair produces a new random Curve25519 key pair.
func GenerateStaticKeypair() (StaticKeyPair, error) {
	var kp StaticKeyPair
	if _, err := io.ReadFull(rand.Reader, kp.Private[:]); err != nil {
		return StaticKeyPair{}, err
	}
	pub, err := curve25519.X25519(kp.Private[:], curve25519.Basepoint)
	if err != nil {
		ZeroBytes(kp.Private[:])
		return StaticKeyPair{}, err
	}
	copy(kp.Public[:], pub)
	log.WithField("public_key", kp.Public[:8]).Debug("generated static keypair")
	return kp, nil
}

// DH computes the Curve25519 shared secret between sk and pk. It rejects
// low-order or otherwise malformed points with ErrInvalidPoint, which
// curve25519.X25519 surfaces for an all-zero output.
func DH(sk, pk [KeySize]byte) ([KeySize]byte, error) {
	shared, err := curve25519.X25519(sk[:], pk[:])
	if err != nil {
		log.WithError(err).Debug("dh rejected malformed point")
		return [KeySize]byte{}, ErrInvalidPoint
	}
	var out [KeySize]byte
	copy(out[:], shared)
	ZeroBytes(shared)
	return out, nil
}

// Nonce builds the 12-byte Noise-convention AEAD nonce for counter: 4 zero
// bytes followed by the 64-bit little-endian counter.
func Nonce(counter uint64) [NonceSize]byte {
	var n [NonceSize]byte
	binary.LittleEndian.PutUint64(n[4:], counter)
	return n
}

// AEADSeal encrypts plaintext under key with the given nonce and associated
// data, returning ciphertext with the 16-byte tag appended.
func AEADSeal(key [KeySize]byte, nonce [NonceSize]byte, ad, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, ErrInvalidKeySize
	}
	return aead.Seal(nil, nonce[:], plaintext, ad), nil
}

// AEADOpen authenticates and decrypts ciphertext (with trailing tag) under
// key, nonce and associated data. Returns ErrAuthFailure on tag mismatch.
func AEADOpen(key [KeySize]byte, nonce [NonceSize]byte, ad, ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, ErrInvalidKeySize
	}
	plaintext, err := aead.Open(nil, nonce[:], ciphertext, ad)
	if err != nil {
		return nil, ErrAuthFailure
	}
	return plaintext, nil
}

// HKDF derives outLen bytes from chainingKey and ikm using HKDF-SHA256 with
// the given info, following the Noise key-derivation convention.
func HKDF(chainingKey, ikm []byte, outLen int, info []byte) ([]byte, error) {
	r := hkdf.New(sha256.New, ikm, chainingKey, info)
	out := make([]byte, outLen)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ZeroBytes overwrites data in place so that compromised memory cannot
// later be scraped for key material. Safe to call on a nil or empty slice.
func ZeroBytes(data []byte) {
	if len(data) == 0 {
		return
	}
	subtle.XORBytes(data, data, data)
	runtime.KeepAlive(data)
}
