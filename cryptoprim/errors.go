package cryptoprim

import "errors"

// Sentinel errors for the crypto primitives adapter. Classified as
// Crypto::* in the project's error taxonomy: local and fatal to the
// current message only, never to the session.
var (
	// ErrInvalidPoint indicates a Diffie-Hellman input was low-order or
	// otherwise malformed, detected by the scalar multiply yielding an
	// all-zero shared secret.
	ErrInvalidPoint = errors.New("cryptoprim: invalid or low-order point")

	// ErrAuthFailure indicates AEAD tag verification failed.
	ErrAuthFailure = errors.New("cryptoprim: authentication failed")

	// ErrNonceExhausted indicates the 64-bit nonce counter would overflow.
	ErrNonceExhausted = errors.New("cryptoprim: nonce counter exhausted")

	// ErrInvalidKeySize indicates a key or nonce argument had the wrong length.
	ErrInvalidKeySize = errors.New("cryptoprim: invalid key or nonce size")
)
