package session

import "errors"

var (
	// ErrAuthFailure indicates AEAD decryption failed; the receive counter
	// is left unchanged so the caller may retry or reject.
	ErrAuthFailure = errors.New("session: decrypt authentication failed")

	// ErrNonceExhausted indicates the 64-bit send counter would overflow.
	ErrNonceExhausted = errors.New("session: nonce counter exhausted")

	// ErrNoSession indicates a registry lookup found no established session
	// for the requested peer.
	ErrNoSession = errors.New("session: no established session for peer")

	// ErrNotEstablished indicates an operation requiring an Established
	// session was attempted on one still InHandshake.
	ErrNotEstablished = errors.New("session: session not yet established")
)
