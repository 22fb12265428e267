package store

import "errors"

var (
	// ErrNotFound indicates a key or record does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrTxnClosed indicates Get/Put/Delete/Scan/Commit was called on a
	// transaction that already committed or rolled back.
	ErrTxnClosed = errors.New("store: transaction already closed")

	// ErrTamperedRecord indicates a sealed peer record failed AEAD
	// authentication or is too short to contain a nonce.
	ErrTamperedRecord = errors.New("store: sealed record is malformed or tampered")
)
