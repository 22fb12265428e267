// Package cryptoprim provides the stateless cryptographic primitives adapter
// consumed by the handshake and cipher-state layers: Curve25519 key
// generation and Diffie-Hellman, ChaCha20-Poly1305 AEAD sealing and opening,
// and HKDF key derivation.
//
// The package keeps no state of its own and no RNG pooling; callers supply
// entropy through crypto/rand and own any key material they pass in.
package cryptoprim
