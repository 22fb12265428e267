// Package syncproto implements the queue synchronization protocol: each
// side of a freshly connected link exchanges a compact probabilistic
// summary of its outbox's message ids (a Golomb-coded set), computes
// which ids it holds that the peer's summary does not represent, and the
// two sides negotiate which messages actually need to be streamed.
//
// There is no off-the-shelf Golomb-coded-set library in this project's
// dependency corpus (the closest precedent, BIP-158-style compact block
// filters, is not vendored anywhere in the example set this module was
// built from); the encoder/decoder here is therefore built directly on
// the standard library (hash/fnv for the bit-range hash, crypto/sha256
// for the queue hash, and a small hand-rolled bit writer/reader), not on
// a fetched third-party package.
package syncproto
