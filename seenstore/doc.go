// Package seenstore provides a bounded, in-memory duplicate-suppression
// table keyed by a 64-bit message-id fingerprint.
//
// It is deliberately not persisted: duplicate detection at this layer is
// a best-effort network optimization (relay loop suppression, redundant
// redelivery), not a correctness guarantee. At-most-once delivery to the
// application is the delivery sink's job, via content-addressed message
// ids.
package seenstore
