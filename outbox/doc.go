// Package outbox implements a durable priority queue of outbound messages
// awaiting delivery to a peer that may currently be unreachable.
//
// Entries move through a small state machine (pending -> sending ->
// delivered, or pending/sending -> retrying -> failed/expired) with a
// jittered exponential backoff between retry attempts. Enqueue and every
// terminal transition are persisted synchronously through a Store;
// "sending" and "awaiting-ack" are not durable and are recovered as
// pending on restart, mirroring the teacher's async message store's
// approach to recoverable-vs-ephemeral state.
package outbox
