// Package metrics aggregates node-wide operational counters that span
// more than one subsystem: active sessions, outbox depth, and link
// connectivity, alongside a pass-through view of the relay engine's own
// statistics. It is the thing a log line or a status command reads from,
// not a wire protocol.
//
// No package in the example corpus pulls in a metrics/observability
// library (no prometheus, no expvar wrapper) for this kind of node, so
// this stays on sync/atomic counters rather than importing one
// speculatively.
package metrics
