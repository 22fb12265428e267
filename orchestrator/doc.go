// Package orchestrator drives the connection lifecycle of a single link
// as an explicit state machine: DISCONNECTED, SCANNING/ADVERTISING,
// CONNECTING, MTU_NEGOTIATION, IDENTITY_EXCHANGE, NOISE_HANDSHAKE, READY,
// and DISCONNECTING. Events arrive on a single inbound channel per link
// and are processed sequentially, mirroring the teacher's callback-router
// style of funneling per-peer events through one serialized path rather
// than handling them from arbitrary callback goroutines.
//
// A failure on one link's state machine never touches another link's;
// each orchestrator instance owns exactly one link's lifecycle.
package orchestrator
