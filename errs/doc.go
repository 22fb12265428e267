// Package errs names the error taxonomy shared across the core:
// per-kind sentinel groups (Crypto, Handshake, Frame, Relay, Outbox,
// Link) and a Kind classification used to decide propagation policy —
// dropped-and-counted, surfaced-to-sender, session-fatal, or
// system-fatal — without every package re-deriving that policy from its
// own error values.
package errs
