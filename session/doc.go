// Package session owns the per-direction cipher state produced by a
// completed Noise handshake, the session registry that maps peers to their
// established session, and the rekey policy that keeps a long-lived
// session's symmetric keys fresh without a new handshake.
//
// A Session is modeled as a sum type (InHandshake or Established) rather
// than one struct with nullable fields for each phase, following the
// project's design note to prefer sum types over optional fields for
// mutually exclusive states.
package session
