// Package relay implements the mesh relay engine: classification of
// inbound messages (deliver locally, drop as duplicate, drop at the hop
// limit, drop under the spam policy, forward, or hold for later attempt)
// and the metadata wrapping applied to messages a local user originates.
//
// The engine composes a seen-message store for duplicate suppression, a
// token-bucket limiter keyed by original sender for the spam policy, and
// a routing oracle for next-hop selection, tolerating the oracle's
// absence or indecision per its documented advisory contract.
package relay
