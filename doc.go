// Package meshmsg is the core of a decentralized, offline-first mesh
// messenger: Noise-secured peer sessions, fragmented framing over
// small-MTU links, a persistent priority outbox, a mesh relay engine
// with a routing oracle, and a Golomb-coded-set queue sync protocol.
//
// The core takes no hidden dependencies on process-wide state: each
// package receives its collaborators (a link.Link, a store, a clock
// value) as explicit arguments, mirroring the teacher's
// dependency-injected Tox/transport wiring rather than a global
// singleton. Config holds only tunable parameters, not collaborators.
package meshmsg
