// Package framing splits outbound protocol payloads larger than a link's
// MTU into fragments and reassembles inbound fragment streams back into
// whole payloads.
//
// The wire format is a fixed little-endian header followed by a
// length-prefixed recipient and the fragment's share of the payload:
//
//	0xF0 | fragment-id(8) | index(2) | total(2) | ttl(1) | type(1) | recipient-len(1) | recipient(n) | payload...
//
// 0xF0 is the magic byte that distinguishes a fragment envelope from a
// single-packet protocol message sharing the same link. Reassembly state
// is kept per (peer, fragment-id) in a bounded, LRU-evicted table with a
// fixed timeout, mirroring the teacher's packet-oriented connection
// buffering without carrying over its legacy packet type catalogue.
package framing
