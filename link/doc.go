// Package link defines the Link abstraction the core consumes: send,
// on_notify, on_connect, on_disconnect, negotiated_mtu. A link is
// polymorphic over whatever transport capability set the environment
// offers; the core never assumes more than this narrow interface, in the
// spirit of the teacher's IPacketDelivery/INetworkTransport split
// between a narrow consumer-facing interface and swappable real or
// simulated implementations.
//
// It also carries the single-packet, non-fragmented protocol header
// format: type(1) | payload_len(2, big-endian) | payload.
package link
