package link

// Handler receives the events a Link implementation reports back to the
// core: a notification (inbound bytes), a peer connecting, or a peer
// disconnecting.
type Handler interface {
	OnNotify(peer string, data []byte)
	OnConnect(peer string)
	OnDisconnect(peer string)
}

// Link is the narrow transport abstraction the core depends on. Real
// implementations might be a BLE central/peripheral role, a local socket,
// or (in tests) the in-memory MemLink in memlink.go; the core never branches on
// which.
type Link interface {
	// Send transmits data to peer. Implementations should not block
	// indefinitely; a suspension point is expected but must respect the
	// caller's context where one is threaded through.
	Send(peer string, data []byte) error

	// NegotiatedMTU returns the current link MTU for peer, and false if
	// no MTU has been negotiated yet (e.g. before connect completes).
	NegotiatedMTU(peer string) (uint16, bool)

	// SetHandler installs the callback sink for inbound events. Called
	// once during setup.
	SetHandler(h Handler)
}
