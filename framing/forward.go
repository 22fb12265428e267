package framing

import "io"

// Refragment re-splits a fully reassembled payload for the next hop's
// MTU, decrementing ttl by one, and returns ErrMalformedFragment when ttl
// is already zero. It has no notion of the peer the payload came from;
// callers are responsible for not sending the result back on that link,
// per the no-echo-to-sender rule.
func Refragment(payload []byte, nextHopMTU int, ttl, typ byte, recipient []byte, rnd io.Reader) ([][]byte, error) {
	if ttl == 0 {
		return nil, ErrMalformedFragment
	}
	return Split(payload, nextHopMTU, ttl-1, typ, recipient, rnd)
}
