package link

import (
	"net"
	"sync"
)

// TCPListener accepts inbound TCP connections and wraps each as a
// TCPLink, handing it to onAccept. Mirrors the teacher's ToxListener
// accept-loop structure (net/listener.go), generalized from Tox friend
// requests to plain TCP accepts.
type TCPListener struct {
	ln  net.Listener
	mtu uint16

	mu     sync.Mutex
	closed bool
}

// ListenTCP starts listening on addr (e.g. ":4433") and returns a
// TCPListener reporting mtu as every accepted link's negotiated MTU.
func ListenTCP(addr string, mtu uint16) (*TCPListener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &TCPListener{ln: ln, mtu: mtu}, nil
}

// Serve accepts connections in a loop, calling onAccept with a peerID
// (the remote address string) and the wrapped TCPLink for each one,
// until Close is called.
func (l *TCPListener) Serve(onAccept func(peerID string, link *TCPLink)) error {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			l.mu.Lock()
			closed := l.closed
			l.mu.Unlock()
			if closed {
				return nil
			}
			return err
		}
		peerID := conn.RemoteAddr().String()
		onAccept(peerID, NewTCPLink(peerID, conn, l.mtu))
	}
}

// Close stops accepting new connections. Already-accepted TCPLinks are
// unaffected and must be closed individually.
func (l *TCPListener) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()
	return l.ln.Close()
}

// Addr returns the listener's bound address.
func (l *TCPListener) Addr() net.Addr {
	return l.ln.Addr()
}
