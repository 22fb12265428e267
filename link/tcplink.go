package link

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"net"
	"sync"
	"time"
)

// frameHeaderSize is the length prefix TCPLink puts in front of each
// Send payload: a single big-endian uint32 byte count. Unlike the
// fixed-type protocol header in header.go, this is a raw transport
// framing concern — the caller's bytes already carry their own type byte
// per §6's per-packet wire format.
const frameHeaderSize = 4

// maxFrameBytes bounds a single inbound frame, guarding against a
// corrupt or hostile length prefix driving an unbounded allocation.
const maxFrameBytes = 16 << 20

// TCPLink is a Link implementation over a plain net.Conn: a length-prefixed
// byte stream with no negotiation beyond the MTU value supplied at
// construction. It adapts the teacher's net.Conn buffering/deadline/close
// discipline (net/conn.go's ToxConn) to a generic single-peer stream
// instead of a Tox friend connection.
type TCPLink struct {
	peerID string
	conn   net.Conn
	mtu    uint16

	mu      sync.Mutex
	handler Handler
	closed  bool

	cancel context.CancelFunc
}

// NewTCPLink wraps an already-established net.Conn as a Link identified
// by peerID, reporting mtu as its negotiated MTU, and starts the
// background read loop that delivers inbound frames to the handler set
// via SetHandler.
func NewTCPLink(peerID string, conn net.Conn, mtu uint16) *TCPLink {
	ctx, cancel := context.WithCancel(context.Background())
	l := &TCPLink{peerID: peerID, conn: conn, mtu: mtu, cancel: cancel}
	go l.readLoop(ctx)
	return l
}

// DialTCP connects to addr over TCP with the given timeout (0 disables
// the deadline) and wraps the resulting connection as a TCPLink
// identified by peerID. Mirrors the teacher's Dial/DialTimeout pair.
func DialTCP(peerID, addr string, mtu uint16, timeout time.Duration) (*TCPLink, error) {
	var conn net.Conn
	var err error
	if timeout > 0 {
		conn, err = net.DialTimeout("tcp", addr, timeout)
	} else {
		conn, err = net.Dial("tcp", addr)
	}
	if err != nil {
		return nil, err
	}
	return NewTCPLink(peerID, conn, mtu), nil
}

func (l *TCPLink) SetHandler(h Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handler = h
}

func (l *TCPLink) NegotiatedMTU(peer string) (uint16, bool) {
	if peer != l.peerID {
		return 0, false
	}
	return l.mtu, true
}

// Send writes data as one length-prefixed frame. The prefix and payload go
// out in a single Write on the net.Conn, which serializes concurrent Write
// calls, so frames from concurrent Send calls never interleave.
func (l *TCPLink) Send(peer string, data []byte) error {
	l.mu.Lock()
	if peer != l.peerID || l.closed {
		l.mu.Unlock()
		return ErrUnknownPeer
	}
	l.mu.Unlock()

	frame := make([]byte, frameHeaderSize+len(data))
	binary.BigEndian.PutUint32(frame[:frameHeaderSize], uint32(len(data)))
	copy(frame[frameHeaderSize:], data)
	_, err := l.conn.Write(frame)
	return err
}

// Close tears down the underlying connection and stops the read loop.
func (l *TCPLink) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	handler := l.handler
	l.mu.Unlock()

	l.cancel()
	err := l.conn.Close()
	if handler != nil {
		handler.OnDisconnect(l.peerID)
	}
	return err
}

func (l *TCPLink) readLoop(ctx context.Context) {
	l.mu.Lock()
	handler := l.handler
	l.mu.Unlock()
	if handler != nil {
		handler.OnConnect(l.peerID)
	}

	r := bufio.NewReader(l.conn)
	var hdr [frameHeaderSize]byte
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			l.Close()
			return
		}
		n := binary.BigEndian.Uint32(hdr[:])
		if n > maxFrameBytes {
			l.Close()
			return
		}
		payload := make([]byte, n)
		if _, err := io.ReadFull(r, payload); err != nil {
			l.Close()
			return
		}

		l.mu.Lock()
		h := l.handler
		l.mu.Unlock()
		if h != nil {
			h.OnNotify(l.peerID, payload)
		}
	}
}

