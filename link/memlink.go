package link

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("package", "link")

// DefaultMTU is the MTU MemLink reports once a peer is connected.
const DefaultMTU = 512

// MemLink is an in-memory Link used in tests: peers are "connected" by
// calling Connect, and Send on one MemLink instance that shares a bus
// with a peer's MemLink delivers directly into that peer's handler.
// Mirrors the teacher's simulated packet delivery style: a non-network
// stand-in that still exercises the real Handler/Link contract.
type MemLink struct {
	mu      sync.Mutex
	id      string
	bus     *MemBus
	peers   map[string]uint16 // connected peer -> negotiated MTU
	handler Handler
}

// MemBus is shared by every MemLink attached to it, routing Send calls
// to the addressed peer's handler.
type MemBus struct {
	mu    sync.Mutex
	links map[string]*MemLink
}

// NewMemBus creates an empty shared bus for a group of MemLinks.
func NewMemBus() *MemBus {
	return &MemBus{links: make(map[string]*MemLink)}
}

// NewMemLink creates a MemLink identified by id, attached to bus.
func NewMemLink(id string, bus *MemBus) *MemLink {
	l := &MemLink{id: id, bus: bus, peers: make(map[string]uint16)}
	bus.mu.Lock()
	bus.links[id] = l
	bus.mu.Unlock()
	return l
}

// Connect establishes a bidirectional connection between l and the peer
// identified by peerID, notifying both sides' handlers with the given
// negotiated MTU.
func (l *MemLink) Connect(peerID string, mtu uint16) {
	l.bus.mu.Lock()
	peer, ok := l.bus.links[peerID]
	l.bus.mu.Unlock()
	if !ok {
		log.WithField("peer", peerID).Warn("connect to unknown peer on mem bus")
		return
	}

	l.mu.Lock()
	l.peers[peerID] = mtu
	handler := l.handler
	l.mu.Unlock()

	peer.mu.Lock()
	peer.peers[l.id] = mtu
	peerHandler := peer.handler
	peer.mu.Unlock()

	if handler != nil {
		handler.OnConnect(peerID)
	}
	if peerHandler != nil {
		peerHandler.OnConnect(l.id)
	}
}

// Disconnect tears down the connection between l and peerID, notifying
// both sides.
func (l *MemLink) Disconnect(peerID string) {
	l.bus.mu.Lock()
	peer, ok := l.bus.links[peerID]
	l.bus.mu.Unlock()

	l.mu.Lock()
	delete(l.peers, peerID)
	handler := l.handler
	l.mu.Unlock()
	if handler != nil {
		handler.OnDisconnect(peerID)
	}

	if ok {
		peer.mu.Lock()
		delete(peer.peers, l.id)
		peerHandler := peer.handler
		peer.mu.Unlock()
		if peerHandler != nil {
			peerHandler.OnDisconnect(l.id)
		}
	}
}

func (l *MemLink) SetHandler(h Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handler = h
}

func (l *MemLink) NegotiatedMTU(peer string) (uint16, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	mtu, ok := l.peers[peer]
	return mtu, ok
}

func (l *MemLink) Send(peer string, data []byte) error {
	l.mu.Lock()
	_, connected := l.peers[peer]
	l.mu.Unlock()
	if !connected {
		return ErrUnknownPeer
	}

	l.bus.mu.Lock()
	target, ok := l.bus.links[peer]
	l.bus.mu.Unlock()
	if !ok {
		return ErrUnknownPeer
	}

	target.mu.Lock()
	handler := target.handler
	target.mu.Unlock()
	if handler != nil {
		cp := append([]byte(nil), data...)
		handler.OnNotify(l.id, cp)
	}
	return nil
}
