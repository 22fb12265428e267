package link

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncHandler struct {
	mu        sync.Mutex
	received  [][]byte
	connected bool
	gotData   chan struct{}
}

func newSyncHandler() *syncHandler {
	return &syncHandler{gotData: make(chan struct{}, 16)}
}

func (h *syncHandler) OnNotify(peer string, data []byte) {
	h.mu.Lock()
	h.received = append(h.received, data)
	h.mu.Unlock()
	h.gotData <- struct{}{}
}
func (h *syncHandler) OnConnect(peer string) {
	h.mu.Lock()
	h.connected = true
	h.mu.Unlock()
}
func (h *syncHandler) OnDisconnect(peer string) {}

func TestTCPLinkSendReceivesFramedPayload(t *testing.T) {
	ln, err := ListenTCP("127.0.0.1:0", 1024)
	require.NoError(t, err)
	defer ln.Close()

	serverHandler := newSyncHandler()
	var serverLink *TCPLink
	accepted := make(chan struct{})
	go ln.Serve(func(peerID string, l *TCPLink) {
		l.SetHandler(serverHandler)
		serverLink = l
		close(accepted)
	})

	client, err := DialTCP("server", ln.Addr().String(), 1024, time.Second)
	require.NoError(t, err)
	defer client.Close()

	<-accepted
	defer serverLink.Close()

	require.NoError(t, client.Send("server", []byte("hello")))

	select {
	case <-serverHandler.gotData:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for server to receive data")
	}

	serverHandler.mu.Lock()
	defer serverHandler.mu.Unlock()
	require.Len(t, serverHandler.received, 1)
	assert.Equal(t, []byte("hello"), serverHandler.received[0])
}

func TestTCPLinkNegotiatedMTUReportsConfiguredValue(t *testing.T) {
	ln, err := ListenTCP("127.0.0.1:0", 777)
	require.NoError(t, err)
	defer ln.Close()

	go ln.Serve(func(peerID string, l *TCPLink) {})

	client, err := DialTCP("server", ln.Addr().String(), 777, time.Second)
	require.NoError(t, err)
	defer client.Close()

	mtu, ok := client.NegotiatedMTU("server")
	require.True(t, ok)
	assert.Equal(t, uint16(777), mtu)

	_, ok = client.NegotiatedMTU("someone-else")
	assert.False(t, ok)
}

func TestTCPLinkSendToWrongPeerFails(t *testing.T) {
	ln, err := ListenTCP("127.0.0.1:0", 1024)
	require.NoError(t, err)
	defer ln.Close()
	go ln.Serve(func(peerID string, l *TCPLink) {})

	client, err := DialTCP("server", ln.Addr().String(), 1024, time.Second)
	require.NoError(t, err)
	defer client.Close()

	err = client.Send("not-server", []byte("x"))
	assert.ErrorIs(t, err, ErrUnknownPeer)
}

func TestTCPLinkCloseStopsReadLoop(t *testing.T) {
	ln, err := ListenTCP("127.0.0.1:0", 1024)
	require.NoError(t, err)
	defer ln.Close()
	go ln.Serve(func(peerID string, l *TCPLink) {})

	client, err := DialTCP("server", ln.Addr().String(), 1024, time.Second)
	require.NoError(t, err)

	require.NoError(t, client.Close())
	err = client.Send("server", []byte("x"))
	assert.Error(t, err)
}
