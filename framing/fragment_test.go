package framing

import (
	"bytes"
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/meshmsg/limits"
)

func reassembleAll(t *testing.T, wire [][]byte, peer string, now time.Time) []byte {
	t.Helper()
	r := NewReassembler(DefaultCapacity, DefaultTimeout)
	var out []byte
	for _, w := range wire {
		f, err := ParseFragment(w)
		require.NoError(t, err)
		payload, _, _, _, complete, err := r.Ingest(peer, f, now)
		require.NoError(t, err)
		if complete {
			out = payload
		}
	}
	return out
}

func TestFragmentRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("mesh"), 500)
	wire, err := Split(payload, 64, 3, 1, []byte("recipient"), rand.Reader)
	require.NoError(t, err)
	require.Greater(t, len(wire), 1)

	got := reassembleAll(t, wire, "peer-a", time.Now())
	assert.Equal(t, payload, got)
}

func TestFragmentRoundTripSingleFragment(t *testing.T) {
	payload := []byte("short")
	wire, err := Split(payload, 128, 3, 1, nil, rand.Reader)
	require.NoError(t, err)
	require.Len(t, wire, 1)

	got := reassembleAll(t, wire, "peer-b", time.Now())
	assert.Equal(t, payload, got)
}

func TestReassemblerOutOfOrder(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 300)
	wire, err := Split(payload, 48, 3, 1, []byte("r"), rand.Reader)
	require.NoError(t, err)
	require.Greater(t, len(wire), 2)

	reversed := make([][]byte, len(wire))
	for i, w := range wire {
		reversed[len(wire)-1-i] = w
	}
	got := reassembleAll(t, reversed, "peer-c", time.Now())
	assert.Equal(t, payload, got)
}

func TestReassemblerDuplicateIndexIdempotent(t *testing.T) {
	payload := bytes.Repeat([]byte("y"), 200)
	wire, err := Split(payload, 48, 3, 1, []byte("r"), rand.Reader)
	require.NoError(t, err)

	r := NewReassembler(DefaultCapacity, DefaultTimeout)
	now := time.Now()
	for _, w := range wire {
		f, err := ParseFragment(w)
		require.NoError(t, err)
		_, _, _, _, _, err = r.Ingest("peer-d", f, now)
		require.NoError(t, err)
	}
	f0, err := ParseFragment(wire[0])
	require.NoError(t, err)
	_, _, _, _, complete, err := r.Ingest("peer-d", f0, now)
	require.NoError(t, err)
	assert.False(t, complete)
}

func TestReassemblerInconsistentTotalDropsBuffer(t *testing.T) {
	r := NewReassembler(DefaultCapacity, DefaultTimeout)
	now := time.Now()
	f1 := &Fragment{FragmentID: 1, Index: 0, Total: 2, Payload: []byte("a")}
	_, _, _, _, _, err := r.Ingest("peer-e", f1, now)
	require.NoError(t, err)

	f2 := &Fragment{FragmentID: 1, Index: 1, Total: 3, Payload: []byte("b")}
	_, _, _, _, _, err = r.Ingest("peer-e", f2, now)
	assert.ErrorIs(t, err, ErrMalformedFragment)
	assert.Equal(t, 0, r.Len())
}

func TestReassemblerRejectsOversizeReassembledPayload(t *testing.T) {
	r := NewReassembler(DefaultCapacity, DefaultTimeout)
	now := time.Now()
	big := make([]byte, limits.MaxProcessingBuffer/2+1)

	f1 := &Fragment{FragmentID: 9, Index: 0, Total: 2, Payload: big}
	_, _, _, _, complete, err := r.Ingest("peer-big", f1, now)
	require.NoError(t, err)
	assert.False(t, complete)

	f2 := &Fragment{FragmentID: 9, Index: 1, Total: 2, Payload: big}
	_, _, _, _, _, err = r.Ingest("peer-big", f2, now)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
	assert.Equal(t, 0, r.Len())
}

func TestReassemblerEvictsUnderAggregateByteBudget(t *testing.T) {
	r := NewReassembler(DefaultCapacity, DefaultTimeout)
	now := time.Now()
	chunk := make([]byte, limits.MaxAggregateReassemblyBytes/2+1)

	// Two never-completed, two-part streams: each alone holds under the
	// per-payload ceiling, but together they exceed the aggregate budget
	// before either completes.
	f1 := &Fragment{FragmentID: 1, Index: 0, Total: 2, Payload: chunk}
	_, _, _, _, complete, err := r.Ingest("peer-h", f1, now)
	require.NoError(t, err)
	assert.False(t, complete)
	require.Equal(t, 1, r.Len())

	f2 := &Fragment{FragmentID: 2, Index: 0, Total: 2, Payload: chunk}
	_, _, _, _, complete, err = r.Ingest("peer-h", f2, now.Add(time.Millisecond))
	require.NoError(t, err)
	assert.False(t, complete)

	assert.Equal(t, 1, r.Len(), "oldest buffer must be evicted once the aggregate byte budget is exceeded")
}

func TestReassemblerExpiry(t *testing.T) {
	r := NewReassembler(DefaultCapacity, 30*time.Second)
	now := time.Now()
	f := &Fragment{FragmentID: 7, Index: 0, Total: 2, Payload: []byte("partial")}
	_, _, _, _, _, err := r.Ingest("peer-f", f, now)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	dropped := r.Expire(now.Add(31 * time.Second))
	assert.Equal(t, 1, dropped)
	assert.Equal(t, 0, r.Len())
}

func TestReassemblerCapacityEvictsOldest(t *testing.T) {
	r := NewReassembler(2, DefaultTimeout)
	now := time.Now()
	for i := uint64(0); i < 3; i++ {
		f := &Fragment{FragmentID: i, Index: 0, Total: 2, Payload: []byte("p")}
		_, _, _, _, _, err := r.Ingest("peer-g", f, now.Add(time.Duration(i)*time.Millisecond))
		require.NoError(t, err)
	}
	assert.Equal(t, 2, r.Len())
}

func TestParseFragmentRejectsBadMagic(t *testing.T) {
	data := make([]byte, fixedHeaderSize)
	data[0] = 0x01
	_, err := ParseFragment(data)
	assert.ErrorIs(t, err, ErrMalformedFragment)
}

func TestParseFragmentRejectsShortData(t *testing.T) {
	_, err := ParseFragment([]byte{Magic, 0x01})
	assert.ErrorIs(t, err, ErrMalformedFragment)
}

func TestSplitRejectsTooSmallMTU(t *testing.T) {
	_, err := Split([]byte("payload"), HeaderSize(0), 3, 1, nil, rand.Reader)
	assert.ErrorIs(t, err, ErrMTUTooSmall)
}

func TestRefragmentDecrementsTTL(t *testing.T) {
	payload := []byte("hop along")
	wire, err := Refragment(payload, 64, 3, 1, []byte("next"), rand.Reader)
	require.NoError(t, err)
	f, err := ParseFragment(wire[0])
	require.NoError(t, err)
	assert.Equal(t, byte(2), f.TTL)
}

func TestRefragmentRejectsExpiredTTL(t *testing.T) {
	_, err := Refragment([]byte("x"), 64, 0, 1, nil, rand.Reader)
	assert.ErrorIs(t, err, ErrMalformedFragment)
}

func FuzzFragmentRoundTrip(f *testing.F) {
	f.Add([]byte("hello mesh"), 32)
	f.Add([]byte(""), 64)
	f.Add(make([]byte, 500), 48)

	f.Fuzz(func(t *testing.T, payload []byte, mtu int) {
		if len(payload) > 20000 {
			return
		}
		if mtu < HeaderSize(0)+1 || mtu > 4096 {
			return
		}
		wire, err := Split(payload, mtu, 3, 1, []byte("r"), rand.Reader)
		if err != nil {
			return
		}
		got := reassembleAll(t, wire, "fuzz-peer", time.Now())
		if !bytes.Equal(payload, got) {
			t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(payload))
		}
	})
}
