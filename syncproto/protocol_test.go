package syncproto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueHashStableUnderReorder(t *testing.T) {
	h1 := QueueHash([]uint64{3, 1, 2}, []uint64{9})
	h2 := QueueHash([]uint64{1, 2, 3}, []uint64{9})
	assert.Equal(t, h1, h2)
}

func TestQueueHashDiffersOnContentChange(t *testing.T) {
	h1 := QueueHash([]uint64{1, 2}, nil)
	h2 := QueueHash([]uint64{1, 2, 3}, nil)
	assert.NotEqual(t, h1, h2)
}

func TestBuildRequestAndComputeOffered(t *testing.T) {
	aliceActive := []uint64{10, 20, 30, 40}
	bobActive := []uint64{30, 40, 50, 60}

	aliceReq, err := BuildRequest("alice", aliceActive, nil, DefaultFPR, DefaultEnvelopeBytes)
	require.NoError(t, err)

	offeredByAlice := ComputeOffered(aliceReq.Filter, bobActive)
	assert.Contains(t, offeredByAlice, uint64(50))
	assert.Contains(t, offeredByAlice, uint64(60))
	assert.NotContains(t, offeredByAlice, uint64(30))
	assert.NotContains(t, offeredByAlice, uint64(40))
}

func TestComputeWantedExcludesKnownAndTombstoned(t *testing.T) {
	tombstones := NewTombstones(DefaultTombstoneCapacity)
	tombstones.Add(3)

	have := map[uint64]bool{1: true}
	wanted := ComputeWanted([]uint64{1, 2, 3, 4}, func(id uint64) bool { return have[id] }, tombstones)

	assert.NotContains(t, wanted, uint64(1))
	assert.NotContains(t, wanted, uint64(3))
	assert.Contains(t, wanted, uint64(2))
	assert.Contains(t, wanted, uint64(4))
}

func TestSameQueueShortCircuit(t *testing.T) {
	h := QueueHash([]uint64{1}, nil)
	assert.True(t, SameQueue(h, h))
}

func TestTombstonesEvictOldest(t *testing.T) {
	ts := NewTombstones(2)
	ts.Add(1)
	ts.Add(2)
	ts.Add(3)

	assert.False(t, ts.Contains(1))
	assert.True(t, ts.Contains(2))
	assert.True(t, ts.Contains(3))
	assert.Equal(t, 2, ts.Len())
}
