package routing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/opd-ai/meshmsg/outbox"
)

func TestChooseNextHopDirectlyAvailable(t *testing.T) {
	o := NewOracle("self")
	peer, ok := o.ChooseNextHop("bob", []string{"alice", "bob"}, outbox.PriorityNormal)
	assert.True(t, ok)
	assert.Equal(t, "bob", peer)
}

func TestChooseNextHopShortestPath(t *testing.T) {
	o := NewOracle("self")
	now := time.Now()
	o.NoteDirectLink("alice", now)
	o.NoteDirectLink("carol", now)
	o.ObserveLink("alice", "dave") // alice -> dave, 2 hops via alice
	o.ObserveLink("carol", "eve")
	o.ObserveLink("eve", "dave") // carol -> eve -> dave, 3 hops via carol

	peer, ok := o.ChooseNextHop("dave", []string{"alice", "carol"}, outbox.PriorityNormal)
	assert.True(t, ok)
	assert.Equal(t, "alice", peer)
}

func TestChooseNextHopTieBrokenByQuality(t *testing.T) {
	o := NewOracle("self")
	now := time.Now()
	o.NoteDirectLink("alice", now)
	o.NoteDirectLink("carol", now)
	o.ObserveLink("alice", "dave")
	o.ObserveLink("carol", "dave")

	o.RecordSendResult("alice", false)
	o.RecordSendResult("alice", false)
	o.RecordSendResult("carol", true)
	o.RecordSendResult("carol", true)

	peer, ok := o.ChooseNextHop("dave", []string{"alice", "carol"}, outbox.PriorityNormal)
	assert.True(t, ok)
	assert.Equal(t, "carol", peer)
}

func TestChooseNextHopQualityFloorExcludesLowQuality(t *testing.T) {
	o := NewOracle("self")
	now := time.Now()
	o.NoteDirectLink("alice", now)
	o.ObserveLink("alice", "dave")
	for i := 0; i < 10; i++ {
		o.RecordSendResult("alice", false)
	}

	_, ok := o.ChooseNextHop("dave", []string{"alice"}, outbox.PriorityNormal)
	assert.False(t, ok)
}

func TestChooseNextHopUrgentBypassesFloor(t *testing.T) {
	o := NewOracle("self")
	now := time.Now()
	o.NoteDirectLink("alice", now)
	o.ObserveLink("alice", "dave")
	for i := 0; i < 10; i++ {
		o.RecordSendResult("alice", false)
	}

	peer, ok := o.ChooseNextHop("dave", []string{"alice"}, outbox.PriorityUrgent)
	assert.True(t, ok)
	assert.Equal(t, "alice", peer)
}

func TestChooseNextHopNoPathReturnsFalse(t *testing.T) {
	o := NewOracle("self")
	_, ok := o.ChooseNextHop("dave", []string{"alice"}, outbox.PriorityNormal)
	assert.False(t, ok)
}

func TestChooseNextHopTieBrokenByFreshness(t *testing.T) {
	o := NewOracle("self")
	now := time.Now()
	o.NoteDirectLink("alice", now.Add(-time.Hour))
	o.NoteDirectLink("carol", now)
	o.ObserveLink("alice", "dave")
	o.ObserveLink("carol", "dave")

	peer, ok := o.ChooseNextHop("dave", []string{"alice", "carol"}, outbox.PriorityNormal)
	assert.True(t, ok)
	assert.Equal(t, "carol", peer, "fresher connection should win equal hops/quality tie")
}
