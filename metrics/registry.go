package metrics

import (
	"sync/atomic"

	"github.com/opd-ai/meshmsg/relay"
)

// Registry holds node-wide counters that live outside any single
// subsystem's own bookkeeping, plus a reference to the relay engine's
// Stats for a unified snapshot.
type Registry struct {
	activeSessions atomic.Int64
	outboxDepth    atomic.Int64
	linksUp        atomic.Int64

	relayStats *relay.Stats
}

// NewRegistry creates a Registry reporting relayStats alongside its own
// node-wide counters. relayStats may be nil if no relay engine is wired.
func NewRegistry(relayStats *relay.Stats) *Registry {
	return &Registry{relayStats: relayStats}
}

func (r *Registry) SessionEstablished() { r.activeSessions.Add(1) }
func (r *Registry) SessionClosed()      { r.activeSessions.Add(-1) }

func (r *Registry) SetOutboxDepth(n int) { r.outboxDepth.Store(int64(n)) }

func (r *Registry) LinkUp()   { r.linksUp.Add(1) }
func (r *Registry) LinkDown() { r.linksUp.Add(-1) }

// Snapshot is a point-in-time view of every counter this registry tracks.
type Snapshot struct {
	ActiveSessions int64
	OutboxDepth    int64
	LinksUp        int64
	Relay          relay.Snapshot
}

// Snapshot reads every counter, including the relay engine's if wired.
func (r *Registry) Snapshot() Snapshot {
	snap := Snapshot{
		ActiveSessions: r.activeSessions.Load(),
		OutboxDepth:    r.outboxDepth.Load(),
		LinksUp:        r.linksUp.Load(),
	}
	if r.relayStats != nil {
		snap.Relay = r.relayStats.Snapshot()
	}
	return snap
}
