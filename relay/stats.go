package relay

import "sync/atomic"

// Stats holds the monotonic relay engine statistics counters from spec
// §4.7. Safe for concurrent use.
type Stats struct {
	relayed           atomic.Uint64
	deliveredToSelf   atomic.Uint64
	droppedDuplicate  atomic.Uint64
	droppedHopLimit   atomic.Uint64
	droppedSpam       atomic.Uint64
	droppedNoRoute    atomic.Uint64
}

// Snapshot is a point-in-time copy of the counters for reporting.
type Snapshot struct {
	Relayed          uint64
	DeliveredToSelf  uint64
	DroppedDuplicate uint64
	DroppedHopLimit  uint64
	DroppedSpam      uint64
	DroppedNoRoute   uint64
}

// Snapshot reads all counters.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Relayed:          s.relayed.Load(),
		DeliveredToSelf:  s.deliveredToSelf.Load(),
		DroppedDuplicate: s.droppedDuplicate.Load(),
		DroppedHopLimit:  s.droppedHopLimit.Load(),
		DroppedSpam:      s.droppedSpam.Load(),
		DroppedNoRoute:   s.droppedNoRoute.Load(),
	}
}
