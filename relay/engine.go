package relay

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/meshmsg/outbox"
	"github.com/opd-ai/meshmsg/ratelimit"
	"github.com/opd-ai/meshmsg/routing"
	"github.com/opd-ai/meshmsg/seenstore"
)

var log = logrus.WithField("package", "relay")

// Decision is the classification an inbound message is assigned.
type Decision uint8

const (
	// DecisionDeliverSelf means the local node is the final recipient.
	DecisionDeliverSelf Decision = iota
	// DecisionDropDuplicate means the message was already seen within
	// the dedup window.
	DecisionDropDuplicate
	// DecisionDropHopLimit means hop_count has reached max_hops.
	DecisionDropHopLimit
	// DecisionDropRate means the original sender's token bucket is
	// empty.
	DecisionDropRate
	// DecisionForward means a next hop was chosen and the message
	// should be re-encrypted and re-emitted.
	DecisionForward
	// DecisionHold means no next hop is currently available; the
	// caller should enqueue the message into the outbox for a later
	// attempt.
	DecisionHold
)

// InboundResult is the outcome of classifying one inbound message.
type InboundResult struct {
	Decision Decision
	NextHop  string
	Metadata Metadata
}

// Engine implements the mesh relay classification and statistics
// described in spec §4.7.
type Engine struct {
	localID string
	seen    *seenstore.Store
	limiter *ratelimit.Limiter
	oracle  *routing.Oracle
	stats   Stats
}

// NewEngine creates a relay engine for localID.
func NewEngine(localID string, seen *seenstore.Store, limiter *ratelimit.Limiter, oracle *routing.Oracle) *Engine {
	return &Engine{localID: localID, seen: seen, limiter: limiter, oracle: oracle}
}

// Stats returns the engine's statistics counters.
func (e *Engine) Stats() *Stats {
	return &e.stats
}

// WrapOutbound produces relay metadata for a payload originated locally.
func (e *Engine) WrapOutbound(recipient string, content []byte, now time.Time) Metadata {
	return NewOutboundMetadata(e.localID, recipient, content, now)
}

// ClassifyInbound decides what to do with an already-decrypted inbound
// message, given the peer it arrived from, the set of currently
// reachable peers (excluding inboundPeer is the caller's responsibility
// only for direct delivery attempts; this method itself excludes
// inboundPeer from next-hop candidates to enforce the no-echo rule), and
// the message's priority for the routing oracle's floor-bypass policy.
func (e *Engine) ClassifyInbound(meta Metadata, inboundPeer string, availablePeers []string, priority outbox.Priority, now time.Time) InboundResult {
	if meta.FinalRecipient == e.localID {
		e.seen.MarkDelivered(meta.fingerprint(), now)
		e.stats.deliveredToSelf.Add(1)
		return InboundResult{Decision: DecisionDeliverSelf, Metadata: meta}
	}

	if e.seen.HasDelivered(meta.fingerprint()) {
		e.stats.droppedDuplicate.Add(1)
		return InboundResult{Decision: DecisionDropDuplicate, Metadata: meta}
	}

	if meta.HopCount >= meta.MaxHops {
		e.stats.droppedHopLimit.Add(1)
		return InboundResult{Decision: DecisionDropHopLimit, Metadata: meta}
	}

	if e.limiter != nil && !e.limiter.Allow(meta.OriginalSender, now) {
		e.stats.droppedSpam.Add(1)
		return InboundResult{Decision: DecisionDropRate, Metadata: meta}
	}

	e.seen.MarkDelivered(meta.fingerprint(), now)

	candidates := excludePeer(availablePeers, inboundPeer)
	var nextHop string
	var found bool
	if e.oracle != nil {
		nextHop, found = e.oracle.ChooseNextHop(meta.FinalRecipient, candidates, priority)
	}
	if !found {
		nextHop, found = anyOtherThan(candidates, inboundPeer)
	}
	if !found {
		e.stats.droppedNoRoute.Add(1)
		return InboundResult{Decision: DecisionHold, Metadata: meta}
	}

	e.stats.relayed.Add(1)
	return InboundResult{Decision: DecisionForward, NextHop: nextHop, Metadata: meta.forwarded()}
}

func excludePeer(peers []string, exclude string) []string {
	out := make([]string, 0, len(peers))
	for _, p := range peers {
		if p != exclude {
			out = append(out, p)
		}
	}
	return out
}

func anyOtherThan(peers []string, exclude string) (string, bool) {
	for _, p := range peers {
		if p != exclude {
			return p, true
		}
	}
	return "", false
}
