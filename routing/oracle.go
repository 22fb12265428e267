package routing

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/meshmsg/outbox"
)

var log = logrus.WithField("package", "routing")

// DefaultQualityFloor is the minimum EMA quality a first hop must have to
// be attempted, unless the message priority is Urgent.
const DefaultQualityFloor = 0.2

// qualityAlpha weights the most recent send/receive outcome in the
// exponential moving average.
const qualityAlpha = 0.3

const initialQuality = 0.5

type linkState struct {
	quality     float64
	connectedAt time.Time
}

// Oracle is a directed, neighbor-reported link graph with per-link
// quality, used to advise next-hop selection toward a final recipient
// not directly reachable.
type Oracle struct {
	mu           sync.RWMutex
	self         string
	forward      map[string]map[string]struct{} // from -> set of to
	reverse      map[string]map[string]struct{} // to -> set of from
	links        map[string]*linkState          // direct neighbor -> state
	qualityFloor float64
}

// NewOracle creates an oracle for self, whose identity never appears as
// a "hop" candidate in its own output.
func NewOracle(self string) *Oracle {
	return &Oracle{
		self:         self,
		forward:      make(map[string]map[string]struct{}),
		reverse:      make(map[string]map[string]struct{}),
		links:        make(map[string]*linkState),
		qualityFloor: DefaultQualityFloor,
	}
}

// ObserveLink records that peer `from` reported it can reach `to`
// directly, contributing one edge to the topology graph.
func (o *Oracle) ObserveLink(from, to string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.addEdgeLocked(from, to)
}

func (o *Oracle) addEdgeLocked(from, to string) {
	if o.forward[from] == nil {
		o.forward[from] = make(map[string]struct{})
	}
	o.forward[from][to] = struct{}{}
	if o.reverse[to] == nil {
		o.reverse[to] = make(map[string]struct{})
	}
	o.reverse[to][from] = struct{}{}
}

// NoteDirectLink records that self has a direct link to peer, connected
// at connectedAt, seeding both the graph edge and the link's freshness.
func (o *Oracle) NoteDirectLink(peer string, connectedAt time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.addEdgeLocked(o.self, peer)
	if _, ok := o.links[peer]; !ok {
		o.links[peer] = &linkState{quality: initialQuality, connectedAt: connectedAt}
	}
}

// RecordSendResult updates peer's link quality after a send attempt.
func (o *Oracle) RecordSendResult(peer string, success bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	ls := o.linkStateLocked(peer)
	outcome := 0.0
	if success {
		outcome = 1.0
	}
	ls.quality = qualityAlpha*outcome + (1-qualityAlpha)*ls.quality
}

// RecordReceive updates peer's link quality favorably on an inbound
// message, treated as a positive signal like a successful send.
func (o *Oracle) RecordReceive(peer string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	ls := o.linkStateLocked(peer)
	ls.quality = qualityAlpha*1.0 + (1-qualityAlpha)*ls.quality
}

func (o *Oracle) linkStateLocked(peer string) *linkState {
	ls, ok := o.links[peer]
	if !ok {
		ls = &linkState{quality: initialQuality, connectedAt: time.Now()}
		o.links[peer] = ls
	}
	return ls
}

// ChooseNextHop selects which of availablePeers to use to reach
// finalRecipient, per the decision policy in order: direct availability,
// then shortest hop count (ties broken by first-hop link quality, then
// by freshness), with the quality floor bypassed for Priority Urgent.
// Returns ok=false if no usable candidate can be determined, letting the
// caller fall back to its own policy.
func (o *Oracle) ChooseNextHop(finalRecipient string, availablePeers []string, priority outbox.Priority) (string, bool) {
	if finalRecipient == "" || len(availablePeers) == 0 {
		return "", false
	}
	for _, p := range availablePeers {
		if p == finalRecipient {
			return p, true
		}
	}

	o.mu.RLock()
	defer o.mu.RUnlock()

	dist := o.distancesToLocked(finalRecipient)

	type candidate struct {
		peer    string
		hops    int
		quality float64
		age     time.Duration
	}
	var candidates []candidate
	now := time.Now()
	for _, p := range availablePeers {
		d, ok := dist[p]
		if !ok {
			continue
		}
		ls := o.links[p]
		quality := initialQuality
		age := time.Duration(0)
		if ls != nil {
			quality = ls.quality
			age = now.Sub(ls.connectedAt)
		}
		if quality < o.qualityFloor && priority != outbox.PriorityUrgent {
			continue
		}
		candidates = append(candidates, candidate{peer: p, hops: d, quality: quality, age: age})
	}
	if len(candidates) == 0 {
		return "", false
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		switch {
		case c.hops != best.hops:
			if c.hops < best.hops {
				best = c
			}
		case c.quality != best.quality:
			if c.quality > best.quality {
				best = c
			}
		case c.age < best.age:
			best = c
		}
	}
	return best.peer, true
}

// distancesToLocked computes, for every node reachable backward from
// target via observed edges, its forward hop distance to target. Callers
// must hold at least a read lock.
func (o *Oracle) distancesToLocked(target string) map[string]int {
	dist := map[string]int{target: 0}
	queue := []string{target}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for from := range o.reverse[cur] {
			if _, seen := dist[from]; !seen {
				dist[from] = dist[cur] + 1
				queue = append(queue, from)
			}
		}
	}
	return dist
}
