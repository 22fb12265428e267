package syncproto

import "github.com/sirupsen/logrus"

var log = logrus.WithField("package", "syncproto")

// DefaultEnvelopeBytes is the default MTU-aware size budget for a
// QueueSync filter payload.
const DefaultEnvelopeBytes = 512

// DefaultFPR is the recommended target false-positive rate (P = 7).
const DefaultFPR = 0.01

// Request is the first message each side sends on connect.
type Request struct {
	NodeID    string
	QueueHash [32]byte
	Filter    *Filter
	Trimmed   int // ids excluded from Filter to fit the envelope budget
}

// BuildRequest summarizes the local outbox's active and deleted ids into
// a Request, trimming the filter to fit maxBytes if necessary.
func BuildRequest(nodeID string, activeIDs, deletedIDs []uint64, fpr float64, maxBytes int) (Request, error) {
	filter, trimmed, err := BuildFilterForEnvelope(activeIDs, fpr, maxBytes)
	if err != nil {
		return Request{}, err
	}
	if trimmed > 0 {
		log.WithField("trimmed", trimmed).Debug("trimmed queue sync filter to fit envelope budget")
	}
	return Request{
		NodeID:    nodeID,
		QueueHash: QueueHash(activeIDs, deletedIDs),
		Filter:    filter,
		Trimmed:   trimmed,
	}, nil
}

// Response carries the ids the responder believes the requester lacks.
type Response struct {
	OfferedIDs []uint64
}

// ComputeOffered returns the ids from myActiveIDs not represented in the
// peer's filter: candidates the peer may be missing. False positives
// (ids the peer actually has but the filter didn't rule out) are
// acceptable per the protocol's tolerance for imprecision.
func ComputeOffered(peerFilter *Filter, myActiveIDs []uint64) []uint64 {
	var offered []uint64
	for _, id := range myActiveIDs {
		if !peerFilter.Match(id) {
			offered = append(offered, id)
		}
	}
	return offered
}

// ComputeWanted filters offeredIDs down to the ones the local side
// actually lacks and has not tombstoned, i.e. the ones worth requesting
// in full.
func ComputeWanted(offeredIDs []uint64, haveLocally func(id uint64) bool, tombstones *Tombstones) []uint64 {
	var wanted []uint64
	for _, id := range offeredIDs {
		if haveLocally(id) {
			continue
		}
		if tombstones != nil && tombstones.Contains(id) {
			continue
		}
		wanted = append(wanted, id)
	}
	return wanted
}

// SameQueue reports whether two queue hashes are equal, letting callers
// skip a full exchange.
func SameQueue(a, b [32]byte) bool {
	return a == b
}
