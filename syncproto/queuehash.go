package syncproto

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"
)

// QueueHash computes SHA-256(sorted(active) ‖ sorted(deleted)) so two
// peers can short-circuit a sync exchange when their queues are
// identical.
func QueueHash(activeIDs, deletedIDs []uint64) [32]byte {
	active := append([]uint64(nil), activeIDs...)
	deleted := append([]uint64(nil), deletedIDs...)
	sort.Slice(active, func(i, j int) bool { return active[i] < active[j] })
	sort.Slice(deleted, func(i, j int) bool { return deleted[i] < deleted[j] })

	h := sha256.New()
	var buf [8]byte
	for _, id := range active {
		binary.LittleEndian.PutUint64(buf[:], id)
		h.Write(buf[:])
	}
	for _, id := range deleted {
		binary.LittleEndian.PutUint64(buf[:], id)
		h.Write(buf[:])
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
