package framing

import (
	"container/list"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/meshmsg/limits"
)

var log = logrus.WithField("package", "framing")

// DefaultCapacity bounds the number of concurrent reassembly buffers kept
// before the least-recently-active one is evicted.
const DefaultCapacity = 4096

// DefaultTimeout is the reassembly deadline per spec §4.4.
const DefaultTimeout = 30 * time.Second

type bufferKey struct {
	peer       string
	fragmentID uint64
}

type reassemblyBuffer struct {
	key          bufferKey
	total        uint16
	recipient    []byte
	ttl          byte
	typ          byte
	parts        map[uint16][]byte
	received     int
	lastActivity time.Time
	elem         *list.Element
}

// Reassembler maintains per-peer, per-fragment-id reassembly buffers. It
// is safe for concurrent use.
type Reassembler struct {
	mu         sync.Mutex
	capacity   int
	timeout    time.Duration
	buffers    map[bufferKey]*reassemblyBuffer
	lru        *list.List // front = most recently active
	totalBytes int        // sum of all partial payload bytes currently held
}

// NewReassembler creates an empty reassembler bounded to capacity buffers,
// each expiring after timeout of inactivity.
func NewReassembler(capacity int, timeout time.Duration) *Reassembler {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Reassembler{
		capacity: capacity,
		timeout:  timeout,
		buffers:  make(map[bufferKey]*reassemblyBuffer),
		lru:      list.New(),
	}
}

// Ingest folds one fragment from peer into its reassembly buffer. It
// returns the complete payload, recipient, inner type and ttl once every
// index in [0,total) has arrived; complete is false while more fragments
// are still expected.
//
// Duplicate indices are idempotent (the later copy overwrites the
// earlier). A fragment whose total disagrees with earlier fragments for
// the same (peer, fragment-id) drops the buffer and returns
// ErrMalformedFragment.
func (r *Reassembler) Ingest(peer string, f *Fragment, now time.Time) (payload, recipient []byte, typ, ttl byte, complete bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := bufferKey{peer: peer, fragmentID: f.FragmentID}
	buf, ok := r.buffers[key]
	if !ok {
		if len(r.buffers) >= r.capacity {
			r.evictOldestLocked()
		}
		buf = &reassemblyBuffer{
			key:       key,
			total:     f.Total,
			recipient: f.Recipient,
			ttl:       f.TTL,
			typ:       f.Type,
			parts:     make(map[uint16][]byte, f.Total),
		}
		buf.elem = r.lru.PushFront(buf)
		r.buffers[key] = buf
	}

	if buf.total != f.Total {
		r.dropLocked(buf)
		return nil, nil, 0, 0, false, ErrMalformedFragment
	}

	if old, dup := buf.parts[f.Index]; dup {
		r.totalBytes -= len(old)
	} else {
		buf.received++
	}
	buf.parts[f.Index] = f.Payload
	r.totalBytes += len(f.Payload)
	buf.lastActivity = now
	r.lru.MoveToFront(buf.elem)

	r.enforceAggregateBudgetLocked(buf)

	if buf.received < int(buf.total) {
		return nil, nil, 0, 0, false, nil
	}

	total := make([]byte, 0, buf.received)
	for i := uint16(0); i < buf.total; i++ {
		total = append(total, buf.parts[i]...)
	}
	if err := limits.ValidateProcessingBuffer(total); err != nil {
		r.dropLocked(buf)
		return nil, nil, 0, 0, false, ErrPayloadTooLarge
	}
	recipient = buf.recipient
	typ = buf.typ
	ttl = buf.ttl
	r.dropLocked(buf)
	return total, recipient, typ, ttl, true, nil
}

// Expire evicts every buffer whose last activity is older than the
// configured timeout, returning how many were dropped. Callers should
// invoke this periodically; expired buffers are reported to the caller
// via the returned count only, matching the fire-and-forget nature of a
// best-effort reassembly layer.
func (r *Reassembler) Expire(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := 0
	for elem := r.lru.Back(); elem != nil; {
		buf := elem.Value.(*reassemblyBuffer)
		prev := elem.Prev()
		if now.Sub(buf.lastActivity) < r.timeout {
			break
		}
		r.dropLocked(buf)
		dropped++
		elem = prev
	}
	if dropped > 0 {
		log.WithField("count", dropped).Debug("reassembly buffers expired")
	}
	return dropped
}

// Len reports the number of in-flight reassembly buffers.
func (r *Reassembler) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buffers)
}

func (r *Reassembler) evictOldestLocked() {
	elem := r.lru.Back()
	if elem == nil {
		return
	}
	buf := elem.Value.(*reassemblyBuffer)
	log.WithField("fragment_id", buf.key.fragmentID).Debug("evicting oldest reassembly buffer")
	r.dropLocked(buf)
}

func (r *Reassembler) dropLocked(buf *reassemblyBuffer) {
	r.lru.Remove(buf.elem)
	delete(r.buffers, buf.key)
	for _, p := range buf.parts {
		r.totalBytes -= len(p)
	}
}

// enforceAggregateBudgetLocked evicts buffers, oldest first, other than
// protect, until the running byte total across every in-flight buffer is
// back within limits.MaxAggregateReassemblyBytes.
func (r *Reassembler) enforceAggregateBudgetLocked(protect *reassemblyBuffer) {
	for r.totalBytes > limits.MaxAggregateReassemblyBytes {
		evicted := false
		for elem := r.lru.Back(); elem != nil; elem = elem.Prev() {
			buf := elem.Value.(*reassemblyBuffer)
			if buf == protect {
				continue
			}
			log.WithField("fragment_id", buf.key.fragmentID).Debug("evicting reassembly buffer: aggregate byte budget exceeded")
			r.dropLocked(buf)
			evicted = true
			break
		}
		if !evicted {
			return
		}
	}
}
