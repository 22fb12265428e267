package outbox

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/meshmsg/limits"
)

var log = logrus.WithField("package", "outbox")

// DefaultBaseMaxRetries is the retry budget for PriorityNormal before
// priority bonuses are applied.
const DefaultBaseMaxRetries = 5

// DefaultCapacity is the maximum number of active (non-terminal) entries
// an Outbox holds before the oldest low-priority entry is evicted.
const DefaultCapacity = 10000

// Outbox is a durable, per-peer priority queue of outbound messages.
type Outbox struct {
	mu             sync.Mutex
	store          Store
	entries        map[string]*Entry
	baseMaxRetries int
	capacity       int
}

// New creates an Outbox backed by store, recovering persisted entries
// and demoting any found in StatusAwaitingAck back to StatusPending per
// the startup-recovery rule. capacity bounds the number of active
// entries held at once; a non-positive value falls back to
// DefaultCapacity.
func New(store Store, baseMaxRetries, capacity int) (*Outbox, error) {
	if baseMaxRetries <= 0 {
		baseMaxRetries = DefaultBaseMaxRetries
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	o := &Outbox{
		store:          store,
		entries:        make(map[string]*Entry),
		baseMaxRetries: baseMaxRetries,
		capacity:       capacity,
	}

	loaded, err := store.LoadAll()
	if err != nil {
		return nil, err
	}
	for _, e := range loaded {
		entry := e
		if entry.Status == StatusAwaitingAck || entry.Status == StatusSending {
			entry.Status = StatusPending
		}
		o.entries[entry.ID] = &entry
	}
	o.enforceCapacityLocked()
	log.WithField("recovered", len(o.entries)).Info("outbox recovered from store")
	return o, nil
}

func maxRetriesFor(base int, p Priority) int {
	retries := base + p.retryBonus()
	if retries < 1 {
		retries = 1
	}
	return retries
}

// Enqueue admits a new entry addressed to peer, assigning it an id and
// computing its expiry and retry budget from priority. Persists
// synchronously before returning.
func (o *Outbox) Enqueue(peer string, priority Priority, payload []byte, now time.Time) (string, error) {
	if err := limits.ValidateOutboxMessage(payload); err != nil {
		return "", err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	entry := Entry{
		ID:         uuid.NewString(),
		Peer:       peer,
		Priority:   priority,
		Payload:    payload,
		Status:     StatusPending,
		QueuedAt:   now,
		ExpiresAt:  now.Add(priority.expiryWindow()),
		MaxRetries: maxRetriesFor(o.baseMaxRetries, priority),
	}
	if err := o.store.Save(entry); err != nil {
		return "", ErrPersistFailed
	}
	o.entries[entry.ID] = &entry

	// Capacity is enforced after admission. The victim is the oldest entry
	// among the lowest priority present, so the entry just enqueued is
	// itself evicted when its priority is below every other active entry's.
	o.enforceCapacityLocked()

	return entry.ID, nil
}

// DequeueReady returns every entry in StatusPending or StatusRetrying
// whose next-retry time has arrived and which has not expired, ordered
// by priority descending then queued_at ascending. Entries discovered to
// be expired during the scan are transitioned to StatusExpired and
// persisted, and excluded from the result.
func (o *Outbox) DequeueReady(now time.Time) []Entry {
	o.mu.Lock()
	defer o.mu.Unlock()

	var ready []Entry
	for _, e := range o.entries {
		if e.Status != StatusPending && e.Status != StatusRetrying {
			continue
		}
		if e.isExpired(now) {
			e.Status = StatusExpired
			o.persistLocked(*e)
			continue
		}
		if e.Status == StatusRetrying && now.Before(e.NextRetryAt) {
			continue
		}
		ready = append(ready, *e)
	}

	sort.Slice(ready, func(i, j int) bool {
		if ready[i].Priority != ready[j].Priority {
			return ready[i].Priority > ready[j].Priority
		}
		return ready[i].QueuedAt.Before(ready[j].QueuedAt)
	})
	return ready
}

// MarkSending transitions id to StatusSending. Not persisted: a crash
// here is recovered as StatusPending on restart.
func (o *Outbox) MarkSending(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	e, ok := o.entries[id]
	if !ok {
		return ErrEntryNotFound
	}
	if e.Status == StatusDelivered || e.Status == StatusExpired {
		return ErrInvalidTransition
	}
	e.Status = StatusSending
	return nil
}

// MarkDelivered transitions id to the terminal StatusDelivered and
// persists synchronously.
func (o *Outbox) MarkDelivered(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	e, ok := o.entries[id]
	if !ok {
		return ErrEntryNotFound
	}
	e.Status = StatusDelivered
	return o.persistLocked(*e)
}

// MarkFailed records a send failure for id at reason. If the entry is
// still retry-eligible it is scheduled for another attempt
// (StatusRetrying, not persisted); otherwise it becomes the terminal
// StatusFailed and is persisted synchronously.
func (o *Outbox) MarkFailed(id, reason string, now time.Time) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	e, ok := o.entries[id]
	if !ok {
		return ErrEntryNotFound
	}
	if e.Status == StatusDelivered || e.Status == StatusExpired {
		return ErrInvalidTransition
	}
	e.Attempt++
	e.LastAttemptAt = now
	e.FailReason = reason

	if e.isRetryEligible(now) {
		backoff := computeBackoff(e.Attempt)
		nextRetry := now.Add(backoff)
		guard := now.Add(clockJitterGuard)
		if nextRetry.Before(guard) {
			nextRetry = guard
		}
		e.NextRetryAt = nextRetry
		e.Status = StatusRetrying
		return nil
	}

	e.Status = StatusFailed
	return o.persistLocked(*e)
}

// RetryFailed resets failed-but-non-expired entries back to pending,
// scoped to chat if non-empty, and returns how many were reset.
func (o *Outbox) RetryFailed(chat string, now time.Time) int {
	o.mu.Lock()
	defer o.mu.Unlock()

	reset := 0
	for _, e := range o.entries {
		if e.Status != StatusFailed {
			continue
		}
		if chat != "" && e.Peer != chat {
			continue
		}
		if e.isExpired(now) {
			continue
		}
		e.Status = StatusPending
		e.Attempt = 0
		reset++
	}
	o.enforceCapacityLocked()
	return reset
}

// FlushForPeer returns every StatusPending or StatusRetrying entry
// addressed to peer (entries already Sending are not included),
// bypassing the normal retry-interval gate (a fresh connection is itself
// the triggering event), but still excluding expired entries.
func (o *Outbox) FlushForPeer(peer string, now time.Time) []Entry {
	o.mu.Lock()
	defer o.mu.Unlock()

	var out []Entry
	for _, e := range o.entries {
		if e.Peer != peer {
			continue
		}
		if e.Status != StatusPending && e.Status != StatusRetrying {
			continue
		}
		if e.isExpired(now) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].QueuedAt.Before(out[j].QueuedAt)
	})
	return out
}

// Get returns a copy of the entry with the given id.
func (o *Outbox) Get(id string) (Entry, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	e, ok := o.entries[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

func (o *Outbox) persistLocked(entry Entry) error {
	if err := o.store.Save(entry); err != nil {
		log.WithError(err).WithField("id", entry.ID).Error("failed to persist outbox entry")
		return ErrPersistFailed
	}
	return nil
}

// activeCountLocked returns how many entries are still occupying the
// outbox's capacity: everything short of a terminal status.
func (o *Outbox) activeCountLocked() int {
	n := 0
	for _, e := range o.entries {
		if e.isActive() {
			n++
		}
	}
	return n
}

// enforceCapacityLocked evicts the oldest lowest-priority active entry,
// repeatedly, until the outbox is back at or under capacity. Any
// operation that can grow the active set — admitting a new entry,
// resetting failed entries back to pending, or recovering persisted
// entries at startup — must call this afterward, since eviction one
// entry at a time (as Enqueue alone used to do) cannot keep up with an
// operation that reinstates many entries in a single pass.
func (o *Outbox) enforceCapacityLocked() {
	for o.activeCountLocked() > o.capacity {
		if !o.evictOldestLowPriorityLocked() {
			return
		}
	}
}

// evictOldestLowPriorityLocked drops the oldest entry among the lowest
// priority present, per the capacity policy: oldest low-priority
// evicted first when the outbox is full. The evicted entry is marked
// StatusFailed and persisted rather than deleted outright, since Store
// exposes no delete operation. Reports whether an entry was evicted.
func (o *Outbox) evictOldestLowPriorityLocked() bool {
	var victim *Entry
	for _, e := range o.entries {
		if !e.isActive() {
			continue
		}
		if victim == nil || e.Priority < victim.Priority ||
			(e.Priority == victim.Priority && e.QueuedAt.Before(victim.QueuedAt)) {
			victim = e
		}
	}
	if victim == nil {
		return false
	}
	victim.Status = StatusFailed
	victim.FailReason = "evicted: outbox capacity exceeded"
	o.persistLocked(*victim)
	log.WithField("id", victim.ID).Warn("outbox capacity exceeded, evicted oldest low-priority entry")
	return true
}
