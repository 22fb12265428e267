package seenstore

import (
	"container/list"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("package", "seenstore")

// DefaultCapacity is the recommended maximum number of tracked message
// ids before the oldest is evicted.
const DefaultCapacity = 10000

// DefaultWindow is the recommended eviction time window.
const DefaultWindow = 5 * time.Minute

type record struct {
	id          uint64
	delivered   bool
	read        bool
	insertedAt  time.Time
	lastTouched time.Time
	elem        *list.Element
}

// Store maps message-id fingerprints to delivery/read state. It is safe
// for concurrent use. Eviction is governed by whichever bound is hit
// first: capacity or age.
type Store struct {
	mu       sync.Mutex
	capacity int
	window   time.Duration
	records  map[uint64]*record
	order    *list.List // front = most recently inserted/touched
}

// New creates a store bounded to capacity entries, each valid for
// window before it becomes eligible for eviction.
func New(capacity int, window time.Duration) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Store{
		capacity: capacity,
		window:   window,
		records:  make(map[uint64]*record),
		order:    list.New(),
	}
}

// MarkDelivered records id as delivered. Idempotent: calling it again for
// the same id is a no-op beyond refreshing recency. Returns true if this
// is the first time id has been seen by this store.
func (s *Store) MarkDelivered(id uint64, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, isNew := s.touchLocked(id, now)
	r.delivered = true
	return isNew
}

// MarkRead records id as read. Idempotent, same semantics as
// MarkDelivered.
func (s *Store) MarkRead(id uint64, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, isNew := s.touchLocked(id, now)
	r.read = true
	return isNew
}

// HasDelivered reports whether id has been marked delivered and its record
// is still held. The record's age is not checked here: a record older than
// the window is still reported until Evict or the next MarkDelivered or
// MarkRead call removes it.
func (s *Store) HasDelivered(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	return ok && r.delivered
}

// HasRead reports whether id has been marked read and its record is still
// held, with the same age caveat as HasDelivered.
func (s *Store) HasRead(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	return ok && r.read
}

// Evict removes every record older than the configured window, and then
// trims down to capacity if still over, oldest first. Returns the number
// of records removed. Callers invoke this periodically; eviction also
// happens opportunistically on insert.
func (s *Store) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictLocked(now)
}

// Len reports the number of tracked message ids.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *Store) touchLocked(id uint64, now time.Time) (*record, bool) {
	s.evictLocked(now)
	if r, ok := s.records[id]; ok {
		r.lastTouched = now
		s.order.MoveToFront(r.elem)
		return r, false
	}
	if len(s.records) >= s.capacity {
		s.evictOldestLocked()
	}
	r := &record{id: id, insertedAt: now, lastTouched: now}
	r.elem = s.order.PushFront(r)
	s.records[id] = r
	return r, true
}

func (s *Store) evictLocked(now time.Time) int {
	evicted := 0
	for elem := s.order.Back(); elem != nil; {
		r := elem.Value.(*record)
		prev := elem.Prev()
		if now.Sub(r.insertedAt) < s.window {
			elem = prev
			continue
		}
		s.order.Remove(elem)
		delete(s.records, r.id)
		evicted++
		elem = prev
	}
	if evicted > 0 {
		log.WithField("count", evicted).Debug("seen-message records expired")
	}
	return evicted
}

func (s *Store) evictOldestLocked() {
	elem := s.order.Back()
	if elem == nil {
		return
	}
	r := elem.Value.(*record)
	s.order.Remove(elem)
	delete(s.records, r.id)
	log.WithField("message_id", r.id).Debug("evicting oldest seen-message record at capacity")
}
