package ratelimit

import (
	"sync"
	"time"
)

// DefaultRate is the recommended sustained rate: 30 messages per minute.
const DefaultRate = 30.0 / float64(time.Minute)

// bucket is a single token bucket: capacity tokens, refilled continuously
// at rate tokens per nanosecond.
type bucket struct {
	tokens     float64
	capacity   float64
	rate       float64 // tokens per nanosecond
	lastRefill time.Time
}

func newBucket(capacity float64, rate float64, now time.Time) *bucket {
	return &bucket{tokens: capacity, capacity: capacity, rate: rate, lastRefill: now}
}

func (b *bucket) allow(now time.Time) bool {
	elapsed := now.Sub(b.lastRefill)
	if elapsed > 0 {
		b.tokens += float64(elapsed) * b.rate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.lastRefill = now
	}
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Limiter tracks one token bucket per key (e.g. original_sender). Buckets
// are created lazily on first use and never explicitly evicted; callers
// with very large, churning key spaces should periodically recreate the
// Limiter.
type Limiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	capacity float64
	rate     float64 // tokens per nanosecond
}

// New creates a Limiter where each key may sustain ratePerMinute messages
// per minute, with a burst allowance of capacity tokens.
func New(ratePerMinute float64, capacity float64) *Limiter {
	if capacity <= 0 {
		capacity = ratePerMinute
	}
	return &Limiter{
		buckets:  make(map[string]*bucket),
		capacity: capacity,
		rate:     ratePerMinute / float64(time.Minute),
	}
}

// Allow reports whether key may send one more message at now, consuming
// a token if so.
func (l *Limiter) Allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = newBucket(l.capacity, l.rate, now)
		l.buckets[key] = b
	}
	return b.allow(now)
}

// Len reports the number of distinct keys currently tracked.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
