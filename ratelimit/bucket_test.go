package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowBurstThenThrottles(t *testing.T) {
	l := New(30, 5)
	now := time.Now()

	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow("sender-a", now))
	}
	assert.False(t, l.Allow("sender-a", now))
}

func TestAllowRefillsOverTime(t *testing.T) {
	l := New(60, 1) // 1 token/sec, capacity 1
	now := time.Now()

	assert.True(t, l.Allow("sender-a", now))
	assert.False(t, l.Allow("sender-a", now))
	assert.True(t, l.Allow("sender-a", now.Add(2*time.Second)))
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New(30, 1)
	now := time.Now()

	assert.True(t, l.Allow("sender-a", now))
	assert.True(t, l.Allow("sender-b", now))
	assert.Equal(t, 2, l.Len())
}
