package syncproto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamForFPRMatchesSpecExample(t *testing.T) {
	p, err := ParamForFPR(0.01)
	require.NoError(t, err)
	assert.Equal(t, uint8(7), p)
}

func TestParamForFPRRejectsOutOfRange(t *testing.T) {
	_, err := ParamForFPR(0)
	assert.ErrorIs(t, err, ErrInvalidFPR)
	_, err = ParamForFPR(1)
	assert.ErrorIs(t, err, ErrInvalidFPR)
}

func TestFilterMatchIncludesAllBuiltMembers(t *testing.T) {
	ids := make([]uint64, 200)
	for i := range ids {
		ids[i] = uint64(i*7919 + 13)
	}
	filter, err := BuildFilter(ids, 0.01)
	require.NoError(t, err)

	for _, id := range ids {
		assert.True(t, filter.Match(id), "built member must never be a false negative")
	}
}

func TestFilterMatchFalsePositiveRateIsReasonable(t *testing.T) {
	ids := make([]uint64, 500)
	for i := range ids {
		ids[i] = uint64(i*104729 + 1)
	}
	filter, err := BuildFilter(ids, 0.01)
	require.NoError(t, err)

	member := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		member[id] = true
	}

	falsePositives := 0
	trials := 5000
	for i := 0; i < trials; i++ {
		candidate := uint64(i)*999999937 + 999983
		if member[candidate] {
			continue
		}
		if filter.Match(candidate) {
			falsePositives++
		}
	}
	rate := float64(falsePositives) / float64(trials)
	assert.Less(t, rate, 0.05, "false positive rate should stay within 5x of the 1% target")
}

func TestBuildFilterForEnvelopeTrimsToFit(t *testing.T) {
	ids := make([]uint64, 2000)
	for i := range ids {
		ids[i] = uint64(i + 1)
	}
	filter, trimmed, err := BuildFilterForEnvelope(ids, 0.01, 64)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(filter.Bytes), 64)
	assert.Greater(t, trimmed, 0)
}

func TestBuildFilterForEnvelopeNoTrimWhenItFits(t *testing.T) {
	ids := []uint64{1, 2, 3}
	filter, trimmed, err := BuildFilterForEnvelope(ids, 0.01, DefaultEnvelopeBytes)
	require.NoError(t, err)
	assert.Equal(t, 0, trimmed)
	assert.Equal(t, uint64(3), filter.N)
}

func TestEmptyFilterNeverMatches(t *testing.T) {
	filter, err := BuildFilter(nil, 0.01)
	require.NoError(t, err)
	assert.False(t, filter.Match(42))
}
