package outbox

import (
	"crypto/rand"
	"math/big"
	"time"
)

const (
	initialBackoff   = 2 * time.Second
	maxBackoff       = 10 * time.Minute
	clockJitterGuard = 5 * time.Second
	jitterPercent    = 25
)

// computeBackoff returns min(maxBackoff, initial*2^(attempt-1)) with
// ±25% uniform jitter, per the retry schedule. attempt is 1-indexed: the
// delay before the first retry after the initial send failure.
func computeBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	backoff := initialBackoff
	for i := 1; i < attempt && backoff < maxBackoff; i++ {
		backoff *= 2
	}
	if backoff > maxBackoff {
		backoff = maxBackoff
	}

	maxJitter := int64(backoff) * jitterPercent / 100
	if maxJitter <= 0 {
		return backoff
	}
	jitterBig, err := rand.Int(rand.Reader, big.NewInt(2*maxJitter))
	if err != nil {
		return backoff
	}
	jitter := jitterBig.Int64() - maxJitter
	result := time.Duration(int64(backoff) + jitter)
	if result < 0 {
		result = 0
	}
	return result
}
