// Package ratelimit provides a per-key token-bucket rate limiter, used by
// the relay engine to cap how many messages per minute it will forward on
// behalf of any single original sender.
package ratelimit
