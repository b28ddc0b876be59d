package usecase

import "time"

const (
	// DefaultTransactionTimeout caps one unit of work, retries excluded.
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultRiskTimeout bounds a risk scorer call; a timeout scores as maximal risk
	DefaultRiskTimeout = 3 * time.Second

	// DefaultRiskThreshold blocks releases scoring strictly above it
	DefaultRiskThreshold = 70

	// DefaultAnchorTimeout bounds the inline best-effort anchoring attempt
	DefaultAnchorTimeout = 5 * time.Second

	// DefaultStaleAfter is how long a contribution may stay INITIATED
	DefaultStaleAfter = 30 * time.Minute

	// DefaultSweepBatch caps records handled per sweep run
	DefaultSweepBatch = 200

	// BalanceCacheTTL is how long a balance snapshot may be served from cache
	BalanceCacheTTL = 30 * time.Second

	// IdempotencyKeyTTL is how long a replayable response is kept
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyPending is stored under a key while its first request is in flight
	IdempotencyPending = "processing"
)
