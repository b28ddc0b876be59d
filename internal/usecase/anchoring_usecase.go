package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/infrastructure/metrics"
)

// AnchorOptions tunes anchoring attempts.
type AnchorOptions struct {
	Timeout         time.Duration
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	BatchSize       int
}

// AnchorUseCase submits settled contributions and payouts to the external
// ledger. Failures never touch balances: unanchored records stay valid with
// a nil hash and are picked up by RetryPending.
type AnchorUseCase struct {
	ledger        AnchoringLedger
	contributions ContributionRepository
	payouts       PayoutRepository
	opts          AnchorOptions
	metrics       *metrics.Metrics
	logger        zerolog.Logger
}

func NewAnchorUseCase(
	ledger AnchoringLedger,
	contributions ContributionRepository,
	payouts PayoutRepository,
	opts AnchorOptions,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *AnchorUseCase {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultAnchorTimeout
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = 200 * time.Millisecond
	}
	if opts.MaxInterval <= 0 {
		opts.MaxInterval = 5 * time.Second
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultSweepBatch
	}
	return &AnchorUseCase{
		ledger:        ledger,
		contributions: contributions,
		payouts:       payouts,
		opts:          opts,
		metrics:       metrics,
		logger:        logger.With().Str("component", "anchoring").Logger(),
	}
}

// AnchorContribution makes one bounded attempt and stores the hash on
// success. c is updated in place. Errors are logged, never returned.
func (uc *AnchorUseCase) AnchorContribution(ctx context.Context, c *domain.Contribution) {
	if uc == nil || uc.ledger == nil || c.Status != domain.ContributionStatusConfirmed || c.IsAnchored() {
		return
	}
	hash, anchoredAt, err := uc.attempt(ctx, domain.ContributionAnchor(c), func(hash string, at time.Time) error {
		return uc.contributions.SetAnchorHash(ctx, c.ID, hash, at)
	})
	if err != nil {
		uc.logger.Warn().Err(err).
			Str("contribution_id", c.ID).
			Str("gateway_order_id", c.GatewayOrderID).
			Msg("contribution anchoring deferred")
		return
	}
	c.AnchorHash = &hash
	c.AnchoredAt = &anchoredAt
}

// AnchorPayout makes one bounded attempt and stores the hash on success.
func (uc *AnchorUseCase) AnchorPayout(ctx context.Context, p *domain.Payout) {
	if uc == nil || uc.ledger == nil || p.IsAnchored() {
		return
	}
	hash, anchoredAt, err := uc.attempt(ctx, domain.PayoutAnchor(p), func(hash string, at time.Time) error {
		return uc.payouts.SetAnchorHash(ctx, p.ID, hash, at)
	})
	if err != nil {
		uc.logger.Warn().Err(err).
			Str("payout_id", p.ID).
			Int("cycle_month", p.CycleMonth).
			Msg("payout anchoring deferred")
		return
	}
	p.AnchorHash = &hash
	p.AnchoredAt = &anchoredAt
}

// RetryResult summarises one RetryPending run.
type RetryResult struct {
	Anchored int
	Failed   int
}

// RetryPending anchors records still missing a hash. Each record gets up to
// MaxAttempts tries with exponential backoff before it is left for the
// next run.
func (uc *AnchorUseCase) RetryPending(ctx context.Context) (RetryResult, error) {
	var result RetryResult
	if uc.ledger == nil {
		return result, nil
	}

	contributions, err := uc.contributions.ListUnanchored(ctx, uc.opts.BatchSize)
	if err != nil {
		return result, fmt.Errorf("list unanchored contributions: %w", err)
	}
	for _, c := range contributions {
		err := uc.withBackoff(ctx, func() error {
			_, _, err := uc.attempt(ctx, domain.ContributionAnchor(c), func(hash string, at time.Time) error {
				return uc.contributions.SetAnchorHash(ctx, c.ID, hash, at)
			})
			return err
		})
		uc.tally(&result, err, "contribution_id", c.ID)
	}

	payouts, err := uc.payouts.ListUnanchored(ctx, uc.opts.BatchSize)
	if err != nil {
		return result, fmt.Errorf("list unanchored payouts: %w", err)
	}
	for _, p := range payouts {
		err := uc.withBackoff(ctx, func() error {
			_, _, err := uc.attempt(ctx, domain.PayoutAnchor(p), func(hash string, at time.Time) error {
				return uc.payouts.SetAnchorHash(ctx, p.ID, hash, at)
			})
			return err
		})
		uc.tally(&result, err, "payout_id", p.ID)
	}

	if result.Anchored > 0 || result.Failed > 0 {
		uc.logger.Info().
			Int("anchored", result.Anchored).
			Int("failed", result.Failed).
			Msg("anchoring retry run finished")
	}
	return result, ctx.Err()
}

func (uc *AnchorUseCase) tally(result *RetryResult, err error, key, id string) {
	if err != nil {
		result.Failed++
		uc.logger.Warn().Err(err).Str(key, id).Msg("anchoring still pending")
		return
	}
	result.Anchored++
}

func (uc *AnchorUseCase) withBackoff(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = uc.opts.InitialInterval
	b.MaxInterval = uc.opts.MaxInterval
	b.MaxElapsedTime = 0

	retries := uint64(uc.opts.MaxAttempts - 1)
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx))
}

func (uc *AnchorUseCase) attempt(ctx context.Context, summary domain.AnchorSummary, store func(hash string, at time.Time) error) (string, time.Time, error) {
	callCtx, cancel := context.WithTimeout(ctx, uc.opts.Timeout)
	defer cancel()

	hash, err := uc.ledger.Anchor(callCtx, summary)
	if err == nil && hash == "" {
		err = domain.ErrMalformedResponse
	}
	if err != nil {
		uc.record(summary.Kind, "failed")
		return "", time.Time{}, fmt.Errorf("%w: %w", domain.ErrAnchoringFailed, err)
	}

	anchoredAt := time.Now().UTC()
	if err := store(hash, anchoredAt); err != nil {
		uc.record(summary.Kind, "store_failed")
		return "", time.Time{}, err
	}
	uc.record(summary.Kind, "anchored")
	return hash, anchoredAt, nil
}

func (uc *AnchorUseCase) record(kind domain.AnchorKind, outcome string) {
	if uc.metrics != nil {
		uc.metrics.Anchors.WithLabelValues(string(kind), outcome).Inc()
	}
}
