package risk

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iho/chitledger/internal/usecase"
)

// FallbackScorer asks Primary first and falls back when it errors. Once
// the caller's deadline has passed it returns the error so the gate fails
// closed.
type FallbackScorer struct {
	Primary  usecase.RiskScorer
	Fallback usecase.RiskScorer
	logger   zerolog.Logger
}

// NewFallbackScorer creates a new FallbackScorer.
func NewFallbackScorer(primary, fallback usecase.RiskScorer, logger zerolog.Logger) *FallbackScorer {
	return &FallbackScorer{Primary: primary, Fallback: fallback, logger: logger}
}

// Score implements usecase.RiskScorer.
func (f *FallbackScorer) Score(ctx context.Context, rc usecase.RiskContext) (int, error) {
	if f.Primary == nil {
		return f.Fallback.Score(ctx, rc)
	}

	score, err := f.Primary.Score(ctx, rc)
	if err == nil {
		return score, nil
	}
	if ctx.Err() != nil || f.Fallback == nil {
		return 0, err
	}

	f.logger.Warn().
		Err(err).
		Str("escrow_account_id", rc.EscrowAccountID).
		Int("cycle_month", rc.CycleMonth).
		Msg("risk service failed, using rule-based score")

	return f.Fallback.Score(ctx, rc)
}
