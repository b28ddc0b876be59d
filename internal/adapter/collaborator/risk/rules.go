package risk

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/usecase"
)

// Rules scores a release from its own attributes when the scoring service
// cannot answer. Early cycles and large pools score higher.
type Rules struct {
	Base           int
	LargePool      decimal.Decimal
	LargePoolScore int
	EarlyCycles    int
	EarlyScore     int
}

// DefaultRules returns the fallback rule set.
func DefaultRules() Rules {
	return Rules{
		Base:           20,
		LargePool:      decimal.NewFromInt(1000000),
		LargePoolScore: 30,
		EarlyCycles:    2,
		EarlyScore:     25,
	}
}

// Score never fails.
func (r Rules) Score(_ context.Context, rc usecase.RiskContext) (int, error) {
	score := r.Base
	if r.LargePool.IsPositive() && rc.GrossPoolAmount.GreaterThanOrEqual(r.LargePool) {
		score += r.LargePoolScore
	}
	if rc.CycleMonth >= 1 && rc.CycleMonth <= r.EarlyCycles {
		score += r.EarlyScore
	}
	if score > domain.MaxRiskScore {
		score = domain.MaxRiskScore
	}
	return score, nil
}
