package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Payout is the release of a cycle's pool to its winner. Immutable once
// created, except for the one-time anchor hash fill.
type Payout struct {
	ID              string
	EscrowAccountID string
	WinnerUserID    string
	CycleMonth      int
	GrossPoolAmount decimal.Decimal
	CommissionAmt   decimal.Decimal
	NetPayoutAmount decimal.Decimal
	RiskScore       int
	AnchorHash      *string
	AnchoredAt      *time.Time
	CreatedAt       time.Time
}

// Validate checks net == gross - commission.
func (p *Payout) Validate() error {
	if !p.GrossPoolAmount.IsPositive() {
		return ErrInvalidAmount
	}
	if p.CommissionAmt.IsNegative() {
		return ErrInvalidAmount
	}
	if !p.NetPayoutAmount.Equal(p.GrossPoolAmount.Sub(p.CommissionAmt)) {
		return ErrPayoutMismatch
	}
	return nil
}

// IsAnchored reports whether the external ledger hash has been stored.
func (p *Payout) IsAnchored() bool {
	return p.AnchorHash != nil && *p.AnchorHash != ""
}

// RiskBlockedError is returned when the risk gate refuses a release.
// It matches ErrPayoutBlockedByRisk under errors.Is.
type RiskBlockedError struct {
	AccountID  string
	WinnerID   string
	CycleMonth int
	Score      int
	Threshold  int
}

func (e *RiskBlockedError) Error() string {
	return fmt.Sprintf("%s: score %d exceeds threshold %d", ErrPayoutBlockedByRisk, e.Score, e.Threshold)
}

func (e *RiskBlockedError) Is(target error) bool {
	return target == ErrPayoutBlockedByRisk
}

// Risk scores are bounded to this range; anything the scorer cannot
// produce is treated as MaxRiskScore.
const (
	MinRiskScore = 0
	MaxRiskScore = 100
)

// ClampRiskScore bounds a score to [MinRiskScore, MaxRiskScore].
func ClampRiskScore(score int) int {
	if score < MinRiskScore {
		return MinRiskScore
	}
	if score > MaxRiskScore {
		return MaxRiskScore
	}
	return score
}
