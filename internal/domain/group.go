package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChitGroup carries the payout rules of a group, captured when its escrow
// account is opened. Membership and listing live in the group directory.
type ChitGroup struct {
	ID                string
	TotalChitAmount   decimal.Decimal
	DurationMonths    int
	NumberOfMembers   int
	CommissionRatePct decimal.Decimal
	InterestRatePct   decimal.Decimal
	Currency          string
	Limits            GroupLimits
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CalculatorInput returns the group's rules as calculator input.
func (g *ChitGroup) CalculatorInput() CalculatorInput {
	return CalculatorInput{
		TotalChitAmount:   g.TotalChitAmount,
		DurationMonths:    g.DurationMonths,
		NumberOfMembers:   g.NumberOfMembers,
		CommissionRatePct: g.CommissionRatePct,
		InterestRatePct:   g.InterestRatePct,
	}
}

// Split computes the payout split under the group's own limits.
func (g *ChitGroup) Split() (*CalculatorResult, error) {
	return Calculate(g.CalculatorInput(), g.Limits)
}

// ValidateCycle checks that month lies within the group's duration.
func (g *ChitGroup) ValidateCycle(month int) error {
	if month < 1 || month > g.DurationMonths {
		return ErrInvalidCycleMonth
	}
	return nil
}

// IsFinalCycle reports whether month is the last payout cycle.
func (g *ChitGroup) IsFinalCycle(month int) bool {
	return month == g.DurationMonths
}
