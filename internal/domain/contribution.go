package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContributionStatus is the settlement state of a member payment attempt.
type ContributionStatus string

const (
	ContributionStatusInitiated ContributionStatus = "INITIATED"
	ContributionStatusConfirmed ContributionStatus = "CONFIRMED"
	ContributionStatusFailed    ContributionStatus = "FAILED"
)

// IsTerminal reports whether no further transition is possible.
func (s ContributionStatus) IsTerminal() bool {
	return s == ContributionStatusConfirmed || s == ContributionStatusFailed
}

// Failure reasons recorded on FAILED contributions.
const (
	FailureReasonVerification = "gateway verification failed"
	FailureReasonExpired      = "expired before confirmation"
	FailureReasonAccountClose = "escrow account closed; refund required"
)

// Contribution is one member payment attempt. Records are never deleted.
type Contribution struct {
	ID                string
	EscrowAccountID   string
	UserID            string
	Amount            decimal.Decimal
	Currency          string
	GatewayOrderID    string
	GatewayPaymentRef string
	Status            ContributionStatus
	FailureReason     string
	AnchorHash        *string
	SettledAt         *time.Time
	AnchoredAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Validate checks the record before it is first persisted.
func (c *Contribution) Validate() error {
	if c.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if c.Status != ContributionStatusInitiated {
		return ErrInvalidStatusTransition
	}
	return nil
}

// CanTransitionTo enforces INITIATED -> CONFIRMED | FAILED.
func (c *Contribution) CanTransitionTo(next ContributionStatus) bool {
	return c.Status == ContributionStatusInitiated && next.IsTerminal()
}

// IsAnchored reports whether the external ledger hash has been stored.
func (c *Contribution) IsAnchored() bool {
	return c.AnchorHash != nil && *c.AnchorHash != ""
}
