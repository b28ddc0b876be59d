package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EscrowStatus is the lifecycle state of an escrow account.
type EscrowStatus string

const (
	EscrowStatusActive EscrowStatus = "ACTIVE"
	EscrowStatusFrozen EscrowStatus = "FROZEN"
	EscrowStatusClosed EscrowStatus = "CLOSED"
)

// IsValid reports whether s is a known status.
func (s EscrowStatus) IsValid() bool {
	switch s {
	case EscrowStatusActive, EscrowStatusFrozen, EscrowStatusClosed:
		return true
	}
	return false
}

// EscrowAccount holds a chit group's collected-but-not-yet-paid-out funds.
type EscrowAccount struct {
	ID             string
	ChitGroupID    string
	Currency       string
	TotalCollected decimal.Decimal
	TotalReleased  decimal.Decimal
	Status         EscrowStatus
	FreezeReason   string
	FrozenAt       *time.Time
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LockedAmount is always derived, never stored.
func (a *EscrowAccount) LockedAmount() decimal.Decimal {
	return a.TotalCollected.Sub(a.TotalReleased)
}

// ValidateCredit checks if account can accept an inbound amount.
// Frozen accounts still accept credits; only closed ones refuse.
func (a *EscrowAccount) ValidateCredit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if a.Status == EscrowStatusClosed {
		return ErrAccountNotActive
	}
	return nil
}

// ValidateDebit checks if account can release amount.
func (a *EscrowAccount) ValidateDebit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if a.Status != EscrowStatusActive {
		return ErrAccountNotActive
	}
	if amount.GreaterThan(a.LockedAmount()) {
		return ErrInsufficientLockedFunds
	}
	return nil
}

// ApplyCredit returns the new collected total after a credit.
func (a *EscrowAccount) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.TotalCollected.Add(amount)
}

// ApplyDebit returns the new released total after a debit.
func (a *EscrowAccount) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.TotalReleased.Add(amount)
}

// CanTransitionTo reports whether an administrative status change is allowed.
// CLOSED is terminal; every other pair is permitted, including no-op transitions.
func (a *EscrowAccount) CanTransitionTo(next EscrowStatus) error {
	if !next.IsValid() {
		return ErrInvalidStatus
	}
	if a.Status == EscrowStatusClosed && next != EscrowStatusClosed {
		return ErrInvalidStatusTransition
	}
	return nil
}

// CheckInvariant verifies locked funds never go negative.
func (a *EscrowAccount) CheckInvariant() error {
	if a.LockedAmount().IsNegative() {
		return ErrInsufficientLockedFunds
	}
	return nil
}
