package domain

import "errors"

var (
	// Escrow account errors
	ErrAccountNotFound         = errors.New("escrow account not found")
	ErrAccountNotActive        = errors.New("escrow account is not active")
	ErrAccountClosed           = errors.New("escrow account is closed")
	ErrInsufficientLockedFunds = errors.New("amount exceeds locked funds")
	ErrInsufficientFunds       = errors.New("insufficient locked funds for payout")
	ErrInvalidStatus           = errors.New("invalid escrow status")
	ErrInvalidStatusTransition = errors.New("invalid escrow status transition")
	ErrGroupNotFound           = errors.New("chit group not found")

	// Contribution errors
	ErrContributionNotFound      = errors.New("contribution not found")
	ErrInvalidAmount             = errors.New("amount must be positive")
	ErrMemberNotVerified         = errors.New("member has not completed KYC verification")
	ErrGatewayVerificationFailed = errors.New("payment gateway verification failed")
	ErrGatewayUnavailable        = errors.New("payment gateway unavailable")
	ErrMissingPaymentRef         = errors.New("payment reference is required")

	// Payout errors
	ErrPayoutNotFound        = errors.New("payout not found")
	ErrPayoutAlreadyReleased = errors.New("payout already released for cycle")
	ErrInvalidCycleMonth     = errors.New("cycle month outside group duration")
	ErrPayoutBlockedByRisk   = errors.New("payout blocked by risk check")
	ErrPayoutMismatch        = errors.New("net payout does not equal gross minus commission")

	// Collaborator errors
	ErrMalformedResponse = errors.New("malformed collaborator response")
	ErrAnchoringFailed   = errors.New("ledger anchoring failed")
)
