package dto

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/usecase"
)

// EstimateRequest represents a payout calculator query.
type EstimateRequest struct {
	TotalChitAmount   string `json:"total_chit_amount"`
	DurationMonths    json.Number `json:"duration_months"`
	NumberOfMembers   json.Number `json:"number_of_members"`
	CommissionRatePct string      `json:"commission_rate_pct"`
	InterestRatePct   string      `json:"interest_rate_pct"`
}

// ToDomain converts to calculator input. Malformed numbers are reported
// per field, like any other out-of-bounds value.
func (r *EstimateRequest) ToDomain() (domain.CalculatorInput, error) {
	var errs domain.ValidationErrors

	total := parseField(&errs, "total_chit_amount", r.TotalChitAmount)
	months := parseCount(&errs, "duration_months", r.DurationMonths)
	members := parseCount(&errs, "number_of_members", r.NumberOfMembers)
	commission := parseField(&errs, "commission_rate_pct", r.CommissionRatePct)
	interest := parseField(&errs, "interest_rate_pct", r.InterestRatePct)

	if len(errs) > 0 {
		return domain.CalculatorInput{}, errs
	}

	return domain.CalculatorInput{
		TotalChitAmount:   total,
		DurationMonths:    months,
		NumberOfMembers:   members,
		CommissionRatePct: commission,
		InterestRatePct:   interest,
	}, nil
}

// OpenEscrowRequest represents a request to open a group's escrow account.
type OpenEscrowRequest struct {
	ChitGroupID string `json:"chit_group_id"`
	Currency    string `json:"currency,omitempty"`
	EstimateRequest
}

// ToUseCaseInput converts to use case input.
func (r *OpenEscrowRequest) ToUseCaseInput() (usecase.OpenAccountInput, error) {
	in, err := r.EstimateRequest.ToDomain()
	if err != nil {
		return usecase.OpenAccountInput{}, err
	}
	return usecase.OpenAccountInput{
		ChitGroupID:       r.ChitGroupID,
		TotalChitAmount:   in.TotalChitAmount,
		DurationMonths:    in.DurationMonths,
		NumberOfMembers:   in.NumberOfMembers,
		CommissionRatePct: in.CommissionRatePct,
		InterestRatePct:   in.InterestRatePct,
		Currency:          r.Currency,
	}, nil
}

// InitiateContributionRequest represents a member payment request.
type InitiateContributionRequest struct {
	ChitGroupID string `json:"chit_group_id"`
	UserID      string `json:"user_id"`
	Amount      string `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *InitiateContributionRequest) ToUseCaseInput() (usecase.InitiateContributionInput, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return usecase.InitiateContributionInput{}, fmt.Errorf("%w: %s", domain.ErrInvalidAmount, err)
	}
	return usecase.InitiateContributionInput{
		ChitGroupID: r.ChitGroupID,
		UserID:      r.UserID,
		Amount:      amount,
	}, nil
}

// ConfirmContributionRequest carries the gateway's payment reference.
type ConfirmContributionRequest struct {
	GatewayOrderID string `json:"gateway_order_id"`
	PaymentRef     string `json:"payment_ref"`
}

// FailContributionRequest marks a pending order failed.
type FailContributionRequest struct {
	GatewayOrderID string `json:"gateway_order_id"`
	Reason         string `json:"reason"`
}

// ReleasePayoutRequest represents a request to pay a cycle's winner.
type ReleasePayoutRequest struct {
	WinnerUserID string `json:"winner_user_id"`
	CycleMonth   int    `json:"cycle_month"`
}

// ToUseCaseInput converts to use case input.
func (r *ReleasePayoutRequest) ToUseCaseInput(accountID string) usecase.ReleasePayoutInput {
	return usecase.ReleasePayoutInput{
		EscrowAccountID: accountID,
		WinnerUserID:    r.WinnerUserID,
		CycleMonth:      r.CycleMonth,
	}
}

// FreezeRequest represents an administrative freeze.
type FreezeRequest struct {
	Reason string `json:"reason"`
}

// parseCount accepts only whole numbers; 2.5 members is a field error, not
// a malformed body.
func parseCount(errs *domain.ValidationErrors, field string, raw json.Number) int {
	if raw == "" {
		*errs = append(*errs, domain.FieldError{Field: field, Message: "is required"})
		return 0
	}
	n, err := strconv.Atoi(raw.String())
	if err != nil {
		*errs = append(*errs, domain.FieldError{Field: field, Message: "must be a positive integer"})
		return 0
	}
	return n
}

func parseField(errs *domain.ValidationErrors, field, raw string) decimal.Decimal {
	if raw == "" {
		*errs = append(*errs, domain.FieldError{Field: field, Message: "is required"})
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		*errs = append(*errs, domain.FieldError{Field: field, Message: "must be a decimal number"})
		return decimal.Zero
	}
	return d
}
