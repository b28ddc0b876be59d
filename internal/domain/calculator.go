package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the smallest currency unit used for calculator output.
const MoneyPlaces = 2

var (
	hundred      = decimal.NewFromInt(100)
	monthsInYear = decimal.NewFromInt(12)
)

// ErrValidation is matched by every ValidationErrors value.
var ErrValidation = errors.New("validation failed")

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects field-level failures.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

// Field returns the message for field, if any.
func (v ValidationErrors) Field(name string) (string, bool) {
	for _, fe := range v {
		if fe.Field == name {
			return fe.Message, true
		}
	}
	return "", false
}

// GroupLimits bounds the inputs a chit group accepts.
type GroupLimits struct {
	MinAmount  decimal.Decimal
	MaxAmount  decimal.Decimal
	MinMonths  int
	MaxMonths  int
	MaxMembers int
}

// DefaultGroupLimits applies when a group is opened without explicit limits.
func DefaultGroupLimits() GroupLimits {
	return GroupLimits{
		MinAmount:  decimal.NewFromInt(10000),
		MaxAmount:  decimal.NewFromInt(10000000),
		MinMonths:  3,
		MaxMonths:  60,
		MaxMembers: 100,
	}
}

// CalculatorInput is the candidate configuration of a chit group.
type CalculatorInput struct {
	TotalChitAmount   decimal.Decimal
	DurationMonths    int
	NumberOfMembers   int
	CommissionRatePct decimal.Decimal
	InterestRatePct   decimal.Decimal
}

// CalculatorResult is the payout split for a CalculatorInput.
type CalculatorResult struct {
	TotalInvestment       decimal.Decimal
	CommissionAmount      decimal.Decimal
	ContributionPerMember decimal.Decimal
	InterestEarned        decimal.Decimal
	FinalAmount           decimal.Decimal
}

// Validate reports every out-of-bounds field at once.
func (in CalculatorInput) Validate(limits GroupLimits) error {
	var errs ValidationErrors

	switch {
	case !in.TotalChitAmount.IsPositive():
		errs = append(errs, FieldError{"total_chit_amount", "must be positive"})
	case in.TotalChitAmount.LessThan(limits.MinAmount):
		errs = append(errs, FieldError{"total_chit_amount", "must be at least " + limits.MinAmount.String()})
	case in.TotalChitAmount.GreaterThan(limits.MaxAmount):
		errs = append(errs, FieldError{"total_chit_amount", "must be at most " + limits.MaxAmount.String()})
	}

	if in.DurationMonths < limits.MinMonths || in.DurationMonths > limits.MaxMonths {
		errs = append(errs, FieldError{"duration_months", fmt.Sprintf("must be between %d and %d", limits.MinMonths, limits.MaxMonths)})
	}

	switch {
	case in.NumberOfMembers <= 0:
		errs = append(errs, FieldError{"number_of_members", "must be a positive integer"})
	case in.NumberOfMembers > limits.MaxMembers:
		errs = append(errs, FieldError{"number_of_members", fmt.Sprintf("must be at most %d", limits.MaxMembers)})
	}

	if in.CommissionRatePct.IsNegative() {
		errs = append(errs, FieldError{"commission_rate_pct", "must not be negative"})
	}
	if in.InterestRatePct.IsNegative() {
		errs = append(errs, FieldError{"interest_rate_pct", "must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Calculate computes the payout split. Intermediate values keep full
// precision and each output is rounded half-up exactly once.
//
// FinalAmount is composed from the rounded commission and interest, not
// rounded from the unrounded sum, so final = total - commission + interest
// holds on the returned values. It can therefore differ by 0.01 from
// rounding the full-precision final amount once.
func Calculate(in CalculatorInput, limits GroupLimits) (*CalculatorResult, error) {
	if err := in.Validate(limits); err != nil {
		return nil, err
	}

	members := decimal.NewFromInt(int64(in.NumberOfMembers))
	months := decimal.NewFromInt(int64(in.DurationMonths))

	perMember := in.TotalChitAmount.Div(members)
	commission := in.TotalChitAmount.Mul(in.CommissionRatePct).Div(hundred)
	interest := in.TotalChitAmount.Sub(commission).
		Mul(in.InterestRatePct).
		Mul(months).
		Div(hundred.Mul(monthsInYear))

	commissionOut := commission.Round(MoneyPlaces)
	interestOut := interest.Round(MoneyPlaces)
	totalOut := in.TotalChitAmount.Round(MoneyPlaces)

	return &CalculatorResult{
		TotalInvestment:       perMember.Mul(months).Round(MoneyPlaces),
		CommissionAmount:      commissionOut,
		ContributionPerMember: perMember.Round(MoneyPlaces),
		InterestEarned:        interestOut,
		FinalAmount:           totalOut.Sub(commissionOut).Add(interestOut),
	}, nil
}
