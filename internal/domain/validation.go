package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidCurrency = errors.New("invalid currency code")
	ErrAmountTooLarge  = errors.New("amount exceeds maximum allowed")
	ErrAmountTooSmall  = errors.New("amount below minimum allowed")
	ErrInvalidIDFormat = errors.New("invalid ID format")
	ErrReasonRequired  = errors.New("reason is required")
)

// Validation constants
const (
	MaxContributionAmount = "100000000" // 10 crore
	MinContributionAmount = "1"
	MaxIDLength           = 128
	MaxReasonLength       = 500
)

// Supported settlement currencies (ISO 4217). One currency per group.
var validCurrencies = map[string]bool{
	"INR": true, "USD": true, "EUR": true, "GBP": true,
	"LKR": true, "NPR": true, "BDT": true, "AED": true,
	"SGD": true, "MYR": true,
}

var idRegex = regexp.MustCompile(`^[A-Za-z0-9_\-:.]+$`)

// ValidateCurrency validates currency code
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %s is not a supported currency", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateAmount validates a contribution amount
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if !amount.Equal(amount.Round(MoneyPlaces)) {
		return fmt.Errorf("%w: at most %d decimal places", ErrInvalidAmount, MoneyPlaces)
	}

	minAmount := decimal.RequireFromString(MinContributionAmount)
	if amount.LessThan(minAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrAmountTooSmall, MinContributionAmount)
	}

	maxAmount := decimal.RequireFromString(MaxContributionAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxContributionAmount)
	}

	return nil
}

// ValidateID validates an externally supplied identifier
func ValidateID(field, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidIDFormat, field)
	}
	if len(id) > MaxIDLength || !idRegex.MatchString(id) {
		return fmt.Errorf("%w: %s", ErrInvalidIDFormat, field)
	}
	return nil
}

// ValidateReason validates an administrative reason
func ValidateReason(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	if len(reason) > MaxReasonLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrReasonRequired, MaxReasonLength)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
