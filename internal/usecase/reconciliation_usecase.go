package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/chitledger/internal/domain"
)

// ReconciliationUseCase cross-checks stored escrow totals against the
// contribution and payout ledgers.
type ReconciliationUseCase struct {
	escrowRepo       EscrowRepository
	contributionRepo ContributionRepository
	payoutRepo       PayoutRepository
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	escrowRepo EscrowRepository,
	contributionRepo ContributionRepository,
	payoutRepo PayoutRepository,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		escrowRepo:       escrowRepo,
		contributionRepo: contributionRepo,
		payoutRepo:       payoutRepo,
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountID         string
	Status            domain.EscrowStatus
	TotalCollected    decimal.Decimal
	TotalReleased     decimal.Decimal
	LockedAmount      decimal.Decimal
	ConfirmedSum      decimal.Decimal
	PayoutSum         decimal.Decimal
	CollectedDiff     decimal.Decimal
	ReleasedDiff      decimal.Decimal
	LockedNonNegative bool
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileAccount compares total_collected with the sum of confirmed
// contributions and total_released with the sum of payout gross amounts.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	account, err := uc.escrowRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	confirmed, err := uc.contributionRepo.SumConfirmed(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("sum confirmed contributions: %w", err)
	}
	paid, err := uc.payoutRepo.SumGross(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("sum payouts: %w", err)
	}

	result := &ReconciliationResult{
		AccountID:         accountID,
		Status:            account.Status,
		TotalCollected:    account.TotalCollected,
		TotalReleased:     account.TotalReleased,
		LockedAmount:      account.LockedAmount(),
		ConfirmedSum:      confirmed,
		PayoutSum:         paid,
		CollectedDiff:     account.TotalCollected.Sub(confirmed),
		ReleasedDiff:      account.TotalReleased.Sub(paid),
		LockedNonNegative: account.CheckInvariant() == nil,
		LastChecked:       time.Now().UTC(),
	}
	result.IsReconciled = result.CollectedDiff.IsZero() && result.ReleasedDiff.IsZero() && result.LockedNonNegative

	return result, nil
}

// ReconcileAllAccounts reconciles all accounts in the system
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) ([]*ReconciliationResult, error) {
	// Get all accounts (use high limit for reconciliation)
	limit, offset, _ := domain.ValidatePagination(10000, 0)
	accounts, err := uc.escrowRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	results := make([]*ReconciliationResult, 0, len(accounts))
	for _, account := range accounts {
		result, err := uc.ReconcileAccount(ctx, account.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile account %s: %w", account.ID, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	CheckedAt          time.Time
}

// GenerateReconciliationReport generates a comprehensive reconciliation report
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		TotalAccounts: len(results),
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     time.Now().UTC(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	return report, nil
}
