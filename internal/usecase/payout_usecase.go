package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/infrastructure/metrics"
)

// PayoutOptions tunes the release gate.
type PayoutOptions struct {
	RiskTimeout time.Duration
	// RiskThreshold is the highest score that may still release. Zero is the
	// strictest setting; only a negative value selects DefaultRiskThreshold.
	RiskThreshold int
}

// ReleasePayoutInput names the cycle winner to pay.
type ReleasePayoutInput struct {
	EscrowAccountID string
	WinnerUserID    string
	CycleMonth      int
}

// PayoutUseCase releases a cycle's pool to its winner behind a risk gate.
type PayoutUseCase struct {
	store    Store
	journal  journal
	balances balanceCache
	risk     RiskScorer
	anchors  *AnchorUseCase
	opts     PayoutOptions
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

func NewPayoutUseCase(
	store Store,
	risk RiskScorer,
	anchors *AnchorUseCase,
	opts PayoutOptions,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *PayoutUseCase {
	if opts.RiskTimeout <= 0 {
		opts.RiskTimeout = DefaultRiskTimeout
	}
	if opts.RiskThreshold < 0 {
		opts.RiskThreshold = DefaultRiskThreshold
	}
	return &PayoutUseCase{
		store:    store,
		journal:  store.journal(),
		balances: store.balances(),
		risk:     risk,
		anchors:  anchors,
		opts:     opts,
		metrics:  metrics,
		logger:   logger.With().Str("component", "payout").Logger(),
	}
}

// ReleasePayout pays the cycle's gross pool minus commission to the winner.
// A score above the threshold returns *domain.RiskBlockedError and leaves
// balances untouched; the decision is audited. The final cycle closes the
// account in the same transaction as the debit.
func (uc *PayoutUseCase) ReleasePayout(ctx context.Context, input ReleasePayoutInput) (*domain.Payout, error) {
	if err := domain.ValidateID("escrow_account_id", input.EscrowAccountID); err != nil {
		return nil, err
	}
	if err := domain.ValidateID("winner_user_id", input.WinnerUserID); err != nil {
		return nil, err
	}

	account, err := uc.store.Escrows.GetByID(ctx, input.EscrowAccountID)
	if err != nil {
		return nil, err
	}
	if account.Status != domain.EscrowStatusActive {
		return nil, domain.ErrAccountNotActive
	}

	group, err := uc.store.Groups.GetByID(ctx, account.ChitGroupID)
	if err != nil {
		return nil, err
	}
	if err := group.ValidateCycle(input.CycleMonth); err != nil {
		return nil, err
	}
	if _, err := uc.store.Payouts.GetByCycle(ctx, account.ID, input.CycleMonth); err == nil {
		return nil, domain.ErrPayoutAlreadyReleased
	} else if !errors.Is(err, domain.ErrPayoutNotFound) {
		return nil, err
	}

	split, err := group.Split()
	if err != nil {
		return nil, err
	}
	gross := group.TotalChitAmount.Round(domain.MoneyPlaces)
	commission := split.CommissionAmount

	if account.LockedAmount().LessThan(gross) {
		return nil, domain.ErrInsufficientFunds
	}

	score := uc.score(ctx, RiskContext{
		WinnerUserID:    input.WinnerUserID,
		EscrowAccountID: account.ID,
		GrossPoolAmount: gross,
		CycleMonth:      input.CycleMonth,
	})
	if score > uc.opts.RiskThreshold {
		return nil, uc.block(ctx, account, input, score)
	}

	var payout *domain.Payout
	var closed bool
	err = uc.store.inTx(ctx, func(txCtx context.Context, tx Transaction) error {
		closed = false

		locked, err := uc.store.Escrows.GetByIDForUpdate(txCtx, tx, account.ID)
		if err != nil {
			return err
		}
		if locked.Status != domain.EscrowStatusActive {
			return domain.ErrAccountNotActive
		}
		if locked.LockedAmount().LessThan(gross) {
			return domain.ErrInsufficientFunds
		}
		if _, err := uc.store.Payouts.GetByCycle(txCtx, locked.ID, input.CycleMonth); err == nil {
			return domain.ErrPayoutAlreadyReleased
		} else if !errors.Is(err, domain.ErrPayoutNotFound) {
			return err
		}

		before := *locked
		if err := debitLocked(txCtx, uc.store.Escrows, tx, locked, gross); err != nil {
			return err
		}

		now := time.Now().UTC()
		payout = &domain.Payout{
			ID:              uc.store.IDGen.Generate(),
			EscrowAccountID: locked.ID,
			WinnerUserID:    input.WinnerUserID,
			CycleMonth:      input.CycleMonth,
			GrossPoolAmount: gross,
			CommissionAmt:   commission,
			NetPayoutAmount: gross.Sub(commission),
			RiskScore:       score,
			CreatedAt:       now,
		}
		if err := payout.Validate(); err != nil {
			return err
		}
		if err := uc.store.Payouts.Create(txCtx, tx, payout); err != nil {
			return err
		}
		if err := uc.journal.emit(txCtx, tx, domain.AggregateTypePayout, payout.ID, domain.EventTypePayoutReleased, domain.PayoutEventPayload(payout), now); err != nil {
			return err
		}
		if err := uc.journal.auditTx(txCtx, tx, auditEntry{
			action:       domain.AuditActionPayoutRelease,
			resourceType: domain.AggregateTypeEscrow,
			resourceID:   locked.ID,
			before:       &before,
			after:        payout,
			status:       domain.AuditStatusSuccess,
		}); err != nil {
			return err
		}

		if group.IsFinalCycle(input.CycleMonth) {
			_, closed, err = setStatusLocked(txCtx, uc.store.Escrows, uc.journal, tx, locked.ID, domain.EscrowStatusClosed, "", domain.AuditActionEscrowStatus)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.balances.invalidate(ctx, account.ID)
	if uc.metrics != nil {
		uc.metrics.PayoutsReleased.Inc()
		amount, _ := gross.Float64()
		uc.metrics.PayoutAmount.Observe(amount)
		if closed {
			uc.metrics.EscrowStatusChanges.WithLabelValues(string(domain.EscrowStatusClosed)).Inc()
		}
	}

	uc.logger.Info().
		Str("payout_id", payout.ID).
		Str("escrow_account_id", account.ID).
		Int("cycle_month", payout.CycleMonth).
		Int("risk_score", score).
		Str("net_payout", payout.NetPayoutAmount.StringFixed(domain.MoneyPlaces)).
		Bool("account_closed", closed).
		Msg("payout released")

	uc.anchors.AnchorPayout(ctx, payout)

	return payout, nil
}

// score never fails: scorer errors and timeouts count as maximal risk.
func (uc *PayoutUseCase) score(ctx context.Context, rc RiskContext) int {
	if uc.risk == nil {
		return domain.MaxRiskScore
	}

	riskCtx, cancel := context.WithTimeout(ctx, uc.opts.RiskTimeout)
	defer cancel()

	score, err := uc.risk.Score(riskCtx, rc)
	if err != nil {
		uc.logger.Warn().Err(err).
			Str("escrow_account_id", rc.EscrowAccountID).
			Str("winner_user_id", rc.WinnerUserID).
			Msg("risk check failed closed")
		if uc.metrics != nil {
			uc.metrics.RiskFailClosed.Inc()
		}
		score = domain.MaxRiskScore
	}
	score = domain.ClampRiskScore(score)

	if uc.metrics != nil {
		uc.metrics.RiskScores.Observe(float64(score))
	}
	return score
}

func (uc *PayoutUseCase) block(ctx context.Context, account *domain.EscrowAccount, input ReleasePayoutInput, score int) error {
	blocked := &domain.RiskBlockedError{
		AccountID:  account.ID,
		WinnerID:   input.WinnerUserID,
		CycleMonth: input.CycleMonth,
		Score:      score,
		Threshold:  uc.opts.RiskThreshold,
	}

	if err := uc.journal.audit(ctx, auditEntry{
		action:       domain.AuditActionPayoutBlocked,
		resourceType: domain.AggregateTypeEscrow,
		resourceID:   account.ID,
		after:        blocked,
		status:       domain.AuditStatusBlocked,
		message:      blocked.Error(),
	}); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.PayoutsBlocked.Inc()
	}
	uc.logger.Warn().
		Str("escrow_account_id", account.ID).
		Str("winner_user_id", input.WinnerUserID).
		Int("cycle_month", input.CycleMonth).
		Int("risk_score", score).
		Int("threshold", uc.opts.RiskThreshold).
		Msg("payout blocked by risk gate")

	return blocked
}

func (uc *PayoutUseCase) GetPayout(ctx context.Context, id string) (*domain.Payout, error) {
	return uc.store.Payouts.GetByID(ctx, id)
}

func (uc *PayoutUseCase) ListPayouts(ctx context.Context, accountID string, limit, offset int) ([]*domain.Payout, error) {
	limit, offset, err := domain.ValidatePagination(limit, offset)
	if err != nil {
		return nil, err
	}
	return uc.store.Payouts.ListByAccount(ctx, accountID, limit, offset)
}
