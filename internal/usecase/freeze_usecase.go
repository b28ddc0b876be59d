package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/infrastructure/metrics"
)

// FreezeUseCase halts and resumes outbound releases on an escrow account.
// Both operations are idempotent.
type FreezeUseCase struct {
	store    Store
	journal  journal
	balances balanceCache
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

func NewFreezeUseCase(store Store, metrics *metrics.Metrics, logger zerolog.Logger) *FreezeUseCase {
	return &FreezeUseCase{
		store:    store,
		journal:  store.journal(),
		balances: store.balances(),
		metrics:  metrics,
		logger:   logger.With().Str("component", "freeze").Logger(),
	}
}

// Freeze sets FROZEN and records reason. Freezing a frozen account returns
// its current state unchanged.
func (uc *FreezeUseCase) Freeze(ctx context.Context, accountID, reason string) (*domain.EscrowAccount, error) {
	if err := domain.ValidateReason(reason); err != nil {
		return nil, err
	}
	return uc.transition(ctx, accountID, domain.EscrowStatusFrozen, strings.TrimSpace(reason), domain.AuditActionEscrowFreeze)
}

// Unfreeze restores ACTIVE. Unfreezing an active account is a no-op.
func (uc *FreezeUseCase) Unfreeze(ctx context.Context, accountID string) (*domain.EscrowAccount, error) {
	return uc.transition(ctx, accountID, domain.EscrowStatusActive, "", domain.AuditActionEscrowUnfreeze)
}

func (uc *FreezeUseCase) transition(ctx context.Context, accountID string, status domain.EscrowStatus, reason string, action domain.AuditAction) (*domain.EscrowAccount, error) {
	var account *domain.EscrowAccount
	var changed bool
	err := uc.store.inTx(ctx, func(txCtx context.Context, tx Transaction) error {
		var err error
		account, changed, err = setStatusLocked(txCtx, uc.store.Escrows, uc.journal, tx, accountID, status, reason, action)
		return err
	})
	if err != nil {
		if err == domain.ErrInvalidStatusTransition {
			return nil, domain.ErrAccountClosed
		}
		return nil, err
	}

	if !changed {
		return account, nil
	}

	uc.balances.invalidate(ctx, accountID)
	if uc.metrics != nil {
		uc.metrics.EscrowStatusChanges.WithLabelValues(string(status)).Inc()
	}
	uc.logger.Info().
		Str("escrow_account_id", accountID).
		Str("status", string(status)).
		Str("reason", reason).
		Msg("escrow status changed")

	return account, nil
}
