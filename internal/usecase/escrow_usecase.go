package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/infrastructure/metrics"
)

// OpenAccountInput carries a group's payout rules.
type OpenAccountInput struct {
	ChitGroupID       string
	TotalChitAmount   decimal.Decimal
	DurationMonths    int
	NumberOfMembers   int
	CommissionRatePct decimal.Decimal
	InterestRatePct   decimal.Decimal
	Currency          string
	Limits            *domain.GroupLimits
}

type EscrowUseCase struct {
	store           Store
	journal         journal
	balances        balanceCache
	metrics         *metrics.Metrics
	defaultCurrency string
}

func NewEscrowUseCase(store Store, metrics *metrics.Metrics, defaultCurrency string) *EscrowUseCase {
	if defaultCurrency == "" {
		defaultCurrency = "INR"
	}
	return &EscrowUseCase{
		store:           store,
		journal:         store.journal(),
		balances:        store.balances(),
		metrics:         metrics,
		defaultCurrency: defaultCurrency,
	}
}

// OpenAccount stores the group's payout rules and returns its escrow account,
// creating it on first call. Calling it again updates the rules only.
func (uc *EscrowUseCase) OpenAccount(ctx context.Context, input OpenAccountInput) (*domain.EscrowAccount, error) {
	if err := domain.ValidateID("chit_group_id", input.ChitGroupID); err != nil {
		return nil, err
	}

	currency := strings.ToUpper(input.Currency)
	if currency == "" {
		currency = uc.defaultCurrency
	}
	if err := domain.ValidateCurrency(currency); err != nil {
		return nil, err
	}

	limits := domain.DefaultGroupLimits()
	if input.Limits != nil {
		limits = *input.Limits
	}

	now := time.Now().UTC()
	group := &domain.ChitGroup{
		ID:                input.ChitGroupID,
		TotalChitAmount:   input.TotalChitAmount,
		DurationMonths:    input.DurationMonths,
		NumberOfMembers:   input.NumberOfMembers,
		CommissionRatePct: input.CommissionRatePct,
		InterestRatePct:   input.InterestRatePct,
		Currency:          currency,
		Limits:            limits,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if _, err := group.Split(); err != nil {
		return nil, err
	}

	var account *domain.EscrowAccount
	var created bool
	err := uc.store.inTx(ctx, func(txCtx context.Context, tx Transaction) error {
		if err := uc.store.Groups.UpsertTx(txCtx, tx, group); err != nil {
			return err
		}
		var err error
		account, created, err = uc.getOrCreateLocked(txCtx, tx, group.ID, currency, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	if created && uc.metrics != nil {
		uc.metrics.EscrowAccountsOpened.Inc()
	}

	return account, nil
}

// GetOrCreate returns the escrow account of a chit group, creating it with
// zero balances and ACTIVE status if absent.
func (uc *EscrowUseCase) GetOrCreate(ctx context.Context, chitGroupID string) (*domain.EscrowAccount, error) {
	if err := domain.ValidateID("chit_group_id", chitGroupID); err != nil {
		return nil, err
	}

	if account, err := uc.store.Escrows.GetByGroupID(ctx, chitGroupID); err == nil {
		return account, nil
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	currency := uc.defaultCurrency
	if group, err := uc.store.Groups.GetByID(ctx, chitGroupID); err == nil {
		currency = group.Currency
	} else if !errors.Is(err, domain.ErrGroupNotFound) {
		return nil, err
	}

	var account *domain.EscrowAccount
	var created bool
	err := uc.store.inTx(ctx, func(txCtx context.Context, tx Transaction) error {
		var err error
		account, created, err = uc.getOrCreateLocked(txCtx, tx, chitGroupID, currency, time.Now().UTC())
		return err
	})
	if err != nil {
		return nil, err
	}

	if created && uc.metrics != nil {
		uc.metrics.EscrowAccountsOpened.Inc()
	}

	return account, nil
}

// getOrCreateLocked relies on the repository insert being a no-op when a
// concurrent caller already created the account for the group.
func (uc *EscrowUseCase) getOrCreateLocked(ctx context.Context, tx Transaction, groupID, currency string, now time.Time) (*domain.EscrowAccount, bool, error) {
	account, err := uc.store.Escrows.GetByGroupIDForUpdate(ctx, tx, groupID)
	if err == nil {
		return account, false, nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, false, err
	}

	account = &domain.EscrowAccount{
		ID:             uc.store.IDGen.Generate(),
		ChitGroupID:    groupID,
		Currency:       currency,
		TotalCollected: decimal.Zero,
		TotalReleased:  decimal.Zero,
		Status:         domain.EscrowStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.store.Escrows.CreateTx(ctx, tx, account); err != nil {
		return nil, false, err
	}

	locked, err := uc.store.Escrows.GetByGroupIDForUpdate(ctx, tx, groupID)
	if err != nil {
		return nil, false, err
	}
	if locked.ID != account.ID {
		return locked, false, nil
	}

	payload := map[string]any{
		"escrow_account_id": locked.ID,
		"chit_group_id":     locked.ChitGroupID,
		"currency":          locked.Currency,
	}
	if err := uc.journal.emit(ctx, tx, domain.AggregateTypeEscrow, locked.ID, domain.EventTypeEscrowOpened, payload, now); err != nil {
		return nil, false, err
	}
	if err := uc.journal.auditTx(ctx, tx, auditEntry{
		action:       domain.AuditActionEscrowOpen,
		resourceType: domain.AggregateTypeEscrow,
		resourceID:   locked.ID,
		after:        locked,
		status:       domain.AuditStatusSuccess,
	}); err != nil {
		return nil, false, err
	}

	return locked, true, nil
}

// Credit increments total_collected. Frozen accounts accept credits.
func (uc *EscrowUseCase) Credit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.EscrowAccount, error) {
	var account *domain.EscrowAccount
	err := uc.store.inTx(ctx, func(txCtx context.Context, tx Transaction) error {
		var err error
		account, err = uc.store.Escrows.GetByIDForUpdate(txCtx, tx, accountID)
		if err != nil {
			return err
		}
		before := *account
		if err := creditLocked(txCtx, uc.store.Escrows, tx, account, amount); err != nil {
			return err
		}
		return uc.journal.auditTx(txCtx, tx, auditEntry{
			action:       domain.AuditActionEscrowCredit,
			resourceType: domain.AggregateTypeEscrow,
			resourceID:   account.ID,
			before:       &before,
			after:        account,
			status:       domain.AuditStatusSuccess,
		})
	})
	uc.recordOperation("credit", err)
	if err != nil {
		return nil, err
	}

	uc.balances.invalidate(ctx, accountID)
	return account, nil
}

// Debit increments total_released. Only ACTIVE accounts with enough locked
// funds can be debited.
func (uc *EscrowUseCase) Debit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.EscrowAccount, error) {
	var account *domain.EscrowAccount
	err := uc.store.inTx(ctx, func(txCtx context.Context, tx Transaction) error {
		var err error
		account, err = uc.store.Escrows.GetByIDForUpdate(txCtx, tx, accountID)
		if err != nil {
			return err
		}
		before := *account
		if err := debitLocked(txCtx, uc.store.Escrows, tx, account, amount); err != nil {
			return err
		}
		return uc.journal.auditTx(txCtx, tx, auditEntry{
			action:       domain.AuditActionEscrowDebit,
			resourceType: domain.AggregateTypeEscrow,
			resourceID:   account.ID,
			before:       &before,
			after:        account,
			status:       domain.AuditStatusSuccess,
		})
	})
	uc.recordOperation("debit", err)
	if err != nil {
		return nil, err
	}

	uc.balances.invalidate(ctx, accountID)
	return account, nil
}

// SetStatus is the administrative status change. CLOSED is terminal.
func (uc *EscrowUseCase) SetStatus(ctx context.Context, accountID string, status domain.EscrowStatus, reason string) (*domain.EscrowAccount, error) {
	if status == domain.EscrowStatusFrozen {
		if err := domain.ValidateReason(reason); err != nil {
			return nil, err
		}
	}

	var account *domain.EscrowAccount
	var changed bool
	err := uc.store.inTx(ctx, func(txCtx context.Context, tx Transaction) error {
		var err error
		account, changed, err = setStatusLocked(txCtx, uc.store.Escrows, uc.journal, tx, accountID, status, reason, domain.AuditActionEscrowStatus)
		return err
	})
	if err != nil {
		return nil, err
	}

	if changed {
		uc.balances.invalidate(ctx, accountID)
		if uc.metrics != nil {
			uc.metrics.EscrowStatusChanges.WithLabelValues(string(status)).Inc()
		}
	}
	return account, nil
}

// GetBalance returns the account snapshot, served from cache when fresh.
func (uc *EscrowUseCase) GetBalance(ctx context.Context, accountID string) (*domain.EscrowAccount, error) {
	if account, ok := uc.balances.get(ctx, accountID); ok {
		uc.recordCache("hit")
		return account, nil
	}
	uc.recordCache("miss")

	account, err := uc.store.Escrows.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	uc.balances.put(ctx, account)
	return account, nil
}

// GetAccount reads the account straight from storage.
func (uc *EscrowUseCase) GetAccount(ctx context.Context, accountID string) (*domain.EscrowAccount, error) {
	return uc.store.Escrows.GetByID(ctx, accountID)
}

func (uc *EscrowUseCase) GetByGroup(ctx context.Context, chitGroupID string) (*domain.EscrowAccount, error) {
	return uc.store.Escrows.GetByGroupID(ctx, chitGroupID)
}

// GetGroup returns the payout rules stored for a chit group.
func (uc *EscrowUseCase) GetGroup(ctx context.Context, chitGroupID string) (*domain.ChitGroup, error) {
	return uc.store.Groups.GetByID(ctx, chitGroupID)
}

func (uc *EscrowUseCase) ListAccounts(ctx context.Context, limit, offset int) ([]*domain.EscrowAccount, error) {
	limit, offset, err := domain.ValidatePagination(limit, offset)
	if err != nil {
		return nil, err
	}
	return uc.store.Escrows.List(ctx, limit, offset)
}

func (uc *EscrowUseCase) recordOperation(op string, err error) {
	if uc.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "rejected"
	}
	uc.metrics.EscrowOperations.WithLabelValues(op, outcome).Inc()
}

func (uc *EscrowUseCase) recordCache(result string) {
	if uc.metrics != nil {
		uc.metrics.CacheLookups.WithLabelValues("balance", result).Inc()
	}
}

// creditLocked applies a credit to an account row already locked by tx and
// updates account in place.
func creditLocked(ctx context.Context, repo EscrowRepository, tx Transaction, account *domain.EscrowAccount, amount decimal.Decimal) error {
	if err := account.ValidateCredit(amount); err != nil {
		return err
	}
	now := time.Now().UTC()
	collected := account.ApplyCredit(amount)
	if err := repo.UpdateTotals(ctx, tx, account.ID, collected, account.TotalReleased, now); err != nil {
		return err
	}
	account.TotalCollected = collected
	account.UpdatedAt = now
	account.Version++
	return nil
}

// debitLocked applies a debit to an account row already locked by tx and
// updates account in place.
func debitLocked(ctx context.Context, repo EscrowRepository, tx Transaction, account *domain.EscrowAccount, amount decimal.Decimal) error {
	if err := account.ValidateDebit(amount); err != nil {
		return err
	}
	now := time.Now().UTC()
	released := account.ApplyDebit(amount)
	if err := repo.UpdateTotals(ctx, tx, account.ID, account.TotalCollected, released, now); err != nil {
		return err
	}
	account.TotalReleased = released
	account.UpdatedAt = now
	account.Version++
	return account.CheckInvariant()
}

// setStatusLocked locks the account and moves it to status. A no-op change
// returns the current state with changed == false and writes nothing.
func setStatusLocked(
	ctx context.Context,
	repo EscrowRepository,
	j journal,
	tx Transaction,
	accountID string,
	status domain.EscrowStatus,
	reason string,
	action domain.AuditAction,
) (*domain.EscrowAccount, bool, error) {
	account, err := repo.GetByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, false, err
	}
	if err := account.CanTransitionTo(status); err != nil {
		return nil, false, err
	}
	if account.Status == status {
		return account, false, nil
	}

	before := *account
	now := time.Now().UTC()
	if status != domain.EscrowStatusFrozen {
		reason = ""
	}
	if err := repo.UpdateStatus(ctx, tx, accountID, status, reason, now); err != nil {
		return nil, false, err
	}
	account.Status = status
	account.FreezeReason = reason
	account.FrozenAt = nil
	if status == domain.EscrowStatusFrozen {
		account.FrozenAt = &now
	}
	account.UpdatedAt = now
	account.Version++

	payload := map[string]any{
		"escrow_account_id": account.ID,
		"from":              string(before.Status),
		"to":                string(status),
		"reason":            reason,
	}
	if err := j.emit(ctx, tx, domain.AggregateTypeEscrow, account.ID, domain.EventTypeEscrowStatusChanged, payload, now); err != nil {
		return nil, false, err
	}
	if err := j.auditTx(ctx, tx, auditEntry{
		action:       action,
		resourceType: domain.AggregateTypeEscrow,
		resourceID:   account.ID,
		before:       &before,
		after:        account,
		status:       domain.AuditStatusSuccess,
	}); err != nil {
		return nil, false, err
	}

	return account, true, nil
}
