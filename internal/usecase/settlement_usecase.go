package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/infrastructure/metrics"
)

// SettlementOptions tunes the contribution flow.
type SettlementOptions struct {
	GatewayTimeout time.Duration
	StaleAfter     time.Duration
	SweepBatch     int
}

// InitiateContributionInput is a member's request to pay into a group.
type InitiateContributionInput struct {
	ChitGroupID string
	UserID      string
	Amount      decimal.Decimal
}

// SettlementUseCase moves contributions through INITIATED -> CONFIRMED |
// FAILED and credits the escrow account exactly once per confirmed order.
type SettlementUseCase struct {
	store    Store
	journal  journal
	balances balanceCache
	gateway  PaymentGateway
	identity IdentityVerifier
	anchors  *AnchorUseCase
	opts     SettlementOptions
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

func NewSettlementUseCase(
	store Store,
	gateway PaymentGateway,
	identity IdentityVerifier,
	anchors *AnchorUseCase,
	opts SettlementOptions,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *SettlementUseCase {
	if opts.GatewayTimeout <= 0 {
		opts.GatewayTimeout = 10 * time.Second
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = DefaultStaleAfter
	}
	if opts.SweepBatch <= 0 {
		opts.SweepBatch = DefaultSweepBatch
	}
	return &SettlementUseCase{
		store:    store,
		journal:  store.journal(),
		balances: store.balances(),
		gateway:  gateway,
		identity: identity,
		anchors:  anchors,
		opts:     opts,
		metrics:  metrics,
		logger:   logger.With().Str("component", "settlement").Logger(),
	}
}

// InitiateContribution checks KYC, opens a gateway order and records an
// INITIATED contribution for the member to complete payment against.
func (uc *SettlementUseCase) InitiateContribution(ctx context.Context, input InitiateContributionInput) (*domain.Contribution, error) {
	if err := domain.ValidateID("chit_group_id", input.ChitGroupID); err != nil {
		return nil, err
	}
	if err := domain.ValidateID("user_id", input.UserID); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	account, err := uc.store.Escrows.GetByGroupID(ctx, input.ChitGroupID)
	if err != nil {
		return nil, err
	}
	if account.Status == domain.EscrowStatusClosed {
		return nil, domain.ErrAccountNotActive
	}

	if err := uc.checkIdentity(ctx, input.UserID); err != nil {
		return nil, err
	}

	gwCtx, cancel := context.WithTimeout(ctx, uc.opts.GatewayTimeout)
	order, err := uc.gateway.CreateOrder(gwCtx, input.Amount, account.Currency)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: create order: %w", domain.ErrGatewayUnavailable, err)
	}
	if order == nil || strings.TrimSpace(order.OrderID) == "" {
		return nil, fmt.Errorf("%w: gateway order without id", domain.ErrMalformedResponse)
	}

	now := time.Now().UTC()
	contribution := &domain.Contribution{
		ID:              uc.store.IDGen.Generate(),
		EscrowAccountID: account.ID,
		UserID:          input.UserID,
		Amount:          input.Amount,
		Currency:        account.Currency,
		GatewayOrderID:  order.OrderID,
		Status:          domain.ContributionStatusInitiated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := contribution.Validate(); err != nil {
		return nil, err
	}

	err = uc.store.inTx(ctx, func(txCtx context.Context, tx Transaction) error {
		if err := uc.store.Contributions.Create(txCtx, tx, contribution); err != nil {
			return err
		}
		return uc.journal.emit(txCtx, tx, domain.AggregateTypeContribution, contribution.ID,
			domain.EventTypeContributionInitiated, domain.ContributionEventPayload(contribution), now)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ContributionsInitiated.Inc()
	}
	uc.logger.Info().
		Str("contribution_id", contribution.ID).
		Str("gateway_order_id", contribution.GatewayOrderID).
		Str("escrow_account_id", account.ID).
		Msg("contribution initiated")

	return contribution, nil
}

func (uc *SettlementUseCase) checkIdentity(ctx context.Context, userID string) error {
	if uc.identity == nil {
		return nil
	}
	verified, err := uc.identity.IsVerified(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: identity check unavailable: %w", domain.ErrMemberNotVerified, err)
	}
	if !verified {
		return domain.ErrMemberNotVerified
	}
	return nil
}

// ConfirmContribution settles a gateway order. Repeated calls for the same
// order return the stored terminal outcome without crediting again.
// A gateway error or timeout leaves the record INITIATED and untouched.
// A capture verified after the record already failed keeps it FAILED and is
// logged and audited for refund.
func (uc *SettlementUseCase) ConfirmContribution(ctx context.Context, gatewayOrderID, paymentRef string) (*domain.Contribution, error) {
	start := time.Now()

	if err := domain.ValidateID("gateway_order_id", gatewayOrderID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(paymentRef) == "" {
		return nil, domain.ErrMissingPaymentRef
	}

	existing, err := uc.store.Contributions.GetByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return nil, err
	}
	if existing.Status.IsTerminal() {
		uc.recordDuplicate(existing)
		return existing, nil
	}

	gwCtx, cancel := context.WithTimeout(ctx, uc.opts.GatewayTimeout)
	verified, err := uc.gateway.VerifyPayment(gwCtx, gatewayOrderID, paymentRef)
	cancel()
	if err != nil {
		uc.logger.Warn().Err(err).
			Str("gateway_order_id", gatewayOrderID).
			Msg("payment verification unavailable; contribution left pending")
		return nil, fmt.Errorf("%w: verify payment: %w", domain.ErrGatewayUnavailable, err)
	}

	if !verified {
		failed, changed, err := uc.fail(ctx, gatewayOrderID, paymentRef, domain.FailureReasonVerification, domain.AuditActionContributionFail)
		if err != nil {
			return nil, err
		}
		if !changed {
			uc.recordDuplicate(failed)
			return failed, nil
		}
		return failed, domain.ErrGatewayVerificationFailed
	}

	var contribution *domain.Contribution
	var duplicate bool
	var outcomeErr error
	err = uc.store.inTx(ctx, func(txCtx context.Context, tx Transaction) error {
		duplicate, outcomeErr = false, nil

		var err error
		contribution, err = uc.store.Contributions.GetByGatewayOrderIDForUpdate(txCtx, tx, gatewayOrderID)
		if err != nil {
			return err
		}
		if contribution.Status.IsTerminal() {
			duplicate = true
			return nil
		}

		account, err := uc.store.Escrows.GetByIDForUpdate(txCtx, tx, contribution.EscrowAccountID)
		if err != nil {
			return err
		}

		before := *contribution
		now := time.Now().UTC()
		contribution.GatewayPaymentRef = paymentRef
		contribution.SettledAt = &now
		contribution.UpdatedAt = now

		if account.Status == domain.EscrowStatusClosed {
			contribution.Status = domain.ContributionStatusFailed
			contribution.FailureReason = domain.FailureReasonAccountClose
			outcomeErr = domain.ErrAccountNotActive
			return uc.writeSettlement(txCtx, tx, &before, contribution, domain.AuditActionContributionFail, domain.EventTypeContributionFailed, now)
		}

		contribution.Status = domain.ContributionStatusConfirmed
		if err := creditLocked(txCtx, uc.store.Escrows, tx, account, contribution.Amount); err != nil {
			return err
		}
		return uc.writeSettlement(txCtx, tx, &before, contribution, domain.AuditActionContributionConfirm, domain.EventTypeContributionConfirmed, now)
	})
	if err != nil {
		return nil, err
	}

	if duplicate {
		if contribution.Status == domain.ContributionStatusFailed {
			uc.recordCapturedAfterFailure(ctx, contribution, paymentRef)
		} else {
			uc.recordDuplicate(contribution)
		}
		return contribution, nil
	}

	uc.balances.invalidate(ctx, contribution.EscrowAccountID)
	uc.recordSettled(contribution, start)

	if outcomeErr != nil {
		uc.logger.Warn().
			Str("contribution_id", contribution.ID).
			Str("escrow_account_id", contribution.EscrowAccountID).
			Msg("payment captured for closed escrow account; marked failed for refund")
		return contribution, outcomeErr
	}

	uc.logger.Info().
		Str("contribution_id", contribution.ID).
		Str("escrow_account_id", contribution.EscrowAccountID).
		Str("amount", contribution.Amount.StringFixed(domain.MoneyPlaces)).
		Msg("contribution confirmed")

	uc.anchors.AnchorContribution(ctx, contribution)

	return contribution, nil
}

// FailContribution records a caller-reported failure. Already terminal
// records are returned unchanged.
func (uc *SettlementUseCase) FailContribution(ctx context.Context, gatewayOrderID, reason string) (*domain.Contribution, error) {
	if err := domain.ValidateID("gateway_order_id", gatewayOrderID); err != nil {
		return nil, err
	}
	if err := domain.ValidateReason(reason); err != nil {
		return nil, err
	}

	contribution, changed, err := uc.fail(ctx, gatewayOrderID, "", strings.TrimSpace(reason), domain.AuditActionContributionFail)
	if err != nil {
		return nil, err
	}
	if !changed {
		uc.recordDuplicate(contribution)
	}
	return contribution, nil
}

// ExpireStaleContributions fails INITIATED records older than the stale
// window. It returns how many records were expired.
func (uc *SettlementUseCase) ExpireStaleContributions(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-uc.opts.StaleAfter)
	stale, err := uc.store.Contributions.ListStaleInitiated(ctx, cutoff, uc.opts.SweepBatch)
	if err != nil {
		return 0, fmt.Errorf("list stale contributions: %w", err)
	}

	expired := 0
	for _, c := range stale {
		if ctx.Err() != nil {
			return expired, ctx.Err()
		}
		_, changed, err := uc.fail(ctx, c.GatewayOrderID, "", domain.FailureReasonExpired, domain.AuditActionContributionExpire)
		if err != nil {
			uc.logger.Error().Err(err).Str("contribution_id", c.ID).Msg("failed to expire contribution")
			continue
		}
		if changed {
			expired++
		}
	}

	if expired > 0 {
		if uc.metrics != nil {
			uc.metrics.StaleContributions.Add(float64(expired))
		}
		uc.logger.Info().Int("expired", expired).Time("cutoff", cutoff).Msg("stale contributions expired")
	}
	return expired, nil
}

func (uc *SettlementUseCase) GetContribution(ctx context.Context, id string) (*domain.Contribution, error) {
	return uc.store.Contributions.GetByID(ctx, id)
}

func (uc *SettlementUseCase) GetContributionByOrder(ctx context.Context, gatewayOrderID string) (*domain.Contribution, error) {
	return uc.store.Contributions.GetByGatewayOrderID(ctx, gatewayOrderID)
}

func (uc *SettlementUseCase) ListContributions(ctx context.Context, accountID string, limit, offset int) ([]*domain.Contribution, error) {
	limit, offset, err := domain.ValidatePagination(limit, offset)
	if err != nil {
		return nil, err
	}
	return uc.store.Contributions.ListByAccount(ctx, accountID, limit, offset)
}

// fail moves an INITIATED contribution to FAILED. changed is false when the
// record was already terminal; the stored record is returned either way.
func (uc *SettlementUseCase) fail(ctx context.Context, gatewayOrderID, paymentRef, reason string, action domain.AuditAction) (*domain.Contribution, bool, error) {
	start := time.Now()

	var contribution *domain.Contribution
	var changed bool
	err := uc.store.inTx(ctx, func(txCtx context.Context, tx Transaction) error {
		changed = false

		var err error
		contribution, err = uc.store.Contributions.GetByGatewayOrderIDForUpdate(txCtx, tx, gatewayOrderID)
		if err != nil {
			return err
		}
		if !contribution.CanTransitionTo(domain.ContributionStatusFailed) {
			return nil
		}

		before := *contribution
		now := time.Now().UTC()
		contribution.Status = domain.ContributionStatusFailed
		contribution.FailureReason = reason
		if paymentRef != "" {
			contribution.GatewayPaymentRef = paymentRef
		}
		contribution.SettledAt = &now
		contribution.UpdatedAt = now
		changed = true

		return uc.writeSettlement(txCtx, tx, &before, contribution, action, domain.EventTypeContributionFailed, now)
	})
	if err != nil {
		return nil, false, err
	}

	if changed {
		uc.recordSettled(contribution, start)
		uc.logger.Info().
			Str("contribution_id", contribution.ID).
			Str("gateway_order_id", gatewayOrderID).
			Str("reason", reason).
			Msg("contribution failed")
	}
	return contribution, changed, nil
}

func (uc *SettlementUseCase) writeSettlement(
	ctx context.Context,
	tx Transaction,
	before, after *domain.Contribution,
	action domain.AuditAction,
	eventType string,
	now time.Time,
) error {
	if err := uc.store.Contributions.MarkSettled(ctx, tx, after); err != nil {
		return err
	}
	if err := uc.journal.emit(ctx, tx, domain.AggregateTypeContribution, after.ID, eventType, domain.ContributionEventPayload(after), now); err != nil {
		return err
	}
	status := domain.AuditStatusSuccess
	if after.Status == domain.ContributionStatusFailed {
		status = domain.AuditStatusFailure
	}
	return uc.journal.auditTx(ctx, tx, auditEntry{
		action:       action,
		resourceType: domain.AggregateTypeContribution,
		resourceID:   after.ID,
		before:       before,
		after:        after,
		status:       status,
		message:      after.FailureReason,
	})
}

func (uc *SettlementUseCase) recordDuplicate(c *domain.Contribution) {
	if uc.metrics != nil {
		uc.metrics.DuplicateCallbacks.Inc()
	}
	uc.logger.Debug().
		Str("contribution_id", c.ID).
		Str("status", string(c.Status)).
		Msg("callback for settled contribution ignored")
}

// recordCapturedAfterFailure flags money the gateway captured for a record
// that failed while verification was in flight. The record stays FAILED.
func (uc *SettlementUseCase) recordCapturedAfterFailure(ctx context.Context, c *domain.Contribution, paymentRef string) {
	if uc.metrics != nil {
		uc.metrics.DuplicateCallbacks.Inc()
	}
	uc.logger.Warn().
		Str("contribution_id", c.ID).
		Str("escrow_account_id", c.EscrowAccountID).
		Str("gateway_order_id", c.GatewayOrderID).
		Str("payment_ref", paymentRef).
		Str("failure_reason", c.FailureReason).
		Msg("payment captured for failed contribution; marked failed for refund")

	err := uc.journal.audit(ctx, auditEntry{
		action:       domain.AuditActionContributionOrphan,
		resourceType: domain.AggregateTypeContribution,
		resourceID:   c.ID,
		after:        c,
		status:       domain.AuditStatusFailure,
		message:      "captured payment " + paymentRef + " after: " + c.FailureReason + "; refund required",
	})
	if err != nil {
		uc.logger.Error().Err(err).Str("contribution_id", c.ID).Msg("failed to audit captured payment")
	}
}

func (uc *SettlementUseCase) recordSettled(c *domain.Contribution, start time.Time) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.ContributionsSettled.WithLabelValues(string(c.Status)).Inc()
	uc.metrics.SettlementDuration.Observe(time.Since(start).Seconds())
	if c.Status == domain.ContributionStatusConfirmed {
		amount, _ := c.Amount.Float64()
		uc.metrics.ContributionAmount.Observe(amount)
	}
}

// IsSettlementRejection reports whether err is a business outcome rather
// than an infrastructure failure.
func IsSettlementRejection(err error) bool {
	return errors.Is(err, domain.ErrGatewayVerificationFailed) ||
		errors.Is(err, domain.ErrAccountNotActive) ||
		errors.Is(err, domain.ErrMemberNotVerified)
}
