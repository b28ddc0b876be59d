package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/usecase"
	"github.com/iho/chitledger/internal/usecase/mocks"
)

type payoutFixture struct {
	repos  *mocks.Repos
	risk   *mocks.MockRiskScorer
	ledger *mocks.MockAnchoringLedger
	uc     *usecase.PayoutUseCase
}

func newPayoutFixture(t *testing.T, opts usecase.PayoutOptions) *payoutFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	store, repos := mocks.NewStore()
	f := &payoutFixture{
		repos:  repos,
		risk:   mocks.NewMockRiskScorer(ctrl),
		ledger: mocks.NewMockAnchoringLedger(ctrl),
	}
	anchors := usecase.NewAnchorUseCase(f.ledger, repos.Contributions, repos.Payouts, usecase.AnchorOptions{
		Timeout: time.Second,
	}, nil, zerolog.Nop())
	f.uc = usecase.NewPayoutUseCase(store, f.risk, anchors, opts, nil, zerolog.Nop())
	return f
}

func (f *payoutFixture) seed(t *testing.T, total int64, months int, collected int64, status domain.EscrowStatus) {
	t.Helper()
	err := f.repos.Groups.UpsertTx(context.Background(), nil, &domain.ChitGroup{
		ID:                "grp-1",
		TotalChitAmount:   decimal.NewFromInt(total),
		DurationMonths:    months,
		NumberOfMembers:   10,
		CommissionRatePct: decimal.NewFromInt(5),
		InterestRatePct:   decimal.NewFromInt(12),
		Currency:          "INR",
		Limits:            domain.DefaultGroupLimits(),
	})
	require.NoError(t, err)
	f.repos.Escrows.Seed(&domain.EscrowAccount{
		ID:             "acc-1",
		ChitGroupID:    "grp-1",
		Currency:       "INR",
		TotalCollected: decimal.NewFromInt(collected),
		TotalReleased:  decimal.Zero,
		Status:         status,
	})
}

func (f *payoutFixture) account(t *testing.T) *domain.EscrowAccount {
	t.Helper()
	acc, err := f.repos.Escrows.GetByID(context.Background(), "acc-1")
	require.NoError(t, err)
	return acc
}

func release(cycle int) usecase.ReleasePayoutInput {
	return usecase.ReleasePayoutInput{EscrowAccountID: "acc-1", WinnerUserID: "user-7", CycleMonth: cycle}
}

func TestPayout_Release(t *testing.T) {
	f := newPayoutFixture(t, usecase.PayoutOptions{RiskThreshold: 70})
	f.seed(t, 100000, 12, 120000, domain.EscrowStatusActive)

	f.risk.EXPECT().Score(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, rc usecase.RiskContext) (int, error) {
			assert.Equal(t, "user-7", rc.WinnerUserID)
			assert.Equal(t, "acc-1", rc.EscrowAccountID)
			assert.Equal(t, 1, rc.CycleMonth)
			assert.True(t, rc.GrossPoolAmount.Equal(decimal.NewFromInt(100000)))
			return 20, nil
		})
	f.ledger.EXPECT().Anchor(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, s domain.AnchorSummary) (string, error) {
			assert.Equal(t, domain.AnchorKindPayout, s.Kind)
			return "0xpayout", nil
		})

	payout, err := f.uc.ReleasePayout(context.Background(), release(1))
	require.NoError(t, err)

	assert.True(t, payout.GrossPoolAmount.Equal(decimal.NewFromInt(100000)))
	assert.True(t, payout.CommissionAmt.Equal(decimal.NewFromInt(5000)))
	assert.True(t, payout.NetPayoutAmount.Equal(decimal.NewFromInt(95000)))
	assert.Equal(t, 20, payout.RiskScore)
	require.NotNil(t, payout.AnchorHash)
	assert.Equal(t, "0xpayout", *payout.AnchorHash)

	acc := f.account(t)
	assert.True(t, acc.TotalReleased.Equal(decimal.NewFromInt(100000)))
	assert.True(t, acc.LockedAmount().Equal(decimal.NewFromInt(20000)))
	assert.Equal(t, domain.EscrowStatusActive, acc.Status)
	assert.Equal(t, 1, f.repos.Payouts.Count())
	assert.Contains(t, f.repos.Outbox.EventTypes(), domain.EventTypePayoutReleased)
}

func TestPayout_InsufficientFunds(t *testing.T) {
	f := newPayoutFixture(t, usecase.PayoutOptions{RiskThreshold: 70})
	f.seed(t, 60000, 12, 50000, domain.EscrowStatusActive)

	_, err := f.uc.ReleasePayout(context.Background(), release(1))
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	acc := f.account(t)
	assert.True(t, acc.TotalCollected.Equal(decimal.NewFromInt(50000)))
	assert.True(t, acc.TotalReleased.IsZero())
	assert.Zero(t, f.repos.Payouts.Count())
}

func TestPayout_RiskBlocksRelease(t *testing.T) {
	f := newPayoutFixture(t, usecase.PayoutOptions{RiskThreshold: 70})
	f.seed(t, 100000, 12, 100000, domain.EscrowStatusActive)

	f.risk.EXPECT().Score(gomock.Any(), gomock.Any()).Return(85, nil)

	_, err := f.uc.ReleasePayout(context.Background(), release(2))
	require.ErrorIs(t, err, domain.ErrPayoutBlockedByRisk)

	var blocked *domain.RiskBlockedError
	require.True(t, errors.As(err, &blocked))
	assert.Equal(t, 85, blocked.Score)
	assert.Equal(t, 70, blocked.Threshold)

	acc := f.account(t)
	assert.True(t, acc.TotalReleased.IsZero())
	assert.Zero(t, f.repos.Payouts.Count())

	logs, err := f.repos.Audit.List(context.Background(), domain.AuditFilter{Action: string(domain.AuditActionPayoutBlocked)})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, string(domain.AuditStatusBlocked), logs[0].Status)
}

func TestPayout_ZeroThresholdBlocksAnyRisk(t *testing.T) {
	f := newPayoutFixture(t, usecase.PayoutOptions{RiskThreshold: 0})
	f.seed(t, 100000, 12, 100000, domain.EscrowStatusActive)

	f.risk.EXPECT().Score(gomock.Any(), gomock.Any()).Return(1, nil)

	_, err := f.uc.ReleasePayout(context.Background(), release(1))

	var blocked *domain.RiskBlockedError
	require.True(t, errors.As(err, &blocked), "expected risk block, got %v", err)
	assert.Equal(t, 0, blocked.Threshold)
	assert.Equal(t, 1, blocked.Score)
	assert.True(t, f.account(t).TotalReleased.IsZero())
	assert.Zero(t, f.repos.Payouts.Count())
}

func TestPayout_NegativeThresholdUsesDefault(t *testing.T) {
	f := newPayoutFixture(t, usecase.PayoutOptions{RiskThreshold: -1})
	f.seed(t, 100000, 12, 100000, domain.EscrowStatusActive)

	f.risk.EXPECT().Score(gomock.Any(), gomock.Any()).Return(usecase.DefaultRiskThreshold+1, nil)

	_, err := f.uc.ReleasePayout(context.Background(), release(1))

	var blocked *domain.RiskBlockedError
	require.True(t, errors.As(err, &blocked), "expected risk block, got %v", err)
	assert.Equal(t, usecase.DefaultRiskThreshold, blocked.Threshold)
}

func TestPayout_ScoreAtThresholdPasses(t *testing.T) {
	f := newPayoutFixture(t, usecase.PayoutOptions{RiskThreshold: 70})
	f.seed(t, 100000, 12, 100000, domain.EscrowStatusActive)

	f.risk.EXPECT().Score(gomock.Any(), gomock.Any()).Return(70, nil)
	f.ledger.EXPECT().Anchor(gomock.Any(), gomock.Any()).Return("0x1", nil)

	_, err := f.uc.ReleasePayout(context.Background(), release(1))
	require.NoError(t, err)
}

func TestPayout_RiskTimeoutFailsClosed(t *testing.T) {
	f := newPayoutFixture(t, usecase.PayoutOptions{RiskThreshold: 70, RiskTimeout: 20 * time.Millisecond})
	f.seed(t, 100000, 12, 100000, domain.EscrowStatusActive)

	f.risk.EXPECT().Score(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ usecase.RiskContext) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		})

	_, err := f.uc.ReleasePayout(context.Background(), release(1))

	var blocked *domain.RiskBlockedError
	require.True(t, errors.As(err, &blocked), "expected risk block, got %v", err)
	assert.Equal(t, domain.MaxRiskScore, blocked.Score)
	assert.True(t, f.account(t).TotalReleased.IsZero())
}

func TestPayout_FrozenAccountRejected(t *testing.T) {
	f := newPayoutFixture(t, usecase.PayoutOptions{RiskThreshold: 70})
	f.seed(t, 100000, 12, 100000, domain.EscrowStatusFrozen)

	_, err := f.uc.ReleasePayout(context.Background(), release(1))
	assert.ErrorIs(t, err, domain.ErrAccountNotActive)
	assert.True(t, f.account(t).TotalReleased.IsZero())
}

func TestPayout_InvalidCycle(t *testing.T) {
	f := newPayoutFixture(t, usecase.PayoutOptions{RiskThreshold: 70})
	f.seed(t, 100000, 12, 100000, domain.EscrowStatusActive)

	_, err := f.uc.ReleasePayout(context.Background(), release(13))
	assert.ErrorIs(t, err, domain.ErrInvalidCycleMonth)
}

func TestPayout_CycleReleasedOnce(t *testing.T) {
	f := newPayoutFixture(t, usecase.PayoutOptions{RiskThreshold: 70})
	f.seed(t, 100000, 12, 300000, domain.EscrowStatusActive)

	f.risk.EXPECT().Score(gomock.Any(), gomock.Any()).Return(10, nil)
	f.ledger.EXPECT().Anchor(gomock.Any(), gomock.Any()).Return("0x1", nil)

	_, err := f.uc.ReleasePayout(context.Background(), release(4))
	require.NoError(t, err)

	_, err = f.uc.ReleasePayout(context.Background(), release(4))
	assert.ErrorIs(t, err, domain.ErrPayoutAlreadyReleased)
	assert.True(t, f.account(t).TotalReleased.Equal(decimal.NewFromInt(100000)))
}

func TestPayout_FinalCycleClosesAccount(t *testing.T) {
	f := newPayoutFixture(t, usecase.PayoutOptions{RiskThreshold: 70})
	f.seed(t, 30000, 3, 30000, domain.EscrowStatusActive)

	f.risk.EXPECT().Score(gomock.Any(), gomock.Any()).Return(10, nil)
	f.ledger.EXPECT().Anchor(gomock.Any(), gomock.Any()).Return("", errors.New("ledger down"))

	payout, err := f.uc.ReleasePayout(context.Background(), release(3))
	require.NoError(t, err)
	assert.Nil(t, payout.AnchorHash)

	acc := f.account(t)
	assert.Equal(t, domain.EscrowStatusClosed, acc.Status)
	assert.True(t, acc.LockedAmount().IsZero())
	assert.Contains(t, f.repos.Outbox.EventTypes(), domain.EventTypeEscrowStatusChanged)
}
