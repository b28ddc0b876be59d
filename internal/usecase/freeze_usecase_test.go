package usecase_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/usecase"
	"github.com/iho/chitledger/internal/usecase/mocks"
)

func TestFreezeUseCase_FreezeBlocksDebitOnly(t *testing.T) {
	store, repos := mocks.NewStore()
	repos.Escrows.Seed(&domain.EscrowAccount{
		ID:             "acc-1",
		ChitGroupID:    "grp-1",
		TotalCollected: decimal.NewFromInt(1000),
		TotalReleased:  decimal.Zero,
		Status:         domain.EscrowStatusActive,
	})
	freeze := usecase.NewFreezeUseCase(store, nil, zerolog.Nop())
	escrow := usecase.NewEscrowUseCase(store, nil, "INR")
	ctx := context.Background()

	acc, err := freeze.Freeze(ctx, "acc-1", "suspected fraud on cycle 3")
	require.NoError(t, err)
	assert.Equal(t, domain.EscrowStatusFrozen, acc.Status)
	assert.Equal(t, "suspected fraud on cycle 3", acc.FreezeReason)
	assert.NotNil(t, acc.FrozenAt)

	_, err = escrow.Debit(ctx, "acc-1", decimal.NewFromInt(100))
	assert.ErrorIs(t, err, domain.ErrAccountNotActive)

	_, err = escrow.Credit(ctx, "acc-1", decimal.NewFromInt(100))
	require.NoError(t, err)

	stored, err := repos.Escrows.GetByID(ctx, "acc-1")
	require.NoError(t, err)
	assert.True(t, stored.TotalCollected.Equal(decimal.NewFromInt(1100)))
	assert.True(t, stored.TotalReleased.IsZero())

	acc, err = freeze.Unfreeze(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.EscrowStatusActive, acc.Status)
	assert.Empty(t, acc.FreezeReason)

	_, err = escrow.Debit(ctx, "acc-1", decimal.NewFromInt(100))
	require.NoError(t, err)
}

func TestFreezeUseCase_Idempotent(t *testing.T) {
	store, repos := mocks.NewStore()
	repos.Escrows.Seed(&domain.EscrowAccount{ID: "acc-1", ChitGroupID: "grp-1", Status: domain.EscrowStatusActive})
	uc := usecase.NewFreezeUseCase(store, nil, zerolog.Nop())
	ctx := context.Background()

	first, err := uc.Freeze(ctx, "acc-1", "review")
	require.NoError(t, err)
	second, err := uc.Freeze(ctx, "acc-1", "another reason")
	require.NoError(t, err)

	assert.Equal(t, domain.EscrowStatusFrozen, second.Status)
	assert.Equal(t, first.FreezeReason, second.FreezeReason)

	_, err = uc.Unfreeze(ctx, "acc-1")
	require.NoError(t, err)
	_, err = uc.Unfreeze(ctx, "acc-1")
	require.NoError(t, err)

	changes := 0
	for _, et := range repos.Outbox.EventTypes() {
		if et == domain.EventTypeEscrowStatusChanged {
			changes++
		}
	}
	assert.Equal(t, 2, changes)
}

func TestFreezeUseCase_Rejections(t *testing.T) {
	store, repos := mocks.NewStore()
	repos.Escrows.Seed(&domain.EscrowAccount{ID: "acc-closed", ChitGroupID: "grp-1", Status: domain.EscrowStatusClosed})
	repos.Escrows.Seed(&domain.EscrowAccount{ID: "acc-open", ChitGroupID: "grp-2", Status: domain.EscrowStatusActive})
	uc := usecase.NewFreezeUseCase(store, nil, zerolog.Nop())
	ctx := context.Background()

	_, err := uc.Freeze(ctx, "acc-closed", "review")
	assert.ErrorIs(t, err, domain.ErrAccountClosed)

	_, err = uc.Unfreeze(ctx, "acc-closed")
	assert.ErrorIs(t, err, domain.ErrAccountClosed)

	_, err = uc.Freeze(ctx, "acc-open", "   ")
	assert.ErrorIs(t, err, domain.ErrReasonRequired)

	_, err = uc.Freeze(ctx, "acc-missing", "review")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}
