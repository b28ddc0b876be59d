package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/chitledger/internal/adapter/collaborator/anchor"
	"github.com/iho/chitledger/internal/adapter/repository/postgres"
	"github.com/iho/chitledger/internal/domain"
	infrapg "github.com/iho/chitledger/internal/infrastructure/postgres"
	"github.com/iho/chitledger/internal/usecase"
	"github.com/iho/chitledger/internal/usecase/mocks"
)

const migrationsPath = "../../../infrastructure/postgres/migrations"

// newIntegrationStore connects to TEST_DATABASE_URL, migrates, and truncates
// every table. Tests skip when the variable is unset.
func newIntegrationStore(t *testing.T) (usecase.Store, *pgxpool.Pool) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	require.NoError(t, infrapg.RunMigrations(dbURL, migrationsPath, zerolog.Nop()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := infrapg.NewPool(ctx, dbURL, 20, 2)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE audit_logs, outbox_events, payouts, contributions, escrow_accounts, chit_groups`)
	require.NoError(t, err)

	return usecase.Store{
		TxManager:     postgres.NewTxManager(pool),
		Retrier:       postgres.NewRetrier(zerolog.Nop()),
		Escrows:       postgres.NewEscrowRepository(pool),
		Groups:        postgres.NewGroupRepository(pool),
		Contributions: postgres.NewContributionRepository(pool),
		Payouts:       postgres.NewPayoutRepository(pool),
		Outbox:        postgres.NewOutboxRepository(pool),
		Audit:         postgres.NewAuditRepository(pool),
		IDGen:         postgres.NewULIDGenerator(),
		Cache:         mocks.NewMockCache(),
	}, pool
}

type fakeGateway struct {
	seq atomic.Int64
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount decimal.Decimal, currency string) (*usecase.GatewayOrder, error) {
	return &usecase.GatewayOrder{
		OrderID:  fmt.Sprintf("order_%d", g.seq.Add(1)),
		Amount:   amount,
		Currency: currency,
	}, nil
}

func (g *fakeGateway) VerifyPayment(context.Context, string, string) (bool, error) {
	return true, nil
}

func openAccount(t *testing.T, store usecase.Store) *domain.EscrowAccount {
	t.Helper()
	acc, err := usecase.NewEscrowUseCase(store, nil, "INR").OpenAccount(context.Background(), usecase.OpenAccountInput{
		ChitGroupID:       "grp-int",
		TotalChitAmount:   decimal.NewFromInt(100000),
		DurationMonths:    12,
		NumberOfMembers:   10,
		CommissionRatePct: decimal.NewFromInt(5),
		InterestRatePct:   decimal.NewFromInt(12),
	})
	require.NoError(t, err)
	return acc
}

func TestIntegration_ConcurrentCreditDebit(t *testing.T) {
	store, _ := newIntegrationStore(t)
	ctx := context.Background()
	acc := openAccount(t, store)
	uc := usecase.NewEscrowUseCase(store, nil, "INR")

	var wg sync.WaitGroup
	var debits atomic.Int64
	for i := 0; i < 25; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := uc.Credit(ctx, acc.ID, decimal.NewFromInt(100))
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := uc.Debit(ctx, acc.ID, decimal.NewFromInt(150))
			if err == nil {
				debits.Add(1)
				return
			}
			assert.ErrorIs(t, err, domain.ErrInsufficientLockedFunds)
		}()
	}
	wg.Wait()

	got, err := store.Escrows.GetByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalCollected.Equal(decimal.NewFromInt(2500)), "collected %s", got.TotalCollected)
	assert.True(t, got.TotalReleased.Equal(decimal.NewFromInt(150*debits.Load())), "released %s", got.TotalReleased)
	assert.False(t, got.LockedAmount().IsNegative())
}

func TestIntegration_DuplicateConfirmCreditsOnce(t *testing.T) {
	store, _ := newIntegrationStore(t)
	ctx := context.Background()
	acc := openAccount(t, store)

	anchors := usecase.NewAnchorUseCase(anchor.NewHashChain(), store.Contributions, store.Payouts, usecase.AnchorOptions{}, nil, zerolog.Nop())
	settlement := usecase.NewSettlementUseCase(store, &fakeGateway{}, nil, anchors, usecase.SettlementOptions{}, nil, zerolog.Nop())

	c, err := settlement.InitiateContribution(ctx, usecase.InitiateContributionInput{
		ChitGroupID: "grp-int",
		UserID:      "user-1",
		Amount:      decimal.NewFromInt(10000),
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := settlement.ConfirmContribution(ctx, c.GatewayOrderID, "pay_1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.Escrows.GetByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalCollected.Equal(decimal.NewFromInt(10000)), "collected %s", got.TotalCollected)

	stored, err := store.Contributions.GetByGatewayOrderID(ctx, c.GatewayOrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.ContributionStatusConfirmed, stored.Status)
	assert.NotNil(t, stored.AnchorHash)
}

func TestIntegration_LedgerRowsAreAppendOnly(t *testing.T) {
	store, pool := newIntegrationStore(t)
	ctx := context.Background()
	acc := openAccount(t, store)

	_, err := pool.Exec(ctx, `
		INSERT INTO contributions (id, escrow_account_id, user_id, amount, currency, gateway_order_id, status)
		VALUES ('c-int', $1, 'user-1', 100, 'INR', 'order-int', 'INITIATED')`, acc.ID)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `DELETE FROM contributions WHERE id = 'c-int'`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append-only")

	_, err = pool.Exec(ctx, `UPDATE escrow_accounts SET total_released = total_collected + 1 WHERE id = $1`, acc.ID)
	require.Error(t, err, "locked amount must never go negative")
}
