package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/infrastructure/postgres/generated"
	"github.com/iho/chitledger/internal/usecase"
)

const payoutCycleConstraint = "payouts_account_cycle_unique"

// PayoutRepository implements usecase.PayoutRepository.
type PayoutRepository struct {
	queries *generated.Queries
}

// NewPayoutRepository creates a new PayoutRepository.
func NewPayoutRepository(pool *pgxpool.Pool) *PayoutRepository {
	return newPayoutRepositoryWithDB(pool)
}

func newPayoutRepositoryWithDB(db generated.DBTX) *PayoutRepository {
	return &PayoutRepository{queries: generated.New(db)}
}

// Create inserts a payout. A second payout for the same cycle is rejected
// by the unique constraint.
func (r *PayoutRepository) Create(ctx context.Context, tx usecase.Transaction, p *domain.Payout) error {
	err := queriesFor(tx, r.queries).CreatePayout(ctx, generated.CreatePayoutParams{
		ID:              p.ID,
		EscrowAccountID: p.EscrowAccountID,
		WinnerUserID:    p.WinnerUserID,
		CycleMonth:      int32(p.CycleMonth),
		GrossPoolAmount: decimalToNumeric(p.GrossPoolAmount),
		CommissionAmt:   decimalToNumeric(p.CommissionAmt),
		NetPayoutAmount: decimalToNumeric(p.NetPayoutAmount),
		RiskScore:       int32(p.RiskScore),
		CreatedAt:       timeToPgTimestamptz(p.CreatedAt),
	})
	if isUniqueViolation(err, payoutCycleConstraint) {
		return domain.ErrPayoutAlreadyReleased
	}

	return err
}

// GetByID retrieves a payout by ID.
func (r *PayoutRepository) GetByID(ctx context.Context, id string) (*domain.Payout, error) {
	return payoutOrNotFound(r.queries.GetPayoutByID(ctx, id))
}

// GetByCycle retrieves the payout of an account's cycle.
func (r *PayoutRepository) GetByCycle(ctx context.Context, accountID string, cycleMonth int) (*domain.Payout, error) {
	return payoutOrNotFound(r.queries.GetPayoutByCycle(ctx, generated.GetPayoutByCycleParams{
		EscrowAccountID: accountID,
		CycleMonth:      int32(cycleMonth),
	}))
}

// SetAnchorHash fills the anchor hash once.
func (r *PayoutRepository) SetAnchorHash(ctx context.Context, id, hash string, anchoredAt time.Time) error {
	return r.queries.SetPayoutAnchorHash(ctx, generated.SetPayoutAnchorHashParams{
		ID:         id,
		AnchorHash: pgtype.Text{String: hash, Valid: true},
		AnchoredAt: timeToPgTimestamptz(anchoredAt),
	})
}

// ListByAccount lists an account's payouts in cycle order.
func (r *PayoutRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Payout, error) {
	return rowsToPayouts(r.queries.ListPayoutsByAccount(ctx, generated.ListPayoutsByAccountParams{
		EscrowAccountID: accountID,
		Limit:           int32(limit),
		Offset:          int32(offset),
	}))
}

// ListUnanchored lists payouts still waiting for an anchor hash.
func (r *PayoutRepository) ListUnanchored(ctx context.Context, limit int) ([]*domain.Payout, error) {
	return rowsToPayouts(r.queries.ListUnanchoredPayouts(ctx, int32(limit)))
}

// SumGross totals the gross amounts released from an account.
func (r *PayoutRepository) SumGross(ctx context.Context, accountID string) (decimal.Decimal, error) {
	total, err := r.queries.SumPayoutGross(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

func payoutOrNotFound(row generated.Payout, err error) (*domain.Payout, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPayoutNotFound
		}

		return nil, err
	}

	return rowToPayout(row), nil
}

func rowsToPayouts(rows []generated.Payout, err error) ([]*domain.Payout, error) {
	if err != nil {
		return nil, err
	}

	payouts := make([]*domain.Payout, 0, len(rows))
	for _, row := range rows {
		payouts = append(payouts, rowToPayout(row))
	}

	return payouts, nil
}

func rowToPayout(row generated.Payout) *domain.Payout {
	return &domain.Payout{
		ID:              row.ID,
		EscrowAccountID: row.EscrowAccountID,
		WinnerUserID:    row.WinnerUserID,
		CycleMonth:      int(row.CycleMonth),
		GrossPoolAmount: numericToDecimal(row.GrossPoolAmount),
		CommissionAmt:   numericToDecimal(row.CommissionAmt),
		NetPayoutAmount: numericToDecimal(row.NetPayoutAmount),
		RiskScore:       int(row.RiskScore),
		AnchorHash:      pgTextToPtr(row.AnchorHash),
		AnchoredAt:      pgTimestamptzToPtr(row.AnchoredAt),
		CreatedAt:       row.CreatedAt.Time,
	}
}
