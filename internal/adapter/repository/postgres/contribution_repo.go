package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/infrastructure/postgres/generated"
	"github.com/iho/chitledger/internal/usecase"
)

// ContributionRepository implements usecase.ContributionRepository.
type ContributionRepository struct {
	queries *generated.Queries
}

// NewContributionRepository creates a new ContributionRepository.
func NewContributionRepository(pool *pgxpool.Pool) *ContributionRepository {
	return newContributionRepositoryWithDB(pool)
}

func newContributionRepositoryWithDB(db generated.DBTX) *ContributionRepository {
	return &ContributionRepository{queries: generated.New(db)}
}

// Create inserts a new INITIATED contribution.
func (r *ContributionRepository) Create(ctx context.Context, tx usecase.Transaction, c *domain.Contribution) error {
	err := queriesFor(tx, r.queries).CreateContribution(ctx, generated.CreateContributionParams{
		ID:                c.ID,
		EscrowAccountID:   c.EscrowAccountID,
		UserID:            c.UserID,
		Amount:            decimalToNumeric(c.Amount),
		Currency:          c.Currency,
		GatewayOrderID:    c.GatewayOrderID,
		GatewayPaymentRef: c.GatewayPaymentRef,
		Status:            string(c.Status),
		FailureReason:     c.FailureReason,
		CreatedAt:         timeToPgTimestamptz(c.CreatedAt),
		UpdatedAt:         timeToPgTimestamptz(c.UpdatedAt),
	})
	if isUniqueViolation(err, "contributions_gateway_order_id_key") {
		return fmt.Errorf("duplicate gateway order %s: %w", c.GatewayOrderID, err)
	}

	return err
}

// GetByID retrieves a contribution by ID.
func (r *ContributionRepository) GetByID(ctx context.Context, id string) (*domain.Contribution, error) {
	return contributionOrNotFound(r.queries.GetContributionByID(ctx, id))
}

// GetByGatewayOrderID retrieves a contribution by its gateway order.
func (r *ContributionRepository) GetByGatewayOrderID(ctx context.Context, orderID string) (*domain.Contribution, error) {
	return contributionOrNotFound(r.queries.GetContributionByGatewayOrderID(ctx, orderID))
}

// GetByGatewayOrderIDForUpdate locks the contribution row for settlement.
func (r *ContributionRepository) GetByGatewayOrderIDForUpdate(ctx context.Context, tx usecase.Transaction, orderID string) (*domain.Contribution, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	return contributionOrNotFound(queries.GetContributionByGatewayOrderIDForUpdate(ctx, orderID))
}

// MarkSettled moves a pending contribution to its terminal status.
func (r *ContributionRepository) MarkSettled(ctx context.Context, tx usecase.Transaction, c *domain.Contribution) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	n, err := queries.MarkContributionSettled(ctx, generated.MarkContributionSettledParams{
		ID:                c.ID,
		Status:            string(c.Status),
		GatewayPaymentRef: c.GatewayPaymentRef,
		FailureReason:     c.FailureReason,
		SettledAt:         optionalTimestamptz(c.SettledAt),
		UpdatedAt:         timeToPgTimestamptz(c.UpdatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("contribution %s is no longer pending: %w", c.ID, domain.ErrInvalidStatusTransition)
	}

	return nil
}

// SetAnchorHash fills the anchor hash once.
func (r *ContributionRepository) SetAnchorHash(ctx context.Context, id, hash string, anchoredAt time.Time) error {
	return r.queries.SetContributionAnchorHash(ctx, generated.SetContributionAnchorHashParams{
		ID:         id,
		AnchorHash: pgtype.Text{String: hash, Valid: true},
		AnchoredAt: timeToPgTimestamptz(anchoredAt),
	})
}

// ListByAccount lists an account's contributions, newest first.
func (r *ContributionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Contribution, error) {
	return rowsToContributions(r.queries.ListContributionsByAccount(ctx, generated.ListContributionsByAccountParams{
		EscrowAccountID: accountID,
		Limit:           int32(limit),
		Offset:          int32(offset),
	}))
}

// ListStaleInitiated lists INITIATED contributions created before the cutoff.
func (r *ContributionRepository) ListStaleInitiated(ctx context.Context, before time.Time, limit int) ([]*domain.Contribution, error) {
	return rowsToContributions(r.queries.ListStaleInitiatedContributions(ctx, generated.ListStaleInitiatedContributionsParams{
		CreatedAt: timeToPgTimestamptz(before),
		Limit:     int32(limit),
	}))
}

// ListUnanchored lists CONFIRMED contributions still waiting for an anchor hash.
func (r *ContributionRepository) ListUnanchored(ctx context.Context, limit int) ([]*domain.Contribution, error) {
	return rowsToContributions(r.queries.ListUnanchoredContributions(ctx, int32(limit)))
}

// SumConfirmed totals the CONFIRMED contributions of an account.
func (r *ContributionRepository) SumConfirmed(ctx context.Context, accountID string) (decimal.Decimal, error) {
	total, err := r.queries.SumConfirmedContributions(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

func contributionOrNotFound(row generated.Contribution, err error) (*domain.Contribution, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrContributionNotFound
		}

		return nil, err
	}

	return rowToContribution(row), nil
}

func rowsToContributions(rows []generated.Contribution, err error) ([]*domain.Contribution, error) {
	if err != nil {
		return nil, err
	}

	contributions := make([]*domain.Contribution, 0, len(rows))
	for _, row := range rows {
		contributions = append(contributions, rowToContribution(row))
	}

	return contributions, nil
}

func rowToContribution(row generated.Contribution) *domain.Contribution {
	return &domain.Contribution{
		ID:                row.ID,
		EscrowAccountID:   row.EscrowAccountID,
		UserID:            row.UserID,
		Amount:            numericToDecimal(row.Amount),
		Currency:          row.Currency,
		GatewayOrderID:    row.GatewayOrderID,
		GatewayPaymentRef: row.GatewayPaymentRef,
		Status:            domain.ContributionStatus(row.Status),
		FailureReason:     row.FailureReason,
		AnchorHash:        pgTextToPtr(row.AnchorHash),
		SettledAt:         pgTimestamptzToPtr(row.SettledAt),
		AnchoredAt:        pgTimestamptzToPtr(row.AnchoredAt),
		CreatedAt:         row.CreatedAt.Time,
		UpdatedAt:         row.UpdatedAt.Time,
	}
}
