package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/infrastructure/postgres/generated"
	"github.com/iho/chitledger/internal/usecase"
)

// EscrowRepository implements usecase.EscrowRepository.
type EscrowRepository struct {
	queries *generated.Queries
}

// NewEscrowRepository creates a new EscrowRepository.
func NewEscrowRepository(pool *pgxpool.Pool) *EscrowRepository {
	return newEscrowRepositoryWithDB(pool)
}

func newEscrowRepositoryWithDB(db generated.DBTX) *EscrowRepository {
	return &EscrowRepository{queries: generated.New(db)}
}

// CreateTx inserts the account unless the group already has one. A
// concurrent insert for the same group waits on the unique index and
// then does nothing.
func (r *EscrowRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.EscrowAccount) error {
	_, err := queriesFor(tx, r.queries).CreateEscrowAccount(ctx, generated.CreateEscrowAccountParams{
		ID:             account.ID,
		ChitGroupID:    account.ChitGroupID,
		Currency:       account.Currency,
		TotalCollected: decimalToNumeric(account.TotalCollected),
		TotalReleased:  decimalToNumeric(account.TotalReleased),
		Status:         string(account.Status),
		FreezeReason:   account.FreezeReason,
		Version:        account.Version,
		CreatedAt:      timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(account.UpdatedAt),
	})

	return err
}

// GetByID retrieves an account by ID.
func (r *EscrowRepository) GetByID(ctx context.Context, id string) (*domain.EscrowAccount, error) {
	return escrowOrNotFound(r.queries.GetEscrowAccountByID(ctx, id))
}

// GetByGroupID retrieves the account of a chit group.
func (r *EscrowRepository) GetByGroupID(ctx context.Context, groupID string) (*domain.EscrowAccount, error) {
	return escrowOrNotFound(r.queries.GetEscrowAccountByGroupID(ctx, groupID))
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *EscrowRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.EscrowAccount, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	return escrowOrNotFound(queries.GetEscrowAccountByIDForUpdate(ctx, id))
}

// GetByGroupIDForUpdate retrieves the account of a chit group with a FOR UPDATE lock.
func (r *EscrowRepository) GetByGroupIDForUpdate(ctx context.Context, tx usecase.Transaction, groupID string) (*domain.EscrowAccount, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	return escrowOrNotFound(queries.GetEscrowAccountByGroupIDForUpdate(ctx, groupID))
}

// UpdateTotals writes both running totals and bumps the version.
func (r *EscrowRepository) UpdateTotals(ctx context.Context, tx usecase.Transaction, id string, collected, released decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	return queries.UpdateEscrowTotals(ctx, generated.UpdateEscrowTotalsParams{
		ID:             id,
		TotalCollected: decimalToNumeric(collected),
		TotalReleased:  decimalToNumeric(released),
		UpdatedAt:      timeToPgTimestamptz(updatedAt),
	})
}

// UpdateStatus sets the status. frozen_at is stamped only when freezing.
func (r *EscrowRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.EscrowStatus, reason string, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	return queries.UpdateEscrowStatus(ctx, generated.UpdateEscrowStatusParams{
		ID:           id,
		Status:       string(status),
		FreezeReason: reason,
		UpdatedAt:    timeToPgTimestamptz(updatedAt),
	})
}

// List lists accounts with pagination.
func (r *EscrowRepository) List(ctx context.Context, limit, offset int) ([]*domain.EscrowAccount, error) {
	rows, err := r.queries.ListEscrowAccounts(ctx, generated.ListEscrowAccountsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.EscrowAccount, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToEscrowAccount(row))
	}

	return accounts, nil
}

func escrowOrNotFound(row generated.EscrowAccount, err error) (*domain.EscrowAccount, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToEscrowAccount(row), nil
}

func rowToEscrowAccount(row generated.EscrowAccount) *domain.EscrowAccount {
	return &domain.EscrowAccount{
		ID:             row.ID,
		ChitGroupID:    row.ChitGroupID,
		Currency:       row.Currency,
		TotalCollected: numericToDecimal(row.TotalCollected),
		TotalReleased:  numericToDecimal(row.TotalReleased),
		Status:         domain.EscrowStatus(row.Status),
		FreezeReason:   row.FreezeReason,
		FrozenAt:       pgTimestamptzToPtr(row.FrozenAt),
		Version:        row.Version,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}
