package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/infrastructure/postgres/generated"
	"github.com/iho/chitledger/internal/usecase"
)

// GroupRepository implements usecase.GroupRepository.
type GroupRepository struct {
	queries *generated.Queries
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return newGroupRepositoryWithDB(pool)
}

func newGroupRepositoryWithDB(db generated.DBTX) *GroupRepository {
	return &GroupRepository{queries: generated.New(db)}
}

// UpsertTx stores the group's payout rules, keeping the original created_at.
func (r *GroupRepository) UpsertTx(ctx context.Context, tx usecase.Transaction, group *domain.ChitGroup) error {
	return queriesFor(tx, r.queries).UpsertChitGroup(ctx, generated.UpsertChitGroupParams{
		ID:                group.ID,
		TotalChitAmount:   decimalToNumeric(group.TotalChitAmount),
		DurationMonths:    int32(group.DurationMonths),
		NumberOfMembers:   int32(group.NumberOfMembers),
		CommissionRatePct: decimalToNumeric(group.CommissionRatePct),
		InterestRatePct:   decimalToNumeric(group.InterestRatePct),
		Currency:          group.Currency,
		MinAmount:         decimalToNumeric(group.Limits.MinAmount),
		MaxAmount:         decimalToNumeric(group.Limits.MaxAmount),
		MinMonths:         int32(group.Limits.MinMonths),
		MaxMonths:         int32(group.Limits.MaxMonths),
		MaxMembers:        int32(group.Limits.MaxMembers),
		CreatedAt:         timeToPgTimestamptz(group.CreatedAt),
		UpdatedAt:         timeToPgTimestamptz(group.UpdatedAt),
	})
}

// GetByID retrieves a group by ID.
func (r *GroupRepository) GetByID(ctx context.Context, id string) (*domain.ChitGroup, error) {
	row, err := r.queries.GetChitGroupByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}

		return nil, err
	}

	return rowToChitGroup(row), nil
}

func rowToChitGroup(row generated.ChitGroup) *domain.ChitGroup {
	return &domain.ChitGroup{
		ID:                row.ID,
		TotalChitAmount:   numericToDecimal(row.TotalChitAmount),
		DurationMonths:    int(row.DurationMonths),
		NumberOfMembers:   int(row.NumberOfMembers),
		CommissionRatePct: numericToDecimal(row.CommissionRatePct),
		InterestRatePct:   numericToDecimal(row.InterestRatePct),
		Currency:          row.Currency,
		Limits: domain.GroupLimits{
			MinAmount:  numericToDecimal(row.MinAmount),
			MaxAmount:  numericToDecimal(row.MaxAmount),
			MinMonths:  int(row.MinMonths),
			MaxMonths:  int(row.MaxMonths),
			MaxMembers: int(row.MaxMembers),
		},
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
