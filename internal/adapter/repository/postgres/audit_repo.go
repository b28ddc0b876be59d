package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/infrastructure/postgres/generated"
	"github.com/iho/chitledger/internal/usecase"
)

const defaultAuditPageSize = 100

// AuditRepository implements audit log persistence
type AuditRepository struct {
	queries *generated.Queries
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return newAuditRepositoryWithDB(pool)
}

func newAuditRepositoryWithDB(db generated.DBTX) *AuditRepository {
	return &AuditRepository{queries: generated.New(db)}
}

// Create inserts an audit entry outside any transaction. Used for
// decisions that change no ledger state, such as a blocked payout.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	return r.insert(ctx, r.queries, log)
}

// CreateTx inserts an audit entry in the same transaction as the change it records.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	return r.insert(ctx, queriesFor(tx, r.queries), log)
}

func (r *AuditRepository) insert(ctx context.Context, queries *generated.Queries, log *domain.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	beforeState, err := marshalState(log.BeforeState)
	if err != nil {
		return err
	}

	afterState, err := marshalState(log.AfterState)
	if err != nil {
		return err
	}

	return queries.CreateAuditLog(ctx, generated.CreateAuditLogParams{
		ID:           log.ID,
		UserID:       log.UserID,
		Action:       log.Action,
		ResourceType: log.ResourceType,
		ResourceID:   log.ResourceID,
		RequestID:    log.RequestID,
		BeforeState:  beforeState,
		AfterState:   afterState,
		Status:       log.Status,
		ErrorMessage: log.ErrorMessage,
		CreatedAt:    timeToPgTimestamptz(log.CreatedAt),
	})
}

// List retrieves audit logs with filtering, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultAuditPageSize
	}

	rows, err := r.queries.ListAuditLogs(ctx, generated.ListAuditLogsParams{
		UserID:       filter.UserID,
		Action:       filter.Action,
		ResourceType: filter.ResourceType,
		ResourceID:   filter.ResourceID,
		StartDate:    optionalTimestamptz(filter.StartDate),
		EndDate:      optionalTimestamptz(filter.EndDate),
		Limit:        int32(limit),
		Offset:       int32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}

	logs := make([]*domain.AuditLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, rowToAuditLog(row))
	}

	return logs, nil
}

func marshalState(state domain.JSON) ([]byte, error) {
	if state == nil {
		return nil, nil
	}

	return json.Marshal(state)
}

func rowToAuditLog(row generated.AuditLog) *domain.AuditLog {
	log := &domain.AuditLog{
		ID:           row.ID,
		UserID:       row.UserID,
		Action:       row.Action,
		ResourceType: row.ResourceType,
		ResourceID:   row.ResourceID,
		RequestID:    row.RequestID,
		Status:       row.Status,
		ErrorMessage: row.ErrorMessage,
		CreatedAt:    row.CreatedAt.Time,
	}

	if row.BeforeState != nil {
		_ = json.Unmarshal(row.BeforeState, &log.BeforeState)
	}
	if row.AfterState != nil {
		_ = json.Unmarshal(row.AfterState, &log.AfterState)
	}

	return log
}
