package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/infrastructure/postgres/generated"
	"github.com/iho/chitledger/internal/usecase"
)

// OutboxRepository stores domain events written alongside ledger changes.
type OutboxRepository struct {
	queries *generated.Queries
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return newOutboxRepositoryWithDB(pool)
}

func newOutboxRepositoryWithDB(db generated.DBTX) *OutboxRepository {
	return &OutboxRepository{queries: generated.New(db)}
}

// Create records event in the same transaction as the ledger change that
// produced it.
func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event.EventType, err)
	}

	err = queriesFor(tx, r.queries).CreateOutboxEvent(ctx, generated.CreateOutboxEventParams{
		ID:            event.ID,
		AggregateID:   event.AggregateID,
		AggregateType: event.AggregateType,
		EventType:     event.EventType,
		Payload:       payload,
		CreatedAt:     timeToPgTimestamptz(event.CreatedAt),
	})
	if err != nil {
		return fmt.Errorf("insert outbox event %s: %w", event.EventType, err)
	}
	return nil
}

// GetUnpublished returns up to limit pending events, oldest first.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	rows, err := r.queries.GetUnpublishedOutboxEvents(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("list unpublished events: %w", err)
	}

	events := make([]*domain.OutboxEvent, 0, len(rows))
	for _, row := range rows {
		event, err := rowToOutboxEvent(row)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	err := r.queries.MarkOutboxEventPublished(ctx, generated.MarkOutboxEventPublishedParams{
		ID:          id,
		PublishedAt: timeToPgTimestamptz(publishedAt),
	})
	if err != nil {
		return fmt.Errorf("mark event %s published: %w", id, err)
	}
	return nil
}

// DeletePublished purges delivered events published before the cutoff.
// Ledger and audit tables are never purged.
func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if err := r.queries.DeletePublishedOutboxEvents(ctx, timeToPgTimestamptz(before)); err != nil {
		return fmt.Errorf("purge published events: %w", err)
	}
	return nil
}

func rowToOutboxEvent(row generated.OutboxEvent) (*domain.OutboxEvent, error) {
	var payload map[string]any
	if len(row.Payload) > 0 {
		if err := json.Unmarshal(row.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decode event %s payload: %w", row.ID, err)
		}
	}

	return &domain.OutboxEvent{
		ID:            row.ID,
		AggregateID:   row.AggregateID,
		AggregateType: row.AggregateType,
		EventType:     row.EventType,
		Payload:       payload,
		CreatedAt:     row.CreatedAt.Time,
		PublishedAt:   pgTimestamptzToPtr(row.PublishedAt),
		Published:     row.Published,
	}, nil
}
