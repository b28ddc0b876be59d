package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/iho/chitledger/internal/domain"
)

// journal writes the outbox event and audit entry that accompany every
// state change, inside the same transaction.
type journal struct {
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
}

func (j journal) emit(ctx context.Context, tx Transaction, aggregateType, aggregateID, eventType string, payload map[string]any, now time.Time) error {
	if j.outboxRepo == nil {
		return nil
	}

	return j.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            j.idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     now,
		Published:     false,
	})
}

type auditEntry struct {
	action       domain.AuditAction
	resourceType string
	resourceID   string
	before       any
	after        any
	status       domain.AuditStatus
	message      string
}

func (j journal) newLog(ctx context.Context, e auditEntry) *domain.AuditLog {
	log := &domain.AuditLog{
		ID:           j.idGen.Generate(),
		UserID:       domain.ActorFromContext(ctx),
		Action:       string(e.action),
		ResourceType: e.resourceType,
		ResourceID:   e.resourceID,
		RequestID:    middleware.GetReqID(ctx),
		Status:       string(e.status),
		ErrorMessage: e.message,
		CreatedAt:    time.Now().UTC(),
	}
	if e.before != nil {
		log.BeforeState = domain.MarshalState(e.before)
	}
	if e.after != nil {
		log.AfterState = domain.MarshalState(e.after)
	}
	return log
}

// auditTx persists an audit entry as part of tx.
func (j journal) auditTx(ctx context.Context, tx Transaction, e auditEntry) error {
	if j.auditRepo == nil {
		return nil
	}
	return j.auditRepo.CreateTx(ctx, tx, j.newLog(ctx, e))
}

// audit persists an audit entry outside any transaction.
func (j journal) audit(ctx context.Context, e auditEntry) error {
	if j.auditRepo == nil {
		return nil
	}
	return j.auditRepo.Create(ctx, j.newLog(ctx, e))
}

// balanceCache keeps short-lived balance snapshots; every mutation
// invalidates after commit so reads never outlive a change by more than
// the invalidation round trip.
type balanceCache struct {
	cache Cache
}

func balanceKey(accountID string) string {
	return "escrow:balance:" + accountID
}

func (b balanceCache) get(ctx context.Context, accountID string) (*domain.EscrowAccount, bool) {
	if b.cache == nil {
		return nil, false
	}
	raw, err := b.cache.Get(ctx, balanceKey(accountID))
	if err != nil || raw == "" {
		return nil, false
	}
	var account domain.EscrowAccount
	if err := json.Unmarshal([]byte(raw), &account); err != nil {
		return nil, false
	}
	return &account, true
}

func (b balanceCache) put(ctx context.Context, account *domain.EscrowAccount) {
	if b.cache == nil {
		return
	}
	data, err := json.Marshal(account)
	if err != nil {
		return
	}
	_ = b.cache.Set(ctx, balanceKey(account.ID), string(data), BalanceCacheTTL)
}

func (b balanceCache) invalidate(ctx context.Context, accountID string) {
	if b.cache == nil {
		return
	}
	_ = b.cache.Delete(ctx, balanceKey(accountID))
}
