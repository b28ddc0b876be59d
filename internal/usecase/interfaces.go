package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/chitledger/internal/domain"
)

// EscrowRepository defines data access for escrow accounts.
type EscrowRepository interface {
	CreateTx(ctx context.Context, tx Transaction, account *domain.EscrowAccount) error
	GetByID(ctx context.Context, id string) (*domain.EscrowAccount, error)
	GetByGroupID(ctx context.Context, groupID string) (*domain.EscrowAccount, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.EscrowAccount, error)
	GetByGroupIDForUpdate(ctx context.Context, tx Transaction, groupID string) (*domain.EscrowAccount, error)
	UpdateTotals(ctx context.Context, tx Transaction, id string, collected, released decimal.Decimal, updatedAt time.Time) error
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.EscrowStatus, reason string, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.EscrowAccount, error)
}

// GroupRepository defines data access for chit group payout rules.
type GroupRepository interface {
	UpsertTx(ctx context.Context, tx Transaction, group *domain.ChitGroup) error
	GetByID(ctx context.Context, id string) (*domain.ChitGroup, error)
}

// ContributionRepository defines data access for the append-only contribution ledger.
type ContributionRepository interface {
	Create(ctx context.Context, tx Transaction, contribution *domain.Contribution) error
	GetByID(ctx context.Context, id string) (*domain.Contribution, error)
	GetByGatewayOrderID(ctx context.Context, orderID string) (*domain.Contribution, error)
	GetByGatewayOrderIDForUpdate(ctx context.Context, tx Transaction, orderID string) (*domain.Contribution, error)
	MarkSettled(ctx context.Context, tx Transaction, c *domain.Contribution) error
	SetAnchorHash(ctx context.Context, id, hash string, anchoredAt time.Time) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Contribution, error)
	ListStaleInitiated(ctx context.Context, before time.Time, limit int) ([]*domain.Contribution, error)
	ListUnanchored(ctx context.Context, limit int) ([]*domain.Contribution, error)
	SumConfirmed(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// PayoutRepository defines data access for payouts.
type PayoutRepository interface {
	Create(ctx context.Context, tx Transaction, payout *domain.Payout) error
	GetByID(ctx context.Context, id string) (*domain.Payout, error)
	GetByCycle(ctx context.Context, accountID string, cycleMonth int) (*domain.Payout, error)
	SetAnchorHash(ctx context.Context, id, hash string, anchoredAt time.Time) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Payout, error)
	ListUnanchored(ctx context.Context, limit int) ([]*domain.Payout, error)
	SumGross(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not complete, so it can be retried.
	Release(ctx context.Context, key string) error
}

// GatewayOrder is what the payment gateway returns for a new order.
type GatewayOrder struct {
	OrderID  string
	Amount   decimal.Decimal
	Currency string
}

// PaymentGateway is the external payment processor.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency string) (*GatewayOrder, error)
	VerifyPayment(ctx context.Context, orderID, paymentRef string) (bool, error)
}

// RiskContext is what the risk scorer sees for a candidate release.
type RiskContext struct {
	WinnerUserID    string
	EscrowAccountID string
	GrossPoolAmount decimal.Decimal
	CycleMonth      int
}

// RiskScorer returns a score in [0, 100]; higher is riskier.
type RiskScorer interface {
	Score(ctx context.Context, rc RiskContext) (int, error)
}

// AnchoringLedger records a settled transaction fingerprint externally.
type AnchoringLedger interface {
	Anchor(ctx context.Context, summary domain.AnchorSummary) (string, error)
}

// IdentityVerifier answers whether a member passed KYC.
type IdentityVerifier interface {
	IsVerified(ctx context.Context, userID string) (bool, error)
}
