package usecase

import (
	"context"
)

// Store bundles the storage dependencies shared by the use cases.
type Store struct {
	TxManager     TransactionManager
	Retrier       Retrier
	Escrows       EscrowRepository
	Groups        GroupRepository
	Contributions ContributionRepository
	Payouts       PayoutRepository
	Outbox        OutboxRepository
	Audit         AuditRepository
	IDGen         IDGenerator
	Cache         Cache
}

func (s Store) journal() journal {
	return journal{outboxRepo: s.Outbox, auditRepo: s.Audit, idGen: s.IDGen}
}

func (s Store) balances() balanceCache {
	return balanceCache{cache: s.Cache}
}

// inTx runs fn inside a transaction bounded by DefaultTransactionTimeout.
// Row locks taken by fn are released on return. fn must not call external
// services. Deadlocks and serialization failures re-run the whole closure.
func (s Store) inTx(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error {
	run := func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := s.TxManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		if err := fn(txCtx, tx); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	}

	if s.Retrier == nil {
		return run()
	}
	return s.Retrier.Retry(ctx, run)
}
