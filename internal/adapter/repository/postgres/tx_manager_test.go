package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
)

var readCommitted = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

func TestTxManagerBeginSetsLockTimeout(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBeginTx(readCommitted)
	mockPool.ExpectExec("SET LOCAL lock_timeout = '3000ms'").WillReturnResult(pgxmock.NewResult("SET", 0))
	mockPool.ExpectCommit()

	manager := newTxManagerWithPool(mockPool, 3*time.Second)
	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestTxManagerWithoutLockTimeout(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBeginTx(readCommitted)
	mockPool.ExpectRollback()

	manager := newTxManagerWithPool(mockPool, 0)
	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := tx.Rollback(context.Background()); err != nil {
		t.Fatalf("rollback failed: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestTxManagerBeginError(t *testing.T) {
	mockPool := newMockPool(t)
	mockErr := errors.New("too many connections")
	mockPool.ExpectBeginTx(readCommitted).WillReturnError(mockErr)

	manager := newTxManagerWithPool(mockPool, DefaultLockTimeout)
	tx, err := manager.Begin(context.Background())
	if !errors.Is(err, mockErr) {
		t.Fatalf("expected begin error, got err=%v tx=%v", err, tx)
	}
}

func TestTxManagerLockTimeoutFailureRollsBack(t *testing.T) {
	mockPool := newMockPool(t)
	mockErr := errors.New("connection reset")
	mockPool.ExpectBeginTx(readCommitted)
	mockPool.ExpectExec("SET LOCAL lock_timeout").WillReturnError(mockErr)
	mockPool.ExpectRollback()

	manager := newTxManagerWithPool(mockPool, time.Second)
	if _, err := manager.Begin(context.Background()); !errors.Is(err, mockErr) {
		t.Fatalf("expected lock timeout error, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func assertExpectations(t *testing.T, pool pgxmock.PgxPoolIface) {
	t.Helper()
	if err := pool.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}
