package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRejectsBadSpecAndDuplicates(t *testing.T) {
	s := New(zerolog.Nop(), 0)

	err := s.Add("bad", "every now and then", func(context.Context) error { return nil })
	require.Error(t, err)

	require.NoError(t, s.Add("sweep", "@every 5m", func(context.Context) error { return nil }))
	assert.Error(t, s.Add("sweep", "@every 1m", func(context.Context) error { return nil }))

	assert.Equal(t, map[string]string{"sweep": "@every 5m"}, s.Jobs())
}

func TestRunNow(t *testing.T) {
	s := New(zerolog.Nop(), 0)
	calls := 0
	require.NoError(t, s.Add("anchor-retry", "@every 1m", func(context.Context) error {
		calls++
		return nil
	}))
	require.NoError(t, s.Add("failing", "@hourly", func(context.Context) error {
		return errors.New("boom")
	}))

	require.NoError(t, s.RunNow(context.Background(), "anchor-retry"))
	assert.Equal(t, 1, calls)

	assert.EqualError(t, s.RunNow(context.Background(), "failing"), "boom")
	assert.Error(t, s.RunNow(context.Background(), "missing"))
}

func TestRunNowAppliesTimeout(t *testing.T) {
	s := New(zerolog.Nop(), 10*time.Millisecond)
	require.NoError(t, s.Add("slow", "@hourly", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	err := s.RunNow(context.Background(), "slow")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStartStopsWithContext(t *testing.T) {
	s := New(zerolog.Nop(), 0)
	require.NoError(t, s.Add("noop", "@hourly", func(context.Context) error { return nil }))

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	select {
	case <-s.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
