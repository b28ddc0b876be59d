package eventpublisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/usecase"
)

func TestProcessEventsPublishesAndMarks(t *testing.T) {
	repo := &stubOutboxRepo{
		events: []*domain.OutboxEvent{{ID: "evt-1", EventType: domain.EventTypeContributionConfirmed}},
	}
	pub := &stubPublisher{}
	ep := newTestPublisher(repo, pub)

	if err := ep.processEvents(context.Background()); err != nil {
		t.Fatalf("processEvents failed: %v", err)
	}

	if len(pub.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(pub.published))
	}
	if len(repo.marked) != 1 || repo.marked[0] != "evt-1" {
		t.Fatalf("expected event to be marked published, got %#v", repo.marked)
	}
}

func TestProcessEventsContinuesOnPublishError(t *testing.T) {
	repo := &stubOutboxRepo{
		events: []*domain.OutboxEvent{
			{ID: "evt-1", EventType: domain.EventTypePayoutReleased},
			{ID: "evt-2", EventType: domain.EventTypePayoutReleased},
		},
	}
	pub := &stubPublisher{
		errorsByID: map[string]error{"evt-1": errors.New("fail")},
	}
	ep := newTestPublisher(repo, pub)

	if err := ep.processEvents(context.Background()); err != nil {
		t.Fatalf("processEvents returned error: %v", err)
	}

	if len(pub.published) != 1 || pub.published[0].ID != "evt-2" {
		t.Fatalf("expected only evt-2 to be published, got %#v", pub.published)
	}
	if len(repo.marked) != 1 || repo.marked[0] != "evt-2" {
		t.Fatalf("expected only evt-2 to be marked, got %#v", repo.marked)
	}
}

func TestProcessEventsReturnsFetchError(t *testing.T) {
	repo := &stubOutboxRepo{fetchErr: errors.New("db down")}
	ep := newTestPublisher(repo, &stubPublisher{})

	if err := ep.processEvents(context.Background()); err == nil {
		t.Fatalf("expected fetch error to surface")
	}
}

func TestPurgePublishedUsesRetention(t *testing.T) {
	repo := &stubOutboxRepo{}
	ep := newTestPublisher(repo, &stubPublisher{})
	fixed := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	ep.now = func() time.Time { return fixed }

	if err := ep.PurgePublished(context.Background(), 72*time.Hour); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if !repo.purgedBefore.Equal(fixed.Add(-72 * time.Hour)) {
		t.Fatalf("unexpected cutoff %s", repo.purgedBefore)
	}
}

func TestStartStopsOnContextCancellation(t *testing.T) {
	repo := &stubOutboxRepo{}
	pub := &stubPublisher{}
	ep := newTestPublisher(repo, pub)
	ep.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ep.Start(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("publisher did not stop after cancel")
	}
}

func TestKafkaPublisherKeysByAggregate(t *testing.T) {
	w := &stubWriter{}
	p := &KafkaPublisher{writer: w, topic: "chit.events"}

	event := &domain.OutboxEvent{
		ID:            "evt-9",
		AggregateID:   "acc-1",
		AggregateType: "escrow_account",
		EventType:     domain.EventTypePayoutReleased,
		Payload:       map[string]any{"cycle_month": 3},
		CreatedAt:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := p.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(w.msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(w.msgs))
	}
	msg := w.msgs[0]
	if msg.Topic != "chit.events" || string(msg.Key) != "acc-1" {
		t.Fatalf("unexpected routing: topic=%s key=%s", msg.Topic, msg.Key)
	}

	var env Envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.ID != "evt-9" || env.EventType != domain.EventTypePayoutReleased || env.Payload["cycle_month"] != float64(3) {
		t.Fatalf("unexpected envelope: %+v", env)
	}

	if err := p.Close(); err != nil || !w.closed {
		t.Fatalf("expected writer to close, err=%v", err)
	}
}

func TestNewKafkaPublisherValidates(t *testing.T) {
	if _, err := NewKafkaPublisher(nil, "topic"); err == nil {
		t.Fatalf("expected error without brokers")
	}
	if _, err := NewKafkaPublisher([]string{"localhost:9092"}, ""); err == nil {
		t.Fatalf("expected error without topic")
	}
}

func newTestPublisher(repo *stubOutboxRepo, pub *stubPublisher) *EventPublisher {
	return NewEventPublisher(Config{
		OutboxRepo: repo,
		Publisher:  pub,
		Logger:     zerolog.Nop(),
		BatchSize:  10,
		Interval:   5 * time.Millisecond,
	})
}

type stubOutboxRepo struct {
	events   []*domain.OutboxEvent
	marked       []string
	fetchErr     error
	purgedBefore time.Time
}

func (s *stubOutboxRepo) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	return nil
}

func (s *stubOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	if len(s.events) <= limit {
		return append([]*domain.OutboxEvent(nil), s.events...), nil
	}
	return append([]*domain.OutboxEvent(nil), s.events[:limit]...), nil
}

func (s *stubOutboxRepo) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	s.marked = append(s.marked, id)
	return nil
}

func (s *stubOutboxRepo) DeletePublished(ctx context.Context, before time.Time) error {
	s.purgedBefore = before
	return nil
}

type stubPublisher struct {
	published  []*domain.OutboxEvent
	errorsByID map[string]error
}

func (s *stubPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	if err := s.errorsByID[event.ID]; err != nil {
		return err
	}
	s.published = append(s.published, event)
	return nil
}

type stubWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (s *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	s.msgs = append(s.msgs, msgs...)
	return nil
}

func (s *stubWriter) Close() error {
	s.closed = true
	return nil
}
