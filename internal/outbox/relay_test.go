package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRelay_DrainPublishesInOrder(t *testing.T) {
	t.Parallel()

	store := &fakeStore{records: []Record{
		{ID: 1, Topic: "orders.lifecycle", EventType: "order.created", Key: "o1", Payload: []byte(`{}`)},
		{ID: 2, Topic: "orders.lifecycle", EventType: "order.status_changed", Key: "o1", Payload: []byte(`{}`)},
		{ID: 3, Topic: "orders.lifecycle", EventType: "order.created", Key: "o2", Payload: []byte(`{}`)},
	}}
	pub := &fakePublisher{}
	published := 0
	relay := NewRelay(store, pub, zerolog.Nop(), WithBatchSize(2), WithPublishedHook(func() { published++ }))

	if err := relay.Drain(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(pub.published) != 3 {
		t.Fatalf("expected 3 published records, got %d", len(pub.published))
	}
	for i, rec := range pub.published {
		if rec.ID != int64(i+1) {
			t.Fatalf("expected publish order 1,2,3; got %v at index %d", rec.ID, i)
		}
	}
	if len(store.pending()) != 0 {
		t.Fatalf("expected all records marked sent, %d left", len(store.pending()))
	}
	if published != 3 {
		t.Fatalf("expected hook called 3 times, got %d", published)
	}
}

func TestRelay_DrainStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	store := &fakeStore{records: []Record{
		{ID: 1, Topic: "orders.lifecycle", Key: "o1", Payload: []byte(`{}`)},
		{ID: 2, Topic: "orders.lifecycle", Key: "o2", Payload: []byte(`{}`)},
	}}
	pub := &fakePublisher{failOn: 2}
	relay := NewRelay(store, pub, zerolog.Nop())

	if err := relay.Drain(context.Background()); err == nil {
		t.Fatalf("expected error from failing publisher")
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected only the first record published, got %d", len(pub.published))
	}
	// Record 2 must remain pending for the next drain.
	pending := store.pending()
	if len(pending) != 1 || pending[0].ID != 2 {
		t.Fatalf("expected record 2 still pending, got %+v", pending)
	}
}

func TestRelay_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	relay := NewRelay(store, &fakePublisher{}, zerolog.Nop(), WithInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil on cancel, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("relay did not stop after cancel")
	}
}

type fakeStore struct {
	records []Record
}

func (s *fakeStore) FetchPending(_ context.Context, limit int) ([]Record, error) {
	pending := s.pending()
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (s *fakeStore) MarkSent(_ context.Context, id int64) error {
	now := time.Now()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].SentAt = &now
			return nil
		}
	}
	return errors.New("record not found")
}

func (s *fakeStore) pending() []Record {
	var out []Record
	for _, rec := range s.records {
		if rec.SentAt == nil {
			out = append(out, rec)
		}
	}
	return out
}

type fakePublisher struct {
	published []Record
	failOn    int64
}

func (p *fakePublisher) Publish(_ context.Context, rec Record) error {
	if p.failOn != 0 && rec.ID == p.failOn {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, rec)
	return nil
}
