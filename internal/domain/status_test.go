package domain

import (
	"testing"
	"time"
)

func TestStatusTransitions(t *testing.T) {
	t.Parallel()

	all := []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

	legal := map[Status][]Status{
		StatusPending:    {StatusProcessing, StatusCancelled},
		StatusProcessing: {StatusShipped, StatusCancelled},
		StatusShipped:    {StatusDelivered, StatusCancelled},
		StatusDelivered:  {},
		StatusCancelled:  {},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, allowed := range legal[from] {
				if allowed == to {
					want = true
				}
			}
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	t.Parallel()

	if !StatusDelivered.Terminal() {
		t.Errorf("expected delivered to be terminal")
	}
	if !StatusCancelled.Terminal() {
		t.Errorf("expected cancelled to be terminal")
	}
	if StatusPending.Terminal() || StatusProcessing.Terminal() || StatusShipped.Terminal() {
		t.Errorf("expected non-terminal states to have outgoing edges")
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"pending", "processing", "shipped", "delivered", "cancelled"} {
		if _, err := ParseStatus(s); err != nil {
			t.Errorf("ParseStatus(%q) returned %v", s, err)
		}
	}
	for _, s := range []string{"", "PENDING", "unknown", "refunded"} {
		if _, err := ParseStatus(s); err != ErrInvalidStatus {
			t.Errorf("ParseStatus(%q) = %v, want ErrInvalidStatus", s, err)
		}
	}
}

func TestOrderTransitionTo(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	order := Order{ID: "o1", Status: StatusPending, CreatedAt: now, UpdatedAt: now}

	later := now.Add(time.Hour)
	if err := order.TransitionTo(StatusProcessing, later); err != nil {
		t.Fatalf("expected legal transition, got %v", err)
	}
	if order.Status != StatusProcessing {
		t.Fatalf("expected status processing, got %s", order.Status)
	}
	if !order.UpdatedAt.Equal(later) {
		t.Fatalf("expected UpdatedAt bumped to %v, got %v", later, order.UpdatedAt)
	}

	if err := order.TransitionTo(StatusPending, later); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if order.Status != StatusProcessing {
		t.Fatalf("status must not change on rejected transition, got %s", order.Status)
	}
}
