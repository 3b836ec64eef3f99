package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewOrderComputesTotals(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	lines := []OrderLine{
		{ProductID: "p1", Quantity: 3, UnitPrice: decimal.RequireFromString("100.00")},
		{ProductID: "p2", Quantity: 2, UnitPrice: decimal.RequireFromString("9.99")},
	}

	order := NewOrder("o1", "u1", lines, now)

	if got := order.Lines[0].LineTotal; !got.Equal(decimal.RequireFromString("300.00")) {
		t.Errorf("line 0 total = %s, want 300.00", got)
	}
	if got := order.Lines[1].LineTotal; !got.Equal(decimal.RequireFromString("19.98")) {
		t.Errorf("line 1 total = %s, want 19.98", got)
	}
	if !order.Total.Equal(decimal.RequireFromString("319.98")) {
		t.Errorf("order total = %s, want 319.98", order.Total)
	}
	if order.Status != StatusPending {
		t.Errorf("expected initial status pending, got %s", order.Status)
	}
	if order.Lines[0].ProductID != "p1" || order.Lines[1].ProductID != "p2" {
		t.Errorf("line order must match insertion order")
	}

	sum := decimal.Zero
	for _, l := range order.Lines {
		sum = sum.Add(l.LineTotal)
	}
	if !order.Total.Equal(sum) {
		t.Errorf("total %s does not equal sum of line totals %s", order.Total, sum)
	}
}
