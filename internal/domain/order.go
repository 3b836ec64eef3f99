package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is one position of an order. UnitPrice is the catalog price
// snapshotted at creation time; later catalog price changes never touch it.
type OrderLine struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Order is the aggregate of a header and its fixed line sequence. Lines keep
// insertion order; Total is always the sum of the line totals.
type Order struct {
	ID        string
	UserID    string
	Status    Status
	Lines     []OrderLine
	Total     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrder assembles a pending order from price-resolved lines, computing
// each line total and the order total.
func NewOrder(id, userID string, lines []OrderLine, now time.Time) Order {
	total := decimal.Zero
	for i := range lines {
		lines[i].LineTotal = lines[i].UnitPrice.Mul(decimal.NewFromInt(int64(lines[i].Quantity)))
		total = total.Add(lines[i].LineTotal)
	}
	return Order{
		ID:        id,
		UserID:    userID,
		Status:    StatusPending,
		Lines:     lines,
		Total:     total,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TransitionTo moves the order to next if the edge is legal.
func (o *Order) TransitionTo(next Status, now time.Time) error {
	if !o.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	o.Status = next
	o.UpdatedAt = now
	return nil
}
