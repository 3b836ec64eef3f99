package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Price and stock are authoritative at read
// time and change only through explicit price-update and stock-adjust
// operations.
type Product struct {
	ID        string
	Name      string
	Price     decimal.Decimal
	Stock     int
	Category  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
