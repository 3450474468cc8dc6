package market

import "github.com/shopspring/decimal"

// Price is an exchange price in integer ticks.
type Price = int64

// Size is an order or position quantity in whole units.
type Size = int64

// Dec lifts an integer price or size into a decimal.
func Dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
