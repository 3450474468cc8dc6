// journal/journal.go
package journal

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/arbbot/market"
)

// FillRecord is one execution reported by the exchange.
type FillRecord struct {
	Time    time.Time
	OrderID int64
	Symbol  market.Symbol
	Side    market.Side
	Price   market.Price
	Size    market.Size
}

// InstructionRecord is one message we sent. Price and Size are zero when the
// instruction kind has none.
type InstructionRecord struct {
	Time    time.Time
	Kind    string
	OrderID int64
	Symbol  market.Symbol
	Side    market.Side
	Price   market.Price
	Size    market.Size
}

type PositionSnapshot struct {
	Time      time.Time
	Positions map[market.Symbol]decimal.Decimal
}

// Journal is a write-only audit trail of a session. Nothing is read back on
// startup; positions always come from the exchange handshake.
//
// Implementations may buffer records until Flush. The engine flushes once
// per handled event, after that event's instructions are on the wire.
type Journal interface {
	RecordFill(FillRecord) error
	RecordInstruction(InstructionRecord) error
	RecordPositions(PositionSnapshot) error
	Flush() error
	Close() error
}

// Nop discards every record.
type Nop struct{}

func (Nop) RecordFill(FillRecord) error               { return nil }
func (Nop) RecordInstruction(InstructionRecord) error { return nil }
func (Nop) RecordPositions(PositionSnapshot) error    { return nil }
func (Nop) Flush() error                              { return nil }
func (Nop) Close() error                              { return nil }
