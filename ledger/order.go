package ledger

import "github.com/rustyeddy/arbbot/market"

type State uint8

const (
	StateOpen State = iota + 1
	// StateCancelling means a cancel was sent and the order is out of the open
	// index, but fills may still arrive for it.
	StateCancelling
	StateFilled
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateCancelling:
		return "cancelling"
	case StateFilled:
		return "filled"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func (s State) Terminal() bool {
	return s == StateFilled || s == StateCancelled
}

type Order struct {
	ID        int64
	Symbol    market.Symbol
	Side      market.Side
	Requested market.Size
	Filled    market.Size
	State     State
}

func (o Order) Remaining() market.Size {
	return o.Requested - o.Filled
}

type Conversion struct {
	ID     int64
	Symbol market.Symbol
	Side   market.Side
	Size   market.Size
}
