// Package ledger is the authoritative record of positions, order fill
// progress and pending conversions for one exchange session.
//
// A Ledger is owned by the goroutine processing exchange events and does no
// locking.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/arbbot/market"
)

type Ledger struct {
	positions   map[market.Symbol]decimal.Decimal
	orders      map[int64]*Order
	open        map[market.Symbol]map[market.Side]map[int64]struct{}
	conversions map[int64]Conversion
	retired     map[int64]struct{}
}

func New() *Ledger {
	l := &Ledger{
		positions:   make(map[market.Symbol]decimal.Decimal, len(market.Symbols)),
		orders:      make(map[int64]*Order),
		open:        make(map[market.Symbol]map[market.Side]map[int64]struct{}, len(market.Symbols)),
		conversions: make(map[int64]Conversion),
		retired:     make(map[int64]struct{}),
	}
	for _, sym := range market.Symbols {
		l.positions[sym] = decimal.Zero
		l.open[sym] = map[market.Side]map[int64]struct{}{
			market.Buy:  {},
			market.Sell: {},
		}
	}
	return l
}

// ApplyHandshake sets every position from the exchange's hello. Symbols the
// exchange does not report start flat.
func (l *Ledger) ApplyHandshake(positions map[market.Symbol]int64) {
	for _, sym := range market.Symbols {
		l.positions[sym] = decimal.NewFromInt(positions[sym])
	}
}

func (l *Ledger) idInUse(id int64) bool {
	if _, ok := l.orders[id]; ok {
		return true
	}
	if _, ok := l.conversions[id]; ok {
		return true
	}
	_, ok := l.retired[id]
	return ok
}

// OpenOrder records a new resting order and indexes it by symbol and side.
func (l *Ledger) OpenOrder(id int64, sym market.Symbol, side market.Side, size market.Size) error {
	if err := validate(sym, side, size); err != nil {
		return &Error{Op: "open", ID: id, Err: err}
	}
	if l.idInUse(id) {
		return &Error{Op: "open", ID: id, Err: ErrDuplicateID}
	}

	l.orders[id] = &Order{
		ID:        id,
		Symbol:    sym,
		Side:      side,
		Requested: size,
		State:     StateOpen,
	}
	l.open[sym][side][id] = struct{}{}
	return nil
}

// ApplyFill books a (partial) fill. The position moves by +size for a buy
// and -size for a sell; a fully filled order leaves the open index. Fills for
// orders whose cancel is in flight are still honoured.
func (l *Ledger) ApplyFill(id int64, sym market.Symbol, side market.Side, size market.Size) error {
	o, ok := l.orders[id]
	if !ok {
		return &Error{Op: "fill", ID: id, Err: ErrUnknownOrder}
	}
	if o.State.Terminal() {
		return &Error{Op: "fill", ID: id, Err: ErrTerminalOrder}
	}
	if o.Symbol != sym || o.Side != side {
		return &Error{Op: "fill", ID: id, Err: ErrMismatchedFill}
	}
	if size <= 0 {
		return &Error{Op: "fill", ID: id, Err: ErrInvalidSize}
	}
	if size > o.Remaining() {
		return &Error{Op: "fill", ID: id, Err: ErrOverfill}
	}

	o.Filled += size
	l.positions[sym] = l.positions[sym].Add(decimal.NewFromInt(size * side.Sign()))

	if o.Filled == o.Requested {
		o.State = StateFilled
		delete(l.open[sym][side], id)
	}
	return nil
}

// CancelOrder takes an open order out of the open index and marks its cancel
// as in flight. It does not touch fill progress or positions. It reports
// whether the order was open.
func (l *Ledger) CancelOrder(id int64) bool {
	o, ok := l.orders[id]
	if !ok || o.State != StateOpen {
		return false
	}
	o.State = StateCancelling
	delete(l.open[o.Symbol][o.Side], id)
	return true
}

// ClearSymbolSide cancels every open order on one side of a symbol and
// returns their ids in ascending order.
func (l *Ledger) ClearSymbolSide(sym market.Symbol, side market.Side) []int64 {
	ids := l.OpenOrders(sym, side)
	for _, id := range ids {
		l.CancelOrder(id)
	}
	return ids
}

// ApplyOut retires an order the exchange has taken off the book. Orders that
// are already terminal, and ids the ledger never saw as orders, are ignored.
func (l *Ledger) ApplyOut(id int64) bool {
	o, ok := l.orders[id]
	if !ok || o.State.Terminal() {
		return false
	}
	o.State = StateCancelled
	delete(l.open[o.Symbol][o.Side], id)
	return true
}

// ApplyReject drops an order or conversion the exchange refused. A rejected
// order never rested, so it is retired without fills; a rejected conversion
// is retired without touching positions. It reports whether the id was live.
func (l *Ledger) ApplyReject(id int64) bool {
	if o, ok := l.orders[id]; ok {
		if o.State.Terminal() {
			return false
		}
		o.State = StateCancelled
		delete(l.open[o.Symbol][o.Side], id)
		return true
	}
	if _, ok := l.conversions[id]; ok {
		delete(l.conversions, id)
		l.retired[id] = struct{}{}
		return true
	}
	return false
}

// RequestConversion records a conversion awaiting its ack.
func (l *Ledger) RequestConversion(id int64, sym market.Symbol, side market.Side, size market.Size) error {
	if err := validate(sym, side, size); err != nil {
		return &Error{Op: "convert", ID: id, Err: err}
	}
	if _, err := market.ConversionLegs(sym); err != nil {
		return &Error{Op: "convert", ID: id, Err: ErrNotConvertible}
	}
	if l.idInUse(id) {
		return &Error{Op: "convert", ID: id, Err: ErrDuplicateID}
	}
	l.conversions[id] = Conversion{ID: id, Symbol: sym, Side: side, Size: size}
	return nil
}

// ApplyConversionAck applies the position deltas of a pending conversion and
// retires its id. Acks for order ids, unknown ids or conversions already
// applied are no-ops; the return value reports whether positions changed.
func (l *Ledger) ApplyConversionAck(id int64) (Conversion, bool) {
	c, ok := l.conversions[id]
	if !ok {
		return Conversion{}, false
	}
	deltas, err := market.ConversionDeltas(c.Symbol, c.Side, c.Size)
	if err != nil {
		// RequestConversion validated the entry.
		return Conversion{}, false
	}
	for _, d := range deltas {
		l.positions[d.Symbol] = l.positions[d.Symbol].Add(d.Amount)
	}
	delete(l.conversions, id)
	l.retired[id] = struct{}{}
	return c, true
}

func (l *Ledger) Position(sym market.Symbol) decimal.Decimal {
	return l.positions[sym]
}

// RoundedPosition rounds half away from zero.
func (l *Ledger) RoundedPosition(sym market.Symbol) int64 {
	return l.positions[sym].Round(0).IntPart()
}

func (l *Ledger) Positions() map[market.Symbol]decimal.Decimal {
	out := make(map[market.Symbol]decimal.Decimal, len(l.positions))
	for k, v := range l.positions {
		out[k] = v
	}
	return out
}

// OpenOrders returns the ids resting on one side of a symbol, ascending.
func (l *Ledger) OpenOrders(sym market.Symbol, side market.Side) []int64 {
	set := l.open[sym][side]
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// OpenCount is the number of open buy and sell orders on a symbol.
func (l *Ledger) OpenCount(sym market.Symbol) int {
	return len(l.open[sym][market.Buy]) + len(l.open[sym][market.Sell])
}

func (l *Ledger) Order(id int64) (Order, bool) {
	o, ok := l.orders[id]
	if !ok {
		return Order{}, false
	}
	return *o, true
}

func (l *Ledger) PendingConversion(id int64) (Conversion, bool) {
	c, ok := l.conversions[id]
	return c, ok
}

func (l *Ledger) PendingConversions() int {
	return len(l.conversions)
}

func validate(sym market.Symbol, side market.Side, size market.Size) error {
	if !sym.Valid() {
		return ErrUnknownSymbol
	}
	if !side.Valid() {
		return ErrInvalidSide
	}
	if size <= 0 {
		return ErrInvalidSize
	}
	return nil
}
