// Package strategy turns exchange events into trading instructions for the
// VALE/VALBZ pair, BOND and the XLF basket.
package strategy

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/arbbot/journal"
	"github.com/rustyeddy/arbbot/ledger"
	"github.com/rustyeddy/arbbot/market"
	"github.com/rustyeddy/arbbot/protocol"
)

// Sender transmits one instruction. *session.Session implements it.
type Sender interface {
	Send(ctx context.Context, ins protocol.Instruction) error
}

// gate allows one outstanding conversion at a time. A refused conversion
// keeps the gate shut until the positions it was sized from change.
type gate struct {
	pending bool
	id      int64
	refused bool
	at      [2]int64
}

func (g *gate) close(id int64, at [2]int64) {
	g.pending, g.id, g.refused, g.at = true, id, false, at
}

// release reopens the gate if id is the conversion it is waiting on.
func (g *gate) release(id int64) bool {
	if !g.pending || g.id != id {
		return false
	}
	g.pending = false
	return true
}

// refuse retires the conversion id without reopening the gate for the
// positions it was issued at.
func (g *gate) refuse(id int64) bool {
	if !g.pending || g.id != id {
		return false
	}
	g.pending, g.refused = false, true
	return true
}

// open reports whether a new conversion may be issued at positions at.
func (g *gate) open(at [2]int64) bool {
	if g.pending {
		return false
	}
	if g.refused {
		if g.at == at {
			return false
		}
		g.refused = false
	}
	return true
}

// Engine is the single-threaded decision core. It owns the ledger and the
// quote cache; every inbound event goes through Handle, which sends zero or
// more instructions before returning.
type Engine struct {
	params  Params
	ledger  *ledger.Ledger
	quotes  *market.QuoteBook
	sender  Sender
	journal journal.Journal
	log     *zap.SugaredLogger
	now     func() time.Time

	nextID int64
	pair   gate
	etf    gate
}

func New(sender Sender, j journal.Journal, p Params, log *zap.SugaredLogger) *Engine {
	if j == nil {
		j = journal.Nop{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{
		params:  p,
		ledger:  ledger.New(),
		quotes:  market.NewQuoteBook(),
		sender:  sender,
		journal: j,
		log:     log,
		now:     time.Now,
	}
}

func (e *Engine) Ledger() *ledger.Ledger      { return e.ledger }
func (e *Engine) PairConversionPending() bool { return e.pair.pending }
func (e *Engine) ETFConversionPending() bool  { return e.etf.pending }

// Handle processes one event. Ledger errors (a fill or ack the ledger cannot
// reconcile) leave state untouched and are returned after the
// conversion checks have run; the caller may log them and continue. Any
// other error comes from Send and means the connection is unusable.
// Journal records produced by the event are flushed once, on return.
func (e *Engine) Handle(ctx context.Context, ev protocol.Event) error {
	defer e.record(e.journal.Flush)

	var err error
	switch ev := ev.(type) {
	case *protocol.Hello:
		e.onHello(ev)
	case *protocol.Book:
		err = e.onBook(ctx, ev)
	case *protocol.Fill:
		err = e.onFill(ctx, ev)
	case *protocol.Ack:
		e.onAck(ev)
	case *protocol.Out:
		e.ledger.ApplyOut(ev.OrderID)
	case *protocol.Reject:
		e.onReject(ev)
	}
	if err != nil && !ledger.IsLedgerError(err) {
		return err
	}

	if rerr := e.rebalancePair(ctx); rerr != nil {
		return rerr
	}
	if rerr := e.convertETF(ctx); rerr != nil {
		return rerr
	}
	return err
}

func (e *Engine) onHello(h *protocol.Hello) {
	start := make(map[market.Symbol]int64, len(h.Positions))
	for _, p := range h.Positions {
		start[p.Symbol] = p.Position
	}
	e.ledger.ApplyHandshake(start)
	e.snapshot()
}

func (e *Engine) onBook(ctx context.Context, b *protocol.Book) error {
	bid, hasBid := b.BestBid()
	ask, hasAsk := b.BestAsk()
	e.quotes.Update(b.Symbol, bid, hasBid, ask, hasAsk)

	// Decisions need a two-sided book in this snapshot, not just the cache.
	if !hasBid || !hasAsk {
		return nil
	}

	switch b.Symbol {
	case market.VALE:
		return e.tradePair(ctx, bid, ask)
	case market.BOND:
		return e.makeBond(ctx, bid, ask)
	case market.XLF:
		return e.tradeBasket(ctx, bid, ask)
	}
	return nil
}

func (e *Engine) onFill(ctx context.Context, f *protocol.Fill) error {
	if err := e.ledger.ApplyFill(f.OrderID, f.Symbol, f.Dir, f.Size); err != nil {
		e.log.Warnw("fill_rejected", "order_id", f.OrderID, "symbol", f.Symbol, "err", err)
		return err
	}

	e.record(func() error {
		return e.journal.RecordFill(journal.FillRecord{
			Time:    e.now(),
			OrderID: f.OrderID,
			Symbol:  f.Symbol,
			Side:    f.Dir,
			Price:   f.Price,
			Size:    f.Size,
		})
	})
	e.snapshot()

	if f.Symbol == market.VALE {
		return e.hedgePair(ctx, f.Dir)
	}
	return nil
}

func (e *Engine) onAck(a *protocol.Ack) {
	c, applied := e.ledger.ApplyConversionAck(a.OrderID)
	if !applied {
		return
	}
	e.pair.release(c.ID)
	e.etf.release(c.ID)
	e.log.Infow("conversion_applied", "order_id", c.ID, "symbol", c.Symbol, "dir", c.Side, "size", c.Size)
	e.snapshot()
}

func (e *Engine) onReject(r *protocol.Reject) {
	if !e.ledger.ApplyReject(r.OrderID) {
		return
	}
	e.pair.refuse(r.OrderID)
	e.etf.refuse(r.OrderID)
	e.log.Warnw("instruction_rejected", "order_id", r.OrderID, "error", r.Error)
}

func (e *Engine) id() int64 {
	id := e.nextID
	e.nextID++
	return id
}

func (e *Engine) placeOrder(ctx context.Context, sym market.Symbol, side market.Side, price market.Price, size market.Size) error {
	id := e.id()
	if err := e.ledger.OpenOrder(id, sym, side, size); err != nil {
		return err
	}
	return e.send(ctx, protocol.Add{OrderID: id, Symbol: sym, Dir: side, Price: price, Size: size})
}

func (e *Engine) cancelSide(ctx context.Context, sym market.Symbol, side market.Side) error {
	for _, id := range e.ledger.ClearSymbolSide(sym, side) {
		if err := e.send(ctx, protocol.Cancel{OrderID: id}); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) requestConversion(ctx context.Context, g *gate, at [2]int64, sym market.Symbol, side market.Side, size market.Size) error {
	id := e.id()
	if err := e.ledger.RequestConversion(id, sym, side, size); err != nil {
		return err
	}
	g.close(id, at)
	return e.send(ctx, protocol.Convert{OrderID: id, Symbol: sym, Dir: side, Size: size})
}

func (e *Engine) send(ctx context.Context, ins protocol.Instruction) error {
	if err := e.sender.Send(ctx, ins); err != nil {
		return err
	}

	rec := journal.InstructionRecord{Time: e.now(), Kind: string(ins.Kind())}
	switch ins := ins.(type) {
	case protocol.Add:
		rec.OrderID, rec.Symbol, rec.Side, rec.Price, rec.Size = ins.OrderID, ins.Symbol, ins.Dir, ins.Price, ins.Size
	case protocol.Convert:
		rec.OrderID, rec.Symbol, rec.Side, rec.Size = ins.OrderID, ins.Symbol, ins.Dir, ins.Size
	case protocol.Cancel:
		rec.OrderID = ins.OrderID
	}
	e.record(func() error { return e.journal.RecordInstruction(rec) })
	return nil
}

func (e *Engine) snapshot() {
	e.record(func() error {
		return e.journal.RecordPositions(journal.PositionSnapshot{
			Time:      e.now(),
			Positions: e.ledger.Positions(),
		})
	})
}

// record writes to the journal. The journal is an audit trail; a failed
// write is logged and trading continues.
func (e *Engine) record(fn func() error) {
	if err := fn(); err != nil {
		e.log.Warnw("journal_write_failed", "err", err)
	}
}

// IsFatal reports whether an error returned by Handle should end the
// session.
func IsFatal(err error) bool {
	return err != nil && !ledger.IsLedgerError(err)
}
