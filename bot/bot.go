// Package bot drives a strategy engine from an event source until the
// exchange closes the round.
package bot

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rustyeddy/arbbot/market"
	"github.com/rustyeddy/arbbot/protocol"
	"github.com/rustyeddy/arbbot/strategy"
)

// Source yields inbound events. *session.Session implements it; so does
// Replay.
type Source interface {
	// Hello is the handshake reply received when the source was opened.
	Hello() *protocol.Hello
	ReadEvent(ctx context.Context) (protocol.Event, error)
}

// Stats summarises one run.
type Stats struct {
	Events       int
	LedgerErrors int
	Rejects      int
	Closed       bool
}

// Run feeds the handshake and then every event from src into eng. It
// returns nil when the exchange sends close, ctx.Err() when ctx ends, and
// any read or send error otherwise. Ledger errors are logged and skipped.
func Run(ctx context.Context, src Source, eng *strategy.Engine, log *zap.SugaredLogger) (Stats, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	var st Stats

	if hello := src.Hello(); hello != nil {
		if err := eng.Handle(ctx, hello); err != nil {
			return st, fmt.Errorf("handshake: %w", err)
		}
		log.Infow("round_started", "positions", formatPositions(eng))
	}

	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}

		ev, err := src.ReadEvent(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return st, ctxErr
			}
			return st, err
		}
		st.Events++

		switch ev := ev.(type) {
		case *protocol.Close:
			st.Closed = true
			log.Infow("round_closed", "symbols", ev.Symbols, "positions", formatPositions(eng))
			return st, nil
		case *protocol.Error:
			log.Warnw("exchange_error", "error", ev.Error)
		case *protocol.Reject:
			st.Rejects++
			log.Warnw("exchange_reject", "order_id", ev.OrderID, "error", ev.Error)
		case *protocol.Fill:
			log.Infow("fill", "order_id", ev.OrderID, "symbol", ev.Symbol, "dir", ev.Dir, "price", ev.Price, "size", ev.Size)
		}

		err = eng.Handle(ctx, ev)
		if strategy.IsFatal(err) {
			return st, err
		}
		if err != nil {
			st.LedgerErrors++
			log.Warnw("event_skipped", "kind", ev.Kind(), "err", err)
		}

		if ev.Kind() == protocol.KindFill || ev.Kind() == protocol.KindAck {
			log.Debugw("positions", "positions", formatPositions(eng))
		}
	}
}

func formatPositions(eng *strategy.Engine) map[string]string {
	pos := eng.Ledger().Positions()
	out := make(map[string]string, len(pos))
	for _, sym := range market.Symbols {
		out[string(sym)] = pos[sym].String()
	}
	return out
}
