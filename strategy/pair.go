package strategy

import (
	"context"

	"github.com/rustyeddy/arbbot/market"
)

// tradePair runs on every two-sided VALE book. VALE and VALBZ convert 1:1,
// so a VALE bid far enough from the VALBZ ask is a mispricing: lean into it
// with one order and sweep the opposite side first.
func (e *Engine) tradePair(ctx context.Context, bid, ask market.Price) error {
	peer := e.quotes.Get(market.VALBZ)
	if !peer.HasAsk {
		return nil
	}

	switch {
	case bid < peer.Ask-e.params.PairEdge:
		if err := e.cancelSide(ctx, market.VALE, market.Sell); err != nil {
			return err
		}
		return e.placeOrder(ctx, market.VALE, market.Buy, bid, e.params.PairOrderSize)

	case bid > peer.Ask+e.params.PairEdge:
		if err := e.cancelSide(ctx, market.VALE, market.Buy); err != nil {
			return err
		}
		return e.placeOrder(ctx, market.VALE, market.Sell, ask, e.params.PairOrderSize)
	}
	return nil
}

// hedgePair lays off a VALE fill on VALBZ at the last cached price of the
// side we cross. Without a cached price there is nothing sensible to quote.
func (e *Engine) hedgePair(ctx context.Context, filled market.Side) error {
	peer := e.quotes.Get(market.VALBZ)
	side := filled.Opposite()

	var price market.Price
	switch {
	case side == market.Sell && peer.HasAsk:
		price = peer.Ask
	case side == market.Buy && peer.HasBid:
		price = peer.Bid
	default:
		e.log.Debugw("hedge_skipped_no_quote", "side", side)
		return nil
	}
	return e.placeOrder(ctx, market.VALBZ, side, price, e.params.PairHedgeSize)
}

// rebalancePair converts between VALE and VALBZ when either leg's rounded
// position sits exactly on the rebalance threshold. Only one pair conversion
// is outstanding at a time, and a refused one is not reissued until either
// leg moves.
func (e *Engine) rebalancePair(ctx context.Context) error {
	vale := e.ledger.RoundedPosition(market.VALE)
	valbz := e.ledger.RoundedPosition(market.VALBZ)
	at := [2]int64{vale, valbz}
	if !e.pair.open(at) {
		return nil
	}
	limit := e.params.PairRebalance

	var (
		side market.Side
		diff int64
	)
	switch {
	case vale == limit:
		side, diff = market.Sell, vale-valbz
	case vale == -limit:
		side, diff = market.Buy, valbz-vale
	case valbz == limit:
		side, diff = market.Buy, valbz-vale
	case valbz == -limit:
		side, diff = market.Sell, vale-valbz
	default:
		return nil
	}

	amt := floorDiv(diff, 2)
	if amt <= 0 {
		return nil
	}
	e.log.Infow("pair_rebalance", "vale", vale, "valbz", valbz, "dir", side, "size", amt)
	return e.requestConversion(ctx, &e.pair, at, market.VALE, side, amt)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
