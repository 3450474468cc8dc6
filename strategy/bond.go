package strategy

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/arbbot/market"
)

// makeBond quotes inside a BOND spread that straddles fair value, one tick
// in from each side. Past the skew threshold the side that reduces
// inventory gets double size.
func (e *Engine) makeBond(ctx context.Context, bid, ask market.Price) error {
	p := e.params
	spread := ask - bid

	if e.ledger.OpenCount(market.BOND) >= p.BondMaxOpen {
		return nil
	}
	if spread <= p.BondMinSpread || bid >= p.BondFair || ask <= p.BondFair {
		return nil
	}

	x := spread - p.BondMinSpread
	buy, sell := x, x
	pos := e.ledger.Position(market.BOND)
	skew := decimal.NewFromInt(p.BondSkew)
	switch {
	case pos.GreaterThanOrEqual(skew):
		sell = 2 * x
	case pos.LessThanOrEqual(skew.Neg()):
		buy = 2 * x
	}

	if err := e.placeOrder(ctx, market.BOND, market.Buy, bid+1, buy); err != nil {
		return err
	}
	return e.placeOrder(ctx, market.BOND, market.Sell, ask-1, sell)
}
