package strategy

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/arbbot/market"
)

type basketTrade int

const (
	basketNone basketTrade = iota
	// sell ETF at its bid, buy the full basket at the asks
	basketSellETF
	// buy ETF at its ask, sell the full basket at the asks
	basketBuyETF
	// buy the half basket at the bids, sell ETF at its ask
	basketSellETFWide
	// buy ETF at its bid, sell the half basket at the asks
	basketBuyETFWide
)

// impliedXLF prices one unit of XLF from the cached basket quotes. BOND is
// valued at fair rather than its quote. ok is false until every constituent
// has been seen on both sides.
func (e *Engine) impliedXLF() (bid, ask decimal.Decimal, ok bool) {
	bid, ask = decimal.Zero, decimal.Zero
	for _, leg := range market.Basket() {
		q := e.quotes.Get(leg.Symbol)
		if !q.HasBid || !q.HasAsk {
			return decimal.Zero, decimal.Zero, false
		}
		lb, la := market.Dec(q.Bid), market.Dec(q.Ask)
		if leg.Symbol == market.BOND {
			lb, la = market.Dec(e.params.BondFair), market.Dec(e.params.BondFair)
		}
		bid = bid.Add(lb.Mul(leg.Ratio))
		ask = ask.Add(la.Mul(leg.Ratio))
	}
	return bid, ask, true
}

// selectBasket picks at most one opportunity, in priority order.
func selectBasket(p Params, impliedBid, impliedAsk decimal.Decimal, bid, ask market.Price) basketTrade {
	edge := market.Dec(p.BasketEdge)
	wide := market.Dec(p.BasketWideEdge)
	b, a := market.Dec(bid), market.Dec(ask)

	switch {
	case impliedAsk.Add(edge).LessThan(b):
		return basketSellETF
	case impliedBid.GreaterThan(a.Add(edge)):
		return basketBuyETF
	case impliedBid.Add(wide).LessThan(a):
		return basketSellETFWide
	case impliedAsk.GreaterThan(b.Add(wide)):
		return basketBuyETFWide
	}
	return basketNone
}

func (e *Engine) tradeBasket(ctx context.Context, bid, ask market.Price) error {
	impliedBid, impliedAsk, ok := e.impliedXLF()
	if !ok {
		return nil
	}

	trade := selectBasket(e.params, impliedBid, impliedAsk, bid, ask)
	if trade == basketNone {
		return nil
	}
	e.log.Debugw("basket_opportunity",
		"trade", int(trade),
		"bid", bid, "ask", ask,
		"implied_bid", impliedBid.StringFixed(1), "implied_ask", impliedAsk.StringFixed(1))

	full, half := e.params.BasketSize, e.params.BasketHalfSize
	switch trade {
	case basketSellETF:
		if err := e.placeOrder(ctx, market.XLF, market.Sell, bid, full); err != nil {
			return err
		}
		return e.layOffBasket(ctx, market.Buy, full, true)
	case basketBuyETF:
		if err := e.placeOrder(ctx, market.XLF, market.Buy, ask, full); err != nil {
			return err
		}
		return e.layOffBasket(ctx, market.Sell, full, true)
	case basketSellETFWide:
		if err := e.layOffBasket(ctx, market.Buy, half, false); err != nil {
			return err
		}
		return e.placeOrder(ctx, market.XLF, market.Sell, ask, half)
	case basketBuyETFWide:
		if err := e.placeOrder(ctx, market.XLF, market.Buy, bid, half); err != nil {
			return err
		}
		return e.layOffBasket(ctx, market.Sell, half, true)
	}
	return nil
}

// layOffBasket trades the basket equivalent of units XLF, one order per
// constituent, at each constituent's cached ask (atAsk) or bid.
func (e *Engine) layOffBasket(ctx context.Context, side market.Side, units market.Size, atAsk bool) error {
	sizes := market.ScaleBasket(units)
	for _, leg := range market.Basket() {
		size := sizes[leg.Symbol]
		if size <= 0 {
			continue
		}
		q := e.quotes.Get(leg.Symbol)
		price := q.Bid
		if atAsk {
			price = q.Ask
		}
		if err := e.placeOrder(ctx, leg.Symbol, side, price, size); err != nil {
			return err
		}
	}
	return nil
}

// convertETF converts XLF back toward flat when its rounded position sits
// exactly on the limit. It has its own gate, independent of the pair's.
func (e *Engine) convertETF(ctx context.Context) error {
	xlf := e.ledger.RoundedPosition(market.XLF)
	at := [2]int64{xlf}
	if !e.etf.open(at) {
		return nil
	}

	var side market.Side
	switch xlf {
	case e.params.ETFLimit:
		side = market.Sell
	case -e.params.ETFLimit:
		side = market.Buy
	default:
		return nil
	}
	e.log.Infow("etf_convert", "dir", side, "size", e.params.ETFConvert)
	return e.requestConversion(ctx, &e.etf, at, market.XLF, side, e.params.ETFConvert)
}
