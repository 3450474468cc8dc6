package strategy

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"

	"github.com/rustyeddy/arbbot/market"
	"github.com/rustyeddy/arbbot/protocol"
)

func TestPropertyBasketSelectionIsPriorityOrdered(t *testing.T) {
	p := DefaultParams()
	rapid.Check(t, func(t *rapid.T) {
		// Tenths, like the 0.3/0.2 weights produce.
		ib := rapid.Int64Range(3000, 6000).Draw(t, "implied_bid_tenths")
		spread := rapid.Int64Range(0, 100).Draw(t, "implied_spread_tenths")
		impliedBid := decimal.New(ib, -1)
		impliedAsk := decimal.New(ib+spread, -1)
		bid := rapid.Int64Range(250, 650).Draw(t, "bid")
		ask := bid + rapid.Int64Range(1, 60).Draw(t, "spread")

		b, a := market.Dec(bid), market.Dec(ask)
		conds := []bool{
			impliedAsk.Add(market.Dec(p.BasketEdge)).LessThan(b),
			impliedBid.GreaterThan(a.Add(market.Dec(p.BasketEdge))),
			impliedBid.Add(market.Dec(p.BasketWideEdge)).LessThan(a),
			impliedAsk.GreaterThan(b.Add(market.Dec(p.BasketWideEdge))),
		}
		want := basketNone
		for i, c := range conds {
			if c {
				want = basketTrade(i + 1)
				break
			}
		}

		if got := selectBasket(p, impliedBid, impliedAsk, bid, ask); got != want {
			t.Fatalf("selected %d, first matching branch is %d (conds %v)", got, want, conds)
		}
	})
}

// At most one VALE/VALBZ conversion is ever outstanding, whatever order
// fills and acks arrive in.
func TestPropertySinglePairConversion(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rec := &recorder{}
		e := New(rec, nil, DefaultParams(), nil)
		ctx := context.Background()

		start := &protocol.Hello{Positions: []protocol.Position{
			{Symbol: market.VALE, Position: rapid.Int64Range(-12, 12).Draw(t, "vale")},
			{Symbol: market.VALBZ, Position: rapid.Int64Range(-12, 12).Draw(t, "valbz")},
		}}
		if err := e.Handle(ctx, start); err != nil {
			t.Fatalf("hello: %v", err)
		}

		outstanding := map[int64]bool{}
		track := func() {
			for _, ins := range rec.take() {
				if c, ok := ins.(protocol.Convert); ok && c.Symbol == market.VALE {
					outstanding[c.OrderID] = true
				}
			}
			if len(outstanding) > 1 {
				t.Fatalf("%d pair conversions outstanding", len(outstanding))
			}
			if e.PairConversionPending() != (len(outstanding) == 1) {
				t.Fatalf("gate %v with %d outstanding", e.PairConversionPending(), len(outstanding))
			}
		}
		track()

		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 2).Draw(t, "action") {
			case 0, 1:
				sym := rapid.SampledFrom([]market.Symbol{market.VALE, market.VALBZ}).Draw(t, "symbol")
				side := rapid.SampledFrom([]market.Side{market.Buy, market.Sell}).Draw(t, "side")
				id := e.nextID
				if err := e.placeOrder(ctx, sym, side, 100, 1); err != nil {
					t.Fatalf("place: %v", err)
				}
				rec.take()
				if err := e.Handle(ctx, &protocol.Fill{OrderID: id, Symbol: sym, Dir: side, Price: 100, Size: 1}); err != nil {
					t.Fatalf("fill: %v", err)
				}
			case 2:
				for id := range outstanding {
					delete(outstanding, id)
					if err := e.Handle(ctx, &protocol.Ack{OrderID: id}); err != nil {
						t.Fatalf("ack: %v", err)
					}
				}
			}
			track()
		}
	})
}
