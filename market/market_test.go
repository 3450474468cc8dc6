package market

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSymbol(t *testing.T) {
	for _, s := range Symbols {
		got, err := ParseSymbol(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseSymbol("AAPL")
	assert.Error(t, err)
}

func TestSide(t *testing.T) {
	assert.Equal(t, int64(1), Buy.Sign())
	assert.Equal(t, int64(-1), Sell.Sign())
	assert.Equal(t, Sell, Buy.Opposite())
	assert.Equal(t, Buy, Sell.Opposite())

	_, err := ParseSide("HOLD")
	assert.Error(t, err)
}

func TestQuoteBookKeepsUnobservedSides(t *testing.T) {
	b := NewQuoteBook()

	q := b.Get(VALE)
	assert.False(t, q.HasBid)
	assert.False(t, q.HasAsk)
	_, ok := q.Spread()
	assert.False(t, ok)

	b.Update(VALE, 90, true, 0, false)
	q = b.Update(VALE, 0, false, 95, true)
	assert.Equal(t, Price(90), q.Bid)
	assert.Equal(t, Price(95), q.Ask)

	spread, ok := q.Spread()
	require.True(t, ok)
	assert.Equal(t, Price(5), spread)
}

func TestConversionDeltas(t *testing.T) {
	tests := []struct {
		name string
		sym  Symbol
		side Side
		size Size
		want map[Symbol]string
	}{
		{
			name: "sell VALE into VALBZ",
			sym:  VALE, side: Sell, size: 5,
			want: map[Symbol]string{VALE: "-5", VALBZ: "5"},
		},
		{
			name: "buy VALE from VALBZ",
			sym:  VALE, side: Buy, size: 3,
			want: map[Symbol]string{VALE: "3", VALBZ: "-3"},
		},
		{
			name: "sell XLF into basket",
			sym:  XLF, side: Sell, size: 50,
			want: map[Symbol]string{XLF: "-50", BOND: "15", GS: "10", MS: "15", WFC: "10"},
		},
		{
			name: "buy XLF from basket",
			sym:  XLF, side: Buy, size: 10,
			want: map[Symbol]string{XLF: "10", BOND: "-3", GS: "-2", MS: "-3", WFC: "-2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deltas, err := ConversionDeltas(tt.sym, tt.side, tt.size)
			require.NoError(t, err)
			require.Len(t, deltas, len(tt.want))
			for _, d := range deltas {
				want := decimal.RequireFromString(tt.want[d.Symbol])
				assert.True(t, want.Equal(d.Amount), "%s: want %s got %s", d.Symbol, want, d.Amount)
			}
		})
	}
}

func TestConversionDeltasRejects(t *testing.T) {
	_, err := ConversionDeltas(BOND, Buy, 1)
	assert.Error(t, err)
	_, err = ConversionDeltas(VALE, Side("HOLD"), 1)
	assert.Error(t, err)
	_, err = ConversionDeltas(XLF, Sell, 0)
	assert.Error(t, err)
}

func TestScaleBasket(t *testing.T) {
	assert.Equal(t, map[Symbol]Size{BOND: 6, GS: 4, MS: 6, WFC: 4}, ScaleBasket(20))
	assert.Equal(t, map[Symbol]Size{BOND: 3, GS: 2, MS: 3, WFC: 2}, ScaleBasket(10))
}

func TestConversionLegsFollowInstruments(t *testing.T) {
	for _, sym := range Symbols {
		legs, err := ConversionLegs(sym)
		if len(Instruments[sym].Legs) == 0 {
			assert.Error(t, err, sym)
			continue
		}
		require.NoError(t, err, sym)
		assert.Equal(t, Instruments[sym].Legs, legs)
	}

	legs, err := ConversionLegs(XLF)
	require.NoError(t, err)
	total := decimal.Zero
	for _, leg := range legs {
		total = total.Add(leg.Ratio)
	}
	assert.True(t, total.Equal(decimal.NewFromInt(1)))

	_, err = ConversionLegs(Symbol("AAPL"))
	assert.Error(t, err)
}
