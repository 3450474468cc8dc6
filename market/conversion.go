package market

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Leg is one instrument of a conversion and its units per converted unit.
type Leg struct {
	Symbol Symbol
	Ratio  decimal.Decimal
}

// Delta is a signed position change produced by a conversion.
type Delta struct {
	Symbol Symbol
	Amount decimal.Decimal
}

var (
	pairLegs = []Leg{
		{Symbol: VALBZ, Ratio: decimal.NewFromInt(1)},
	}
	// 10 XLF = 3 BOND + 2 GS + 3 MS + 2 WFC
	basketLegs = []Leg{
		{Symbol: BOND, Ratio: decimal.RequireFromString("0.3")},
		{Symbol: GS, Ratio: decimal.RequireFromString("0.2")},
		{Symbol: MS, Ratio: decimal.RequireFromString("0.3")},
		{Symbol: WFC, Ratio: decimal.RequireFromString("0.2")},
	}
)

// Basket returns the XLF constituents and their per-unit weights.
func Basket() []Leg {
	out := make([]Leg, len(basketLegs))
	copy(out, basketLegs)
	return out
}

// ConversionLegs returns the counterpart legs of a convertible symbol.
func ConversionLegs(sym Symbol) ([]Leg, error) {
	meta, ok := Instruments[sym]
	if !ok || len(meta.Legs) == 0 {
		return nil, fmt.Errorf("symbol %s is not convertible", sym)
	}
	return meta.Legs, nil
}

// ConversionDeltas computes the position changes of converting size units of
// sym. A Buy conversion credits sym and debits its legs, a Sell does the
// reverse.
func ConversionDeltas(sym Symbol, side Side, size Size) ([]Delta, error) {
	legs, err := ConversionLegs(sym)
	if err != nil {
		return nil, err
	}
	if !side.Valid() {
		return nil, fmt.Errorf("invalid side %q", side)
	}
	if size <= 0 {
		return nil, fmt.Errorf("conversion size must be positive, got %d", size)
	}

	n := decimal.NewFromInt(size * side.Sign())
	out := make([]Delta, 0, len(legs)+1)
	out = append(out, Delta{Symbol: sym, Amount: n})
	for _, leg := range legs {
		out = append(out, Delta{Symbol: leg.Symbol, Amount: n.Mul(leg.Ratio).Neg()})
	}
	return out, nil
}

// ScaleBasket returns the whole-unit basket for units of XLF, rounding each
// leg to the nearest unit.
func ScaleBasket(units Size) map[Symbol]Size {
	out := make(map[Symbol]Size, len(basketLegs))
	n := decimal.NewFromInt(units)
	for _, leg := range basketLegs {
		out[leg.Symbol] = n.Mul(leg.Ratio).Round(0).IntPart()
	}
	return out
}
