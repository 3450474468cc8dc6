// market/instruments.go
package market

import "fmt"

type Symbol string

const (
	BOND  Symbol = "BOND"
	VALBZ Symbol = "VALBZ"
	VALE  Symbol = "VALE"
	GS    Symbol = "GS"
	MS    Symbol = "MS"
	WFC   Symbol = "WFC"
	XLF   Symbol = "XLF"
)

// Symbols is the closed set of instruments traded on the exchange, in the
// order the exchange lists them.
var Symbols = []Symbol{BOND, VALBZ, VALE, GS, MS, WFC, XLF}

// BondFairValue is the fixed reference price of BOND. It doubles as the
// BOND leg of the XLF basket.
const BondFairValue Price = 1000

type InstrumentMeta struct {
	Symbol Symbol
	// Legs is what one unit converts into. Only the converted-side symbol
	// (VALE, XLF) carries legs.
	Legs []Leg
}

var Instruments = map[Symbol]InstrumentMeta{
	BOND:  {Symbol: BOND},
	VALBZ: {Symbol: VALBZ},
	VALE:  {Symbol: VALE, Legs: pairLegs},
	GS:    {Symbol: GS},
	MS:    {Symbol: MS},
	WFC:   {Symbol: WFC},
	XLF:   {Symbol: XLF, Legs: basketLegs},
}

func (s Symbol) String() string { return string(s) }

// Valid reports whether s belongs to the instrument set.
func (s Symbol) Valid() bool {
	_, ok := Instruments[s]
	return ok
}

func ParseSymbol(s string) (Symbol, error) {
	sym := Symbol(s)
	if !sym.Valid() {
		return "", fmt.Errorf("unknown symbol %q", s)
	}
	return sym, nil
}
