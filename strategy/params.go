package strategy

import (
	"fmt"

	"github.com/rustyeddy/arbbot/market"
)

// Params holds the thresholds and sizes of every strategy. The zero value is
// not usable; start from DefaultParams.
type Params struct {
	// VALE is bought when its bid sits PairEdge below the VALBZ ask and sold
	// when it sits PairEdge above.
	PairEdge market.Price `json:"pair_edge" yaml:"pair_edge"`
	// PairRebalance is the rounded VALE or VALBZ position that triggers a
	// VALE<->VALBZ conversion.
	PairRebalance int64       `json:"pair_rebalance" yaml:"pair_rebalance"`
	PairHedgeSize market.Size `json:"pair_hedge_size" yaml:"pair_hedge_size"`
	PairOrderSize market.Size `json:"pair_order_size" yaml:"pair_order_size"`

	BondFair      market.Price `json:"bond_fair" yaml:"bond_fair"`
	BondMinSpread market.Price `json:"bond_min_spread" yaml:"bond_min_spread"`
	BondMaxOpen   int          `json:"bond_max_open" yaml:"bond_max_open"`
	BondSkew      int64        `json:"bond_skew" yaml:"bond_skew"`

	BasketEdge     market.Price `json:"basket_edge" yaml:"basket_edge"`
	BasketWideEdge market.Price `json:"basket_wide_edge" yaml:"basket_wide_edge"`
	BasketSize     market.Size  `json:"basket_size" yaml:"basket_size"`
	BasketHalfSize market.Size  `json:"basket_half_size" yaml:"basket_half_size"`

	// ETFLimit is the XLF position at which ETFConvert units are converted
	// back toward flat.
	ETFLimit   int64       `json:"etf_limit" yaml:"etf_limit"`
	ETFConvert market.Size `json:"etf_convert" yaml:"etf_convert"`
}

func DefaultParams() Params {
	return Params{
		PairEdge:      3,
		PairRebalance: 10,
		PairHedgeSize: 1,
		PairOrderSize: 1,

		BondFair:      market.BondFairValue,
		BondMinSpread: 2,
		BondMaxOpen:   20,
		BondSkew:      15,

		BasketEdge:     20,
		BasketWideEdge: 30,
		BasketSize:     20,
		BasketHalfSize: 10,

		ETFLimit:   100,
		ETFConvert: 50,
	}
}

func (p Params) Validate() error {
	switch {
	case p.PairEdge < 0:
		return fmt.Errorf("pair_edge must not be negative")
	case p.PairRebalance <= 0:
		return fmt.Errorf("pair_rebalance must be positive")
	case p.PairHedgeSize <= 0 || p.PairOrderSize <= 0:
		return fmt.Errorf("pair order sizes must be positive")
	case p.BondFair <= 0:
		return fmt.Errorf("bond_fair must be positive")
	case p.BondMinSpread < 0:
		return fmt.Errorf("bond_min_spread must not be negative")
	case p.BondMaxOpen <= 0:
		return fmt.Errorf("bond_max_open must be positive")
	case p.BondSkew <= 0:
		return fmt.Errorf("bond_skew must be positive")
	case p.BasketEdge < 0 || p.BasketWideEdge < 0:
		return fmt.Errorf("basket edges must not be negative")
	case p.BasketSize <= 0 || p.BasketHalfSize <= 0:
		return fmt.Errorf("basket sizes must be positive")
	case p.ETFLimit <= 0:
		return fmt.Errorf("etf_limit must be positive")
	case p.ETFConvert <= 0 || p.ETFConvert > p.ETFLimit:
		return fmt.Errorf("etf_convert must be in (0, etf_limit]")
	}
	return nil
}
