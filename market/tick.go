package market

// Quote is the last observed top of book of one symbol. A side that has
// never been observed stays unset, so no crossing test can pass against it.
type Quote struct {
	Symbol Symbol
	Bid    Price
	Ask    Price
	HasBid bool
	HasAsk bool
}

func (q Quote) Spread() (Price, bool) {
	if !q.HasBid || !q.HasAsk {
		return 0, false
	}
	return q.Ask - q.Bid, true
}

// QuoteBook caches the last best bid/ask per symbol. It is owned by a single
// goroutine and does no locking.
type QuoteBook struct {
	quotes map[Symbol]Quote
}

func NewQuoteBook() *QuoteBook {
	return &QuoteBook{quotes: make(map[Symbol]Quote, len(Symbols))}
}

// Update records the sides that are present. An empty side keeps the
// previously cached price.
func (b *QuoteBook) Update(sym Symbol, bid Price, hasBid bool, ask Price, hasAsk bool) Quote {
	q := b.quotes[sym]
	q.Symbol = sym
	if hasBid {
		q.Bid, q.HasBid = bid, true
	}
	if hasAsk {
		q.Ask, q.HasAsk = ask, true
	}
	b.quotes[sym] = q
	return q
}

func (b *QuoteBook) Get(sym Symbol) Quote {
	q, ok := b.quotes[sym]
	if !ok {
		return Quote{Symbol: sym}
	}
	return q
}
