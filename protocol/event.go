// Package protocol holds the typed messages exchanged with the matching
// engine: one JSON object per line in both directions.
package protocol

import "github.com/rustyeddy/arbbot/market"

type Kind string

const (
	KindHello   Kind = "hello"
	KindOpen    Kind = "open"
	KindClose   Kind = "close"
	KindError   Kind = "error"
	KindBook    Kind = "book"
	KindTrade   Kind = "trade"
	KindAck     Kind = "ack"
	KindReject  Kind = "reject"
	KindFill    Kind = "fill"
	KindOut     Kind = "out"
	KindAdd     Kind = "add"
	KindConvert Kind = "convert"
	KindCancel  Kind = "cancel"
)

// Event is an inbound exchange message. The set of implementations is
// closed; switch on the concrete type.
type Event interface {
	Kind() Kind
	event()
}

type Position struct {
	Symbol   market.Symbol
	Position int64
}

// Hello is the exchange's reply to our handshake. It carries our starting
// positions, which are non-zero after a reconnect.
type Hello struct {
	Positions []Position
}

type Level struct {
	Price market.Price
	Size  market.Size
}

// Book is a snapshot of the visible price levels of one symbol, best first.
type Book struct {
	Symbol market.Symbol
	Buy    []Level
	Sell   []Level
}

func (b *Book) BestBid() (market.Price, bool) {
	if len(b.Buy) == 0 {
		return 0, false
	}
	return b.Buy[0].Price, true
}

func (b *Book) BestAsk() (market.Price, bool) {
	if len(b.Sell) == 0 {
		return 0, false
	}
	return b.Sell[0].Price, true
}

type Fill struct {
	OrderID int64
	Symbol  market.Symbol
	Dir     market.Side
	Price   market.Price
	Size    market.Size
}

type Ack struct {
	OrderID int64
}

// Out reports that an order left the book, either cancelled or fully filled.
type Out struct {
	OrderID int64
}

type Reject struct {
	OrderID int64
	Error   string
}

type Error struct {
	Error string
}

// Trade is a public print between any two participants.
type Trade struct {
	Symbol market.Symbol
	Price  market.Price
	Size   market.Size
}

type Open struct {
	Symbols []string
}

type Close struct {
	Symbols []string
}

func (*Hello) Kind() Kind  { return KindHello }
func (*Book) Kind() Kind   { return KindBook }
func (*Fill) Kind() Kind   { return KindFill }
func (*Ack) Kind() Kind    { return KindAck }
func (*Out) Kind() Kind    { return KindOut }
func (*Reject) Kind() Kind { return KindReject }
func (*Error) Kind() Kind  { return KindError }
func (*Trade) Kind() Kind  { return KindTrade }
func (*Open) Kind() Kind   { return KindOpen }
func (*Close) Kind() Kind  { return KindClose }

func (*Hello) event()  {}
func (*Book) event()   {}
func (*Fill) event()   {}
func (*Ack) event()    {}
func (*Out) event()    {}
func (*Reject) event() {}
func (*Error) event()  {}
func (*Trade) event()  {}
func (*Open) event()   {}
func (*Close) event()  {}
