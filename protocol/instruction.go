package protocol

import "github.com/rustyeddy/arbbot/market"

// Instruction is an outbound message to the exchange.
type Instruction interface {
	Kind() Kind
	wire() any
}

// HelloRequest opens the session.
type HelloRequest struct {
	Team string
}

// Add places a resting limit order.
type Add struct {
	OrderID int64
	Symbol  market.Symbol
	Dir     market.Side
	Price   market.Price
	Size    market.Size
}

// Convert exchanges Size units of Symbol for its equivalent legs (Buy) or
// the legs for Symbol (Sell).
type Convert struct {
	OrderID int64
	Symbol  market.Symbol
	Dir     market.Side
	Size    market.Size
}

type Cancel struct {
	OrderID int64
}

func (HelloRequest) Kind() Kind { return KindHello }
func (Add) Kind() Kind          { return KindAdd }
func (Convert) Kind() Kind      { return KindConvert }
func (Cancel) Kind() Kind       { return KindCancel }

type wireHello struct {
	Type string `json:"type"`
	Team string `json:"team"`
}

type wireAdd struct {
	Type    string `json:"type"`
	OrderID int64  `json:"order_id"`
	Symbol  string `json:"symbol"`
	Dir     string `json:"dir"`
	Price   int64  `json:"price"`
	Size    int64  `json:"size"`
}

type wireConvert struct {
	Type    string `json:"type"`
	OrderID int64  `json:"order_id"`
	Symbol  string `json:"symbol"`
	Dir     string `json:"dir"`
	Size    int64  `json:"size"`
}

type wireCancel struct {
	Type    string `json:"type"`
	OrderID int64  `json:"order_id"`
}

func (h HelloRequest) wire() any {
	return wireHello{Type: string(KindHello), Team: h.Team}
}

func (a Add) wire() any {
	return wireAdd{
		Type:    string(KindAdd),
		OrderID: a.OrderID,
		Symbol:  string(a.Symbol),
		Dir:     string(a.Dir),
		Price:   a.Price,
		Size:    a.Size,
	}
}

func (c Convert) wire() any {
	return wireConvert{
		Type:    string(KindConvert),
		OrderID: c.OrderID,
		Symbol:  string(c.Symbol),
		Dir:     string(c.Dir),
		Size:    c.Size,
	}
}

func (c Cancel) wire() any {
	return wireCancel{Type: string(KindCancel), OrderID: c.OrderID}
}
