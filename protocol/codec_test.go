package protocol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/arbbot/market"
)

func TestDecodeHello(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"hello","symbols":[{"symbol":"BOND","position":3},{"symbol":"XLF","position":-10}]}` + "\n"))
	require.NoError(t, err)

	hello, ok := ev.(*Hello)
	require.True(t, ok)
	assert.Equal(t, []Position{
		{Symbol: market.BOND, Position: 3},
		{Symbol: market.XLF, Position: -10},
	}, hello.Positions)
}

func TestDecodeBook(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"book","symbol":"VALE","buy":[[90,4],[89,1]],"sell":[]}`))
	require.NoError(t, err)

	book := ev.(*Book)
	assert.Equal(t, market.VALE, book.Symbol)

	bid, ok := book.BestBid()
	assert.True(t, ok)
	assert.Equal(t, market.Price(90), bid)

	_, ok = book.BestAsk()
	assert.False(t, ok)
	assert.Equal(t, []Level{{Price: 90, Size: 4}, {Price: 89, Size: 1}}, book.Buy)
}

func TestDecodeFill(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"fill","order_id":7,"symbol":"BOND","dir":"SELL","price":1001,"size":2}`))
	require.NoError(t, err)
	assert.Equal(t, &Fill{OrderID: 7, Symbol: market.BOND, Dir: market.Sell, Price: 1001, Size: 2}, ev)
}

func TestDecodePassThrough(t *testing.T) {
	tests := []struct {
		line string
		want Event
	}{
		{`{"type":"ack","order_id":4}`, &Ack{OrderID: 4}},
		{`{"type":"out","order_id":4}`, &Out{OrderID: 4}},
		{`{"type":"reject","order_id":4,"error":"TRADING_CLOSED"}`, &Reject{OrderID: 4, Error: "TRADING_CLOSED"}},
		{`{"type":"error","error":"bad"}`, &Error{Error: "bad"}},
		{`{"type":"close","symbols":["BOND"]}`, &Close{Symbols: []string{"BOND"}}},
		{`{"type":"open","symbols":["BOND","XLF"]}`, &Open{Symbols: []string{"BOND", "XLF"}}},
		{`{"type":"trade","symbol":"GS","price":5000,"size":3}`, &Trade{Symbol: market.GS, Price: 5000, Size: 3}},
	}

	for _, tt := range tests {
		t.Run(string(tt.want.Kind()), func(t *testing.T) {
			ev, err := Decode([]byte(tt.line))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		field string
		is    error
	}{
		{"empty", ``, "", nil},
		{"not json", `{"type":`, "", nil},
		{"no type", `{"order_id":1}`, "type", ErrMissingField},
		{"unknown type", `{"type":"bogus"}`, "", ErrUnknownKind},
		{"fill without id", `{"type":"fill","symbol":"BOND","dir":"BUY","size":1}`, "order_id", ErrMissingField},
		{"fill bad dir", `{"type":"fill","order_id":1,"symbol":"BOND","dir":"UP","size":1}`, "dir", nil},
		{"book unknown symbol", `{"type":"book","symbol":"AAPL","buy":[],"sell":[]}`, "symbol", nil},
		{"book missing side", `{"type":"book","symbol":"BOND","buy":[]}`, "sell", ErrMissingField},
		{"ack without id", `{"type":"ack"}`, "order_id", ErrMissingField},
		{"hello without symbols", `{"type":"hello"}`, "symbols", ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.line))
			require.Error(t, err)

			var de *DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.field, de.Field)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		ins  Instruction
		want string
	}{
		{HelloRequest{Team: "PRINSEPSTREET"}, `{"type":"hello","team":"PRINSEPSTREET"}`},
		{Add{OrderID: 1, Symbol: market.BOND, Dir: market.Buy, Price: 998, Size: 5}, `{"type":"add","order_id":1,"symbol":"BOND","dir":"BUY","price":998,"size":5}`},
		{Convert{OrderID: 2, Symbol: market.XLF, Dir: market.Sell, Size: 50}, `{"type":"convert","order_id":2,"symbol":"XLF","dir":"SELL","size":50}`},
		{Cancel{OrderID: 3}, `{"type":"cancel","order_id":3}`},
	}

	for _, tt := range tests {
		t.Run(string(tt.ins.Kind()), func(t *testing.T) {
			b, err := Encode(tt.ins)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", string(b))
		})
	}
}
