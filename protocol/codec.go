package protocol

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/rustyeddy/arbbot/market"
)

var (
	ErrMissingField = errors.New("missing field")
	ErrUnknownKind  = errors.New("unknown message type")
)

// DecodeError describes an inbound frame that could not be turned into an
// Event.
type DecodeError struct {
	Kind  Kind
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("decode %s: field %q: %v", e.Kind, e.Field, e.Err)
	case e.Kind != "":
		return fmt.Sprintf("decode %s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("decode: %v", e.Err)
	}
}

func (e *DecodeError) Unwrap() error { return e.Err }

// envelope is the union of every inbound field. Pointers distinguish a
// missing field from a zero value.
type envelope struct {
	Type    string          `json:"type"`
	Symbols json.RawMessage `json:"symbols"`
	Symbol  *string         `json:"symbol"`
	Buy     *[][2]int64     `json:"buy"`
	Sell    *[][2]int64     `json:"sell"`
	OrderID *int64          `json:"order_id"`
	Dir     *string         `json:"dir"`
	Price   *int64          `json:"price"`
	Size    *int64          `json:"size"`
	Error   *string         `json:"error"`
}

type helloPosition struct {
	Symbol   string `json:"symbol"`
	Position int64  `json:"position"`
}

// Decode parses one frame. Surrounding whitespace, including the line
// terminator, is ignored.
func Decode(line []byte) (Event, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, &DecodeError{Err: errors.New("empty frame")}
	}

	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, &DecodeError{Err: err}
	}
	kind := Kind(env.Type)

	switch kind {
	case KindHello:
		return decodeHello(&env)
	case KindOpen, KindClose:
		var syms []string
		if len(env.Symbols) > 0 {
			if err := json.Unmarshal(env.Symbols, &syms); err != nil {
				return nil, &DecodeError{Kind: kind, Field: "symbols", Err: err}
			}
		}
		if kind == KindOpen {
			return &Open{Symbols: syms}, nil
		}
		return &Close{Symbols: syms}, nil
	case KindError:
		ev := &Error{}
		if env.Error != nil {
			ev.Error = *env.Error
		}
		return ev, nil
	case KindBook:
		return decodeBook(&env)
	case KindTrade:
		sym, err := requireSymbol(kind, env.Symbol)
		if err != nil {
			return nil, err
		}
		price, err := requireInt(kind, "price", env.Price)
		if err != nil {
			return nil, err
		}
		size, err := requireInt(kind, "size", env.Size)
		if err != nil {
			return nil, err
		}
		return &Trade{Symbol: sym, Price: price, Size: size}, nil
	case KindAck, KindOut:
		id, err := requireInt(kind, "order_id", env.OrderID)
		if err != nil {
			return nil, err
		}
		if kind == KindAck {
			return &Ack{OrderID: id}, nil
		}
		return &Out{OrderID: id}, nil
	case KindReject:
		id, err := requireInt(kind, "order_id", env.OrderID)
		if err != nil {
			return nil, err
		}
		ev := &Reject{OrderID: id}
		if env.Error != nil {
			ev.Error = *env.Error
		}
		return ev, nil
	case KindFill:
		return decodeFill(&env)
	case "":
		return nil, &DecodeError{Field: "type", Err: ErrMissingField}
	default:
		return nil, &DecodeError{Kind: kind, Err: ErrUnknownKind}
	}
}

func decodeHello(env *envelope) (Event, error) {
	if len(env.Symbols) == 0 {
		return nil, &DecodeError{Kind: KindHello, Field: "symbols", Err: ErrMissingField}
	}
	var raw []helloPosition
	if err := json.Unmarshal(env.Symbols, &raw); err != nil {
		return nil, &DecodeError{Kind: KindHello, Field: "symbols", Err: err}
	}

	ev := &Hello{Positions: make([]Position, 0, len(raw))}
	for _, p := range raw {
		sym, err := market.ParseSymbol(p.Symbol)
		if err != nil {
			return nil, &DecodeError{Kind: KindHello, Field: "symbols", Err: err}
		}
		ev.Positions = append(ev.Positions, Position{Symbol: sym, Position: p.Position})
	}
	return ev, nil
}

func decodeBook(env *envelope) (Event, error) {
	sym, err := requireSymbol(KindBook, env.Symbol)
	if err != nil {
		return nil, err
	}
	if env.Buy == nil {
		return nil, &DecodeError{Kind: KindBook, Field: "buy", Err: ErrMissingField}
	}
	if env.Sell == nil {
		return nil, &DecodeError{Kind: KindBook, Field: "sell", Err: ErrMissingField}
	}
	return &Book{
		Symbol: sym,
		Buy:    levels(*env.Buy),
		Sell:   levels(*env.Sell),
	}, nil
}

func decodeFill(env *envelope) (Event, error) {
	id, err := requireInt(KindFill, "order_id", env.OrderID)
	if err != nil {
		return nil, err
	}
	sym, err := requireSymbol(KindFill, env.Symbol)
	if err != nil {
		return nil, err
	}
	if env.Dir == nil {
		return nil, &DecodeError{Kind: KindFill, Field: "dir", Err: ErrMissingField}
	}
	dir, err := market.ParseSide(*env.Dir)
	if err != nil {
		return nil, &DecodeError{Kind: KindFill, Field: "dir", Err: err}
	}
	size, err := requireInt(KindFill, "size", env.Size)
	if err != nil {
		return nil, err
	}

	ev := &Fill{OrderID: id, Symbol: sym, Dir: dir, Size: size}
	if env.Price != nil {
		ev.Price = *env.Price
	}
	return ev, nil
}

func requireSymbol(kind Kind, s *string) (market.Symbol, error) {
	if s == nil {
		return "", &DecodeError{Kind: kind, Field: "symbol", Err: ErrMissingField}
	}
	sym, err := market.ParseSymbol(*s)
	if err != nil {
		return "", &DecodeError{Kind: kind, Field: "symbol", Err: err}
	}
	return sym, nil
}

func requireInt(kind Kind, field string, v *int64) (int64, error) {
	if v == nil {
		return 0, &DecodeError{Kind: kind, Field: field, Err: ErrMissingField}
	}
	return *v, nil
}

func levels(raw [][2]int64) []Level {
	out := make([]Level, len(raw))
	for i, l := range raw {
		out[i] = Level{Price: l[0], Size: l[1]}
	}
	return out
}

// Encode renders an instruction as a single newline-terminated frame.
func Encode(ins Instruction) ([]byte, error) {
	if ins == nil {
		return nil, errors.New("encode: nil instruction")
	}
	b, err := json.Marshal(ins.wire())
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ins.Kind(), err)
	}
	if len(b) == 0 || b[len(b)-1] != '\n' {
		b = append(b, '\n')
	}
	return b, nil
}
