package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownOrder   = errors.New("unknown order id")
	ErrDuplicateID    = errors.New("id already in use")
	ErrMismatchedFill = errors.New("fill does not match order")
	ErrOverfill       = errors.New("fill exceeds remaining size")
	ErrInvalidSize    = errors.New("size must be positive")
	ErrNotConvertible = errors.New("symbol is not convertible")
	ErrTerminalOrder  = errors.New("order is already terminal")
	ErrInvalidSide    = errors.New("invalid side")
	ErrUnknownSymbol  = errors.New("unknown symbol")
)

// Error reports an event the ledger refused to apply. The ledger is left
// unchanged when an Error is returned.
type Error struct {
	Op  string
	ID  int64
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ledger %s %d: %v", e.Op, e.ID, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsLedgerError reports whether err is, or wraps, a ledger *Error.
func IsLedgerError(err error) bool {
	var le *Error
	return errors.As(err, &le)
}
