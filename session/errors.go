package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNoProgress is returned when a write reports zero bytes written.
	ErrNoProgress = errors.New("write made no progress")
	// ErrHandshakeRefused is returned when the exchange answers our hello
	// with anything other than its own hello.
	ErrHandshakeRefused = errors.New("handshake refused")
	ErrClosed           = errors.New("session closed")
)

// ConnectionError means a session could not be established.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TransportError means the connection is presumed dead.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError means an inbound frame could not be decoded. The protocol
// has no way to resynchronise, so it is fatal.
type ProtocolError struct {
	Frame string
	Err   error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol: %v (frame=%q)", e.Err, e.Frame)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

func trimFrame(b []byte) string {
	const n = 200
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
