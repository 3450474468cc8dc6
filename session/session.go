// Package session owns the line-delimited JSON connection to the exchange.
package session

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/rustyeddy/arbbot/protocol"
)

// DefaultReadTimeout turns exchange silence into a hard failure when the
// socket timeout is enabled.
const DefaultReadTimeout = 5 * time.Second

type Options struct {
	Addr          string
	Team          string
	SocketTimeout bool
	ReadTimeout   time.Duration
	WindowSize    int
	DialTimeout   time.Duration
}

type Session struct {
	conn   net.Conn
	reader *bufio.Reader
	opts   Options
	log    *zap.SugaredLogger

	window   *RateWindow
	warn     rate.Sometimes
	warnings int
	sent     int
	now      func() time.Time

	hello  *protocol.Hello
	closed bool
}

// New wraps an established connection. Most callers want Dial.
func New(conn net.Conn, opts Options, log *zap.SugaredLogger) *Session {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}
	return &Session{
		conn:   conn,
		reader: bufio.NewReaderSize(conn, 64*1024),
		opts:   opts,
		log:    log,
		window: NewRateWindow(opts.WindowSize, DefaultWindowSpan),
		warn:   rate.Sometimes{Interval: time.Second},
		now:    time.Now,
	}
}

// Dial connects to the exchange and completes the hello handshake.
func Dial(ctx context.Context, opts Options, log *zap.SugaredLogger) (*Session, error) {
	d := net.Dialer{Timeout: opts.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", opts.Addr)
	if err != nil {
		return nil, &ConnectionError{Addr: opts.Addr, Err: err}
	}

	s := New(conn, opts, log)
	if err := s.Handshake(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

// Handshake sends our hello and waits for the exchange's reply, which
// carries the starting positions.
func (s *Session) Handshake(ctx context.Context) error {
	team := strings.ToUpper(s.opts.Team)
	if err := s.Send(ctx, protocol.HelloRequest{Team: team}); err != nil {
		return &ConnectionError{Addr: s.opts.Addr, Err: err}
	}

	ev, err := s.ReadEvent(ctx)
	if err != nil {
		return &ConnectionError{Addr: s.opts.Addr, Err: err}
	}

	switch m := ev.(type) {
	case *protocol.Hello:
		s.hello = m
		s.log.Infow("handshake_complete", "team", team, "symbols", len(m.Positions))
		return nil
	case *protocol.Error:
		return &ConnectionError{Addr: s.opts.Addr, Err: errors.Join(ErrHandshakeRefused, errors.New(m.Error))}
	case *protocol.Reject:
		return &ConnectionError{Addr: s.opts.Addr, Err: errors.Join(ErrHandshakeRefused, errors.New(m.Error))}
	default:
		return &ConnectionError{Addr: s.opts.Addr, Err: ErrHandshakeRefused}
	}
}

// Hello returns the exchange's handshake reply, nil before Handshake.
func (s *Session) Hello() *protocol.Hello {
	return s.hello
}

// ReadEvent blocks until one complete frame arrives and decodes it.
func (s *Session) ReadEvent(ctx context.Context) (protocol.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var deadline time.Time
	if s.opts.SocketTimeout {
		deadline = s.now().Add(s.opts.ReadTimeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	if err := s.conn.SetReadDeadline(deadline); err != nil {
		return nil, &TransportError{Op: "read", Err: err}
	}

	// unblock the read if ctx is cancelled
	stop := context.AfterFunc(ctx, func() {
		_ = s.conn.SetReadDeadline(time.Unix(1, 0))
	})
	line, err := s.reader.ReadBytes('\n')
	stop()

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &TransportError{Op: "read", Err: err}
	}

	ev, err := protocol.Decode(line)
	if err != nil {
		return nil, &ProtocolError{Frame: trimFrame(line), Err: err}
	}
	if ce := s.log.Desugar().Check(zap.DebugLevel, "event"); ce != nil {
		ce.Write(zap.ByteString("raw", line[:len(line)-1]))
	}
	return ev, nil
}

// Send writes one instruction, looping over partial writes. It never blocks
// or drops on rate: the exchange enforces its own limit and the window only
// warns the operator.
func (s *Session) Send(ctx context.Context, ins protocol.Instruction) error {
	frame, err := protocol.Encode(ins)
	if err != nil {
		return err
	}

	var deadline time.Time
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	if err := s.conn.SetWriteDeadline(deadline); err != nil {
		return &TransportError{Op: "write", Err: err}
	}

	for written := 0; written < len(frame); {
		n, err := s.conn.Write(frame[written:])
		if err != nil {
			return &TransportError{Op: "write", Err: err}
		}
		if n == 0 {
			return &TransportError{Op: "write", Err: ErrNoProgress}
		}
		written += n
	}
	s.sent++
	s.log.Debugw("sent", "kind", ins.Kind(), "frame", string(frame[:len(frame)-1]))

	if s.window.Record(s.now()) {
		s.warnings++
		s.warn.Do(func() {
			s.log.Warnw("send_rate_exceeded",
				"window", s.window.Len(),
				"span", DefaultWindowSpan,
				"hint", "the exchange ignores messages above its rate limit",
			)
		})
	}
	return nil
}

// Sent is the number of instructions written.
func (s *Session) Sent() int { return s.sent }

// RateWarnings counts sends that found the rate window saturated.
func (s *Session) RateWarnings() int { return s.warnings }

func (s *Session) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return s.conn.Close()
}
