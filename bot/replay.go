package bot

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rustyeddy/arbbot/protocol"
)

// ErrNoHello is returned by NewReplay when a transcript does not start with
// the exchange's hello.
var ErrNoHello = errors.New("transcript does not start with hello")

// Replay reads a transcript of inbound frames, one JSON object per line, as
// recorded from the exchange. Blank lines are skipped. It lets a session be
// re-run offline against a recording sender.
type Replay struct {
	r     *bufio.Reader
	hello *protocol.Hello
	line  int
}

func NewReplay(r io.Reader) (*Replay, error) {
	rp := &Replay{r: bufio.NewReaderSize(r, 64*1024)}
	ev, err := rp.next()
	if err != nil {
		return nil, err
	}
	hello, ok := ev.(*protocol.Hello)
	if !ok {
		return nil, fmt.Errorf("line %d: %w (got %s)", rp.line, ErrNoHello, ev.Kind())
	}
	rp.hello = hello
	return rp, nil
}

func (rp *Replay) Hello() *protocol.Hello { return rp.hello }

// ReadEvent returns io.EOF at the end of the transcript.
func (rp *Replay) ReadEvent(ctx context.Context) (protocol.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rp.next()
}

func (rp *Replay) next() (protocol.Event, error) {
	for {
		line, err := rp.r.ReadBytes('\n')
		if len(line) == 0 && err != nil {
			return nil, err
		}
		rp.line++
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 {
			if err != nil {
				return nil, err
			}
			continue
		}
		ev, derr := protocol.Decode(trimmed)
		if derr != nil {
			return nil, fmt.Errorf("line %d: %w", rp.line, derr)
		}
		return ev, nil
	}
}
