// journal/csv.go
package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rustyeddy/arbbot/market"
)

var (
	fillsHeader        = []string{"run_id", "time", "order_id", "symbol", "side", "price", "size"}
	instructionsHeader = []string{"run_id", "time", "kind", "order_id", "symbol", "side", "price", "size"}
	positionsHeader    = []string{"run_id", "time", "symbol", "position"}
)

// CSV writes fills.csv, instructions.csv and positions.csv into one
// directory.
type CSV struct {
	runID string
	files []*os.File

	fills        *csv.Writer
	instructions *csv.Writer
	positions    *csv.Writer
}

func NewCSV(dir, runID string) (*CSV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	j := &CSV{runID: runID}
	open := func(name string, header []string) (*csv.Writer, error) {
		path := filepath.Join(dir, name)
		_, statErr := os.Stat(path)
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		j.files = append(j.files, f)
		w := csv.NewWriter(f)
		if os.IsNotExist(statErr) {
			if err := w.Write(header); err != nil {
				return nil, err
			}
			w.Flush()
		}
		return w, w.Error()
	}

	var err error
	if j.fills, err = open("fills.csv", fillsHeader); err != nil {
		_ = j.Close()
		return nil, err
	}
	if j.instructions, err = open("instructions.csv", instructionsHeader); err != nil {
		_ = j.Close()
		return nil, err
	}
	if j.positions, err = open("positions.csv", positionsHeader); err != nil {
		_ = j.Close()
		return nil, err
	}
	return j, nil
}

func (j *CSV) RecordFill(f FillRecord) error {
	return j.fills.Write([]string{
		j.runID,
		f.Time.UTC().Format(time.RFC3339Nano),
		i(f.OrderID),
		string(f.Symbol),
		string(f.Side),
		i(f.Price),
		i(f.Size),
	})
}

func (j *CSV) RecordInstruction(r InstructionRecord) error {
	return j.instructions.Write([]string{
		j.runID,
		r.Time.UTC().Format(time.RFC3339Nano),
		r.Kind,
		i(r.OrderID),
		string(r.Symbol),
		string(r.Side),
		i(r.Price),
		i(r.Size),
	})
}

func (j *CSV) RecordPositions(p PositionSnapshot) error {
	ts := p.Time.UTC().Format(time.RFC3339Nano)
	for _, sym := range market.Symbols {
		pos, ok := p.Positions[sym]
		if !ok {
			continue
		}
		if err := j.positions.Write([]string{j.runID, ts, string(sym), pos.String()}); err != nil {
			return err
		}
	}
	return nil
}

// Flush pushes buffered rows of all three files to disk.
func (j *CSV) Flush() error {
	var first error
	for _, w := range []*csv.Writer{j.fills, j.instructions, j.positions} {
		if w == nil {
			continue
		}
		w.Flush()
		if err := w.Error(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (j *CSV) Close() error {
	first := j.Flush()
	for _, f := range j.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func i(x int64) string {
	return strconv.FormatInt(x, 10)
}
