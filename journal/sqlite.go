package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/arbbot/market"
)

// SQLite buffers records in memory and writes them in one transaction per
// Flush, so the trading loop pays for at most one commit per event.
type SQLite struct {
	db    *sql.DB
	runID string

	fills        []FillRecord
	instructions []InstructionRecord
	positions    []PositionSnapshot
}

// NewSQLite opens (or creates) the journal database. Records are tagged
// with runID so several sessions can share one file.
func NewSQLite(path, runID string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db, runID: runID}, nil
}

func (j *SQLite) RecordFill(f FillRecord) error {
	j.fills = append(j.fills, f)
	return nil
}

func (j *SQLite) RecordInstruction(r InstructionRecord) error {
	j.instructions = append(j.instructions, r)
	return nil
}

func (j *SQLite) RecordPositions(p PositionSnapshot) error {
	j.positions = append(j.positions, p)
	return nil
}

// Pending reports how many records are waiting for the next Flush.
func (j *SQLite) Pending() int {
	return len(j.fills) + len(j.instructions) + len(j.positions)
}

// Flush writes every buffered record in a single transaction. The buffer is
// dropped even when the write fails; the journal never blocks trading.
func (j *SQLite) Flush() error {
	if j.Pending() == 0 {
		return nil
	}
	defer func() {
		j.fills, j.instructions, j.positions = j.fills[:0], j.instructions[:0], j.positions[:0]
	}()

	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	if err := j.write(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (j *SQLite) write(tx *sql.Tx) error {
	for _, f := range j.fills {
		if _, err := tx.Exec(`
			INSERT INTO fills
			(run_id, time, order_id, symbol, side, price, size)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			j.runID, f.Time.UTC(), f.OrderID, string(f.Symbol), string(f.Side), f.Price, f.Size,
		); err != nil {
			return fmt.Errorf("insert fill: %w", err)
		}
	}

	for _, r := range j.instructions {
		if _, err := tx.Exec(`
			INSERT INTO instructions
			(run_id, time, kind, order_id, symbol, side, price, size)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			j.runID, r.Time.UTC(), r.Kind, r.OrderID, string(r.Symbol), string(r.Side), r.Price, r.Size,
		); err != nil {
			return fmt.Errorf("insert instruction: %w", err)
		}
	}

	if len(j.positions) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(`INSERT INTO positions (run_id, time, symbol, position) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, p := range j.positions {
		for _, sym := range market.Symbols {
			pos, ok := p.Positions[sym]
			if !ok {
				continue
			}
			if _, err := stmt.Exec(j.runID, p.Time.UTC(), string(sym), pos.String()); err != nil {
				return fmt.Errorf("insert positions: %w", err)
			}
		}
	}
	return nil
}

func (j *SQLite) Close() error {
	ferr := j.Flush()
	if err := j.db.Close(); err != nil {
		return err
	}
	return ferr
}
