package journal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/arbbot/market"
)

// ListRuns returns every run id in the journal, oldest first. ULIDs sort by
// creation time.
func (j *SQLite) ListRuns() ([]string, error) {
	rows, err := j.db.Query(`
		SELECT run_id FROM fills
		UNION SELECT run_id FROM instructions
		UNION SELECT run_id FROM positions
		ORDER BY run_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListFills returns the fills of one run in arrival order.
func (j *SQLite) ListFills(runID string) ([]FillRecord, error) {
	rows, err := j.db.Query(`
		SELECT time, order_id, symbol, side, price, size
		FROM fills
		WHERE run_id = ?
		ORDER BY rowid ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FillRecord
	for rows.Next() {
		var (
			rec       FillRecord
			sym, side string
		)
		if err := rows.Scan(&rec.Time, &rec.OrderID, &sym, &side, &rec.Price, &rec.Size); err != nil {
			return nil, err
		}
		rec.Symbol = market.Symbol(sym)
		rec.Side = market.Side(side)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LatestPositions returns the most recent snapshot recorded for a run.
func (j *SQLite) LatestPositions(runID string) (PositionSnapshot, error) {
	rows, err := j.db.Query(`
		SELECT time, symbol, position
		FROM positions
		WHERE run_id = ? AND time = (SELECT MAX(time) FROM positions WHERE run_id = ?)`,
		runID, runID)
	if err != nil {
		return PositionSnapshot{}, err
	}
	defer rows.Close()

	snap := PositionSnapshot{Positions: make(map[market.Symbol]decimal.Decimal)}
	for rows.Next() {
		var sym, pos string
		if err := rows.Scan(&snap.Time, &sym, &pos); err != nil {
			return PositionSnapshot{}, err
		}
		d, err := decimal.NewFromString(pos)
		if err != nil {
			return PositionSnapshot{}, fmt.Errorf("position %s: %w", sym, err)
		}
		snap.Positions[market.Symbol(sym)] = d
	}
	if err := rows.Err(); err != nil {
		return PositionSnapshot{}, err
	}
	if len(snap.Positions) == 0 {
		return PositionSnapshot{}, fmt.Errorf("no positions recorded for run %q", runID)
	}
	return snap, nil
}
