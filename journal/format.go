package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/arbbot/market"
)

// FormatFillsOrg renders the fills of a run as an Org-mode table.
func FormatFillsOrg(runID string, fills []FillRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Fills: run %s\n", shortID(runID))
	b.WriteString("| time | order | symbol | side | price | size |\n")
	b.WriteString("|------+-------+--------+------+-------+------|\n")
	for _, f := range fills {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %d | %d |\n",
			f.Time.UTC().Format(time.RFC3339), f.OrderID, f.Symbol, f.Side, f.Price, f.Size)
	}
	return b.String()
}

// FormatPositionsOrg renders a snapshot as an Org-mode property drawer.
func FormatPositionsOrg(runID string, p PositionSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Positions: run %s\n", shortID(runID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":RUN_ID: %s\n", runID)
	fmt.Fprintf(&b, ":TIME: %s\n", p.Time.UTC().Format(time.RFC3339))
	for _, sym := range market.Symbols {
		if pos, ok := p.Positions[sym]; ok {
			fmt.Fprintf(&b, ":%s: %s\n", sym, pos.String())
		}
	}
	b.WriteString(":END:\n")
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
