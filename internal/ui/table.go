package ui

import (
	"fmt"

	"pingmon/internal/stats"
)

const rowFormat = "%-20s %16s %10s %10s %10s"

// Row is one formatted table line plus the flag the renderers use for
// highlighting.
type Row struct {
	Target      string
	Text        string
	Unreachable bool
}

// Table is the per-cycle view of every target: a header and one row per
// target in input-file order.
type Table struct {
	Header string
	Rows   []Row
}

// Lines flattens the table for sinks that only take text, such as the
// console renderer and the final-state log block.
func (t Table) Lines() []string {
	lines := make([]string, 0, len(t.Rows)+1)
	lines = append(lines, t.Header)
	for _, row := range t.Rows {
		lines = append(lines, row.Text)
	}
	return lines
}

// Build formats the snapshot into a fixed-width table. Latencies show two
// decimals; "-" stands in while no sample exists. Targets flagged
// unreachable this cycle are marked on their rows.
func Build(targets []string, snap map[string]stats.Stats, flagged []string) Table {
	flaggedSet := make(map[string]bool, len(flagged))
	for _, name := range flagged {
		flaggedSet[name] = true
	}

	table := Table{
		Header: fmt.Sprintf(rowFormat, "Target", "ok/total", "min (ms)", "avg (ms)", "max (ms)"),
		Rows:   make([]Row, 0, len(targets)),
	}
	for _, name := range targets {
		st := snap[name]
		avg, hasAvg := st.AvgMS()
		text := fmt.Sprintf(rowFormat,
			name,
			fmt.Sprintf("%d/%d", st.Success, st.Total),
			formatMS(st.MinMS, st.Samples > 0),
			formatMS(avg, hasAvg),
			formatMS(st.MaxMS, st.Samples > 0),
		)
		table.Rows = append(table.Rows, Row{
			Target:      name,
			Text:        text,
			Unreachable: flaggedSet[name],
		})
	}
	return table
}

func formatMS(v float64, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}
