package stats

// Tracker detects targets that went unreachable within one render cycle: at
// least one new probe completed since the last observation and none of the
// new attempts succeeded. It belongs to the render loop alone and needs no
// locking.
type Tracker struct {
	prev map[string]Counts
}

// NewTracker returns a tracker with no prior observations, so the first
// cycle already flags a target whose every recorded probe failed.
func NewTracker() *Tracker {
	return &Tracker{prev: make(map[string]Counts)}
}

// Unreachable compares the snapshot against the previous call and returns
// the flagged targets in input order. The prior pair is updated for every
// target regardless of the flag outcome. Diffs saturate at zero to tolerate
// in-flight updates between snapshot and comparison.
func (t *Tracker) Unreachable(targets []string, snap map[string]Stats) []string {
	var flagged []string
	for _, name := range targets {
		cur := snap[name]
		prev := t.prev[name]

		totalDiff := saturatingSub(cur.Total, prev.Total)
		successDiff := saturatingSub(cur.Success, prev.Success)
		if totalDiff > 0 && successDiff == 0 {
			flagged = append(flagged, name)
		}
		t.prev[name] = Counts{Success: cur.Success, Total: cur.Total}
	}
	return flagged
}

func saturatingSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}
