package stats

import (
	"sync"
	"time"

	"pingmon/internal/probe"
)

// Stats holds running per-target counters. Counts only ever increase.
// MinMS and MaxMS are meaningful only while Samples > 0; a successful probe
// without a parseable timing value bumps Success but not Samples.
type Stats struct {
	Success uint64
	Total   uint64
	Samples uint64
	SumMS   float64
	MinMS   float64
	MaxMS   float64
}

// AvgMS returns the mean latency in milliseconds, false when no sample exists.
func (s Stats) AvgMS() (float64, bool) {
	if s.Samples == 0 {
		return 0, false
	}
	return s.SumMS / float64(s.Samples), true
}

// Counts is the (total, success) pair a render cycle compares across ticks.
type Counts struct {
	Success uint64
	Total   uint64
}

// Accumulator aggregates probe results per target. Record is safe for
// concurrent callers; Snapshot gives the render loop a consistent copy
// without leaving writers blocked beyond the duration of the copy.
type Accumulator struct {
	mu      sync.Mutex
	targets map[string]*Stats
}

// NewAccumulator returns an empty accumulator. Per-target entries are
// created lazily on first result and never removed.
func NewAccumulator() *Accumulator {
	return &Accumulator{targets: make(map[string]*Stats)}
}

// Record folds one probe result into the target's counters.
func (a *Accumulator) Record(res probe.Result) {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, ok := a.targets[res.Target]
	if !ok {
		entry = &Stats{}
		a.targets[res.Target] = entry
	}

	entry.Total++
	if !res.Success {
		return
	}
	entry.Success++
	if !res.Sampled {
		return
	}

	ms := float64(res.Latency) / float64(time.Millisecond)
	if entry.Samples == 0 {
		entry.MinMS = ms
		entry.MaxMS = ms
	} else {
		if ms < entry.MinMS {
			entry.MinMS = ms
		}
		if ms > entry.MaxMS {
			entry.MaxMS = ms
		}
	}
	entry.SumMS += ms
	entry.Samples++
}

// Snapshot returns a copy of every target's counters.
func (a *Accumulator) Snapshot() map[string]Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := make(map[string]Stats, len(a.targets))
	for name, entry := range a.targets {
		snap[name] = *entry
	}
	return snap
}

// Get returns a copy of one target's counters.
func (a *Accumulator) Get(target string) (Stats, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, ok := a.targets[target]
	if !ok {
		return Stats{}, false
	}
	return *entry, true
}
