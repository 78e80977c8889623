package monitor

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"pingmon/internal/config"
	"pingmon/internal/eventlog"
	"pingmon/internal/probe"
	"pingmon/internal/scheduler"
	"pingmon/internal/stats"
	"pingmon/internal/ui"
)

// Monitor runs the whole measurement: one probing worker per target and a
// render loop, all aligned to the same tick boundary series, feeding a
// shared accumulator.
type Monitor struct {
	opts     config.Options
	targets  []string
	prober   probe.Prober
	renderer ui.Renderer
	events   *eventlog.Log
	acc      *stats.Accumulator
}

// New wires a monitor over a fixed target list.
func New(opts config.Options, targets []string, prober probe.Prober, renderer ui.Renderer, events *eventlog.Log, acc *stats.Accumulator) *Monitor {
	return &Monitor{
		opts:     opts,
		targets:  targets,
		prober:   prober,
		renderer: renderer,
		events:   events,
		acc:      acc,
	}
}

// Run blocks until the configured duration has elapsed or ctx is cancelled.
// Either way the workers are joined, the result channel is drained once, and
// the final-state block goes to the event log before Run returns.
func (m *Monitor) Run(ctx context.Context) error {
	first := scheduler.Aligned(time.Now(), m.opts.Interval)
	var deadline time.Time
	if m.opts.RunFor > 0 {
		deadline = first.Add(m.opts.RunFor)
	}

	logrus.WithFields(logrus.Fields{
		"targets":  len(m.targets),
		"interval": m.opts.Interval,
		"timeout":  m.opts.ProbeTimeout,
		"first":    first,
	}).Info("monitor starting")

	results := make(chan probe.Result, len(m.targets))
	pool := scheduler.NewPool(m.targets, m.prober, m.opts.Interval, m.opts.ProbeTimeout)

	g, runCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(results)
		pool.Run(runCtx, first, deadline, results)
		return nil
	})

	// Collector: folds results into the accumulator in completion order. It
	// deliberately ignores cancellation and keeps reading until the workers
	// close the channel, so the last in-flight results are never lost.
	g.Go(func() error {
		for res := range results {
			m.acc.Record(res)
		}
		return nil
	})

	g.Go(func() error {
		m.renderLoop(runCtx, first, deadline)
		return nil
	})

	err := g.Wait()

	// All workers joined and the channel drained: this snapshot is final.
	table := ui.Build(m.targets, m.acc.Snapshot(), nil)
	m.events.FinalState(time.Now(), table.Lines())
	logrus.Info("monitor stopped")
	return err
}

// renderLoop runs on the shared cadence from a single goroutine. Each cycle
// takes one consistent snapshot, derives the unreachable transitions from
// it, repaints the table, and appends an event line when anything flagged.
func (m *Monitor) renderLoop(ctx context.Context, first, deadline time.Time) {
	tracker := stats.NewTracker()
	tick := scheduler.NewTicker(first, m.opts.Interval, deadline)
	for {
		snap := m.acc.Snapshot()
		flagged := tracker.Unreachable(m.targets, snap)
		table := ui.Build(m.targets, snap, flagged)
		if err := m.renderer.Draw(table); err != nil {
			logrus.WithError(err).Warn("render failed")
		}
		if len(flagged) > 0 {
			m.events.Unreachable(time.Now(), flagged)
		}

		if !tick.Wait(ctx) {
			return
		}
	}
}
