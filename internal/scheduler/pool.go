package scheduler

import (
	"context"
	"sync"
	"time"

	"pingmon/internal/probe"
)

// Pool runs one probing loop per target, all sharing the same tick boundary
// series. Workers never talk to each other; the only thing they share is the
// reference first tick computed once at startup, so one target's slow or
// failing probes cannot disturb another target's cadence.
type Pool struct {
	targets  []string
	prober   probe.Prober
	interval time.Duration
	timeout  time.Duration
}

// NewPool constructs a pool over a fixed target list.
func NewPool(targets []string, prober probe.Prober, interval, timeout time.Duration) *Pool {
	return &Pool{
		targets:  targets,
		prober:   prober,
		interval: interval,
		timeout:  timeout,
	}
}

// Run starts every worker on the shared cadence and blocks until all of them
// have stopped, either at the deadline or on context cancellation. Results
// are delivered on out in completion order; the channel is left open for the
// caller to close once Run returns.
func (p *Pool) Run(ctx context.Context, first time.Time, deadline time.Time, out chan<- probe.Result) {
	var wg sync.WaitGroup
	for _, target := range p.targets {
		wg.Add(1)
		go func(target string) {
			defer wg.Done()
			p.runTarget(ctx, target, first, deadline, out)
		}(target)
	}
	wg.Wait()
}

// runTarget is one worker's loop: wait for the tick, probe, hand off the
// result, repeat. The probe call bounds its own duration via the prober's
// timeout contract, so a hung probe delays this worker by at most the
// timeout and no other worker at all.
func (p *Pool) runTarget(ctx context.Context, target string, first, deadline time.Time, out chan<- probe.Result) {
	tick := NewTicker(first, p.interval, deadline)
	for tick.Wait(ctx) {
		res := p.prober.Probe(ctx, target, p.timeout)
		res.Target = target
		select {
		case out <- res:
		case <-ctx.Done():
			return
		}
	}
}
