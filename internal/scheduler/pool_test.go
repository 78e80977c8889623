package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"pingmon/internal/probe"
)

type countingProber struct {
	mu    sync.Mutex
	seen  map[string]int
	delay time.Duration
}

func newCountingProber() *countingProber {
	return &countingProber{seen: make(map[string]int)}
}

func (p *countingProber) Probe(ctx context.Context, target string, timeout time.Duration) probe.Result {
	p.mu.Lock()
	p.seen[target]++
	delay := p.delay
	p.mu.Unlock()

	if delay > 0 {
		// Honors the bounded-timeout contract the way a real prober does.
		bound := delay
		if timeout < bound {
			bound = timeout
		}
		timer := time.NewTimer(bound)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return probe.Result{Success: false, Err: ctx.Err()}
		case <-timer.C:
		}
		if delay > timeout {
			return probe.Result{Success: false}
		}
	}
	return probe.Result{Success: true, Latency: time.Millisecond, Sampled: true}
}

func (p *countingProber) count(target string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seen[target]
}

func drain(out chan probe.Result) (results []probe.Result) {
	for res := range out {
		results = append(results, res)
	}
	return results
}

func TestPoolProbesEachTargetOncePerTick(t *testing.T) {
	interval := 25 * time.Millisecond
	prober := newCountingProber()
	targets := []string{"a", "b"}
	pool := NewPool(targets, prober, interval, 10*time.Millisecond)

	first := Aligned(time.Now(), interval)
	deadline := first.Add(3 * interval)
	out := make(chan probe.Result, 16)

	pool.Run(context.Background(), first, deadline, out)
	close(out)
	results := drain(out)

	// Ticks fire at first, first+i and first+2i; the tick at the deadline
	// itself must not run.
	for _, target := range targets {
		if got := prober.count(target); got != 3 {
			t.Fatalf("target %s: expected 3 probes, got %d", target, got)
		}
	}
	if len(results) != 6 {
		t.Fatalf("expected 6 results delivered, got %d", len(results))
	}
	for _, res := range results {
		if res.Target != "a" && res.Target != "b" {
			t.Fatalf("result missing target attribution: %+v", res)
		}
	}
}

func TestPoolSlowProbeDoesNotStallOtherTargets(t *testing.T) {
	interval := 30 * time.Millisecond
	fast := newCountingProber()
	slow := newCountingProber()
	slow.delay = time.Hour

	split := proberByTarget{"fast": fast, "slow": slow}
	pool := NewPool([]string{"fast", "slow"}, split, interval, 15*time.Millisecond)

	first := Aligned(time.Now(), interval)
	deadline := first.Add(3 * interval)
	out := make(chan probe.Result, 16)

	pool.Run(context.Background(), first, deadline, out)
	close(out)

	if got := fast.count("fast"); got != 3 {
		t.Fatalf("fast target: expected 3 probes, got %d", got)
	}
	// The slow worker is bounded by the probe timeout, so it still makes
	// every tick.
	if got := slow.count("slow"); got != 3 {
		t.Fatalf("slow target: expected 3 probes, got %d", got)
	}
	for _, res := range drain(out) {
		if res.Target == "slow" && res.Success {
			t.Fatalf("timed-out probe must fail, got %+v", res)
		}
	}
}

func TestPoolStopsOnContextCancel(t *testing.T) {
	prober := newCountingProber()
	pool := NewPool([]string{"a"}, prober, time.Hour, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan probe.Result, 1)

	done := make(chan struct{})
	go func() {
		pool.Run(ctx, time.Now().Add(time.Hour), time.Time{}, out)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("pool did not stop after cancellation")
	}
}

// proberByTarget routes probes to per-target probers.
type proberByTarget map[string]*countingProber

func (p proberByTarget) Probe(ctx context.Context, target string, timeout time.Duration) probe.Result {
	return p[target].Probe(ctx, target, timeout)
}
