package scheduler

import (
	"context"
	"time"
)

// Aligned returns the first boundary after now that is a whole multiple of
// interval measured from the Unix epoch. With the default 2s interval this
// is the next even-numbered second, so every worker starts on the same
// wall-clock instant no matter when it was launched.
func Aligned(now time.Time, interval time.Duration) time.Time {
	step := interval.Nanoseconds()
	if step <= 0 {
		step = (2 * time.Second).Nanoseconds()
	}
	n := now.UnixNano()
	next := n - n%step + step
	return time.Unix(0, next)
}

// Ticker produces a fixed series of tick boundaries: first, first+interval,
// first+2*interval and so on. The cadence advances from the last scheduled
// tick, never from "now plus interval", so sustained probe latency cannot
// accumulate drift. A caller that falls behind runs immediately and works
// through its backlog one tick at a time; boundaries are never skipped.
type Ticker struct {
	next     time.Time
	interval time.Duration
	deadline time.Time // zero means no deadline
}

// NewTicker returns a ticker whose first boundary is first. A non-zero
// deadline bounds the run: no tick fires at or past it.
func NewTicker(first time.Time, interval time.Duration, deadline time.Time) *Ticker {
	return &Ticker{next: first, interval: interval, deadline: deadline}
}

// Wait blocks until the next tick boundary and reports whether the caller
// should run another iteration. A sleep that would cross the deadline is
// shortened to end exactly there, and false is returned.
func (t *Ticker) Wait(ctx context.Context) bool {
	now := time.Now()
	if t.expired(now) {
		return false
	}

	if now.Before(t.next) {
		sleep := t.next.Sub(now)
		if !t.deadline.IsZero() {
			if remain := t.deadline.Sub(now); remain <= sleep {
				sleepCtx(ctx, remain)
				return false
			}
		}
		if !sleepCtx(ctx, sleep) {
			return false
		}
		if t.expired(time.Now()) {
			return false
		}
	}

	t.next = t.next.Add(t.interval)
	return true
}

func (t *Ticker) expired(now time.Time) bool {
	return !t.deadline.IsZero() && !now.Before(t.deadline)
}

// sleepCtx sleeps for d, reporting false when the context ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
