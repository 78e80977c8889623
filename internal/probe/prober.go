package probe

import (
	"context"
	"time"
)

// Result captures a single probe attempt. Latency is meaningful only when
// Sampled is true; a probe can succeed without producing a parseable timing
// value. Failures of any kind (spawn error, non-zero exit, timeout,
// unparsable output) normalize to Success=false rather than an error path.
type Result struct {
	Target  string
	Success bool
	Latency time.Duration
	Sampled bool
	Err     error
}

// Prober performs one reachability check against a target. Implementations
// must return within timeout plus small overhead, forcibly terminating the
// underlying check if needed.
type Prober interface {
	Probe(ctx context.Context, target string, timeout time.Duration) Result
}
