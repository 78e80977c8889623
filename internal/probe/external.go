package probe

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"time"
)

// ExternalProber shells out to the system ping command, avoiding the raw
// socket privileges an in-process ICMP probe needs.
type ExternalProber struct {
	command string
	args    func(target string, timeout time.Duration) []string
}

// NewExternalProber returns a prober backed by the system ping binary.
func NewExternalProber() *ExternalProber {
	return &ExternalProber{command: "ping", args: pingArgs}
}

// Probe runs one ping and parses the RTT from its output. The child process
// is killed when the timeout elapses, so control returns within the timeout
// bound regardless of how long the underlying ping would take.
func (p *ExternalProber) Probe(ctx context.Context, target string, timeout time.Duration) Result {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, p.command, p.args(target, timeout)...)
	out, err := cmd.Output()
	if err != nil {
		return Result{Target: target, Err: fmt.Errorf("ping %s: %w", target, err)}
	}

	if latency, ok := ParseLatency(out); ok {
		return Result{Target: target, Success: true, Latency: latency, Sampled: true}
	}
	return Result{Target: target, Success: true}
}

// pingArgs builds one-shot ping arguments per platform. Windows and macOS
// take the timeout in milliseconds; iputils takes whole seconds, so the
// nominal 1.9s bound rounds up to 2 there. The process-kill deadline in
// Probe enforces the configured bound either way.
func pingArgs(target string, timeout time.Duration) []string {
	switch runtime.GOOS {
	case "windows":
		ms := maxInt(100, int(timeout.Milliseconds()))
		return []string{"-n", "1", "-w", strconv.Itoa(ms), target}
	case "darwin":
		ms := maxInt(100, int(timeout.Milliseconds()))
		return []string{"-c", "1", "-W", strconv.Itoa(ms), target}
	default:
		secs := maxInt(1, int((timeout+time.Second-1)/time.Second))
		return []string{"-c", "1", "-W", strconv.Itoa(secs), target}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
