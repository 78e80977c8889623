package probe

import (
	"context"
	"errors"
	"os"
	"strings"
	"syscall"
	"time"
)

// FallbackProber delegates to a primary prober and retries through a
// secondary one when the primary fails with a permission error, so raw
// socket probing degrades to the external ping command without privileges.
type FallbackProber struct {
	primary   Prober
	secondary Prober
}

// NewFallbackProber wraps primary with a secondary fallback.
func NewFallbackProber(primary, secondary Prober) *FallbackProber {
	return &FallbackProber{primary: primary, secondary: secondary}
}

func (p *FallbackProber) Probe(ctx context.Context, target string, timeout time.Duration) Result {
	result := p.primary.Probe(ctx, target, timeout)
	if result.Success || !isPermissionError(result.Err) {
		return result
	}
	return p.secondary.Probe(ctx, target, timeout)
}

func isPermissionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrPermission) || errors.Is(err, syscall.EPERM) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "operation not permitted") || strings.Contains(msg, "permission denied")
}
