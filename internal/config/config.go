package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrNoTargets reports a target file that contains no usable entries.
var ErrNoTargets = errors.New("no targets in list")

const directivePrefix = "pingmon:"

// DefaultOptions returns baseline settings used before file and CLI overrides.
// The probe timeout stays strictly under the interval so a stuck probe can
// never push a worker behind its next tick by more than its own bound.
func DefaultOptions() Options {
	return Options{
		Interval:     2 * time.Second,
		ProbeTimeout: 1900 * time.Millisecond,
	}
}

// DefaultPaths returns the default target-list and log paths, resolved next
// to the executable. Falls back to the working directory when the executable
// path cannot be determined.
func DefaultPaths() (targetFile, logFile string) {
	dir := "."
	if exe, err := os.Executable(); err == nil {
		dir = filepath.Dir(exe)
	}
	return filepath.Join(dir, "ips.txt"), filepath.Join(dir, "result.txt")
}

// Load parses a target file: one target per line, surrounding whitespace
// trimmed, blank lines skipped. Comment lines start with '#'; a comment of
// the form "# pingmon: key=value ..." sets options for the run. CLI
// overrides are applied last.
func Load(path string, overrides CLIOverrides) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open target file: %w", err)
	}
	defer file.Close()

	cfg := &Config{Options: DefaultOptions()}
	cfg.Options.TargetFile = path

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			body := strings.TrimSpace(strings.TrimPrefix(line, "#"))
			if strings.HasPrefix(body, directivePrefix) {
				pairs, err := parseDirective(body)
				if err != nil {
					return nil, err
				}
				if err := applyDirective(&cfg.Options, pairs); err != nil {
					return nil, err
				}
			}
			continue
		}
		cfg.Targets = append(cfg.Targets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read target file: %w", err)
	}

	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoTargets)
	}

	applyCLIOverrides(&cfg.Options, overrides)
	return cfg, nil
}

func parseDirective(body string) (map[string]string, error) {
	payload := strings.TrimSpace(strings.TrimPrefix(body, directivePrefix))
	pairs := make(map[string]string)
	for _, token := range strings.Fields(payload) {
		kv := strings.SplitN(token, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid directive token: %q", token)
		}
		pairs[kv[0]] = kv[1]
	}
	return pairs, nil
}

func applyDirective(opts *Options, pairs map[string]string) error {
	for key, val := range pairs {
		switch key {
		case "interval":
			d, err := parseDuration(val)
			if err != nil {
				return fmt.Errorf("invalid interval: %w", err)
			}
			opts.Interval = d
		case "timeout":
			d, err := parseDuration(val)
			if err != nil {
				return fmt.Errorf("invalid timeout: %w", err)
			}
			opts.ProbeTimeout = d
		case "duration":
			d, err := parseDuration(val)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			opts.RunFor = d
		case "log":
			opts.LogFile = val
		case "metrics.listen":
			opts.MetricsListen = normalizeListen(val)
		case "ui.disable":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid ui.disable: %w", err)
			}
			opts.UIDisable = b
		default:
			// Ignore unknown keys for forward compatibility.
		}
	}
	return nil
}

func applyCLIOverrides(opts *Options, overrides CLIOverrides) {
	if overrides.Interval != nil {
		opts.Interval = *overrides.Interval
	}
	if overrides.ProbeTimeout != nil {
		opts.ProbeTimeout = *overrides.ProbeTimeout
	}
	if overrides.RunFor != nil {
		opts.RunFor = *overrides.RunFor
	}
	if overrides.LogFile != nil {
		opts.LogFile = *overrides.LogFile
	}
	if overrides.MetricsListen != nil {
		opts.MetricsListen = normalizeListen(*overrides.MetricsListen)
	}
	if overrides.UIDisable != nil {
		opts.UIDisable = *overrides.UIDisable
	}
}

// parseDuration accepts Go duration syntax or a bare integer number of seconds.
func parseDuration(val string) (time.Duration, error) {
	if secs, err := strconv.ParseUint(val, 10, 32); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(val)
}

func normalizeListen(val string) string {
	if isDigits(val) {
		return ":" + val
	}
	return val
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
