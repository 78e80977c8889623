package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeTargetFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ips.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write target file: %v", err)
	}
	return path
}

func TestLoadTrimsAndSkipsBlankLines(t *testing.T) {
	path := writeTargetFile(t, "  8.8.8.8  \n\n\t192.0.2.1\t\n   \nexample.com\n")

	cfg, err := Load(path, CLIOverrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"8.8.8.8", "192.0.2.1", "example.com"}
	if !reflect.DeepEqual(cfg.Targets, expected) {
		t.Fatalf("expected targets %v, got %v", expected, cfg.Targets)
	}
}

func TestLoadPreservesFileOrder(t *testing.T) {
	path := writeTargetFile(t, "c.example\na.example\nb.example\n")

	cfg, err := Load(path, CLIOverrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"c.example", "a.example", "b.example"}
	if !reflect.DeepEqual(cfg.Targets, expected) {
		t.Fatalf("expected order %v, got %v", expected, cfg.Targets)
	}
}

func TestLoadEmptyFileIsFatal(t *testing.T) {
	path := writeTargetFile(t, "\n   \n# just a comment\n")

	_, err := Load(path, CLIOverrides{})
	if !errors.Is(err, ErrNoTargets) {
		t.Fatalf("expected ErrNoTargets, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.txt"), CLIOverrides{})
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadDirectives(t *testing.T) {
	path := writeTargetFile(t, `# pingmon: interval=1s timeout=500ms duration=30 metrics.listen=9100 ui.disable=true
# plain comment, ignored
8.8.8.8
`)

	cfg, err := Load(path, CLIOverrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opts := cfg.Options
	if opts.Interval != time.Second {
		t.Fatalf("expected interval 1s, got %v", opts.Interval)
	}
	if opts.ProbeTimeout != 500*time.Millisecond {
		t.Fatalf("expected timeout 500ms, got %v", opts.ProbeTimeout)
	}
	if opts.RunFor != 30*time.Second {
		t.Fatalf("expected duration 30s, got %v", opts.RunFor)
	}
	if opts.MetricsListen != ":9100" {
		t.Fatalf("expected listen :9100, got %q", opts.MetricsListen)
	}
	if !opts.UIDisable {
		t.Fatalf("expected ui.disable true")
	}
}

func TestLoadDirectiveUnknownKeyIgnored(t *testing.T) {
	path := writeTargetFile(t, "# pingmon: shiny=yes\n8.8.8.8\n")

	if _, err := Load(path, CLIOverrides{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadDirectiveInvalidValue(t *testing.T) {
	path := writeTargetFile(t, "# pingmon: interval=soon\n8.8.8.8\n")

	if _, err := Load(path, CLIOverrides{}); err == nil {
		t.Fatalf("expected error for invalid interval directive")
	}
}

func TestLoadCLIOverridesWinOverDirectives(t *testing.T) {
	path := writeTargetFile(t, "# pingmon: interval=1s log=from-file.txt\n8.8.8.8\n")

	interval := 5 * time.Second
	logFile := "from-cli.txt"
	disable := true
	cfg, err := Load(path, CLIOverrides{
		Interval:  &interval,
		LogFile:   &logFile,
		UIDisable: &disable,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Options.Interval != interval {
		t.Fatalf("expected CLI interval %v, got %v", interval, cfg.Options.Interval)
	}
	if cfg.Options.LogFile != logFile {
		t.Fatalf("expected CLI log file %q, got %q", logFile, cfg.Options.LogFile)
	}
	if !cfg.Options.UIDisable {
		t.Fatalf("expected UIDisable override applied")
	}
}

func TestDefaultOptionsTimeoutBelowInterval(t *testing.T) {
	opts := DefaultOptions()
	if opts.ProbeTimeout >= opts.Interval {
		t.Fatalf("probe timeout %v must stay below interval %v", opts.ProbeTimeout, opts.Interval)
	}
}

func TestDefaultPaths(t *testing.T) {
	targets, logFile := DefaultPaths()
	if filepath.Base(targets) != "ips.txt" {
		t.Fatalf("expected ips.txt default, got %q", targets)
	}
	if filepath.Base(logFile) != "result.txt" {
		t.Fatalf("expected result.txt default, got %q", logFile)
	}
	if filepath.Dir(targets) != filepath.Dir(logFile) {
		t.Fatalf("expected defaults in the same directory")
	}
}
