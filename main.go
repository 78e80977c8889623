package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"pingmon/internal/cli"
	"pingmon/internal/config"
	"pingmon/internal/eventlog"
	"pingmon/internal/metrics"
	"pingmon/internal/monitor"
	"pingmon/internal/probe"
	"pingmon/internal/stats"
	"pingmon/internal/ui"
)

const version = "1.0.0"

func main() {
	var (
		flagDuration     cli.OptionalDuration
		flagInterval     cli.OptionalDuration
		flagTimeout      cli.OptionalDuration
		flagFile         cli.OptionalString
		flagLog          cli.OptionalString
		flagMetrics      cli.OptionalString
		flagNoUI         cli.OptionalBool
		flagICMP         bool
		flagVerbose      bool
		flagVersion      bool
		flagVersionShort bool
	)

	flag.Var(&flagDuration, "duration", "run duration, seconds or Go duration (default: run until interrupted)")
	flag.Var(&flagDuration, "d", "run duration, seconds or Go duration (default: run until interrupted)")
	flag.Var(&flagInterval, "interval", "probe interval (default 2s)")
	flag.Var(&flagInterval, "i", "probe interval (default 2s)")
	flag.Var(&flagTimeout, "timeout", "per-probe timeout (default 1.9s)")
	flag.Var(&flagTimeout, "t", "per-probe timeout (default 1.9s)")
	flag.Var(&flagFile, "file", "target list file (default ips.txt next to the executable)")
	flag.Var(&flagFile, "f", "target list file (default ips.txt next to the executable)")
	flag.Var(&flagLog, "log", "event log file (default result.txt next to the executable)")
	flag.Var(&flagLog, "o", "event log file (default result.txt next to the executable)")
	flag.Var(&flagMetrics, "metrics-listen", "metrics listen address (e.g. :9100); disabled when empty")
	flag.Var(&flagNoUI, "no-ui", "plain console output instead of the full-screen view")
	flag.BoolVar(&flagICMP, "icmp", false, "probe via raw ICMP sockets, falling back to the ping command")
	flag.BoolVar(&flagVerbose, "verbose", false, "debug diagnostics on stderr")
	flag.BoolVar(&flagVersion, "version", false, "show version")
	flag.BoolVar(&flagVersionShort, "v", false, "show version")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [options] [target-file]\n\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Options:")
		flag.PrintDefaults()
	}

	flag.Parse()

	if flagVersion || flagVersionShort {
		fmt.Fprintf(os.Stdout, "pingmon version %s\n", version)
		return
	}

	logrus.SetOutput(os.Stderr)
	if flagVerbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	defaultTargets, defaultLog := config.DefaultPaths()
	targetFile := resolveTargetFile(flagFile, flag.Args(), defaultTargets)

	cfg, err := config.Load(targetFile, buildOverrides(flagDuration, flagInterval, flagTimeout, flagLog, flagMetrics, flagNoUI))
	if err != nil {
		logrus.WithError(err).Fatal("failed to load target list")
	}
	if cfg.Options.LogFile == "" {
		cfg.Options.LogFile = defaultLog
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prober := buildProber(flagICMP)
	renderer := buildRenderer(cfg.Options.UIDisable, stop)
	events := eventlog.New(cfg.Options.LogFile)
	acc := stats.NewAccumulator()

	if cfg.Options.MetricsListen != "" {
		go func() {
			err := metrics.Serve(ctx, cfg.Options.MetricsListen, cfg.Targets, acc)
			if err != nil && !errors.Is(err, context.Canceled) {
				logrus.WithError(err).Error("metrics server failed")
			}
		}()
	}

	mon := monitor.New(cfg.Options, cfg.Targets, prober, renderer, events, acc)
	runErr := mon.Run(ctx)

	renderer.Close()
	events.Close()
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logrus.WithError(runErr).Error("monitor failed")
		os.Exit(1)
	}
}

// resolveTargetFile prefers the -file flag, then a positional argument, then
// the default next to the executable.
func resolveTargetFile(flagFile cli.OptionalString, args []string, fallback string) string {
	if v, ok := flagFile.Value(); ok && v != "" {
		return v
	}
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return fallback
}

func buildOverrides(
	duration cli.OptionalDuration,
	interval cli.OptionalDuration,
	timeout cli.OptionalDuration,
	logFile cli.OptionalString,
	metricsListen cli.OptionalString,
	noUI cli.OptionalBool,
) config.CLIOverrides {
	overrides := config.CLIOverrides{}

	if v, ok := duration.Value(); ok {
		value := v
		overrides.RunFor = &value
	}
	if v, ok := interval.Value(); ok {
		value := v
		overrides.Interval = &value
	}
	if v, ok := timeout.Value(); ok {
		value := v
		overrides.ProbeTimeout = &value
	}
	if v, ok := logFile.Value(); ok && v != "" {
		value := v
		overrides.LogFile = &value
	}
	if v, ok := metricsListen.Value(); ok && v != "" {
		value := v
		overrides.MetricsListen = &value
	}
	if v, ok := noUI.Value(); ok {
		value := v
		overrides.UIDisable = &value
	}

	return overrides
}

func buildProber(useICMP bool) probe.Prober {
	if useICMP {
		return probe.NewFallbackProber(probe.NewICMPProber(), probe.NewExternalProber())
	}
	return probe.NewExternalProber()
}

func buildRenderer(disableUI bool, onQuit func()) ui.Renderer {
	if disableUI {
		return ui.NewConsole(os.Stdout)
	}
	screen, err := ui.NewScreen(onQuit)
	if err != nil {
		logrus.WithError(err).Warn("terminal UI unavailable, using plain output")
		return ui.NewConsole(os.Stdout)
	}
	return screen
}
