package config

import "time"

// Options holds the effective run settings after file directives and CLI
// overrides have been applied.
type Options struct {
	Interval      time.Duration
	ProbeTimeout  time.Duration
	RunFor        time.Duration // zero runs until interrupted
	TargetFile    string
	LogFile       string
	MetricsListen string
	UIDisable     bool
}

// Config is the parsed target file: the ordered target list plus options.
// The target list is fixed for the lifetime of the process.
type Config struct {
	Targets []string
	Options Options
}

// CLIOverrides holds optional CLI values that override file directives.
type CLIOverrides struct {
	Interval      *time.Duration
	ProbeTimeout  *time.Duration
	RunFor        *time.Duration
	LogFile       *string
	MetricsListen *string
	UIDisable     *bool
}
