// Package config builds the application configuration from, in decreasing
// priority, command-line flags, ADDCALC_ environment variables, an optional
// YAML file and built-in defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/agbru/addcalc/internal/comm"
	apperrors "github.com/agbru/addcalc/internal/errors"
)

// EnvPrefix is prepended to every environment variable the configuration
// reads.
const EnvPrefix = "ADDCALC_"

// StrategyAll runs every registered strategy and compares the sums.
const StrategyAll = "all"

// Defaults.
const (
	DefaultProcs     = 4
	DefaultTransport = string(comm.TransportLocal)
	DefaultLogLevel  = "warn"
)

// AppConfig is the complete configuration of one invocation.
type AppConfig struct {
	// Strategy is a registered strategy name or StrategyAll.
	Strategy string
	// Input1, Input2 and Output are the operand and result files.
	Input1, Input2, Output string

	// Procs is the number of ranks of the in-process world.
	Procs int
	// Transport selects the comm implementation of the in-process world.
	Transport string
	// Rank and Peers run this process as one rank of a multi-process
	// world whose ranks listen on Peers. Empty Peers means in-process.
	Rank  int
	Peers []string

	// Timeout bounds the whole run. Zero disables it.
	Timeout time.Duration

	Quiet       bool
	TUI         bool
	Verbose     bool
	NoColor     bool
	Verify      bool
	MetricsFile string
	LogLevel    string
	ConfigFile  string
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() AppConfig {
	return AppConfig{
		Procs:     DefaultProcs,
		Transport: DefaultTransport,
		LogLevel:  DefaultLogLevel,
	}
}

// Distributed reports whether this process is one rank of a multi-process
// world.
func (c AppConfig) Distributed() bool { return len(c.Peers) > 0 }

// WorldSize returns the number of ranks taking part in the run.
func (c AppConfig) WorldSize() int {
	if c.Distributed() {
		return len(c.Peers)
	}
	return c.Procs
}

// peerList is a flag.Value holding comma-separated addresses.
type peerList struct{ peers *[]string }

func (p peerList) String() string {
	if p.peers == nil {
		return ""
	}
	return strings.Join(*p.peers, ",")
}

func (p peerList) Set(v string) error {
	*p.peers = splitPeers(v)
	return nil
}

func splitPeers(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// usage prints the command synopsis followed by the flag defaults.
func usage(fs *flag.FlagSet, out io.Writer, strategies []string) func() {
	return func() {
		fmt.Fprintf(out, "Usage: %s [flags] <strategy> <input-file-1> <input-file-2> <output-file>\n\n", fs.Name())
		fmt.Fprintf(out, "Strategies: %s, %s\n\nFlags:\n", strings.Join(strategies, ", "), StrategyAll)
		fs.PrintDefaults()
	}
}

// ParseConfig builds the configuration from args, the environment and the
// optional YAML file. It returns flag.ErrHelp when help was requested and a
// ConfigError for any invalid input.
//
// Parameters:
//   - programName: Name shown in the usage text.
//   - args: Command-line arguments without the program name.
//   - errorWriter: Destination of the usage text and flag errors.
//   - availableStrategies: Registered strategy names.
//
// Returns:
//   - AppConfig: The validated configuration.
//   - error: flag.ErrHelp, a ConfigError, or nil.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableStrategies []string) (AppConfig, error) {
	cfg := Defaults()
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	fs.Usage = usage(fs, errorWriter, availableStrategies)

	fs.IntVar(&cfg.Procs, "np", cfg.Procs, "Number of processes of the in-process world.")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "In-process transport: "+strings.Join(comm.Transports(), ", ")+".")
	fs.IntVar(&cfg.Rank, "rank", cfg.Rank, "Rank of this process in a multi-process world (with -peers).")
	fs.Var(peerList{&cfg.Peers}, "peers", "Comma-separated listen addresses of every rank, in rank order.")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Abort the run after this duration (0 = no limit).")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Print only the elapsed microseconds.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Shorthand for -quiet.")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Show execution details and memory usage.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Shorthand for -verbose.")
	fs.BoolVar(&cfg.TUI, "tui", false, "Show a live dashboard of the runs and the carry chain.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&cfg.Verify, "verify", false, "Check the sum against an independent reference addition.")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write Prometheus metrics of the run to this file.")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error.")
	fs.StringVar(&cfg.ConfigFile, "config", "", "YAML file supplying defaults.")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return AppConfig{}, err
		}
		return AppConfig{}, apperrors.NewConfigError("%v", err)
	}

	if !isFlagSet(fs, "config") {
		cfg.ConfigFile = getEnvString("CONFIG", cfg.ConfigFile)
	}
	if cfg.ConfigFile != "" {
		file, err := LoadFile(cfg.ConfigFile)
		if err != nil {
			return AppConfig{}, err
		}
		file.apply(&cfg, fs)
	}
	applyEnvOverrides(&cfg, fs)

	positional := fs.Args()
	if len(positional) != 4 {
		fs.Usage()
		return AppConfig{}, apperrors.NewConfigError("expected 4 arguments <strategy> <input-file-1> <input-file-2> <output-file>, got %d", len(positional))
	}
	cfg.Strategy = strings.ToLower(positional[0])
	cfg.Input1, cfg.Input2, cfg.Output = positional[1], positional[2], positional[3]

	if err := cfg.Validate(availableStrategies); err != nil {
		fs.Usage()
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c AppConfig) Validate(availableStrategies []string) error {
	if c.Strategy != StrategyAll && !slices.Contains(availableStrategies, c.Strategy) {
		return apperrors.NewConfigError("unknown strategy %q (available: %s, %s)",
			c.Strategy, strings.Join(availableStrategies, ", "), StrategyAll)
	}
	if c.Procs < 1 {
		return apperrors.NewConfigError("-np must be at least 1, got %d", c.Procs)
	}
	if !slices.Contains(comm.Transports(), c.Transport) {
		return apperrors.NewConfigError("unknown transport %q (available: %s)",
			c.Transport, strings.Join(comm.Transports(), ", "))
	}
	if c.Timeout < 0 {
		return apperrors.NewConfigError("-timeout must not be negative, got %s", c.Timeout)
	}
	if c.Quiet && c.Verbose {
		return apperrors.NewConfigError("-quiet and -verbose are mutually exclusive")
	}
	if c.TUI && c.Quiet {
		return apperrors.NewConfigError("-tui and -quiet are mutually exclusive")
	}
	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return apperrors.NewConfigError("unknown log level %q", c.LogLevel)
	}
	if c.Distributed() {
		if c.Rank < 0 || c.Rank >= len(c.Peers) {
			return apperrors.NewConfigError("-rank %d out of range for %d peers", c.Rank, len(c.Peers))
		}
		if c.Strategy == StrategyAll {
			return apperrors.NewConfigError("strategy %q cannot run across processes", StrategyAll)
		}
		if c.TUI {
			return apperrors.NewConfigError("-tui requires an in-process world")
		}
	} else if c.Rank != 0 {
		return apperrors.NewConfigError("-rank requires -peers")
	}
	return nil
}
