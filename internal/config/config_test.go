package config

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/addcalc/internal/errors"
)

var strategies = []string{"collective", "overlapped", "sequential", "synchronous"}

func parse(t *testing.T, args ...string) (AppConfig, error) {
	t.Helper()
	var out bytes.Buffer
	return ParseConfig("addcalc", args, &out, strategies)
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parse(t, "synchronous", "a.txt", "b.txt", "out.txt")
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Strategy != "synchronous" || cfg.Input1 != "a.txt" || cfg.Input2 != "b.txt" || cfg.Output != "out.txt" {
		t.Errorf("positional arguments not parsed: %+v", cfg)
	}
	if cfg.Procs != DefaultProcs || cfg.Transport != DefaultTransport || cfg.Timeout != 0 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Distributed() || cfg.WorldSize() != DefaultProcs {
		t.Errorf("default run must be in-process with %d ranks", DefaultProcs)
	}
}

func TestParseConfigFlags(t *testing.T) {
	cfg, err := parse(t, "-np", "7", "-transport", "grpc", "-timeout", "2s", "-verify", "-q",
		"-metrics-file", "m.prom", "COLLECTIVE", "a", "b", "c")
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Procs != 7 || cfg.Transport != "grpc" || cfg.Timeout != 2*time.Second {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if !cfg.Verify || !cfg.Quiet || cfg.MetricsFile != "m.prom" {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.Strategy != "collective" {
		t.Errorf("Strategy = %q, want lower-cased name", cfg.Strategy)
	}
}

func TestParseConfigPeers(t *testing.T) {
	cfg, err := parse(t, "-rank", "2", "-peers", "h0:9000, h1:9000,h2:9000", "overlapped", "a", "b", "c")
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if !cfg.Distributed() || cfg.WorldSize() != 3 || cfg.Peers[1] != "h1:9000" {
		t.Errorf("peers not parsed: %+v", cfg.Peers)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing arguments", []string{"synchronous", "a", "b"}},
		{"too many arguments", []string{"synchronous", "a", "b", "c", "d"}},
		{"unknown strategy", []string{"pipelined", "a", "b", "c"}},
		{"zero processes", []string{"-np", "0", "synchronous", "a", "b", "c"}},
		{"unknown transport", []string{"-transport", "udp", "synchronous", "a", "b", "c"}},
		{"negative timeout", []string{"-timeout", "-1s", "synchronous", "a", "b", "c"}},
		{"quiet and verbose", []string{"-q", "-v", "synchronous", "a", "b", "c"}},
		{"bad log level", []string{"-log-level", "loud", "synchronous", "a", "b", "c"}},
		{"rank without peers", []string{"-rank", "1", "synchronous", "a", "b", "c"}},
		{"rank out of range", []string{"-rank", "2", "-peers", "a:1,b:1", "synchronous", "a", "b", "c"}},
		{"all across processes", []string{"-peers", "a:1,b:1", "all", "a", "b", "c"}},
		{"unknown flag", []string{"-bogus", "synchronous", "a", "b", "c"}},
		{"tui and quiet", []string{"-tui", "-quiet", "all", "a", "b", "c"}},
		{"tui across processes", []string{"-tui", "-peers", "a:1,b:1", "collective", "a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.args...)
			var cfgErr apperrors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("ParseConfig() error = %v, want ConfigError", err)
			}
			if apperrors.ExitCode(err) != apperrors.ExitErrorConfig {
				t.Errorf("ExitCode() = %d", apperrors.ExitCode(err))
			}
		})
	}
}

func TestParseConfigHelp(t *testing.T) {
	var out bytes.Buffer
	_, err := ParseConfig("addcalc", []string{"-h"}, &out, strategies)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("ParseConfig(-h) error = %v, want flag.ErrHelp", err)
	}
	if !strings.Contains(out.String(), "Strategies: collective, overlapped, sequential, synchronous, all") {
		t.Errorf("usage does not list strategies:\n%s", out.String())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"NP", "9")
	t.Setenv(EnvPrefix+"VERIFY", "yes")
	t.Setenv(EnvPrefix+"TIMEOUT", "1m")
	t.Setenv(EnvPrefix+"TRANSPORT", "grpc")

	cfg, err := parse(t, "-np", "3", "sequential", "a", "b", "c")
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Procs != 3 {
		t.Errorf("Procs = %d, flag must win over the environment", cfg.Procs)
	}
	if !cfg.Verify || cfg.Timeout != time.Minute || cfg.Transport != "grpc" {
		t.Errorf("environment not applied: %+v", cfg)
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addcalc.yaml")
	content := "np: 6\ntransport: grpc\ntimeout: 45s\nverbose: true\ntui: true\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPrefix+"TRANSPORT", "local")

	cfg, err := parse(t, "-config", path, "-np", "2", "collective", "a", "b", "c")
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Procs != 2 {
		t.Errorf("Procs = %d, flag must win over the file", cfg.Procs)
	}
	if cfg.Transport != "local" {
		t.Errorf("Transport = %q, environment must win over the file", cfg.Transport)
	}
	if cfg.Timeout != 45*time.Second || !cfg.Verbose || !cfg.TUI || cfg.LogLevel != "debug" {
		t.Errorf("file values not applied: %+v", cfg)
	}
}

func TestConfigFileFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addcalc.yaml")
	if err := os.WriteFile(path, []byte("np: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPrefix+"CONFIG", path)

	cfg, err := parse(t, "sequential", "a", "b", "c")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Procs != 5 {
		t.Errorf("Procs = %d, want 5 from the file named by %sCONFIG", cfg.Procs, EnvPrefix)
	}
}

func TestConfigFileErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("processes: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{bad, filepath.Join(dir, "missing.yaml")} {
		_, err := parse(t, "-config", path, "sequential", "a", "b", "c")
		var cfgErr apperrors.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("%s: error = %v, want ConfigError", filepath.Base(path), err)
		}
	}

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := parse(t, "-config", empty, "sequential", "a", "b", "c"); err != nil {
		t.Errorf("empty config file rejected: %v", err)
	}
}

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		in   string
		def  bool
		want bool
	}{
		{"TRUE", false, true},
		{"1", false, true},
		{"no", true, false},
		{"maybe", true, true},
	}
	for _, tt := range tests {
		if got := parseBoolEnv(tt.in, tt.def); got != tt.want {
			t.Errorf("parseBoolEnv(%q, %v) = %v", tt.in, tt.def, got)
		}
	}
}
