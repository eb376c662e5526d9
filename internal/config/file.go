package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/addcalc/internal/errors"
)

// FileConfig is the YAML configuration file. Every field is optional; unset
// fields leave the defaults in place.
//
//	np: 8
//	transport: grpc
//	timeout: 30s
//	verify: true
//	metrics_file: run.prom
type FileConfig struct {
	Procs       *int           `yaml:"np"`
	Transport   *string        `yaml:"transport"`
	Peers       []string       `yaml:"peers"`
	Timeout     *time.Duration `yaml:"timeout"`
	Quiet       *bool          `yaml:"quiet"`
	Verbose     *bool          `yaml:"verbose"`
	TUI         *bool          `yaml:"tui"`
	NoColor     *bool          `yaml:"no_color"`
	Verify      *bool          `yaml:"verify"`
	MetricsFile *string        `yaml:"metrics_file"`
	LogLevel    *string        `yaml:"log_level"`
}

// LoadFile reads the YAML configuration at path. Unknown keys are errors.
func LoadFile(path string) (FileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileConfig{}, apperrors.NewConfigError("config file: %v", err)
	}
	defer f.Close()

	var fc FileConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return FileConfig{}, apperrors.NewConfigError("config file %s: %v", path, err)
	}
	return fc, nil
}

// apply copies the fields present in the file into c, skipping those whose
// flag was given on the command line.
func (fc FileConfig) apply(c *AppConfig, fs *flag.FlagSet) {
	set := func(flags ...string) bool { return !isFlagSetAny(fs, flags...) }
	if fc.Procs != nil && set("np") {
		c.Procs = *fc.Procs
	}
	if fc.Transport != nil && set("transport") {
		c.Transport = *fc.Transport
	}
	if fc.Peers != nil && set("peers") {
		c.Peers = fc.Peers
	}
	if fc.Timeout != nil && set("timeout") {
		c.Timeout = *fc.Timeout
	}
	if fc.Quiet != nil && set("quiet", "q") {
		c.Quiet = *fc.Quiet
	}
	if fc.Verbose != nil && set("verbose", "v") {
		c.Verbose = *fc.Verbose
	}
	if fc.TUI != nil && set("tui") {
		c.TUI = *fc.TUI
	}
	if fc.NoColor != nil && set("no-color") {
		c.NoColor = *fc.NoColor
	}
	if fc.Verify != nil && set("verify") {
		c.Verify = *fc.Verify
	}
	if fc.MetricsFile != nil && set("metrics-file") {
		c.MetricsFile = *fc.MetricsFile
	}
	if fc.LogLevel != nil && set("log-level") {
		c.LogLevel = *fc.LogLevel
	}
}
