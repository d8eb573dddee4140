// Package config provides configuration loading for siting.
// It supports loading from a YAML file and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/siting/anneal"
)

// DefaultFile is the configuration file Load picks up from the working
// directory when no explicit path is given.
const DefaultFile = "siting.yaml"

// Config contains all siting configuration settings.
type Config struct {
	// Search tunes the annealing run.
	Search SearchConfig `json:"search" yaml:"search"`

	// Logging configures the console logger and the optional file sink.
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Progress throttles periodic progress lines.
	Progress ProgressConfig `json:"progress" yaml:"progress"`
}

// SearchConfig mirrors anneal.Options plus the run-level seed and restarts.
type SearchConfig struct {
	// Seed seeds the random stream; 0 selects the fixed default seed.
	Seed int64 `json:"seed" yaml:"seed"`

	// Runs is the number of independent multi-start runs; the best wins.
	Runs int `json:"runs" yaml:"runs"`

	Iterations           int     `json:"iterations" yaml:"iterations"`
	AcceptTemperature    float64 `json:"accept_temperature" yaml:"accept_temperature"`
	MinAcceptTemperature float64 `json:"min_accept_temperature" yaml:"min_accept_temperature"`
	Decay                float64 `json:"decay" yaml:"decay"`

	// RestartThreshold is the number of accepted non-improving moves before
	// the board is restored to the best placement. 0 disables restarts.
	RestartThreshold int `json:"restart_threshold" yaml:"restart_threshold"`

	// ReportEvery is the progress period in iterations; 0 disables reports.
	ReportEvery int `json:"report_every" yaml:"report_every"`

	// Proposal is "step" (default) or "uniform".
	Proposal string `json:"proposal" yaml:"proposal"`

	// CheckInvariants validates the board after every mutation. Slow.
	CheckInvariants bool `json:"check_invariants" yaml:"check_invariants"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	// Level is one of "debug", "info" (default), "warn" or "error".
	Level string `json:"level" yaml:"level"`

	// File, when set, adds a JSON sink rotated by size.
	File       string `json:"file,omitempty" yaml:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty" yaml:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty" yaml:"max_backups,omitempty"`
	MaxAgeDays int    `json:"max_age_days,omitempty" yaml:"max_age_days,omitempty"`
	Compress   bool   `json:"compress,omitempty" yaml:"compress,omitempty"`

	// Dev enables development mode: stack traces from warn upwards.
	Dev bool `json:"dev" yaml:"dev"`
}

// ProgressConfig throttles progress reporting.
type ProgressConfig struct {
	// PerSecond is the sustained rate of progress lines; <= 0 means unlimited.
	PerSecond float64 `json:"per_second" yaml:"per_second"`

	// Burst is the number of lines allowed back to back.
	Burst int `json:"burst" yaml:"burst"`

	// TraceLimit bounds the best-fitness trace kept for output; 0 keeps none.
	TraceLimit int `json:"trace_limit" yaml:"trace_limit"`
}

// Default returns a Config with the reference tuning.
func Default() *Config {
	o := anneal.DefaultOptions()
	return &Config{
		Search: SearchConfig{
			Seed:                 0,
			Runs:                 1,
			Iterations:           o.Iterations,
			AcceptTemperature:    o.AcceptTemperature,
			MinAcceptTemperature: o.MinAcceptTemperature,
			Decay:                o.Decay,
			RestartThreshold:     o.RestartThreshold,
			ReportEvery:          o.ReportEvery,
			Proposal:             o.Proposal.String(),
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Progress: ProgressConfig{
			PerSecond:  10,
			Burst:      5,
			TraceLimit: 1000,
		},
	}
}

// Load resolves the configuration.
// Order: defaults -> path (or ./siting.yaml when path is empty and it
// exists) -> environment variables.
func Load(path string) (*Config, error) {
	config := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		config = fileConfig
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file. Keys absent
// from the file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Search.Runs < 1 {
		return fmt.Errorf("runs must be positive, got %d", c.Search.Runs)
	}
	if _, err := c.Search.Options(); err != nil {
		return err
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error, or empty for default)", c.Logging.Level)
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 || c.Logging.MaxAgeDays < 0 {
		return errors.New("log rotation limits must be non-negative")
	}
	if c.Progress.Burst < 0 {
		return fmt.Errorf("progress burst must be non-negative, got %d", c.Progress.Burst)
	}
	if c.Progress.TraceLimit < 0 {
		return fmt.Errorf("trace limit must be non-negative, got %d", c.Progress.TraceLimit)
	}

	return nil
}

// Options converts the search settings into validated anneal.Options.
// The Observer is left for the caller to install.
func (s SearchConfig) Options() (anneal.Options, error) {
	p, err := anneal.ParseProposal(s.Proposal)
	if err != nil {
		return anneal.Options{}, fmt.Errorf("%w: %q", err, s.Proposal)
	}

	o := anneal.Options{
		Iterations:           s.Iterations,
		AcceptTemperature:    s.AcceptTemperature,
		MinAcceptTemperature: s.MinAcceptTemperature,
		Decay:                s.Decay,
		RestartThreshold:     s.RestartThreshold,
		ReportEvery:          s.ReportEvery,
		Proposal:             p,
		CheckInvariants:      s.CheckInvariants,
	}
	if err = o.Validate(); err != nil {
		return anneal.Options{}, err
	}

	return o, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Malformed numbers are reported rather than silently ignored.
func applyEnvOverrides(config *Config) error {
	if v := os.Getenv("SITING_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("SITING_SEED: %w", err)
		}
		config.Search.Seed = n
	}

	if v := os.Getenv("SITING_ITERATIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SITING_ITERATIONS: %w", err)
		}
		config.Search.Iterations = n
	}

	if v := os.Getenv("SITING_RESTART_THRESHOLD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SITING_RESTART_THRESHOLD: %w", err)
		}
		config.Search.RestartThreshold = n
	}

	if v := os.Getenv("SITING_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	return nil
}
