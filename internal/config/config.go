// Package config loads the YAML run configuration for the biosigfilter
// command. Defaults are applied through struct tags, then the result is
// validated; CLI flags override file values after loading.
package config

import (
	"fmt"
	"os"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the full run configuration.
type Config struct {
	Input  Input  `yaml:"input"`
	Filter Filter `yaml:"filter"`
	Rate   Rate   `yaml:"rate"`
	Output Output `yaml:"output"`
	Log    Log    `yaml:"log"`
}

// Input selects the source table and its columns.
type Input struct {
	Path            string `yaml:"path"`
	Sheet           string `yaml:"sheet"` // XLSX worksheet; empty means first
	SkipRows        int    `yaml:"skip_rows" validate:"gte=0"`
	TimestampColumn string `yaml:"timestamp_column" default:"time" validate:"required"`
	AmplitudeColumn string `yaml:"amplitude_column" default:"signal" validate:"required"`
}

// Filter holds the bandpass parameters. Preset, when set, provides the
// band; explicit cutoffs take precedence over it.
type Filter struct {
	Preset string  `yaml:"preset" validate:"omitempty,oneof=ecg eeg"`
	LowHz  float64 `yaml:"low_hz" validate:"gte=0"`
	HighHz float64 `yaml:"high_hz" validate:"gte=0"`
	Order  int     `yaml:"order" default:"4" validate:"gt=0"`

	Padding    string `yaml:"padding" default:"odd" validate:"oneof=odd even none"`
	PadSamples int    `yaml:"pad_samples" default:"-1"` // <0: derive from order
}

// Rate configures the sampling-rate estimator.
type Rate struct {
	CVThreshold float64 `yaml:"cv_threshold" default:"0.05" validate:"gt=0"`
	UseMean     bool    `yaml:"use_mean"`
	KnownHz     float64 `yaml:"known_hz" validate:"gte=0"` // skip estimation when > 0
}

// Output selects what the run produces.
type Output struct {
	Plot   string `yaml:"plot" default:"comparison.png"`
	Format string `yaml:"format" default:"png" validate:"oneof=png svg pdf"`
	Save   string `yaml:"save"` // optional filtered table (.csv or .xlsx)
	Report bool   `yaml:"report"`
}

// Log configures CLI logging.
type Log struct {
	Level string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration with all defaults applied and no file
// loaded.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config: apply defaults: %w", err)
	}

	return &c, nil
}

// Load reads and parses a YAML configuration file, applies defaults to
// unset fields, and validates the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config: apply defaults: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate %s: %w", path, err)
	}

	return &c, nil
}

// Validate checks the struct tags plus the cross-field band invariant that
// tags cannot express (a preset may stand in for explicit cutoffs).
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Filter.Preset == "" {
		if c.Filter.LowHz <= 0 || c.Filter.HighHz <= c.Filter.LowHz {
			return fmt.Errorf("filter: need a preset or 0 < low_hz (%g) < high_hz (%g)",
				c.Filter.LowHz, c.Filter.HighHz)
		}
	}

	return nil
}
