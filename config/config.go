// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Ocean      OceanConfig      `yaml:"ocean"`
	Population PopulationConfig `yaml:"population"`
	Timers     TimersConfig     `yaml:"timers"`
	Run        RunConfig        `yaml:"run"`
	Markers    MarkersConfig    `yaml:"markers"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Stream     StreamConfig     `yaml:"stream"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// OceanConfig holds the grid dimensions.
type OceanConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// PopulationConfig holds the requested initial counts.
// Requests above the remaining capacity are clamped at seeding time.
type PopulationConfig struct {
	Obstacles int `yaml:"obstacles"`
	Predators int `yaml:"predators"`
	Prey      int `yaml:"prey"`
}

// TimersConfig holds the per-agent timer periods, in iterations.
type TimersConfig struct {
	ReproducePeriod int `yaml:"reproduce_period"` // Steps between offspring (prey and predators)
	FeedPeriod      int `yaml:"feed_period"`      // Steps a predator survives without eating
}

// RunConfig holds the iteration budget.
type RunConfig struct {
	Iterations    int `yaml:"iterations"`
	MaxIterations int `yaml:"max_iterations"`
}

// MarkersConfig holds the single-character display markers.
type MarkersConfig struct {
	Water    string `yaml:"water"`
	Prey     string `yaml:"prey"`
	Predator string `yaml:"predator"`
	Obstacle string `yaml:"obstacle"`
	Border   string `yaml:"border"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	Window              int `yaml:"window"`                // Iterations per stats window
	BookmarkHistorySize int `yaml:"bookmark_history_size"` // Windows kept for bookmark detection
	PerfCollectorWindow int `yaml:"perf_collector_window"` // Iterations averaged by the perf collector
}

// StreamConfig holds websocket frame streaming settings.
type StreamConfig struct {
	Path       string `yaml:"path"`
	SendBuffer int    `yaml:"send_buffer"` // Frames queued per client before drops
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Capacity int // Ocean.Rows * Ocean.Cols
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Defaults returns a fresh copy of the embedded default configuration.
func Defaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	cfg.computeDerived()
	return cfg, nil
}

// Validate reports configuration values the engine cannot run with.
// Population requests are not checked here; they are clamped when seeding.
func (c *Config) Validate() error {
	var errs []error
	if c.Ocean.Rows <= 0 || c.Ocean.Cols <= 0 {
		errs = append(errs, fmt.Errorf("ocean dimensions must be positive, got %dx%d", c.Ocean.Rows, c.Ocean.Cols))
	}
	if c.Timers.ReproducePeriod <= 0 {
		errs = append(errs, fmt.Errorf("timers.reproduce_period must be positive, got %d", c.Timers.ReproducePeriod))
	}
	if c.Timers.FeedPeriod <= 0 {
		errs = append(errs, fmt.Errorf("timers.feed_period must be positive, got %d", c.Timers.FeedPeriod))
	}
	if c.Run.MaxIterations < 0 {
		errs = append(errs, fmt.Errorf("run.max_iterations must not be negative, got %d", c.Run.MaxIterations))
	}

	seen := make(map[string]string, 4)
	for _, m := range []struct{ name, value string }{
		{"water", c.Markers.Water},
		{"prey", c.Markers.Prey},
		{"predator", c.Markers.Predator},
		{"obstacle", c.Markers.Obstacle},
	} {
		if len([]rune(m.value)) != 1 {
			errs = append(errs, fmt.Errorf("markers.%s must be a single character, got %q", m.name, m.value))
			continue
		}
		if other, ok := seen[m.value]; ok {
			errs = append(errs, fmt.Errorf("markers.%s duplicates markers.%s (%q)", m.name, other, m.value))
		}
		seen[m.value] = m.name
	}
	if len([]rune(c.Markers.Border)) != 1 {
		errs = append(errs, fmt.Errorf("markers.border must be a single character, got %q", c.Markers.Border))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Capacity = c.Ocean.Rows * c.Ocean.Cols
}

// ClampIterations limits a requested iteration budget to [0, Run.MaxIterations].
func (c *Config) ClampIterations(n int) int {
	if n > c.Run.MaxIterations {
		n = c.Run.MaxIterations
	}
	if n < 0 {
		n = 0
	}
	return n
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
