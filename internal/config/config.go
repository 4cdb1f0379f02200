// Package config loads and validates the simulator's YAML
// configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Inputs     InputsConfig     `yaml:"inputs"`
	State      StateConfig      `yaml:"state"`
	Report     ReportConfig     `yaml:"report"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// SimulationConfig configures the trial workers.
type SimulationConfig struct {
	Workers       int           `yaml:"workers"`        // 0 = one per available processing unit
	QueueCapacity int           `yaml:"queue_capacity"` // bounded outcome channel capacity
	Duration      time.Duration `yaml:"duration"`       // 0 = run until signalled
	MaxTrials     int64         `yaml:"max_trials"`     // 0 = unbounded
}

// InputsConfig locates the baseline input files.
type InputsConfig struct {
	Reserves string `yaml:"reserves"` // per-term remaining capacity CSV
	Students string `yaml:"students"` // participant CSV
}

// StateConfig configures durable statistics persistence.
type StateConfig struct {
	Path         string        `yaml:"path"`
	SaveInterval time.Duration `yaml:"save_interval"`
}

// ReportConfig configures human-readable report emission.
type ReportConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// MetricsConfig configures metrics collection.
type MetricsConfig struct {
	Prometheus PrometheusConfig `yaml:"prometheus"`
}

// PrometheusConfig configures the Prometheus endpoint.
type PrometheusConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// LoadConfig loads configuration from a YAML file.
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded configuration with defaults applied
//   - error: Error if the file cannot be read, parsed or validated
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)

	return cfg
}
