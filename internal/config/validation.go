package config

import (
	"errors"
	"fmt"
)

// validateConfig validates the configuration for logical consistency.
func validateConfig(cfg *Config) error {
	if cfg.Simulation.Workers < 0 {
		return errors.New("worker count cannot be negative")
	}
	if cfg.Simulation.QueueCapacity <= 0 {
		return errors.New("queue capacity must be positive")
	}
	if cfg.Simulation.Duration < 0 {
		return errors.New("simulation duration cannot be negative")
	}
	if cfg.Simulation.MaxTrials < 0 {
		return errors.New("max trials cannot be negative")
	}

	if cfg.Inputs.Reserves == "" {
		return errors.New("reserves input path cannot be empty")
	}
	if cfg.Inputs.Students == "" {
		return errors.New("students input path cannot be empty")
	}

	if cfg.State.Path == "" {
		return errors.New("state path cannot be empty")
	}
	if cfg.State.SaveInterval <= 0 {
		return errors.New("state save interval must be positive")
	}

	if cfg.Report.Interval <= 0 {
		return errors.New("report interval must be positive")
	}
	if cfg.Report.Interval > cfg.State.SaveInterval {
		return errors.New("report interval must not exceed the state save interval")
	}

	if cfg.Metrics.Prometheus.Enabled {
		if cfg.Metrics.Prometheus.Port <= 0 || cfg.Metrics.Prometheus.Port > 65535 {
			return fmt.Errorf("invalid Prometheus port: %d (must be 1-65535)", cfg.Metrics.Prometheus.Port)
		}
	}

	return nil
}
