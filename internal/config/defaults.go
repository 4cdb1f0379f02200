package config

import "time"

// applyDefaults applies default values to configuration fields that are
// not set.
func applyDefaults(cfg *Config) {
	// Simulation defaults. Workers stays 0: the orchestrator resolves
	// it to the number of available processing units at startup.
	if cfg.Simulation.QueueCapacity == 0 {
		cfg.Simulation.QueueCapacity = 4096
	}

	// Input defaults
	if cfg.Inputs.Reserves == "" {
		cfg.Inputs.Reserves = "reserves.csv"
	}
	if cfg.Inputs.Students == "" {
		cfg.Inputs.Students = "students.csv"
	}

	// State defaults
	if cfg.State.Path == "" {
		cfg.State.Path = "state.json"
	}
	if cfg.State.SaveInterval == 0 {
		cfg.State.SaveInterval = 5 * time.Second
	}

	// Report defaults: roughly 5 Hz, gated on outcome arrival
	if cfg.Report.Interval == 0 {
		cfg.Report.Interval = 200 * time.Millisecond
	}

	// Metrics defaults
	if cfg.Metrics.Prometheus.Port == 0 {
		cfg.Metrics.Prometheus.Port = 9090
	}
}
