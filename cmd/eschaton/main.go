// Command eschaton estimates the probability that every participant of
// a sequential rotation assignment completes their quota, by running
// randomized trials concurrently and aggregating the outcomes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gw31415/eschaton/internal/aggregator"
	"github.com/gw31415/eschaton/internal/config"
	"github.com/gw31415/eschaton/internal/loader"
	"github.com/gw31415/eschaton/internal/logging"
	"github.com/gw31415/eschaton/internal/metrics"
	"github.com/gw31415/eschaton/internal/orchestrator"
	"github.com/gw31415/eschaton/internal/report"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (defaults apply when empty)")
	flag.Parse()

	logger := logging.NewSlogDefault()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatal(logger, "Failed to load config", err)
	}

	baseline, err := loader.LoadBaseline(cfg.Inputs.Reserves, cfg.Inputs.Students)
	if err != nil {
		fatal(logger, "Failed to load baseline", err)
	}
	inventory := baseline.Inventory()
	logger.Info("Baseline loaded",
		"participants", baseline.NumParticipants(),
		"open_seats", inventory.Table().Total())

	// Resuming over statistics from a different baseline would be
	// silent corruption; a stale state file is fatal.
	checkpoint := aggregator.NewCheckpoint(cfg.State.Path, baseline.Digest())
	initial, err := checkpoint.Load()
	if err != nil {
		fatal(logger, "Failed to load state file", err)
	}
	if initial.Trials > 0 {
		logger.Info("Resuming from saved state",
			"path", cfg.State.Path, "trials", initial.Trials)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Simulation.Duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, cfg.Simulation.Duration)
		defer cancel()
		logger.Info("Simulation will run for a fixed duration", "duration", cfg.Simulation.Duration)
	} else if cfg.Simulation.MaxTrials == 0 {
		logger.Info("Simulation will run until interrupted")
	}

	var collector *metrics.Collector
	if cfg.Metrics.Prometheus.Enabled {
		collector = metrics.NewCollector()
		server := metrics.NewPrometheusServer(
			fmt.Sprintf(":%d", cfg.Metrics.Prometheus.Port), collector, logger)
		go func() {
			if err := server.Start(ctx); err != nil {
				logger.Error("Metrics server shutdown failed", "error", err)
			}
		}()
	}

	agg := aggregator.New(aggregator.Options{
		Initial:        initial,
		Checkpoint:     checkpoint,
		Reporter:       report.NewRenderer(os.Stdout),
		Observer:       observer(collector),
		ReportInterval: cfg.Report.Interval,
		SaveInterval:   cfg.State.SaveInterval,
		Logger:         logger,
	})

	orch := orchestrator.New(orchestrator.Options{
		Baseline:      baseline,
		Workers:       cfg.Simulation.Workers,
		QueueCapacity: cfg.Simulation.QueueCapacity,
		MaxTrials:     cfg.Simulation.MaxTrials,
		Collector:     collector,
		Logger:        logger,
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", "signal", sig.String())
		cancel()
	}()

	stats := orch.Run(ctx, agg)
	logger.Info("Shutdown complete",
		"trials", stats.Trials,
		"successes", stats.Successes,
		"success_rate", stats.SuccessRate())
}

// loadConfig loads the YAML config or falls back to built-in defaults
// when no path is given.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}

	return config.LoadConfig(path)
}

// observer adapts an optional collector to the aggregator. A typed nil
// inside a non-nil interface would defeat the aggregator's nil check.
func observer(collector *metrics.Collector) aggregator.Observer {
	if collector == nil {
		return nil
	}

	return collector
}

func fatal(logger logging.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
