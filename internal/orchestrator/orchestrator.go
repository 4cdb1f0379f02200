// Package orchestrator runs the trial worker pool and hands every
// outcome to the aggregator over a bounded channel.
package orchestrator

import (
	"context"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gw31415/eschaton/internal/aggregator"
	"github.com/gw31415/eschaton/internal/engine"
	"github.com/gw31415/eschaton/internal/logging"
	"github.com/gw31415/eschaton/internal/metrics"
	"github.com/gw31415/eschaton/internal/rotation"
)

// Options configures an Orchestrator.
type Options struct {
	// Baseline is the immutable snapshot every trial starts from.
	Baseline *rotation.Baseline

	// Workers is the number of trial goroutines. Zero resolves to the
	// number of available processing units.
	Workers int

	// QueueCapacity bounds the outcome channel. When the aggregator
	// falls behind, workers block instead of growing memory.
	QueueCapacity int

	// MaxTrials stops the run after this many trials have been
	// started. Zero means unbounded.
	MaxTrials int64

	// Seed seeds the per-worker random sources. Zero derives a seed
	// from the clock.
	Seed int64

	// Collector receives per-trial timings. Nil disables it.
	Collector *metrics.Collector

	// Logger receives orchestrator events. Nil falls back to a no-op.
	Logger logging.Logger
}

// Orchestrator owns the worker pool for one simulation run.
type Orchestrator struct {
	baseline      *rotation.Baseline
	workers       int
	queueCapacity int
	maxTrials     int64
	seed          int64
	collector     *metrics.Collector
	logger        logging.Logger
}

// New creates an orchestrator.
func New(opts Options) *Orchestrator {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Orchestrator{
		baseline:      opts.Baseline,
		workers:       workers,
		queueCapacity: opts.QueueCapacity,
		maxTrials:     opts.MaxTrials,
		seed:          seed,
		collector:     opts.Collector,
		logger:        logger,
	}
}

// Workers returns the resolved worker count.
func (o *Orchestrator) Workers() int {
	return o.workers
}

// Run executes trials until the context is cancelled or the trial
// budget is spent, then drains the aggregator and returns the final
// statistics.
//
// Shutdown is ordered: workers stop first, the outcome channel closes
// only after every worker has returned, and the aggregator consumes
// everything already queued before Run returns. No outcome produced is
// ever dropped.
//
// Parameters:
//   - ctx: Context bounding the run
//   - agg: Aggregator consuming the outcomes
//
// Returns:
//   - *aggregator.Stats: Final accumulated statistics
func (o *Orchestrator) Run(ctx context.Context, agg *aggregator.Aggregator) *aggregator.Stats {
	outcomes := make(chan engine.Outcome, o.queueCapacity)

	aggDone := make(chan struct{})
	go func() {
		defer close(aggDone)
		agg.Run(outcomes)
	}()

	o.logger.Info("[Orchestrator] Starting workers",
		"workers", o.workers, "queue_capacity", o.queueCapacity, "max_trials", o.maxTrials)
	if o.collector != nil {
		o.collector.SetWorkersActive(o.workers)
	}

	var started atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		rng := rand.New(rand.NewSource(o.seed + int64(i)))
		go func(id int) {
			defer wg.Done()
			o.runWorker(ctx, id, rng, outcomes, &started)
		}(i)
	}

	wg.Wait()
	close(outcomes)
	<-aggDone

	if o.collector != nil {
		o.collector.SetWorkersActive(0)
	}
	o.logger.Info("[Orchestrator] Run complete", "trials", agg.Stats().Trials)

	return agg.Stats()
}

// runWorker executes trials in a loop until cancelled or the budget is
// spent. Each worker owns its random source, so workers never contend
// on randomness.
func (o *Orchestrator) runWorker(ctx context.Context, id int, rng *rand.Rand, outcomes chan<- engine.Outcome, started *atomic.Int64) {
	o.logger.Debug("[Worker] Started", "worker", id)

	for {
		if ctx.Err() != nil {
			break
		}
		if o.maxTrials > 0 && started.Add(1) > o.maxTrials {
			break
		}

		begin := time.Now()
		out := engine.RunTrial(o.baseline, rng)
		if o.collector != nil {
			o.collector.ObserveTrialDuration(time.Since(begin))
		}

		// The aggregator consumes until the channel closes and the
		// channel closes only after every worker returns, so a
		// blocking send cannot deadlock. A finished trial is always
		// delivered, even when cancellation races the send.
		outcomes <- out
	}

	o.logger.Debug("[Worker] Stopped", "worker", id)
}
