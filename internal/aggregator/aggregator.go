package aggregator

import (
	"time"

	"github.com/gw31415/eschaton/internal/engine"
	"github.com/gw31415/eschaton/internal/logging"
)

// Reporter renders a statistics snapshot for a human reader.
type Reporter interface {
	Render(stats *Stats) error
}

// Observer receives each merged outcome, typically to update metrics.
type Observer interface {
	ObserveTrial(out engine.Outcome)
}

// Options configures an Aggregator.
type Options struct {
	// Initial holds the statistics to resume from, usually loaded
	// through Checkpoint.Load. Nil starts empty.
	Initial *Stats

	// Checkpoint persists the statistics. Nil disables persistence.
	Checkpoint *Checkpoint

	// Reporter renders periodic progress. Nil disables reporting.
	Reporter Reporter

	// Observer is notified of every merged outcome. Nil disables it.
	Observer Observer

	// ReportInterval is the minimum time between rendered reports.
	ReportInterval time.Duration

	// SaveInterval is the minimum time between state file writes.
	SaveInterval time.Duration

	// Logger receives aggregator events. Nil falls back to a no-op.
	Logger logging.Logger
}

// Aggregator is the single consumer of the trial outcome channel. It
// merges every outcome into the statistics and drives reporting and
// persistence from the arrival of outcomes, never from free-running
// timers: an idle channel produces no output and no writes.
type Aggregator struct {
	stats          *Stats
	checkpoint     *Checkpoint
	reporter       Reporter
	observer       Observer
	logger         logging.Logger
	reportInterval time.Duration
	saveInterval   time.Duration

	lastReport time.Time
	lastSave   time.Time
}

// New creates an aggregator.
func New(opts Options) *Aggregator {
	stats := opts.Initial
	if stats == nil {
		stats = NewStats()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	now := time.Now()

	return &Aggregator{
		stats:          stats,
		checkpoint:     opts.Checkpoint,
		reporter:       opts.Reporter,
		observer:       opts.Observer,
		logger:         logger,
		reportInterval: opts.ReportInterval,
		saveInterval:   opts.SaveInterval,
		lastReport:     now,
		lastSave:       now,
	}
}

// Run consumes outcomes until the channel is closed, then renders a
// final report and persists a final state file. It blocks; callers run
// it in its own goroutine and close the channel to stop it.
//
// Parameters:
//   - outcomes: Trial outcome channel fed by the workers
func (a *Aggregator) Run(outcomes <-chan engine.Outcome) {
	a.logger.Info("[Aggregator] Started",
		"report_interval", a.reportInterval, "save_interval", a.saveInterval)

	for out := range outcomes {
		a.stats.Merge(out)
		if a.observer != nil {
			a.observer.ObserveTrial(out)
		}

		// Merge first, gate after: a report always reflects the
		// outcome that triggered it. The save gate nests inside the
		// report gate so a state file is never fresher than the last
		// report.
		now := time.Now()
		if a.reporter != nil && now.Sub(a.lastReport) >= a.reportInterval {
			a.render()
			a.lastReport = now

			if a.checkpoint != nil && now.Sub(a.lastSave) >= a.saveInterval {
				a.save()
				a.lastSave = now
			}
		}
	}

	// Channel closed: the workers are drained, emit the final picture.
	if a.reporter != nil {
		a.render()
	}
	if a.checkpoint != nil {
		a.save()
	}

	a.logger.Info("[Aggregator] Stopped",
		"trials", a.stats.Trials, "successes", a.stats.Successes)
}

// Stats returns the accumulated statistics. Only call after Run has
// returned, or before it starts.
func (a *Aggregator) Stats() *Stats {
	return a.stats
}

func (a *Aggregator) render() {
	if err := a.reporter.Render(a.stats.Clone()); err != nil {
		a.logger.Warn("[Aggregator] Failed to render report", "error", err)
	}
}

// save persists the statistics. Failures are logged and skipped: a full
// disk must not halt the simulation, the next gate retries.
func (a *Aggregator) save() {
	if err := a.checkpoint.Save(a.stats); err != nil {
		a.logger.Error("[Aggregator] Failed to save state", "error", err)
		return
	}

	a.logger.Debug("[Aggregator] State saved",
		"path", a.checkpoint.Path(), "trials", a.stats.Trials)
}
