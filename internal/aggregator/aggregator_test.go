package aggregator

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gw31415/eschaton/internal/engine"
	"github.com/gw31415/eschaton/internal/logging"
	"github.com/gw31415/eschaton/internal/rotation"
)

func successOutcome(vacants rotation.Table) engine.Outcome {
	return engine.Outcome{Vacants: vacants, Passes: 1}
}

func stuckOutcome(names ...string) engine.Outcome {
	return engine.Outcome{Stuck: names, Passes: 2}
}

func TestStatsMerge(t *testing.T) {
	var vacants rotation.Table
	vacants[0] = rotation.NewCounts(1, 0, 0, 0)
	vacants[5] = rotation.NewCounts(0, 0, 2, 0)

	outcomes := []engine.Outcome{
		successOutcome(vacants),
		stuckOutcome("alice"),
		stuckOutcome("alice", "bob"),
		successOutcome(vacants),
	}

	forward := NewStats()
	for _, out := range outcomes {
		forward.Merge(out)
	}

	backward := NewStats()
	for i := len(outcomes) - 1; i >= 0; i-- {
		backward.Merge(outcomes[i])
	}

	require.Equal(t, forward, backward, "merge must be order independent")
	require.Equal(t, int64(4), forward.Trials)
	require.Equal(t, int64(2), forward.Successes)
	require.Equal(t, int64(2), forward.Fails["alice"])
	require.Equal(t, int64(1), forward.Fails["bob"])
	require.Equal(t, 2, forward.Vacants[0].Get(rotation.InnerMedical))
	require.Equal(t, 4, forward.Vacants[5].Get(rotation.OuterMedical))
	require.InEpsilon(t, 0.5, forward.SuccessRate(), 1e-9)
}

func TestStatsClone(t *testing.T) {
	stats := NewStats()
	stats.Merge(stuckOutcome("alice"))

	clone := stats.Clone()
	stats.Merge(stuckOutcome("alice"))

	require.Equal(t, int64(1), clone.Trials)
	require.Equal(t, int64(1), clone.Fails["alice"])
	require.Equal(t, int64(2), stats.Fails["alice"])
}

func TestCheckpoint(t *testing.T) {
	t.Run("round trips statistics", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		cp := NewCheckpoint(path, 0xdeadbeef)

		stats := NewStats()
		stats.Merge(stuckOutcome("alice"))
		stats.Merge(successOutcome(rotation.Table{}))
		require.NoError(t, cp.Save(stats))

		restored, err := cp.Load()
		require.NoError(t, err)
		require.Equal(t, stats, restored)
	})

	t.Run("returns empty statistics when no file exists", func(t *testing.T) {
		cp := NewCheckpoint(filepath.Join(t.TempDir(), "state.json"), 1)

		stats, err := cp.Load()
		require.NoError(t, err)
		require.Equal(t, int64(0), stats.Trials)
		require.NotNil(t, stats.Fails)
	})

	t.Run("rejects a stale digest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		require.NoError(t, NewCheckpoint(path, 1).Save(NewStats()))

		_, err := NewCheckpoint(path, 2).Load()
		require.ErrorIs(t, err, ErrDigestMismatch)
	})

	t.Run("rejects a corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		_, err := NewCheckpoint(path, 1).Load()
		require.Error(t, err)
	})
}

type recordingReporter struct {
	renders []*Stats
}

func (r *recordingReporter) Render(stats *Stats) error {
	r.renders = append(r.renders, stats)
	return nil
}

type countingObserver struct {
	trials int
}

func (o *countingObserver) ObserveTrial(engine.Outcome) {
	o.trials++
}

func TestAggregatorRun(t *testing.T) {
	t.Run("drains the channel and emits a final report and save", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		reporter := &recordingReporter{}
		observer := &countingObserver{}

		agg := New(Options{
			Checkpoint: NewCheckpoint(path, 7),
			Reporter:   reporter,
			Observer:   observer,
			// Large intervals: only the close-time flush fires.
			ReportInterval: time.Hour,
			SaveInterval:   time.Hour,
			Logger:         logging.NewTestLogger(t),
		})

		outcomes := make(chan engine.Outcome, 8)
		for i := 0; i < 5; i++ {
			outcomes <- stuckOutcome("alice")
		}
		close(outcomes)

		agg.Run(outcomes)

		require.Equal(t, int64(5), agg.Stats().Trials)
		require.Equal(t, 5, observer.trials)
		require.Len(t, reporter.renders, 1, "only the final flush should render")
		require.Equal(t, int64(5), reporter.renders[0].Trials)

		restored, err := NewCheckpoint(path, 7).Load()
		require.NoError(t, err)
		require.Equal(t, int64(5), restored.Trials)
	})

	t.Run("reports on arrival once the interval elapses", func(t *testing.T) {
		reporter := &recordingReporter{}
		agg := New(Options{
			Reporter:       reporter,
			ReportInterval: 0, // every arrival qualifies
			SaveInterval:   time.Hour,
			Logger:         logging.NewTestLogger(t),
		})

		outcomes := make(chan engine.Outcome, 4)
		outcomes <- successOutcome(rotation.Table{})
		outcomes <- successOutcome(rotation.Table{})
		close(outcomes)

		agg.Run(outcomes)

		// Two arrivals plus the final flush.
		require.Len(t, reporter.renders, 3)
		require.Equal(t, int64(1), reporter.renders[0].Trials)
		require.Equal(t, int64(2), reporter.renders[1].Trials)
	})

	t.Run("resumes from initial statistics", func(t *testing.T) {
		initial := NewStats()
		initial.Trials = 10
		initial.Successes = 4

		agg := New(Options{
			Initial:        initial,
			ReportInterval: time.Hour,
			SaveInterval:   time.Hour,
		})

		outcomes := make(chan engine.Outcome, 1)
		outcomes <- successOutcome(rotation.Table{})
		close(outcomes)

		agg.Run(outcomes)

		require.Equal(t, int64(11), agg.Stats().Trials)
		require.Equal(t, int64(5), agg.Stats().Successes)
	})
}
