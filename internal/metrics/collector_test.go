package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/gw31415/eschaton/internal/engine"
	"github.com/gw31415/eschaton/internal/rotation"
)

func TestCollectorObserveTrial(t *testing.T) {
	c := NewCollector()

	var vacants rotation.Table
	vacants[2] = rotation.NewCounts(1, 0, 1, 0)

	c.ObserveTrial(engine.Outcome{Vacants: vacants, Passes: 3})
	c.ObserveTrial(engine.Outcome{Stuck: []string{"alice", "bob"}, Passes: 2})

	require.Equal(t, float64(2), testutil.ToFloat64(c.trialsTotal))
	require.Equal(t, float64(1), testutil.ToFloat64(c.successesTotal))
	require.Equal(t, float64(2), testutil.ToFloat64(c.stuckTotal))
	require.Equal(t, float64(0), testutil.ToFloat64(c.vacantSeatsCurrent),
		"gauge tracks the most recent trial only")
}

func TestCollectorSeparateRegistries(t *testing.T) {
	// Two collectors must not collide: each owns its registry.
	a := NewCollector()
	b := NewCollector()

	a.SetWorkersActive(4)
	b.SetWorkersActive(8)

	require.Equal(t, float64(4), testutil.ToFloat64(a.workersActive))
	require.Equal(t, float64(8), testutil.ToFloat64(b.workersActive))
}

func TestCollectorSystemMetrics(t *testing.T) {
	c := NewCollector()
	c.ObserveTrialDuration(5 * time.Millisecond)
	c.UpdateSystemMetrics(42, 2*1024*1024)

	goroutines, memMiB := c.GetSystemMetrics()
	require.Equal(t, 42, goroutines)
	require.InEpsilon(t, 2.0, memMiB, 1e-9)
}
