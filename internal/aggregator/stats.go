// Package aggregator merges trial outcomes into the durable run
// statistics and owns their persistence and reporting cadence.
package aggregator

import (
	"github.com/gw31415/eschaton/internal/engine"
	"github.com/gw31415/eschaton/internal/rotation"
)

// Stats accumulates trial outcomes across runs. Merging is commutative
// and associative, so outcome arrival order never changes the result.
//
// Stats is not safe for concurrent use; the aggregator is its only
// writer while a run is live.
type Stats struct {
	Trials    int64            `json:"trials"`
	Successes int64            `json:"successes"`
	Fails     map[string]int64 `json:"fails"`
	Vacants   rotation.Table   `json:"vacants"`
}

// NewStats returns empty statistics.
func NewStats() *Stats {
	return &Stats{Fails: make(map[string]int64)}
}

// Merge folds a single trial outcome into the statistics.
func (s *Stats) Merge(out engine.Outcome) {
	s.Trials++
	if out.Success() {
		s.Successes++
	}
	for _, name := range out.Stuck {
		s.Fails[name]++
	}
	s.Vacants = s.Vacants.Add(out.Vacants)
}

// SuccessRate returns the fraction of trials in which every participant
// completed, or 0 before the first trial.
func (s *Stats) SuccessRate() float64 {
	if s.Trials == 0 {
		return 0
	}

	return float64(s.Successes) / float64(s.Trials)
}

// Clone returns a deep copy, safe to hand to renderers while the
// aggregator keeps merging.
func (s *Stats) Clone() *Stats {
	out := &Stats{
		Trials:    s.Trials,
		Successes: s.Successes,
		Fails:     make(map[string]int64, len(s.Fails)),
		Vacants:   s.Vacants,
	}
	for name, n := range s.Fails {
		out.Fails[name] = n
	}

	return out
}
