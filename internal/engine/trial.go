package engine

import (
	"math/rand"

	"github.com/gw31415/eschaton/internal/rotation"
)

// Outcome is the terminal state of one trial.
type Outcome struct {
	// Vacants is the terminal inventory of the trial.
	Vacants rotation.Table

	// Stuck lists every participant that could not complete all terms.
	// A trial always runs to its fixed point and records all stuck
	// participants, never only the first failure, so per-participant
	// failure counts estimate marginal failure probabilities.
	Stuck []string

	// Passes is the number of shuffled rounds the trial took to reach
	// its fixed point.
	Passes int
}

// Success reports whether every participant completed all terms.
func (o Outcome) Success() bool {
	return len(o.Stuck) == 0
}

// RunTrial runs one complete randomized assignment process from the
// baseline snapshot to a fixed point.
//
// Each pass shuffles the still-open participants into a fresh random
// order, then advances each one by a single draw. Participants with no
// feasible choice are permanently stuck for the trial; completed
// participants drop out. The trial ends when no open participant
// remains.
//
// Parameters:
//   - baseline: Immutable snapshot; the trial works on its own copy
//   - rng: Randomness source for shuffles and draws
//
// Returns:
//   - Outcome: Terminal inventory, stuck participants and pass count
func RunTrial(baseline *rotation.Baseline, rng *rand.Rand) Outcome {
	inv := baseline.Inventory()
	open := baseline.Participants()

	var stuck []string
	passes := 0

	for len(open) > 0 {
		passes++
		rng.Shuffle(len(open), func(i, j int) {
			open[i], open[j] = open[j], open[i]
		})

		next := make([]rotation.Participant, 0, len(open))
		for i := range open {
			p := open[i]
			if p.Done() {
				continue
			}
			if _, ok := Advance(&inv, &p, rng); ok {
				next = append(next, p)
			} else {
				stuck = append(stuck, p.Name())
			}
		}
		open = next
	}

	return Outcome{
		Vacants: inv.Table(),
		Stuck:   stuck,
		Passes:  passes,
	}
}
