// Package engine implements the randomized matching engine: the
// feasible-choice computation, the capacity-weighted draw that advances
// one participant by one term, and the per-trial fixed-point loop.
package engine

import (
	"fmt"

	"github.com/gw31415/eschaton/internal/rotation"
)

// Rand is the randomness source for the engine's draws. *math/rand.Rand
// satisfies it; tests supply deterministic implementations.
type Rand interface {
	// Intn returns a uniform integer in [0, n). n must be positive.
	Intn(n int) int
}

// Placement identifies one committed (term, category) choice.
type Placement struct {
	Term     int
	Category rotation.Category
}

// Feasible computes the feasible-choice table for one participant
// against the current inventory: for each of the participant's open
// terms, the elementwise minimum of that term's remaining capacity and
// the participant's remaining need; all other terms are zero.
func Feasible(inv *rotation.Inventory, p *rotation.Participant) rotation.Table {
	var table rotation.Table
	need := p.RemainingNeed()
	for _, term := range p.OpenTerms() {
		table[term] = inv.Remaining(term).Min(need)
	}

	return table
}

// Advance performs one capacity-weighted random draw for the
// participant and commits it to both the inventory and the participant.
//
// The draw is uniform over the flattened slot instances of the feasible
// table, so a (term, category) pair with more remaining capacity is
// proportionally more likely to be chosen.
//
// Returns:
//   - Placement: The committed choice
//   - bool: False when no feasible choice exists — the ordinary way a
//     participant becomes stuck, not an error
func Advance(inv *rotation.Inventory, p *rotation.Participant, rng Rand) (Placement, bool) {
	choices := Feasible(inv, p)
	total := choices.Total()
	if total == 0 {
		return Placement{}, false
	}

	term, cat, ok := choices.Locate(rng.Intn(total))
	if !ok {
		// Locate over [0, total) covers every slot; reaching here means
		// the flattening and Total disagree.
		panic(fmt.Sprintf("engine: draw outside candidate space of size %d", total))
	}

	inv.Consume(term, cat)
	p.Assign(term, cat)

	return Placement{Term: term, Category: cat}, true
}
