package rotation

import "fmt"

// Inventory is the mutable per-term remaining-capacity table of one
// trial. Counts never go negative: Consume must only be called after a
// feasible choice with positive count has been verified.
type Inventory struct {
	table Table
}

// NewInventory creates an inventory from a capacity table.
func NewInventory(table Table) Inventory {
	return Inventory{table: table}
}

// Remaining returns the remaining capacity of one term.
func (inv *Inventory) Remaining(term int) Counts {
	return inv.table[term]
}

// Table returns a copy of the full capacity table.
func (inv *Inventory) Table() Table {
	return inv.table
}

// Consume removes one slot of the given category from the given term.
//
// Precondition: the slot count is positive. Violating it indicates a
// defect in the caller's feasibility check and panics via
// Counts.Decrement.
func (inv *Inventory) Consume(term int, cat Category) {
	if term < 0 || term >= NumTerms {
		panic(fmt.Sprintf("rotation: consume of out-of-range term %d", term))
	}
	inv.table[term] = inv.table[term].Decrement(cat)
}

// Clone returns an independent copy of the inventory.
func (inv *Inventory) Clone() Inventory {
	return Inventory{table: inv.table}
}
