package rotation

// Table is a per-term capacity table: one Counts value per term. It is
// the shape shared by the inventory, by the feasible-choice table the
// matching engine offers a participant, and by the cumulative terminal
// inventory in the aggregate statistics.
type Table [NumTerms]Counts

// Total returns the number of individual placement slots in the table.
func (t Table) Total() int {
	total := 0
	for _, counts := range t {
		total += counts.Total()
	}

	return total
}

// IsZero reports whether the table holds no slots at all.
func (t Table) IsZero() bool {
	for _, counts := range t {
		if !counts.IsZero() {
			return false
		}
	}

	return true
}

// Add returns the elementwise sum of two tables.
func (t Table) Add(other Table) Table {
	var out Table
	for term := range out {
		out[term] = t[term].Add(other[term])
	}

	return out
}

// Locate maps a flattened slot index to its (term, category) pair.
//
// The flattening iterates terms in ascending order and categories in
// canonical declaration order; each category contributes a contiguous
// block of slots equal to its count. This single mapping is what makes
// the engine's uniform draw over [0, Total()) capacity-weighted.
//
// Parameters:
//   - i: Flattened slot index
//
// Returns:
//   - int: Term index owning the slot
//   - Category: Category owning the slot
//   - bool: False if i is out of range
func (t Table) Locate(i int) (int, Category, bool) {
	if i < 0 {
		return 0, CategoryNone, false
	}

	for term, counts := range t {
		size := counts.Total()
		if i >= size {
			i -= size
			continue
		}

		cumulative := 0
		for _, cat := range Categories {
			cumulative += counts.Get(cat)
			if i < cumulative {
				return term, cat, true
			}
		}
	}

	return 0, CategoryNone, false
}
