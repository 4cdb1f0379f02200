package rotation

import (
	"encoding/json"
	"fmt"
	"math"
)

// unboundedCount marks a category whose remaining need is not yet
// constrained by an inferred course.
const unboundedCount = math.MaxInt

// Counts is a per-category tally of non-negative integers. It serves
// both as remaining inventory per term and as remaining need per
// participant.
//
// Counts is a plain value type; all operations return a new value
// except Decrement, which is documented below.
type Counts [NumCategories]int

// NewCounts builds a Counts value from the four per-category totals.
func NewCounts(innerMedical, innerSurgical, outerMedical, outerSurgical int) Counts {
	var c Counts
	c.Set(InnerMedical, innerMedical)
	c.Set(InnerSurgical, innerSurgical)
	c.Set(OuterMedical, outerMedical)
	c.Set(OuterSurgical, outerSurgical)

	return c
}

// Unconstrained returns the need of a participant whose course is not
// yet known: effectively infinite capacity in every category.
func Unconstrained() Counts {
	var c Counts
	for i := range c {
		c[i] = unboundedCount
	}

	return c
}

// Get returns the count for a category.
func (c Counts) Get(cat Category) int {
	return c[cat]
}

// Set sets the count for a category.
func (c *Counts) Set(cat Category, n int) {
	c[cat] = n
}

// Min returns the elementwise minimum of two count vectors.
func (c Counts) Min(other Counts) Counts {
	var out Counts
	for i := range out {
		out[i] = min(c[i], other[i])
	}

	return out
}

// Add returns the elementwise sum of two count vectors.
func (c Counts) Add(other Counts) Counts {
	var out Counts
	for i := range out {
		out[i] = c[i] + other[i]
	}

	return out
}

// Decrement lowers the count of one category by one and returns the
// result.
//
// The targeted count must be positive: callers are required to verify
// feasibility first, so a zero count here is a logic defect and panics
// rather than returning an error.
func (c Counts) Decrement(cat Category) Counts {
	if c[cat] == 0 {
		panic(fmt.Sprintf("rotation: decrement of exhausted category %s", cat))
	}
	if c[cat] != unboundedCount {
		c[cat]--
	}

	return c
}

// IsZero reports whether every category count is zero.
func (c Counts) IsZero() bool {
	for _, n := range c {
		if n != 0 {
			return false
		}
	}

	return true
}

// Total returns the sum of all category counts.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}

	return total
}

// countsJSON fixes the durable key names of the statistics document.
type countsJSON struct {
	InnerMedical  int `json:"inner_medical"`
	InnerSurgical int `json:"inner_surgical"`
	OuterMedical  int `json:"outer_medical"`
	OuterSurgical int `json:"outer_surgical"`
}

// MarshalJSON encodes the counts under their four named keys.
func (c Counts) MarshalJSON() ([]byte, error) {
	return json.Marshal(countsJSON{
		InnerMedical:  c.Get(InnerMedical),
		InnerSurgical: c.Get(InnerSurgical),
		OuterMedical:  c.Get(OuterMedical),
		OuterSurgical: c.Get(OuterSurgical),
	})
}

// UnmarshalJSON decodes the named-key representation.
func (c *Counts) UnmarshalJSON(data []byte) error {
	var raw countsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.InnerMedical < 0 || raw.InnerSurgical < 0 || raw.OuterMedical < 0 || raw.OuterSurgical < 0 {
		return fmt.Errorf("negative category count in %s", string(data))
	}
	*c = NewCounts(raw.InnerMedical, raw.InnerSurgical, raw.OuterMedical, raw.OuterSurgical)

	return nil
}
