package rotation

import (
	"fmt"
	"strings"
)

// NumTerms is the number of sequential assignment terms every
// participant must fill exactly once.
const NumTerms = 6

// Category is one of the four mutually exclusive placement kinds
// available each term.
//
// The declaration order below is load-bearing: it is the canonical
// enumeration order used when flattening a capacity table into a
// weighted candidate space (see Table.Locate).
type Category int

const (
	InnerMedical Category = iota
	InnerSurgical
	OuterSurgical
	OuterMedical

	// NumCategories is the number of placement categories.
	NumCategories = 4
)

// CategoryNone marks an unassigned term slot.
const CategoryNone Category = -1

// Categories enumerates all categories in canonical order.
var Categories = [NumCategories]Category{InnerMedical, InnerSurgical, OuterSurgical, OuterMedical}

// categoryLabels are the record labels used by the student/reserve
// input files.
var categoryLabels = map[Category]string{
	InnerMedical:  "院内内科",
	InnerSurgical: "院内外科",
	OuterMedical:  "院外内科",
	OuterSurgical: "院外外科",
}

var categoryNames = map[Category]string{
	InnerMedical:  "InnerMedical",
	InnerSurgical: "InnerSurgical",
	OuterMedical:  "OuterMedical",
	OuterSurgical: "OuterSurgical",
}

// String returns the Go-facing category name.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}

	return fmt.Sprintf("Category(%d)", int(c))
}

// Label returns the record label used in input files and reports.
func (c Category) Label() string {
	return categoryLabels[c]
}

// ParseCategory decodes a category label from an input record.
//
// Both the record labels (院内内科, ...) and the Go names
// (InnerMedical, ...) are accepted. Leading and trailing whitespace is
// ignored.
//
// Returns:
//   - Category: Decoded category
//   - error: Error if the label is not recognized
func ParseCategory(s string) (Category, error) {
	trimmed := strings.TrimSpace(s)
	for cat, label := range categoryLabels {
		if trimmed == label || trimmed == categoryNames[cat] {
			return cat, nil
		}
	}

	return CategoryNone, fmt.Errorf("unrecognized category label: %q", s)
}

// Course is the emergent required per-category quota pattern, inferred
// from the first repeated category in a participant's history.
type Course int

const (
	// CourseEschaton requires {InnerMedical:1, InnerSurgical:2, OuterMedical:2, OuterSurgical:1}.
	CourseEschaton Course = iota

	// CourseAvoidance requires {InnerMedical:2, InnerSurgical:1, OuterMedical:1, OuterSurgical:2}.
	CourseAvoidance
)

// String returns the course name.
func (c Course) String() string {
	switch c {
	case CourseEschaton:
		return "Eschaton"
	case CourseAvoidance:
		return "Avoidance"
	default:
		return fmt.Sprintf("Course(%d)", int(c))
	}
}

// courseByRepeat maps the first repeated category to the course it
// implies.
var courseByRepeat = map[Category]Course{
	InnerMedical:  CourseAvoidance,
	InnerSurgical: CourseEschaton,
	OuterMedical:  CourseEschaton,
	OuterSurgical: CourseAvoidance,
}

// Quota returns the total per-category placement quota for the course.
func (c Course) Quota() Counts {
	var q Counts
	switch c {
	case CourseEschaton:
		q.Set(InnerMedical, 1)
		q.Set(InnerSurgical, 2)
		q.Set(OuterMedical, 2)
		q.Set(OuterSurgical, 1)
	case CourseAvoidance:
		q.Set(InnerMedical, 2)
		q.Set(InnerSurgical, 1)
		q.Set(OuterMedical, 1)
		q.Set(OuterSurgical, 2)
	}

	return q
}
