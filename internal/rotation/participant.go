package rotation

import "fmt"

// Participant is one student in the assignment process: a unique name
// and one assignment slot per term. Within a trial a slot, once
// assigned, is never reassigned or cleared.
type Participant struct {
	name     string
	assigned [NumTerms]Category
}

// NewParticipant creates a participant with the given pre-assigned
// slots. Use CategoryNone for unassigned terms.
func NewParticipant(name string, assigned [NumTerms]Category) Participant {
	return Participant{name: name, assigned: assigned}
}

// Name returns the participant's unique identifier.
func (p *Participant) Name() string {
	return p.name
}

// Assignment returns the category assigned at the given term, or
// CategoryNone if the slot is still open.
func (p *Participant) Assignment(term int) Category {
	return p.assigned[term]
}

// Assignments returns a copy of all term slots.
func (p *Participant) Assignments() [NumTerms]Category {
	return p.assigned
}

// Course infers the participant's course from the assignment history.
//
// Scanning assigned categories in term order, the course is identified
// by the first category that repeats. Before any repetition occurs the
// course is unknown and the second return value is false.
func (p *Participant) Course() (Course, bool) {
	var seen [NumCategories]bool
	for _, cat := range p.assigned {
		if cat == CategoryNone {
			continue
		}
		if seen[cat] {
			return courseByRepeat[cat], true
		}
		seen[cat] = true
	}

	return 0, false
}

// OpenTerms returns the indices of still-unassigned terms in ascending
// order.
func (p *Participant) OpenTerms() []int {
	open := make([]int, 0, NumTerms)
	for term, cat := range p.assigned {
		if cat == CategoryNone {
			open = append(open, term)
		}
	}

	return open
}

// RemainingNeed returns the per-category placements the participant
// still requires. If the course is known it is the course quota minus
// the categories already assigned; otherwise the need is unconstrained.
func (p *Participant) RemainingNeed() Counts {
	course, known := p.Course()
	if !known {
		return Unconstrained()
	}

	need := course.Quota()
	for _, cat := range p.assigned {
		if cat != CategoryNone {
			need = need.Decrement(cat)
		}
	}

	return need
}

// Done reports whether every term slot is assigned.
func (p *Participant) Done() bool {
	for _, cat := range p.assigned {
		if cat == CategoryNone {
			return false
		}
	}

	return true
}

// Assign sets the category for an open term slot.
//
// Precondition: the slot is unassigned. Assigning an occupied slot is a
// logic defect and panics.
func (p *Participant) Assign(term int, cat Category) {
	if p.assigned[term] != CategoryNone {
		panic(fmt.Sprintf("rotation: term %d of %s already assigned", term, p.name))
	}
	p.assigned[term] = cat
}
