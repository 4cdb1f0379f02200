// Package loader reads the baseline inventory and participant records
// from delimited input files. All failures here are fatal startup
// errors: the simulator cannot run from an inconsistent baseline.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gw31415/eschaton/internal/rotation"
)

// Sentinel errors for baseline loading.
var (
	// ErrWrongTermCount is returned when the reserves file does not
	// contain exactly one record per term.
	ErrWrongTermCount = errors.New("reserves must contain exactly one record per term")

	// ErrDuplicateName is returned when two participants share a name.
	ErrDuplicateName = errors.New("duplicate participant name")

	// ErrOverConsumed is returned when pre-assigned slots exceed the
	// declared capacity of a term.
	ErrOverConsumed = errors.New("pre-assigned slots exceed term capacity")

	// ErrQuotaExceeded is returned when a participant's pre-assigned
	// categories already exceed the quota of their inferred course.
	ErrQuotaExceeded = errors.New("pre-assigned categories exceed course quota")
)

// reserve column names, matching the durable statistics key names.
var reserveColumns = map[string]rotation.Category{
	"inner_medical":  rotation.InnerMedical,
	"inner_surgical": rotation.InnerSurgical,
	"outer_medical":  rotation.OuterMedical,
	"outer_surgical": rotation.OuterSurgical,
}

// LoadBaseline reads both input files and builds the immutable baseline
// snapshot. Participants' pre-assigned slots are consumed from the
// inventory, so the snapshot's inventory holds only genuinely open
// capacity.
//
// Parameters:
//   - reservesPath: Path to the per-term capacity CSV
//   - studentsPath: Path to the participant CSV
//
// Returns:
//   - *rotation.Baseline: Loaded snapshot
//   - error: Fatal error describing the first malformed input
func LoadBaseline(reservesPath, studentsPath string) (*rotation.Baseline, error) {
	reserves, err := os.Open(reservesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open reserves file: %w", err)
	}
	defer reserves.Close()

	inventory, err := ReadInventory(reserves)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", reservesPath, err)
	}

	students, err := os.Open(studentsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open students file: %w", err)
	}
	defer students.Close()

	participants, err := ReadParticipants(students)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", studentsPath, err)
	}

	if err := consumePreAssignments(&inventory, participants); err != nil {
		return nil, err
	}

	return rotation.NewBaseline(inventory, participants), nil
}

// ReadInventory parses the per-term capacity records.
//
// The stream must hold a header naming the four category columns and
// exactly one record per term. Records are consumed in file order:
// the first record is term 1, the last is the final term.
func ReadInventory(r io.Reader) (rotation.Inventory, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return rotation.Inventory{}, fmt.Errorf("failed to parse reserves: %w", err)
	}
	if len(records) == 0 {
		return rotation.Inventory{}, errors.New("reserves file is empty")
	}

	columns, err := resolveReserveColumns(records[0])
	if err != nil {
		return rotation.Inventory{}, err
	}

	// Build then validate: collect all rows and require the exact term
	// count rather than trusting the file's shape.
	rows := records[1:]
	if len(rows) != rotation.NumTerms {
		return rotation.Inventory{}, fmt.Errorf("%w: got %d records, want %d",
			ErrWrongTermCount, len(rows), rotation.NumTerms)
	}

	var table rotation.Table
	for term, row := range rows {
		for col, cat := range columns {
			n, err := strconv.Atoi(strings.TrimSpace(row[col]))
			if err != nil {
				return rotation.Inventory{}, fmt.Errorf("term %d: bad count %q: %w", term+1, row[col], err)
			}
			if n < 0 {
				return rotation.Inventory{}, fmt.Errorf("term %d: negative count %d", term+1, n)
			}
			table[term].Set(cat, n)
		}
	}

	return rotation.NewInventory(table), nil
}

// ReadParticipants parses the participant records.
//
// The stream must hold a header with a name column and one column per
// term. An empty term field means the slot is unassigned; otherwise the
// field must be a recognized category label.
func ReadParticipants(r io.Reader) ([]rotation.Participant, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse students: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("students file is empty")
	}

	nameCol, termCols, err := resolveStudentColumns(records[0])
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(records)-1)
	participants := make([]rotation.Participant, 0, len(records)-1)
	for i, row := range records[1:] {
		name := strings.TrimSpace(row[nameCol])
		if name == "" {
			return nil, fmt.Errorf("record %d: participant name is empty", i+1)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
		seen[name] = struct{}{}

		var assigned [rotation.NumTerms]rotation.Category
		for term, col := range termCols {
			field := strings.TrimSpace(row[col])
			if field == "" {
				assigned[term] = rotation.CategoryNone
				continue
			}
			cat, err := rotation.ParseCategory(field)
			if err != nil {
				return nil, fmt.Errorf("participant %s, term %d: %w", name, term+1, err)
			}
			assigned[term] = cat
		}

		p := rotation.NewParticipant(name, assigned)
		if err := validateQuota(&p); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}

	return participants, nil
}

// consumePreAssignments removes every pre-assigned slot from the
// inventory, so trials only compete for genuinely open capacity.
func consumePreAssignments(inv *rotation.Inventory, participants []rotation.Participant) error {
	for i := range participants {
		p := &participants[i]
		for term := 0; term < rotation.NumTerms; term++ {
			cat := p.Assignment(term)
			if cat == rotation.CategoryNone {
				continue
			}
			if inv.Remaining(term).Get(cat) == 0 {
				return fmt.Errorf("%w: participant %s, term %d, category %s",
					ErrOverConsumed, p.Name(), term+1, cat)
			}
			inv.Consume(term, cat)
		}
	}

	return nil
}

// validateQuota rejects participants whose history already violates
// their inferred course, which would otherwise trip the engine's
// decrement invariant mid-trial.
func validateQuota(p *rotation.Participant) error {
	course, known := p.Course()
	if !known {
		return nil
	}

	var tally rotation.Counts
	for _, cat := range p.Assignments() {
		if cat != rotation.CategoryNone {
			tally.Set(cat, tally.Get(cat)+1)
		}
	}

	quota := course.Quota()
	for _, cat := range rotation.Categories {
		if tally.Get(cat) > quota.Get(cat) {
			return fmt.Errorf("%w: participant %s has %d %s placements, course %s allows %d",
				ErrQuotaExceeded, p.Name(), tally.Get(cat), cat, course, quota.Get(cat))
		}
	}

	return nil
}

func resolveReserveColumns(header []string) (map[int]rotation.Category, error) {
	columns := make(map[int]rotation.Category, rotation.NumCategories)
	found := make(map[rotation.Category]bool, rotation.NumCategories)
	for col, label := range header {
		if cat, ok := reserveColumns[strings.TrimSpace(label)]; ok {
			columns[col] = cat
			found[cat] = true
		}
	}
	if len(found) != rotation.NumCategories {
		return nil, fmt.Errorf("reserves header %v must name all four category columns", header)
	}

	return columns, nil
}

func resolveStudentColumns(header []string) (int, [rotation.NumTerms]int, error) {
	nameCol := -1
	var termCols [rotation.NumTerms]int
	for term := range termCols {
		termCols[term] = -1
	}

	for col, label := range header {
		label = strings.TrimSpace(label)
		if label == "name" {
			nameCol = col
			continue
		}
		var term int
		if _, err := fmt.Sscanf(label, "term%d", &term); err == nil && term >= 1 && term <= rotation.NumTerms {
			termCols[term-1] = col
		}
	}

	if nameCol == -1 {
		return 0, termCols, fmt.Errorf("students header %v is missing the name column", header)
	}
	for term, col := range termCols {
		if col == -1 {
			return 0, termCols, fmt.Errorf("students header %v is missing the term%d column", header, term+1)
		}
	}

	return nameCol, termCols, nil
}
