package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gw31415/eschaton/internal/rotation"
)

const validReserves = `inner_medical,inner_surgical,outer_medical,outer_surgical
2,3,3,2
2,3,3,2
2,3,3,2
2,3,3,2
2,3,3,2
2,3,3,2
`

const validStudents = `name,term1,term2,term3,term4,term5,term6
alice,InnerSurgical,,,,,
bob,,OuterMedical,OuterMedical,,,
carol,,,,,,
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestReadInventory(t *testing.T) {
	t.Run("parses a valid file", func(t *testing.T) {
		inv, err := ReadInventory(strings.NewReader(validReserves))
		require.NoError(t, err)
		for term := 0; term < rotation.NumTerms; term++ {
			require.Equal(t, rotation.NewCounts(2, 3, 3, 2), inv.Remaining(term))
		}
	})

	t.Run("accepts reordered columns", func(t *testing.T) {
		inv, err := ReadInventory(strings.NewReader(
			"outer_surgical,inner_medical,outer_medical,inner_surgical\n" +
				strings.Repeat("1,2,3,4\n", rotation.NumTerms)))
		require.NoError(t, err)
		require.Equal(t, rotation.NewCounts(2, 4, 3, 1), inv.Remaining(0))
	})

	t.Run("rejects wrong term count", func(t *testing.T) {
		_, err := ReadInventory(strings.NewReader(
			"inner_medical,inner_surgical,outer_medical,outer_surgical\n1,1,1,1\n"))
		require.ErrorIs(t, err, ErrWrongTermCount)
	})

	t.Run("rejects missing columns", func(t *testing.T) {
		_, err := ReadInventory(strings.NewReader(
			"inner_medical,inner_surgical\n" + strings.Repeat("1,1\n", rotation.NumTerms)))
		require.ErrorContains(t, err, "category columns")
	})

	t.Run("rejects negative counts", func(t *testing.T) {
		_, err := ReadInventory(strings.NewReader(
			"inner_medical,inner_surgical,outer_medical,outer_surgical\n" +
				"1,-1,1,1\n" + strings.Repeat("1,1,1,1\n", rotation.NumTerms-1)))
		require.ErrorContains(t, err, "negative count")
	})

	t.Run("rejects non-numeric counts", func(t *testing.T) {
		_, err := ReadInventory(strings.NewReader(
			"inner_medical,inner_surgical,outer_medical,outer_surgical\n" +
				"1,many,1,1\n" + strings.Repeat("1,1,1,1\n", rotation.NumTerms-1)))
		require.ErrorContains(t, err, "bad count")
	})
}

func TestReadParticipants(t *testing.T) {
	t.Run("parses a valid file", func(t *testing.T) {
		participants, err := ReadParticipants(strings.NewReader(validStudents))
		require.NoError(t, err)
		require.Len(t, participants, 3)

		require.Equal(t, "alice", participants[0].Name())
		require.Equal(t, rotation.InnerSurgical, participants[0].Assignment(0))
		require.Equal(t, rotation.CategoryNone, participants[0].Assignment(1))

		course, known := participants[1].Course()
		require.True(t, known, "repeated OuterMedical must pin bob's course")
		require.Equal(t, rotation.CourseEschaton, course)

		_, known = participants[2].Course()
		require.False(t, known, "a blank history leaves the course open")
	})

	t.Run("accepts display labels", func(t *testing.T) {
		participants, err := ReadParticipants(strings.NewReader(
			"name,term1,term2,term3,term4,term5,term6\n" +
				"dave,院内内科,,,,,\n"))
		require.NoError(t, err)
		require.Equal(t, rotation.InnerMedical, participants[0].Assignment(0))
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		_, err := ReadParticipants(strings.NewReader(
			"name,term1,term2,term3,term4,term5,term6\n" +
				"alice,,,,,,\n" +
				"alice,,,,,,\n"))
		require.ErrorIs(t, err, ErrDuplicateName)
	})

	t.Run("rejects unknown labels", func(t *testing.T) {
		_, err := ReadParticipants(strings.NewReader(
			"name,term1,term2,term3,term4,term5,term6\n" +
				"alice,Cardiology,,,,,\n"))
		require.ErrorContains(t, err, "term 1")
	})

	t.Run("rejects empty names", func(t *testing.T) {
		_, err := ReadParticipants(strings.NewReader(
			"name,term1,term2,term3,term4,term5,term6\n" +
				" ,,,,,,\n"))
		require.ErrorContains(t, err, "name is empty")
	})

	t.Run("rejects histories beyond the course quota", func(t *testing.T) {
		// Three InnerSurgical placements: the repeat pins Eschaton,
		// whose quota allows only two.
		_, err := ReadParticipants(strings.NewReader(
			"name,term1,term2,term3,term4,term5,term6\n" +
				"alice,InnerSurgical,InnerSurgical,InnerSurgical,,,\n"))
		require.ErrorIs(t, err, ErrQuotaExceeded)
	})

	t.Run("rejects missing header columns", func(t *testing.T) {
		_, err := ReadParticipants(strings.NewReader("name,term1,term2\nalice,,\n"))
		require.ErrorContains(t, err, "term3")
	})
}

func TestLoadBaseline(t *testing.T) {
	t.Run("consumes pre-assignments from the inventory", func(t *testing.T) {
		reserves := writeFile(t, "reserves.csv", validReserves)
		students := writeFile(t, "students.csv", validStudents)

		baseline, err := LoadBaseline(reserves, students)
		require.NoError(t, err)
		require.Equal(t, 3, baseline.NumParticipants())

		inv := baseline.Inventory()
		// alice held an InnerSurgical seat in term 1, bob an
		// OuterMedical seat in terms 2 and 3.
		require.Equal(t, rotation.NewCounts(2, 2, 3, 2), inv.Remaining(0))
		require.Equal(t, rotation.NewCounts(2, 3, 2, 2), inv.Remaining(1))
		require.Equal(t, rotation.NewCounts(2, 3, 2, 2), inv.Remaining(2))
		require.Equal(t, rotation.NewCounts(2, 3, 3, 2), inv.Remaining(3))
	})

	t.Run("rejects over-consumed terms", func(t *testing.T) {
		reserves := writeFile(t, "reserves.csv",
			"inner_medical,inner_surgical,outer_medical,outer_surgical\n"+
				strings.Repeat("0,1,1,1\n", rotation.NumTerms))
		students := writeFile(t, "students.csv",
			"name,term1,term2,term3,term4,term5,term6\n"+
				"alice,InnerMedical,,,,,\n")

		_, err := LoadBaseline(reserves, students)
		require.ErrorIs(t, err, ErrOverConsumed)
	})

	t.Run("rejects missing files", func(t *testing.T) {
		students := writeFile(t, "students.csv", validStudents)
		_, err := LoadBaseline(filepath.Join(t.TempDir(), "absent.csv"), students)
		require.Error(t, err)
	})
}
