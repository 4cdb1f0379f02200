package rotation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func baselineFixture() *Baseline {
	var table Table
	for term := range table {
		table[term] = NewCounts(2, 2, 2, 2)
	}

	return NewBaseline(NewInventory(table), []Participant{
		NewParticipant("alice", slots(nil)),
		NewParticipant("bob", slots(map[int]Category{0: InnerSurgical})),
	})
}

func TestBaselineCopiesAreIndependent(t *testing.T) {
	b := baselineFixture()

	inv := b.Inventory()
	inv.Consume(0, InnerMedical)
	fresh := b.Inventory()
	require.Equal(t, 2, fresh.Remaining(0).Get(InnerMedical))

	participants := b.Participants()
	participants[0].Assign(0, OuterMedical)
	require.Equal(t, CategoryNone, b.Participants()[0].Assignment(0))
}

func TestBaselineDigest(t *testing.T) {
	t.Run("stable across identical snapshots", func(t *testing.T) {
		require.Equal(t, baselineFixture().Digest(), baselineFixture().Digest())
	})

	t.Run("differs when inventory changes", func(t *testing.T) {
		a := baselineFixture()

		var table Table
		for term := range table {
			table[term] = NewCounts(2, 2, 2, 2)
		}
		table[5] = NewCounts(2, 2, 2, 1)
		b := NewBaseline(NewInventory(table), a.Participants())

		require.NotEqual(t, a.Digest(), b.Digest())
	})

	t.Run("differs when a participant changes", func(t *testing.T) {
		a := baselineFixture()
		b := NewBaseline(a.Inventory(), []Participant{
			NewParticipant("alice", slots(nil)),
			NewParticipant("bob", slots(map[int]Category{0: OuterSurgical})),
		})

		require.NotEqual(t, a.Digest(), b.Digest())
	})
}
