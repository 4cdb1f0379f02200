package rotation

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// Baseline is the immutable (inventory, participants) snapshot every
// trial starts from. It is constructed once at startup and shared
// read-only across workers; each trial deep-copies it before mutating.
type Baseline struct {
	inventory    Inventory
	participants []Participant
	digest       uint64
}

// NewBaseline creates a baseline snapshot. The inventory must already
// be net of the participants' pre-assigned slots.
func NewBaseline(inventory Inventory, participants []Participant) *Baseline {
	b := &Baseline{
		inventory:    inventory,
		participants: make([]Participant, len(participants)),
	}
	copy(b.participants, participants)
	b.digest = b.computeDigest()

	return b
}

// Inventory returns an independent copy of the baseline inventory.
func (b *Baseline) Inventory() Inventory {
	return b.inventory.Clone()
}

// Participants returns an independent copy of the participant list.
func (b *Baseline) Participants() []Participant {
	out := make([]Participant, len(b.participants))
	copy(out, b.participants)

	return out
}

// NumParticipants returns the number of participants in the snapshot.
func (b *Baseline) NumParticipants() int {
	return len(b.participants)
}

// Digest returns a stable 64-bit fingerprint of the snapshot. Durable
// statistics record it so that a checkpoint produced from different
// input files is rejected at load time instead of silently merged.
func (b *Baseline) Digest() uint64 {
	return b.digest
}

// computeDigest hashes a canonical byte encoding of the snapshot.
func (b *Baseline) computeDigest() uint64 {
	hasher := xxh3.New()
	var buf [8]byte

	writeInt := func(n int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(n))
		_, _ = hasher.Write(buf[:])
	}

	table := b.inventory.Table()
	for term := range table {
		for _, cat := range Categories {
			writeInt(table[term].Get(cat))
		}
	}

	writeInt(len(b.participants))
	for i := range b.participants {
		p := &b.participants[i]
		writeInt(len(p.Name()))
		_, _ = hasher.WriteString(p.Name())
		for term := 0; term < NumTerms; term++ {
			writeInt(int(p.Assignment(term)))
		}
	}

	return hasher.Sum64()
}
