// Reverse-complement (spec §4.3, and §9 open question 1: reverse gap
// offset arithmetic). Combine reverse-complements the query block
// before partitioning whenever the pairwise alignment reports the
// minus strand, so every downstream coordinate is expressed in the
// same orientation as the reference.
//
// The gap-anchor flip newPos = L - oldPos falls out of treating an
// insertion anchor as "the boundary after position oldPos": reversing
// the whole molecule turns that boundary into "the boundary before
// position L-oldPos+1", i.e. anchored after position L-oldPos. The
// same substitution folds Del/SNP positions and reverse-complements
// every stored base, grounded on the byte-level primitives in
// pgseq.ReverseComplement.
package block

import (
	"sort"

	"github.com/hmmm42/pangraph-core/arena"
	"github.com/hmmm42/pangraph-core/common"
	"github.com/hmmm42/pangraph-core/pgseq"
)

// ReverseComplement returns a new block representing the same
// multi-member alignment read on the opposite strand. b is unmodified.
func (b *Block) ReverseComplement() *Block {
	L := len(b.consensus)
	out := &Block{
		id:        NewBlockID(),
		consensus: pgseq.ReverseComplement(b.consensus),
		gaps:      common.GapMap{},
		members:   make(map[arena.NodeID]*MemberEdits, len(b.order)),
		order:     append([]arena.NodeID(nil), b.order...),
	}
	for p, n := range b.gaps {
		out.gaps[L-p] = n
	}
	for node, e := range b.members {
		out.members[node] = reverseComplementEdits(e, L)
	}
	return out
}

func reverseComplementEdits(e *MemberEdits, L int) *MemberEdits {
	ne := newMemberEdits()
	for pos, base := range e.SNP {
		ne.SNP[L-pos+1] = pgseq.Complement(base)
	}
	for start, n := range e.Del {
		ne.Del[L-start-n+2] = n
	}
	ne.Ins = reverseInsertions(e.Ins, L)
	return ne
}

// reverseInsertions flips every anchor with newPos = L - Pos, reverse-
// complements each run's bytes, and inverts the Off ordering within
// each anchor group so runs that were left-to-right before reversal
// remain left-to-right after it.
func reverseInsertions(ins common.InsMap, L int) common.InsMap {
	type entry struct {
		off int
		run []byte
	}
	groups := make(map[int][]entry)
	for k, run := range ins {
		groups[k.Pos] = append(groups[k.Pos], entry{k.Off, run})
	}
	out := make(common.InsMap, len(ins))
	for pos, entries := range groups {
		sort.Slice(entries, func(i, j int) bool { return entries[i].off < entries[j].off })
		newPos := L - pos
		n := len(entries)
		for i, e := range entries {
			newOff := n - 1 - i
			out[common.GapKey{Pos: newPos, Off: newOff}] = pgseq.ReverseComplement(e.run)
		}
	}
	return out
}
