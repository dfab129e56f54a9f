// Reconsensus (spec §4.6, Component F): recompute a block's consensus
// by per-column plurality vote across its gapped member sequences, and
// re-encode every member's edit maps against the new consensus.
//
// Grounded on dna_aligner/sequence/utils.go's GC-content
// style column scan, generalized from a single running counter to a
// per-column tally, and on Design Notes resolution item 2 (three
// separate edit maps) for the re-encoding step.
package block

import (
	"github.com/hmmm42/pangraph-core/arena"
	"github.com/hmmm42/pangraph-core/common"
)

// Reconsensus recomputes b's consensus in place. It returns false
// without modifying b when Depth() <= 2: the plurality vote runs only
// from depth 3 up (REDESIGN FLAG: reconsensus threshold). Otherwise it
// re-encodes every member and returns true if the consensus actually
// changed.
func (b *Block) Reconsensus() (bool, error) {
	if b.Depth() <= 2 {
		return false, nil
	}
	width := b.GappedLength()
	gapped := make([][]byte, len(b.order))
	for i, node := range b.order {
		g, err := b.MemberSequenceGapped(node)
		if err != nil {
			return false, err
		}
		gapped[i] = g
	}

	newGapped := make([]byte, width)
	for col := 0; col < width; col++ {
		newGapped[col] = plurality(gapped, col)
	}

	newConsensus := make([]byte, 0, width)
	newGaps := make(map[int]int)
	run := 0
	for _, c := range newGapped {
		if c == gapByte {
			run++
			continue
		}
		if run > 0 {
			newGaps[len(newConsensus)] = run
			run = 0
		}
		newConsensus = append(newConsensus, c)
	}
	if run > 0 {
		newGaps[len(newConsensus)] = run
	}

	changed := string(newConsensus) != string(b.consensus)

	newMembers := make(map[arena.NodeID]*MemberEdits, len(b.order))
	for i, node := range b.order {
		newMembers[node] = reencode(gapped[i], newGapped)
	}

	b.consensus = newConsensus
	b.gaps = newGaps
	b.members = newMembers
	return changed, nil
}

// plurality returns the most common of A, C, G, T, N and Gap across
// members at gapped column col, breaking ties in that order
// (common.NucleotideOrder). Other bytes are not counted; a column that
// holds none of these six yields Gap.
func plurality(gapped [][]byte, col int) byte {
	tally := map[byte]int{}
	for _, seq := range gapped {
		tally[seq[col]]++
	}
	best := byte(0)
	bestCount := -1
	for _, cand := range nucleotideOrder() {
		if c, ok := tally[cand]; ok && c > bestCount {
			best = cand
			bestCount = c
		}
	}
	if bestCount < 0 {
		return gapByte
	}
	return best
}

func nucleotideOrder() []byte {
	return []byte{'A', 'C', 'G', 'T', 'N', gapByte}
}

// reencode compares one member's old gapped sequence (against the old
// gap map) to the new gapped consensus (against the new gap map,
// sharing the same total width) and derives fresh SNP/Ins/Del edits.
func reencode(memberGapped, newConsensusGapped []byte) *MemberEdits {
	e := newMemberEdits()
	pos := 0 // new consensus position consumed so far
	// A member's contribution to any one gap cluster is always a single
	// left-justified run (padCluster never interleaves gap bytes inside
	// it), so accumulating every non-gap byte across a cluster into one
	// insBuf and emitting it as a single Off:0 run loses nothing.
	insBuf := []byte(nil)
	for col := range newConsensusGapped {
		refBase := newConsensusGapped[col]
		memBase := memberGapped[col]
		if refBase == gapByte {
			if memBase != gapByte {
				insBuf = append(insBuf, memBase)
			}
			continue
		}
		if len(insBuf) > 0 {
			e.Ins[keyAt(pos, e.Ins)] = insBuf
			insBuf = nil
		}
		pos++
		switch {
		case memBase == gapByte:
			extendDel(e.Del, pos)
		case memBase != refBase:
			e.SNP[pos] = memBase
		}
	}
	if len(insBuf) > 0 {
		e.Ins[keyAt(pos, e.Ins)] = insBuf
	}
	return e
}

// keyAt returns a GapKey anchored at pos whose Off does not collide
// with an existing entry (reencode only ever produces one run per
// anchor, so Off 0 always suffices, but this keeps the helper safe to
// reuse if that changes).
func keyAt(pos int, existing common.InsMap) common.GapKey {
	off := 0
	for {
		k := common.GapKey{Pos: pos, Off: off}
		if _, taken := existing[k]; !taken {
			return k
		}
		off++
	}
}

func extendDel(del map[int]int, pos int) {
	// Merge into the run ending at pos-1 if one exists, else start a
	// new length-1 run at pos.
	for start, n := range del {
		if start+n == pos {
			del[start] = n + 1
			return
		}
	}
	del[pos] = 1
}
