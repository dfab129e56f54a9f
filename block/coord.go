// The coordinate engine (spec §4.4, Component E): translation between
// the block's three coordinate systems — Consensus (C), positions
// 1..Length() into the bare consensus; Gapped (G), positions into the
// padded multi-member alignment; and Member (M), positions into one
// member's own reconstructed sequence. Ξ(x) = x + Σ_{p<x} gaps[p] maps
// C to G.
package block

import "github.com/hmmm42/pangraph-core/arena"

// GappedLength returns the width of the padded multi-member alignment:
// the consensus length plus every reserved gap column.
func (b *Block) GappedLength() int {
	n := len(b.consensus)
	for _, g := range b.gaps {
		n += g
	}
	return n
}

// gapsBefore returns Σ_{p<pos} gaps[p], the number of gap columns
// reserved strictly before consensus position pos (pos ranges 0..L).
func (b *Block) gapsBefore(pos int) int {
	n := 0
	for p, g := range b.gaps {
		if p < pos {
			n += g
		}
	}
	return n
}

// Xi translates a 1-based consensus position into its 1-based position
// in the gapped alignment, accounting for every gap cluster that
// precedes it.
func (b *Block) Xi(consensusPos int) int {
	return consensusPos + b.gapsBefore(consensusPos)
}

// SequenceGapped reconstructs the block-wide padded consensus: the
// bare consensus with Gap bytes filling every reserved gap-column
// cluster. Every member's SequenceGapped has exactly this length.
func (b *Block) SequenceGapped() []byte {
	out := make([]byte, 0, b.GappedLength())
	out = append(out, padding(b.gaps[0])...)
	for pos := 1; pos <= len(b.consensus); pos++ {
		out = append(out, b.consensus[pos-1])
		out = append(out, padding(b.gaps[pos])...)
	}
	return out
}

func padding(n int) []byte {
	if n <= 0 {
		return nil
	}
	out := make([]byte, n)
	for i := range out {
		out[i] = gapByte
	}
	return out
}

const gapByte = '-'

// MemberSequenceGapped reconstructs node's own sequence at full
// alignment width: its inserted bases left-justified within each
// reserved gap cluster (padded with Gap), its deleted columns replaced
// with Gap, and its SNPs substituted in place.
func (b *Block) MemberSequenceGapped(node arena.NodeID) ([]byte, error) {
	e, err := b.checkMember(node)
	if err != nil {
		return nil, err
	}
	skip := e.deletedColumns()
	out := make([]byte, 0, b.GappedLength())
	out = append(out, padCluster(e.insertsAt(0), b.gaps[0])...)
	for pos := 1; pos <= len(b.consensus); pos++ {
		switch {
		case skip[pos]:
			out = append(out, gapByte)
		default:
			if snp, ok := e.SNP[pos]; ok {
				out = append(out, snp)
			} else {
				out = append(out, b.consensus[pos-1])
			}
		}
		out = append(out, padCluster(e.insertsAt(pos), b.gaps[pos])...)
	}
	return out, nil
}

// padCluster left-justifies run within a reserved gap cluster of
// width capacity, padding the remainder with Gap. If run is longer
// than capacity (a malformed block: GapMap should always be at least
// as wide as every member's own insert) it is returned unpadded.
func padCluster(run []byte, capacity int) []byte {
	if len(run) >= capacity {
		return run
	}
	out := make([]byte, capacity)
	copy(out, run)
	for i := len(run); i < capacity; i++ {
		out[i] = gapByte
	}
	return out
}
