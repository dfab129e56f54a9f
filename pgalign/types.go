// Package pgalign is a reference pairwise aligner producing the
// block.Alignment records Combine consumes. It is a companion to the
// core, not part of it: block.Combine accepts an Alignment from any
// source, and this package is one (k-mer seed-and-extend) way to
// produce one.
//
// Adapted from the dna_aligner/matching and
// dna_aligner/merging packages: string-oriented k-mer/anchor/extension
// logic generalized to []byte, config constants replaced by
// pgconfig.Aligner, and the final output changed from dna_aligner's
// own Segment/graph chain to a single sam.Cigar plus a block.Alignment.
package pgalign

// KmerMatch is one exact k-mer hit between query and reference,
// grounded on dna_aligner/common.KmerMatch.
type KmerMatch struct {
	QueryPos int
	RefPos   int
	Length   int
}

// Anchor is an extended, error-tolerant match region, grounded on
// dna_aligner/common.AnchorMatch. Coordinates are inclusive.
type Anchor struct {
	QueryStart, QueryEnd int
	RefStart, RefEnd     int
	Score                float64
	Identity             float64
}

func (a Anchor) queryLen() int { return a.QueryEnd - a.QueryStart + 1 }
func (a Anchor) refLen() int   { return a.RefEnd - a.RefStart + 1 }
