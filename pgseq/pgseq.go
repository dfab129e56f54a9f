// Package pgseq implements the byte-level DNA primitives the rest of
// the core builds on: reverse-complement and simple distance metrics.
// Adapted from dna_aligner/sequence/utils.go, generalized
// from string-oriented helpers to the []byte sequences the block
// container and CIGAR partitioner operate on, and extended with the
// gap-aware complement table required by block reverse-complement
// (spec §4.3).
package pgseq

import "github.com/hmmm42/pangraph-core/common"

var complement = [256]byte{}

func init() {
	for i := range complement {
		complement[i] = 'N'
	}
	complement['A'] = 'T'
	complement['T'] = 'A'
	complement['C'] = 'G'
	complement['G'] = 'C'
	complement['N'] = 'N'
	complement[common.Gap] = common.Gap
}

// ReverseComplement returns the reverse complement of seq. Unknown
// bytes map to 'N'; the gap byte maps to itself so the function is
// safe to call on gapped views as well as bare consensus sequences.
func ReverseComplement(seq []byte) []byte {
	n := len(seq)
	out := make([]byte, n)
	for i, b := range seq {
		out[n-1-i] = complement[b]
	}
	return out
}

// Complement returns the complement of a single base without
// reversing order.
func Complement(b byte) byte {
	return complement[b]
}

// Hamming returns the number of positions at which a and b differ.
// Panics if the slices have different lengths — callers are expected
// to have already aligned them to equal length.
func Hamming(a, b []byte) int {
	if len(a) != len(b) {
		panic("pgseq: Hamming requires equal-length sequences")
	}
	d := 0
	for i := range a {
		if a[i] != b[i] {
			d++
		}
	}
	return d
}

// GCContent returns the fraction of G/C bases in seq, case-insensitive.
// Returns 0 for an empty sequence.
func GCContent(seq []byte) float64 {
	if len(seq) == 0 {
		return 0.0
	}
	gc := 0
	for _, b := range seq {
		switch b {
		case 'G', 'C', 'g', 'c':
			gc++
		}
	}
	return float64(gc) / float64(len(seq))
}

// StripGaps removes every Gap byte from seq, returning a fresh slice.
func StripGaps(seq []byte) []byte {
	out := make([]byte, 0, len(seq))
	for _, b := range seq {
		if b != common.Gap {
			out = append(out, b)
		}
	}
	return out
}
