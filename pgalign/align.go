// Align chains k-mer anchors into a single block.Alignment, adapted
// from the top-level dna_aligner/aligner/align.go driver:
// same "find forward anchors, find anchors against the reverse
// complement, keep whichever orientation scores higher, merge
// adjacent anchors" shape, generalized from that driver's own
// graph/region-filling chain to a single sam.Cigar suitable for
// block.Combine.
package pgalign

import (
	"sort"

	"github.com/biogo/hts/sam"

	"github.com/hmmm42/pangraph-core/block"
	"github.com/hmmm42/pangraph-core/pgconfig"
	"github.com/hmmm42/pangraph-core/pgintvl"
)

// Align finds the best-scoring chain of anchors between query and ref
// and returns the block.Alignment describing it. It returns ok=false
// if no anchor clears the configured thresholds.
func Align(query, ref []byte, cfg pgconfig.Aligner, maxGap int) (block.Alignment, bool) {
	fwd := MergeAdjacentAnchors(FindAnchors(query, ref, cfg), cfg.FinalMergeMaxGap)
	rev := MergeAdjacentAnchors(FindReverseAnchors(query, ref, cfg), cfg.FinalMergeMaxGap)

	if totalScore(fwd) == 0 && totalScore(rev) == 0 {
		return block.Alignment{}, false
	}

	orientation := int8(1)
	chosen := fwd
	if totalScore(rev) > totalScore(fwd) {
		orientation = -1
		chosen = rev
	}
	if len(chosen) == 0 {
		return block.Alignment{}, false
	}

	loQ, hiQ, loR, hiR := chosen[0].QueryStart, chosen[0].QueryEnd+1, chosen[0].RefStart, chosen[0].RefEnd+1
	for _, a := range chosen {
		loQ = min(loQ, a.QueryStart)
		hiQ = max(hiQ, a.QueryEnd+1)
		loR = min(loR, a.RefStart)
		hiR = max(hiR, a.RefEnd+1)
	}
	qLen := hiQ - loQ

	// Local, 0-based coordinates within [loQ,hiQ) / [loR,hiR). For the
	// reverse orientation, mirror the query side into the frame
	// block.Combine will see after it reverse-complements the sliced
	// query block: Q[q] matching complement(R[r]) forward-forward is
	// equivalent to RC(Q)[qLen-1-q] matching R[r] directly.
	type localAnchor struct{ qLo, qHi, rLo, rHi int }
	locals := make([]localAnchor, len(chosen))
	for i, a := range chosen {
		qLo, qHi := a.QueryStart-loQ, a.QueryEnd+1-loQ
		if orientation < 0 {
			qLo, qHi = qLen-(a.QueryEnd+1-loQ), qLen-(a.QueryStart-loQ)
		}
		locals[i] = localAnchor{qLo: qLo, qHi: qHi, rLo: a.RefStart - loR, rHi: a.RefEnd + 1 - loR}
	}
	sort.Slice(locals, func(i, j int) bool { return locals[i].rLo < locals[j].rLo })

	var cigar sam.Cigar
	qCursor, rCursor := 0, 0
	for _, la := range locals {
		if la.qLo < qCursor || la.rLo < rCursor {
			continue // chain must be monotonic in both axes; drop anything that crossed
		}
		if la.qLo > qCursor {
			cigar = append(cigar, sam.NewCigarOp(sam.CigarInsertion, la.qLo-qCursor))
		}
		if la.rLo > rCursor {
			cigar = append(cigar, sam.NewCigarOp(sam.CigarDeletion, la.rLo-rCursor))
		}
		qSpan, rSpan := la.qHi-la.qLo, la.rHi-la.rLo
		core := min(qSpan, rSpan)
		if core > 0 {
			cigar = append(cigar, sam.NewCigarOp(sam.CigarMatch, core))
		}
		if qSpan > core {
			cigar = append(cigar, sam.NewCigarOp(sam.CigarInsertion, qSpan-core))
		}
		if rSpan > core {
			cigar = append(cigar, sam.NewCigarOp(sam.CigarDeletion, rSpan-core))
		}
		qCursor, rCursor = la.qHi, la.rHi
	}
	qRemainder := qLen - qCursor
	rRemainder := (hiR - loR) - rCursor
	if qRemainder > 0 {
		cigar = append(cigar, sam.NewCigarOp(sam.CigarInsertion, qRemainder))
	}
	if rRemainder > 0 {
		cigar = append(cigar, sam.NewCigarOp(sam.CigarDeletion, rRemainder))
	}

	return block.Alignment{
		Cigar:       cigar,
		Orientation: orientation,
		RefInterval: pgintvl.New(loR, hiR),
		QryInterval: pgintvl.New(loQ, hiQ),
		MaxGap:      maxGap,
	}, true
}

func totalScore(anchors []Anchor) float64 {
	var s float64
	for _, a := range anchors {
		s += a.Score
	}
	return s
}
