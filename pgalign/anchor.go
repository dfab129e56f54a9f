package pgalign

import (
	"math"
	"sort"

	"github.com/hmmm42/pangraph-core/pgconfig"
	"github.com/hmmm42/pangraph-core/pgseq"
)

// FindAnchors extends k-mer seeds into anchors and filters them with
// FilterAnchors, adapted from dna_aligner/matching/anchor.go FindAnchors.
func FindAnchors(query, ref []byte, cfg pgconfig.Aligner) []Anchor {
	k := cfg.DefaultK
	stride := cfg.DefaultStride
	if stride <= 0 {
		stride = 1
	}
	if k <= 0 {
		return nil
	}

	exact := FindExactMatches(query, ref, k)
	processed := make(map[[2]int]bool)
	var anchors []Anchor
	for i, em := range exact {
		key := [2]int{em.QueryPos, em.RefPos}
		if i%stride != 0 && processed[key] {
			continue
		}
		anchor := ExtendMatch(query, ref, em.QueryPos, em.RefPos, em.Length, cfg)
		if anchor == nil {
			continue
		}
		anchors = append(anchors, *anchor)

		matchLen := anchor.queryLen()
		strideFactor := int(math.Max(1, float64(matchLen/10)))
		for j := 0; j < matchLen; j += strideFactor {
			q, r := anchor.QueryStart+j, anchor.RefStart+j
			if q < len(query) && r < len(ref) {
				processed[[2]int{q, r}] = true
			}
		}
	}
	return FilterAnchors(anchors, cfg.OverlapThreshold)
}

// FilterAnchors walks anchors from highest score down, dropping each
// one whose query or reference span overlaps an already kept anchor by
// more than overlapThreshold of its own length; smaller overlaps are
// kept. The result is sorted by QueryStart. Adapted from
// dna_aligner/matching/anchor.go FilterAnchors.
func FilterAnchors(anchors []Anchor, overlapThreshold float64) []Anchor {
	if len(anchors) == 0 {
		return nil
	}
	sort.SliceStable(anchors, func(i, j int) bool { return anchors[i].Score > anchors[j].Score })

	excluded := make(map[int]bool)
	var filtered []Anchor
	for i := range anchors {
		if excluded[i] {
			continue
		}
		filtered = append(filtered, anchors[i])
		for j := i + 1; j < len(anchors); j++ {
			if excluded[j] {
				continue
			}
			if overlapRatio(anchors[i].QueryStart, anchors[i].QueryEnd, anchors[j].QueryStart, anchors[j].QueryEnd) > overlapThreshold ||
				overlapRatio(anchors[i].RefStart, anchors[i].RefEnd, anchors[j].RefStart, anchors[j].RefEnd) > overlapThreshold {
				excluded[j] = true
			}
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].QueryStart < filtered[j].QueryStart })
	return filtered
}

func overlapRatio(aStart, aEnd, bStart, bEnd int) float64 {
	oStart, oEnd := max(aStart, bStart), min(aEnd, bEnd)
	if oEnd < oStart {
		return 0
	}
	bLen := bEnd - bStart + 1
	if bLen <= 0 {
		return 0
	}
	return float64(oEnd-oStart+1) / float64(bLen)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// FindReverseAnchors finds anchors of query against the reverse
// complement of ref, reporting coordinates on the original ref
// strand, adapted from dna_aligner/matching/anchor.go
// FindReverseAnchors.
func FindReverseAnchors(query, ref []byte, cfg pgconfig.Aligner) []Anchor {
	revRef := pgseq.ReverseComplement(ref)
	onRev := FindAnchors(query, revRef, cfg)
	L := len(ref)
	out := make([]Anchor, len(onRev))
	for i, a := range onRev {
		out[i] = Anchor{
			QueryStart: a.QueryStart, QueryEnd: a.QueryEnd,
			RefStart: L - 1 - a.RefEnd, RefEnd: L - 1 - a.RefStart,
			Score: a.Score, Identity: a.Identity,
		}
	}
	return out
}
