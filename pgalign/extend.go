package pgalign

import "github.com/hmmm42/pangraph-core/pgconfig"

// ExtendMatch grows a k-mer seed into an error-tolerant anchor,
// adapted from dna_aligner/matching/extend.go: same
// forward/backward extension with up to a 2-base indel probe on a
// mismatch before falling back to charging a substitution, generalized
// to []byte and pgconfig.Aligner in place of package-level consts.
func ExtendMatch(query, ref []byte, qStartKmer, rStartKmer, k int, cfg pgconfig.Aligner) *Anchor {
	minMatchLen := cfg.MinMatchLength
	maxErrors := cfg.ExtendMaxErrors

	qFwd, rFwd := qStartKmer+k, rStartKmer+k
	totalMatches := k
	errFwd := 0
	for qFwd < len(query) && rFwd < len(ref) && errFwd <= maxErrors {
		if query[qFwd] == ref[rFwd] {
			qFwd++
			rFwd++
			totalMatches++
			continue
		}
		if step, ok := probeIndel(query, ref, qFwd, rFwd, +1); ok {
			qFwd += step.dq
			rFwd += step.dr
			errFwd++
			totalMatches++
			continue
		}
		qFwd++
		rFwd++
		errFwd++
	}

	qBwd, rBwd := qStartKmer-1, rStartKmer-1
	errBwd := 0
	for qBwd >= 0 && rBwd >= 0 && errBwd <= maxErrors {
		if query[qBwd] == ref[rBwd] {
			qBwd--
			rBwd--
			totalMatches++
			continue
		}
		if step, ok := probeIndel(query, ref, qBwd, rBwd, -1); ok {
			qBwd -= step.dq
			rBwd -= step.dr
			errBwd++
			totalMatches++
			continue
		}
		qBwd--
		rBwd--
		errBwd++
	}

	finalQStart, finalRStart := qBwd+1, rBwd+1
	matchLength := qFwd - finalQStart
	if matchLength <= 0 {
		return nil
	}
	identity := float64(totalMatches) / float64(matchLength)
	if matchLength >= minMatchLen && identity >= cfg.MinIdentityThreshold {
		score := float64(matchLength) * identity * (1.0 - 0.05*float64(errBwd))
		return &Anchor{
			QueryStart: finalQStart, QueryEnd: qFwd - 1,
			RefStart: finalRStart, RefEnd: rFwd - 1,
			Score: score, Identity: identity,
		}
	}
	return nil
}

type indelStep struct{ dq, dr int }

// probeIndel looks up to 2 bases ahead (dir=+1) or behind (dir=-1) for
// a resynchronizing match on either side of the mismatch, matching
// dna_aligner/matching/extend.go's "try insertion in query, then in
// reference" probe order.
func probeIndel(query, ref []byte, qPos, rPos, dir int) (indelStep, bool) {
	for ins := 1; ins <= 2; ins++ {
		qi := qPos + dir*ins
		if inBounds(qi, len(query)) && inBounds(rPos, len(ref)) && query[qi] == ref[rPos] {
			return indelStep{dq: dir * (ins + 1), dr: dir}, true
		}
	}
	for ins := 1; ins <= 2; ins++ {
		ri := rPos + dir*ins
		if inBounds(qPos, len(query)) && inBounds(ri, len(ref)) && query[qPos] == ref[ri] {
			return indelStep{dq: dir, dr: dir * (ins + 1)}, true
		}
	}
	return indelStep{}, false
}

func inBounds(i, n int) bool { return i >= 0 && i < n }
