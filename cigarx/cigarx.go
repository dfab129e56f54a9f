// Package cigarx implements the CIGAR partitioner (spec §4.2,
// Component C): it walks a CIGAR against a query and a reference byte
// sequence and splits the alignment into query-only, reference-only,
// and shared segments, extracting per-segment SNP/INS/DEL edits for
// the shared regions.
//
// The segment-kind dispatch follows the Design Notes' "tagged variant"
// resolution (Segment.Kind + accessors) rather than ad hoc type
// switches. The wire CIGAR type is github.com/biogo/hts/sam.Cigar, the
// same type the rest of the Go bioinformatics corpus in this pack
// builds on (see other_examples/biogo-hts__cigar.go and
// other_examples/brentp-bigly__cigar.go).
package cigarx

import (
	"fmt"

	"github.com/biogo/hts/sam"

	"github.com/hmmm42/pangraph-core/common"
	"github.com/hmmm42/pangraph-core/pgintvl"
)

// SegmentKind tags a partitioned alignment piece.
type SegmentKind int

const (
	// QryOnly is a query-exclusive span: a long insertion, or a short
	// insertion with no shared segment to anchor to yet.
	QryOnly SegmentKind = iota
	// RefOnly is a reference-exclusive span: a long deletion.
	RefOnly
	// Shared is a span covered by M/=/X columns (and short indels
	// absorbed into it) on both sides.
	Shared
)

func (k SegmentKind) String() string {
	switch k {
	case QryOnly:
		return "qry-only"
	case RefOnly:
		return "ref-only"
	case Shared:
		return "shared"
	default:
		return "unknown"
	}
}

// InsRun is one short-insertion run absorbed into a Shared segment: the
// query contributed QLen bases, with no reference counterpart, hosted
// in the gap cluster that follows reference-local position RAnchor.
// GroupOff disambiguates multiple runs that happen to share the same
// RAnchor (back-to-back I ops with no intervening M/=/X/D), in the
// same left-to-right order they occur in the CIGAR.
type InsRun struct {
	RAnchor  int
	QStart   int
	QLen     int
	GroupOff int
}

// Segment is one piece of a partitioned alignment. SNP/Del/InsRuns/
// Spine use segment-local coordinates: position 1 is the first
// consensus column of this segment's own QryInterval/RefInterval,
// matching what Slice(parent, QryInterval) / Slice(parent, RefInterval)
// renumbers to.
type Segment struct {
	Kind        SegmentKind
	Consensus   []byte
	QryInterval pgintvl.Interval
	HasQry      bool
	RefInterval pgintvl.Interval
	HasRef      bool

	// Populated only when Kind == Shared.
	SNP     common.SNPMap
	Del     common.DelMap
	InsRuns []InsRun
	Spine   map[int]int // qLocal -> rLocal, M/=/X columns only
}

// Locate resolves a segment-local query position to either a spine
// reference position, or a position inside one of the segment's
// insertion runs (identified by RAnchor/GroupOff so the caller can
// target the exact run an override belongs to). block.combine uses
// this to reproject a query member's own pre-existing edits onto the
// merged block's coordinate frame.
func (s *Segment) Locate(qLocal int) (rAnchor, groupOff, rOffset int, isInsert, ok bool) {
	if r, found := s.Spine[qLocal]; found {
		return r, 0, 0, false, true
	}
	for _, run := range s.InsRuns {
		if qLocal >= run.QStart && qLocal < run.QStart+run.QLen {
			return run.RAnchor, run.GroupOff, qLocal - run.QStart, true, true
		}
	}
	return 0, 0, 0, false, false
}

// AnchorBoundary resolves a 0..QryLen boundary position (the kind used
// by an InsMap key, "insert after local position p") to the reference-
// local anchor it corresponds to post-merge. It returns ok=false when
// the boundary falls strictly inside an existing insertion run, which
// combine treats as a genuine ambiguity rather than guessing.
func (s *Segment) AnchorBoundary(p int) (rAnchor int, ok bool) {
	if p == 0 {
		return 0, true
	}
	if r, found := s.Spine[p]; found {
		return r, true
	}
	for _, run := range s.InsRuns {
		if p > run.QStart && p < run.QStart+run.QLen {
			return 0, false
		}
	}
	// p sits exactly at a run's trailing edge (p == QStart+QLen-1 was
	// already a Spine miss handled above only if p is itself a real
	// spine column; here p must be the boundary right after a run,
	// i.e. not inside [QStart, QStart+QLen) at all once the loop above
	// found no containing run) — fall back to scanning for the
	// nearest preceding spine column.
	best, found := 0, false
	for q, r := range s.Spine {
		if q <= p && (!found || q > best) {
			best, found = q, true
			rAnchor = r
		}
	}
	if !found {
		return 0, false
	}
	return rAnchor, true
}

// MalformedCigar is returned for an unrecognised op or a CIGAR whose
// consumed length does not match the supplied sequences.
type MalformedCigar struct {
	Reason string
}

func (e *MalformedCigar) Error() string { return "cigarx: malformed CIGAR: " + e.Reason }

type accumulator struct {
	qStart, rStart int // global 0-based start of this shared run
	qLocal, rLocal int // local 1-based counters within the run
	snp            common.SNPMap
	del            common.DelMap
	insRuns        []InsRun
	spineMap       map[int]int
	insGroupCount  map[int]int
}

func newAccumulator(qStart, rStart int) *accumulator {
	return &accumulator{
		qStart: qStart, rStart: rStart,
		snp: common.SNPMap{}, del: common.DelMap{}, spineMap: map[int]int{},
		insGroupCount: map[int]int{},
	}
}

// Partition walks cigar against qry and ref (both already restricted
// to the alignment's qry_interval/ref_interval) and yields segments in
// reference order. maxgap is the minimum I/D run length that forces a
// split (spec §4.2).
func Partition(cigar sam.Cigar, qry, ref []byte, maxgap int) ([]Segment, error) {
	if maxgap <= 0 {
		return nil, &MalformedCigar{Reason: "maxgap must be positive"}
	}
	var segments []Segment
	qpos, rpos := 0, 0
	var acc *accumulator

	flush := func() {
		if acc == nil {
			return
		}
		if acc.qLocal > 0 || acc.rLocal > 0 {
			segments = append(segments, Segment{
				Kind:        Shared,
				Consensus:   ref[acc.rStart:rpos],
				QryInterval: pgintvl.New(acc.qStart, qpos),
				HasQry:      true,
				RefInterval: pgintvl.New(acc.rStart, rpos),
				HasRef:      true,
				SNP:         acc.snp,
				Del:         acc.del,
				InsRuns:     acc.insRuns,
				Spine:       acc.spineMap,
			})
		}
		acc = nil
	}

	for _, op := range cigar {
		length := op.Len()
		if length == 0 {
			continue
		}
		switch op.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			if qpos+length > len(qry) || rpos+length > len(ref) {
				return nil, &MalformedCigar{Reason: "M/=/X run exceeds sequence bounds"}
			}
			if acc == nil {
				acc = newAccumulator(qpos, rpos)
			}
			for i := 0; i < length; i++ {
				acc.qLocal++
				acc.rLocal++
				if qry[qpos] != ref[rpos] {
					acc.snp[acc.rLocal] = qry[qpos]
				}
				acc.spineMap[acc.qLocal] = acc.rLocal
				qpos++
				rpos++
			}

		case sam.CigarInsertion:
			if qpos+length > len(qry) {
				return nil, &MalformedCigar{Reason: "I run exceeds query bounds"}
			}
			// A long run always splits. A short run splits too if
			// there is no shared accumulator yet, or the accumulator
			// has not consumed any reference column yet — insert keys
			// must reference a consensus position in [1,L], so a
			// leading insertion has nowhere valid to anchor.
			if length >= maxgap || acc == nil || acc.rLocal == 0 {
				flush()
				segments = append(segments, Segment{
					Kind:        QryOnly,
					Consensus:   qry[qpos : qpos+length],
					QryInterval: pgintvl.New(qpos, qpos+length),
					HasQry:      true,
				})
				qpos += length
				continue
			}
			acc.qLocal++
			groupOff := acc.insGroupCount[acc.rLocal]
			acc.insGroupCount[acc.rLocal]++
			acc.insRuns = append(acc.insRuns, InsRun{RAnchor: acc.rLocal, QStart: acc.qLocal, QLen: length, GroupOff: groupOff})
			acc.qLocal += length - 1
			qpos += length

		case sam.CigarDeletion, sam.CigarSkipped:
			if rpos+length > len(ref) {
				return nil, &MalformedCigar{Reason: "D/N run exceeds reference bounds"}
			}
			if length >= maxgap {
				flush()
				segments = append(segments, Segment{
					Kind:        RefOnly,
					Consensus:   ref[rpos : rpos+length],
					RefInterval: pgintvl.New(rpos, rpos+length),
					HasRef:      true,
				})
				rpos += length
				continue
			}
			if acc == nil {
				acc = newAccumulator(qpos, rpos)
			}
			acc.rLocal++
			acc.del[acc.rLocal] = length
			acc.rLocal += length - 1
			rpos += length

		case sam.CigarSoftClipped, sam.CigarHardClipped, sam.CigarPadded:
			return nil, &MalformedCigar{Reason: fmt.Sprintf("unsupported clip/pad op %s", op.Type())}
		default:
			return nil, &MalformedCigar{Reason: fmt.Sprintf("unsupported op %s", op.Type())}
		}
	}
	flush()
	if qpos != len(qry) || rpos != len(ref) {
		return nil, &MalformedCigar{Reason: "CIGAR does not consume the full query/reference span"}
	}
	return segments, nil
}
