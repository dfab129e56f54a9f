// Combine (spec §4.5, Component G): fuse two blocks along a pairwise
// Alignment, producing an ordered chain of child blocks — the flanking
// regions each side contributes alone, and a merged core where the two
// blocks' members share a single new consensus.
//
// Grounded on cigarx's segment partition for the core, on the opaque
// NodeID handles from package arena for member identity, and on the
// Design Notes' resolution that ambiguous coincidences (an existing
// member edit landing inside a newly-discovered insertion run with no
// safe reprojection) raise EditCollision rather than guess.
package block

import (
	"github.com/biogo/hts/sam"

	"github.com/hmmm42/pangraph-core/cigarx"
	"github.com/hmmm42/pangraph-core/common"
	"github.com/hmmm42/pangraph-core/pgintvl"
)

// Alignment is the external pairwise-alignment record Combine consumes
// (spec §6): a CIGAR describing how qry's interval maps onto ref's,
// plus the relative strand.
type Alignment struct {
	Cigar       sam.Cigar
	Orientation int8 // +1: qry forward vs ref; -1: qry reverse-complemented vs ref
	RefInterval pgintvl.Interval
	QryInterval pgintvl.Interval
	MaxGap      int
}

// Result is Combine's output: the ordered chain of blocks that
// replaces ref and qry. Before/After fields are nil when the
// alignment runs to that block's own edge.
type Result struct {
	RefBefore *Block
	RefAfter  *Block
	QryBefore *Block
	QryAfter  *Block
	Core      []*Block
}

// Combine fuses ref and qry along aln. Neither input block is
// modified; all returned blocks are fresh.
func Combine(ref, qry *Block, aln Alignment) (*Result, error) {
	if aln.RefInterval.Lo < 0 || aln.RefInterval.Hi > ref.Length() || aln.RefInterval.Lo > aln.RefInterval.Hi {
		return nil, &AlignmentOutOfRange{Detail: "ref_interval outside ref block"}
	}
	if aln.QryInterval.Lo < 0 || aln.QryInterval.Hi > qry.Length() || aln.QryInterval.Lo > aln.QryInterval.Hi {
		return nil, &AlignmentOutOfRange{Detail: "qry_interval outside qry block"}
	}
	maxgap := aln.MaxGap
	if maxgap <= 0 {
		maxgap = 1
	}

	res := &Result{}
	var err error
	if aln.RefInterval.Lo > 0 {
		if res.RefBefore, err = ref.Slice(0, aln.RefInterval.Lo); err != nil {
			return nil, err
		}
	}
	if aln.RefInterval.Hi < ref.Length() {
		if res.RefAfter, err = ref.Slice(aln.RefInterval.Hi, ref.Length()); err != nil {
			return nil, err
		}
	}
	if aln.QryInterval.Lo > 0 {
		if res.QryBefore, err = qry.Slice(0, aln.QryInterval.Lo); err != nil {
			return nil, err
		}
	}
	if aln.QryInterval.Hi < qry.Length() {
		if res.QryAfter, err = qry.Slice(aln.QryInterval.Hi, qry.Length()); err != nil {
			return nil, err
		}
	}

	refCore, err := ref.Slice(aln.RefInterval.Lo, aln.RefInterval.Hi)
	if err != nil {
		return nil, err
	}
	qryCore, err := qry.Slice(aln.QryInterval.Lo, aln.QryInterval.Hi)
	if err != nil {
		return nil, err
	}
	if aln.Orientation < 0 {
		qryCore = qryCore.ReverseComplement()
	}

	segments, err := cigarx.Partition(aln.Cigar, qryCore.Consensus(), refCore.Consensus(), maxgap)
	if err != nil {
		return nil, err
	}

	for _, seg := range segments {
		var child *Block
		switch seg.Kind {
		case cigarx.RefOnly:
			child, err = refCore.Slice(seg.RefInterval.Lo, seg.RefInterval.Hi)
		case cigarx.QryOnly:
			child, err = qryCore.Slice(seg.QryInterval.Lo, seg.QryInterval.Hi)
		case cigarx.Shared:
			child, err = mergeShared(refCore, qryCore, seg)
		}
		if err != nil {
			return nil, err
		}
		res.Core = append(res.Core, child)
	}
	return res, nil
}

// mergeShared builds the child block for one Shared cigarx segment:
// ref's own members (sliced/renumbered as-is) plus qry's members,
// each reprojected onto the new ref-anchored consensus.
func mergeShared(refCore, qryCore *Block, seg cigarx.Segment) (*Block, error) {
	child, err := refCore.Slice(seg.RefInterval.Lo, seg.RefInterval.Hi)
	if err != nil {
		return nil, err
	}
	qryCoreSeg, err := qryCore.Slice(seg.QryInterval.Lo, seg.QryInterval.Hi)
	if err != nil {
		return nil, err
	}
	defaultIns := buildDefaultIns(seg, qryCoreSeg.Consensus())

	for _, node := range qryCoreSeg.Members() {
		m := qryCoreSeg.members[node]
		newEdits, err := reprojectMember(&seg, m, defaultIns, child.consensus)
		if err != nil {
			return nil, err
		}
		widenGapsForInserts(child.gaps, newEdits.Ins)
		if err := child.Append(node, newEdits); err != nil {
			return nil, err
		}
	}
	// Spec §4.7 step 4: reconsensus is always attempted after a merge,
	// not just when the caller happens to remember to — it is a no-op
	// below the depth threshold and a plurality recompute above it.
	if _, err := child.Reconsensus(); err != nil {
		return nil, err
	}
	if err := child.Validate(); err != nil {
		return nil, err
	}
	return child, nil
}

// widenGapsForInserts bumps every gap cluster gaps touches up to at
// least the width ins requires there, never shrinking an existing
// reservation. Combine must grow the shared child's gap map itself as
// it appends reprojected members: unlike Slice, which inherits ref's
// existing clusters, freshly reprojected insertions land on positions
// the child's gap map has never reserved space for.
func widenGapsForInserts(gaps common.GapMap, ins common.InsMap) {
	width := make(map[int]int)
	for k, run := range ins {
		width[k.Pos] += len(run)
	}
	for pos, w := range width {
		if gaps[pos] < w {
			gaps[pos] = w
		}
	}
}

func buildDefaultIns(seg cigarx.Segment, qryConsensus []byte) common.InsMap {
	out := make(common.InsMap, len(seg.InsRuns))
	for _, run := range seg.InsRuns {
		bytes := append([]byte(nil), qryConsensus[run.QStart-1:run.QStart-1+run.QLen]...)
		out[common.GapKey{Pos: run.RAnchor, Off: run.GroupOff}] = bytes
	}
	return out
}

// reprojectMember composes the segment-level default divergence
// (qry-consensus vs ref-consensus, from the CIGAR) with one query
// member's own pre-existing edits (member vs qry-consensus) into a
// single edit set expressed against the merged block's new (ref-
// anchored) consensus.
func reprojectMember(seg *cigarx.Segment, m *MemberEdits, defaultIns common.InsMap, newConsensus []byte) (*MemberEdits, error) {
	ne := newMemberEdits()
	for pos, base := range seg.SNP {
		ne.SNP[pos] = base
	}
	for start, n := range seg.Del {
		ne.Del[start] = n
	}
	for k, run := range defaultIns {
		ne.Ins[k] = append([]byte(nil), run...)
	}

	for pos, base := range m.SNP {
		rAnchor, groupOff, rOffset, isInsert, ok := seg.Locate(pos)
		if !ok {
			return nil, &EditCollision{Detail: "member SNP position not covered by the new segment"}
		}
		if isInsert {
			substituteInsertByte(ne.Ins, rAnchor, groupOff, rOffset, base)
			continue
		}
		delete(ne.Del, rAnchor)
		if rAnchor >= 1 && rAnchor <= len(newConsensus) && base == newConsensus[rAnchor-1] {
			delete(ne.SNP, rAnchor)
		} else {
			ne.SNP[rAnchor] = base
		}
	}

	delCols := m.deletedColumns()
	for pos := range delCols {
		rAnchor, groupOff, rOffset, isInsert, ok := seg.Locate(pos)
		if !ok {
			return nil, &EditCollision{Detail: "member deletion position not covered by the new segment"}
		}
		if isInsert {
			shrinkInsertRun(ne.Ins, rAnchor, groupOff, rOffset)
			continue
		}
		delete(ne.SNP, rAnchor)
		extendDel(ne.Del, rAnchor)
	}

	for k, run := range m.Ins {
		rAnchor, ok := seg.AnchorBoundary(k.Pos)
		if !ok {
			return nil, &EditCollision{Detail: "member insertion anchored inside an existing insertion run"}
		}
		off := nextFreeOff(ne.Ins, rAnchor)
		ne.Ins[common.GapKey{Pos: rAnchor, Off: off}] = append([]byte(nil), run...)
	}

	return ne, nil
}

// substituteInsertByte replaces the byte at rOffset within the default
// insertion run identified by (rAnchor, groupOff): a query member
// whose own sequence carries a different base at an inserted position
// than the segment-level default run recorded.
func substituteInsertByte(ins common.InsMap, rAnchor, groupOff, rOffset int, base byte) {
	k := common.GapKey{Pos: rAnchor, Off: groupOff}
	run, ok := ins[k]
	if !ok || rOffset < 0 || rOffset >= len(run) {
		return
	}
	cp := append([]byte(nil), run...)
	cp[rOffset] = base
	ins[k] = cp
}

func shrinkInsertRun(ins common.InsMap, rAnchor, groupOff, rOffset int) {
	k := common.GapKey{Pos: rAnchor, Off: groupOff}
	run, ok := ins[k]
	if !ok || rOffset < 0 || rOffset >= len(run) {
		return
	}
	out := make([]byte, 0, len(run)-1)
	out = append(out, run[:rOffset]...)
	out = append(out, run[rOffset+1:]...)
	if len(out) == 0 {
		delete(ins, k)
		return
	}
	ins[k] = out
}

func nextFreeOff(ins common.InsMap, pos int) int {
	off := 0
	for {
		if _, taken := ins[common.GapKey{Pos: pos, Off: off}]; !taken {
			return off
		}
		off++
	}
}

