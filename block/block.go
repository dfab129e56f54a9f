// Package block implements the pangenome Block container (spec §3,
// Component D): a compressed representation of a multi-genome local
// alignment as one consensus sequence, a block-wide gap map, and
// per-member SNP/insertion/deletion edit sets.
//
// The package is grounded on dna_aligner/common/types.go
// (plain exported structs, no getters) generalized from an alignment
// Segment to a compressed multi-member Block, and on the opaque-handle
// and three-separate-maps resolutions recorded in the Design Notes:
// members are keyed by arena.NodeID rather than embedding genome
// identity, and edits live in three distinct typed maps instead of one
// polymorphic dictionary.
package block

import (
	"sort"

	"github.com/google/uuid"

	"github.com/hmmm42/pangraph-core/arena"
	"github.com/hmmm42/pangraph-core/common"
)

// BlockID is an opaque, globally unique block identity, minted once
// per block and carried across Slice/Concat/Combine.
type BlockID uuid.UUID

// NewBlockID mints a fresh random block identity.
func NewBlockID() BlockID { return BlockID(uuid.New()) }

func (id BlockID) String() string { return uuid.UUID(id).String() }

// ParseBlockID parses the canonical string form produced by String().
func ParseBlockID(s string) (BlockID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return BlockID{}, err
	}
	return BlockID(u), nil
}

// MemberEdits is one genome-walk occurrence's divergence from the
// block consensus (spec §3 invariant set). A zero-value MemberEdits
// describes a member identical to consensus.
type MemberEdits struct {
	SNP common.SNPMap
	Ins common.InsMap
	Del common.DelMap
}

func newMemberEdits() *MemberEdits {
	return &MemberEdits{SNP: common.SNPMap{}, Ins: common.InsMap{}, Del: common.DelMap{}}
}

func (m *MemberEdits) clone() *MemberEdits {
	return &MemberEdits{SNP: common.CloneSNP(m.SNP), Ins: common.CloneIns(m.Ins), Del: common.CloneDel(m.Del)}
}

// deletedColumns returns the set of consensus positions (1-based) this
// member's deletion runs remove.
func (m *MemberEdits) deletedColumns() map[int]bool {
	out := make(map[int]bool)
	for start, n := range m.Del {
		for p := start; p < start+n; p++ {
			out[p] = true
		}
	}
	return out
}

// insertsAt returns the byte runs this member contributes to the gap
// cluster following consensus position pos, ordered by GapKey.Off.
func (m *MemberEdits) insertsAt(pos int) []byte {
	type kv struct {
		off int
		run []byte
	}
	var runs []kv
	for k, v := range m.Ins {
		if k.Pos == pos {
			runs = append(runs, kv{k.Off, v})
		}
	}
	if len(runs) == 0 {
		return nil
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].off < runs[j].off })
	var out []byte
	for _, r := range runs {
		out = append(out, r.run...)
	}
	return out
}

// Block is a compressed multi-genome local alignment: a single
// consensus sequence shared by Depth() members, a gap map recording
// how many alignment-padding columns follow each consensus position,
// and one MemberEdits set per member recording its divergence.
type Block struct {
	id        BlockID
	consensus []byte
	gaps      common.GapMap
	members   map[arena.NodeID]*MemberEdits
	order     []arena.NodeID // insertion order, for deterministic iteration
}

// NewBlock creates a fresh depth-1 block whose sole member is node,
// identical to consensus (no edits, no gap columns).
func NewBlock(node arena.NodeID, consensus []byte) *Block {
	cp := make([]byte, len(consensus))
	copy(cp, consensus)
	return &Block{
		id:        NewBlockID(),
		consensus: cp,
		gaps:      common.GapMap{},
		members:   map[arena.NodeID]*MemberEdits{node: newMemberEdits()},
		order:     []arena.NodeID{node},
	}
}

// FromParts reconstructs a block from its raw fields, e.g. when
// decoding the on-disk JSON form (pgio). Callers are responsible for
// ensuring order lists exactly the keys of members; FromParts does not
// call Validate itself.
func FromParts(id BlockID, consensus []byte, gaps common.GapMap, members map[arena.NodeID]*MemberEdits, order []arena.NodeID) *Block {
	if gaps == nil {
		gaps = common.GapMap{}
	}
	return &Block{id: id, consensus: consensus, gaps: gaps, members: members, order: order}
}

// ID returns the block's identity.
func (b *Block) ID() BlockID { return b.id }

// Depth returns the number of member occurrences in the block.
func (b *Block) Depth() int { return len(b.order) }

// Length returns the length of the (ungapped) consensus sequence.
func (b *Block) Length() int { return len(b.consensus) }

// Consensus returns the block's ungapped consensus. The returned
// slice must not be mutated.
func (b *Block) Consensus() []byte { return b.consensus }

// Members returns the block's member NodeIDs in stable insertion
// order.
func (b *Block) Members() []arena.NodeID {
	out := make([]arena.NodeID, len(b.order))
	copy(out, b.order)
	return out
}

// Gaps returns a copy of the block's gap map, keyed by the consensus
// position (0..Length()) each gap-column cluster follows.
func (b *Block) Gaps() common.GapMap { return common.CloneGaps(b.gaps) }

// MemberEditsOf returns a copy of node's own SNP/insertion/deletion
// edits, for callers (pgio, tests) that need the raw maps rather than
// a reconstructed sequence.
func (b *Block) MemberEditsOf(node arena.NodeID) (*MemberEdits, error) {
	e, err := b.checkMember(node)
	if err != nil {
		return nil, err
	}
	return e.clone(), nil
}

// HasMember reports whether node is a member of the block.
func (b *Block) HasMember(node arena.NodeID) bool {
	_, ok := b.members[node]
	return ok
}

func (b *Block) checkMember(node arena.NodeID) (*MemberEdits, error) {
	e, ok := b.members[node]
	if !ok {
		return nil, &MemberSetMismatch{Detail: "node is not a member of this block"}
	}
	return e, nil
}

// MemberLength returns the ungapped length of node's own sequence:
// the consensus length, minus deleted columns, plus inserted bases.
func (b *Block) MemberLength(node arena.NodeID) (int, error) {
	e, err := b.checkMember(node)
	if err != nil {
		return 0, err
	}
	n := len(b.consensus)
	for _, d := range e.Del {
		n -= d
	}
	for _, ins := range e.Ins {
		n += len(ins)
	}
	return n, nil
}

// MemberSequence reconstructs node's own ungapped sequence by applying
// its SNP/insertion/deletion edits to the block consensus.
func (b *Block) MemberSequence(node arena.NodeID) ([]byte, error) {
	e, err := b.checkMember(node)
	if err != nil {
		return nil, err
	}
	skip := e.deletedColumns()
	out := make([]byte, 0, len(b.consensus))
	out = append(out, e.insertsAt(0)...)
	for pos := 1; pos <= len(b.consensus); pos++ {
		if !skip[pos] {
			if snp, ok := e.SNP[pos]; ok {
				out = append(out, snp)
			} else {
				out = append(out, b.consensus[pos-1])
			}
		}
		out = append(out, e.insertsAt(pos)...)
	}
	return out, nil
}

// Append adds node to the block as a new depth-1-compatible member
// described by edits relative to the existing consensus. edits may be
// nil, meaning node matches consensus exactly. Append validates the
// resulting block against the spec §3 invariants (see validate.go) and
// rolls back, leaving b unmodified, if edits violate them; callers
// inserting an edit set with its own insertion columns must widen the
// block's gap map to match before calling Append.
func (b *Block) Append(node arena.NodeID, edits *MemberEdits) error {
	if b.HasMember(node) {
		return &DuplicateMember{Node: node}
	}
	if edits == nil {
		edits = newMemberEdits()
	} else {
		edits = edits.clone()
		if edits.SNP == nil {
			edits.SNP = common.SNPMap{}
		}
		if edits.Ins == nil {
			edits.Ins = common.InsMap{}
		}
		if edits.Del == nil {
			edits.Del = common.DelMap{}
		}
	}
	b.members[node] = edits
	b.order = append(b.order, node)
	if err := b.Validate(); err != nil {
		delete(b.members, node)
		b.order = b.order[:len(b.order)-1]
		return err
	}
	return nil
}

// Swap replaces the edits recorded for an existing member, e.g. after
// a Reconsensus re-encoding pass. Returns MemberSetMismatch if node is
// not already a member.
func (b *Block) Swap(node arena.NodeID, edits *MemberEdits) error {
	if _, err := b.checkMember(node); err != nil {
		return err
	}
	if edits == nil {
		edits = newMemberEdits()
	}
	b.members[node] = edits.clone()
	return nil
}

// SwapMerge absorbs other's members into b in place, keeping b's own
// consensus and BlockID; each gap cluster of b is widened to other's
// where other's is wider. other's consensus must be byte-identical to
// b's. Returns MemberSetMismatch if any member is present in both
// blocks.
func (b *Block) SwapMerge(other *Block) error {
	if string(b.consensus) != string(other.consensus) {
		return &MemberSetMismatch{Detail: "SwapMerge requires identical consensus sequences"}
	}
	for _, node := range other.order {
		if b.HasMember(node) {
			return &MemberSetMismatch{Detail: "member present in both blocks"}
		}
	}
	for _, node := range other.order {
		b.members[node] = other.members[node].clone()
		b.order = append(b.order, node)
	}
	for p, n := range other.gaps {
		if n > b.gaps[p] {
			b.gaps[p] = n
		}
	}
	return nil
}

// Remove deletes node from the block, e.g. after a split during
// Combine reassigns it to a child block. Returns MemberSetMismatch if
// node is not a member.
func (b *Block) Remove(node arena.NodeID) error {
	if _, err := b.checkMember(node); err != nil {
		return err
	}
	delete(b.members, node)
	for i, n := range b.order {
		if n == node {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return nil
}

// Slice restricts the block to consensus positions [lo,hi) (0-based,
// half-open — spec §3 Component D), renumbering every retained edit
// into the child's 1-based coordinate frame.
func (b *Block) Slice(lo, hi int) (*Block, error) {
	if lo < 0 || hi > len(b.consensus) || lo > hi {
		return nil, &InvariantViolation{Invariant: "slice-bounds", Detail: "interval out of range"}
	}
	out := &Block{
		id:        NewBlockID(),
		consensus: append([]byte(nil), b.consensus[lo:hi]...),
		gaps:      common.GapMap{},
		members:   make(map[arena.NodeID]*MemberEdits, len(b.order)),
		order:     append([]arena.NodeID(nil), b.order...),
	}
	for p, n := range b.gaps {
		if p >= lo && p < hi {
			out.gaps[p-lo] = n
		}
	}
	// The cluster trailing the slice's last retained base (hi) is
	// dropped: it belongs to whatever follows hi in the parent, not to
	// this child.
	for node, e := range b.members {
		ne := newMemberEdits()
		for pos, base := range e.SNP {
			if pos > lo && pos <= hi {
				ne.SNP[pos-lo] = base
			}
		}
		for start, n := range e.Del {
			// Retained 1-based positions are lo+1..hi, as for SNPs above.
			s, clipped := clipRun(start, n, lo+1, hi+1)
			if clipped > 0 {
				ne.Del[s-lo] = clipped
			}
		}
		for k, run := range e.Ins {
			if k.Pos >= lo && k.Pos < hi {
				ne.Ins[common.GapKey{Pos: k.Pos - lo, Off: k.Off}] = append([]byte(nil), run...)
			}
		}
		out.members[node] = ne
	}
	return out, nil
}

// clipRun intersects the deletion run [start,start+n) with [lo,hi)
// and returns the retained run's new start and length (0 if disjoint).
func clipRun(start, n, lo, hi int) (int, int) {
	end := start + n
	if end <= lo || start >= hi {
		return 0, 0
	}
	s := start
	if s < lo {
		s = lo
	}
	e := end
	if e > hi {
		e = hi
	}
	return s, e - s
}

// Concat appends c's consensus after a's, shifting c's edits by a's
// length. The two blocks must share identical membership; Concat is
// the structural inverse of Slice.
func Concat(a, c *Block) (*Block, error) {
	if len(a.order) != len(c.order) {
		return nil, &MemberSetMismatch{Detail: "concat operands have different depth"}
	}
	for _, node := range a.order {
		if !c.HasMember(node) {
			return nil, &MemberSetMismatch{Detail: "concat operands have different membership"}
		}
	}
	shift := len(a.consensus)
	out := &Block{
		id:        NewBlockID(),
		consensus: append(append([]byte(nil), a.consensus...), c.consensus...),
		gaps:      common.CloneGaps(a.gaps),
		members:   make(map[arena.NodeID]*MemberEdits, len(a.order)),
		order:     append([]arena.NodeID(nil), a.order...),
	}
	for p, n := range c.gaps {
		out.gaps[p+shift] = n
	}
	for _, node := range a.order {
		ae, ce := a.members[node], c.members[node]
		ne := ae.clone()
		for pos, base := range ce.SNP {
			ne.SNP[pos+shift] = base
		}
		for start, n := range ce.Del {
			ne.Del[start+shift] = n
		}
		for k, run := range ce.Ins {
			ne.Ins[common.GapKey{Pos: k.Pos + shift, Off: k.Off}] = append([]byte(nil), run...)
		}
		out.members[node] = ne
	}
	return out, nil
}
