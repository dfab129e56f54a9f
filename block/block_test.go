package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmmm42/pangraph-core/arena"
	"github.com/hmmm42/pangraph-core/common"
)

func TestNewBlockDepthOneIdentity(t *testing.T) {
	a := arena.NewNodeArena()
	n1 := a.New()
	b := NewBlock(n1, []byte("ACGTACGT"))

	assert.Equal(t, 1, b.Depth())
	assert.Equal(t, 8, b.Length())
	assert.True(t, b.HasMember(n1))
	seq, err := b.MemberSequence(n1)
	require.NoError(t, err)
	assert.Equal(t, "ACGTACGT", string(seq))
}

func TestAppendWithEdits(t *testing.T) {
	a := arena.NewNodeArena()
	n1, n2 := a.New(), a.New()
	b := NewBlock(n1, []byte("ACGTACGT"))

	edits := &MemberEdits{
		SNP: common.SNPMap{3: 'T'},
		Ins: common.InsMap{{Pos: 4, Off: 0}: []byte("XX")},
		Del: common.DelMap{7: 1},
	}
	b.gaps[4] = 2 // must reserve at least as many columns as n2's insert
	require.NoError(t, b.Append(n2, edits))
	assert.Equal(t, 2, b.Depth())

	seq, err := b.MemberSequence(n2)
	require.NoError(t, err)
	// consensus ACGTACGT: pos3 G->T, insert XX after pos4, pos7 ('G') deleted.
	assert.Equal(t, "ACTTXXACT", string(seq))
}

func TestAppendDuplicateMemberErrors(t *testing.T) {
	a := arena.NewNodeArena()
	n1 := a.New()
	b := NewBlock(n1, []byte("ACGT"))
	err := b.Append(n1, nil)
	require.Error(t, err)
	var dup *DuplicateMember
	assert.ErrorAs(t, err, &dup)
}

func TestMemberLength(t *testing.T) {
	a := arena.NewNodeArena()
	n1, n2 := a.New(), a.New()
	b := NewBlock(n1, []byte("ACGTACGT"))
	edits := &MemberEdits{
		SNP: common.SNPMap{},
		Ins: common.InsMap{{Pos: 2, Off: 0}: []byte("AAA")},
		Del: common.DelMap{5: 2},
	}
	b.gaps[2] = 3 // must reserve at least as many columns as n2's insert
	require.NoError(t, b.Append(n2, edits))
	n, err := b.MemberLength(n2)
	require.NoError(t, err)
	assert.Equal(t, 8-2+3, n)
}

func TestSwapReplacesEdits(t *testing.T) {
	a := arena.NewNodeArena()
	n1 := a.New()
	b := NewBlock(n1, []byte("ACGT"))
	require.NoError(t, b.Swap(n1, &MemberEdits{SNP: common.SNPMap{1: 'T'}}))
	seq, err := b.MemberSequence(n1)
	require.NoError(t, err)
	assert.Equal(t, "TCGT", string(seq))
}

func TestRemoveMember(t *testing.T) {
	a := arena.NewNodeArena()
	n1, n2 := a.New(), a.New()
	b := NewBlock(n1, []byte("ACGT"))
	require.NoError(t, b.Append(n2, nil))
	require.NoError(t, b.Remove(n1))
	assert.False(t, b.HasMember(n1))
	assert.Equal(t, 1, b.Depth())
	assert.Equal(t, []arena.NodeID{n2}, b.Members())
}

func TestRemoveUnknownMemberErrors(t *testing.T) {
	a := arena.NewNodeArena()
	n1, n2 := a.New(), a.New()
	b := NewBlock(n1, []byte("ACGT"))
	err := b.Remove(n2)
	assert.Error(t, err)
}

func TestSliceRenumbersEdits(t *testing.T) {
	a := arena.NewNodeArena()
	n1 := a.New()
	b := NewBlock(n1, []byte("ACGTACGT"))
	edits := &MemberEdits{
		SNP: common.SNPMap{3: 'T', 6: 'A'},
		Del: common.DelMap{1: 1},
	}
	require.NoError(t, b.Swap(n1, edits))

	sliced, err := b.Slice(2, 6) // consensus positions 3..6 (1-based), bytes [2,6)
	require.NoError(t, err)
	assert.Equal(t, "GTAC", string(sliced.Consensus()))

	se, err := sliced.MemberEditsOf(n1)
	require.NoError(t, err)
	// Original SNP at pos3 -> local pos1; pos6 -> local pos4. Del at pos1 is dropped (outside [2,6)).
	assert.Equal(t, common.SNPMap{1: 'T', 4: 'A'}, se.SNP)
	assert.Empty(t, se.Del)
}

func TestSliceOutOfRangeErrors(t *testing.T) {
	a := arena.NewNodeArena()
	n1 := a.New()
	b := NewBlock(n1, []byte("ACGT"))
	_, err := b.Slice(-1, 2)
	assert.Error(t, err)
	_, err = b.Slice(0, 10)
	assert.Error(t, err)
	_, err = b.Slice(3, 1)
	assert.Error(t, err)
}

func TestConcatIsSliceInverse(t *testing.T) {
	a := arena.NewNodeArena()
	n1 := a.New()
	b := NewBlock(n1, []byte("ACGTACGT"))
	require.NoError(t, b.Swap(n1, &MemberEdits{SNP: common.SNPMap{3: 'T', 6: 'A'}}))

	left, err := b.Slice(0, 4)
	require.NoError(t, err)
	right, err := b.Slice(4, 8)
	require.NoError(t, err)

	joined, err := Concat(left, right)
	require.NoError(t, err)
	assert.Equal(t, string(b.Consensus()), string(joined.Consensus()))

	je, err := joined.MemberEditsOf(n1)
	require.NoError(t, err)
	assert.Equal(t, common.SNPMap{3: 'T', 6: 'A'}, je.SNP)
}

func TestConcatMismatchedMembershipErrors(t *testing.T) {
	a := arena.NewNodeArena()
	n1, n2 := a.New(), a.New()
	b1 := NewBlock(n1, []byte("ACGT"))
	b2 := NewBlock(n2, []byte("ACGT"))
	_, err := Concat(b1, b2)
	assert.Error(t, err)
}

func TestSwapMergeCombinesMembership(t *testing.T) {
	a := arena.NewNodeArena()
	n1, n2 := a.New(), a.New()
	b1 := NewBlock(n1, []byte("ACGT"))
	b2 := NewBlock(n2, []byte("ACGT"))
	require.NoError(t, b1.SwapMerge(b2))
	assert.Equal(t, 2, b1.Depth())
	assert.True(t, b1.HasMember(n1))
	assert.True(t, b1.HasMember(n2))
}

func TestSwapMergeRequiresIdenticalConsensus(t *testing.T) {
	a := arena.NewNodeArena()
	n1, n2 := a.New(), a.New()
	b1 := NewBlock(n1, []byte("ACGT"))
	b2 := NewBlock(n2, []byte("TTTT"))
	err := b1.SwapMerge(b2)
	assert.Error(t, err)
}

func TestBlockIDRoundTrip(t *testing.T) {
	id := NewBlockID()
	parsed, err := ParseBlockID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}
