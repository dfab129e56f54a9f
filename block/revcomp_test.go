package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmmm42/pangraph-core/arena"
	"github.com/hmmm42/pangraph-core/common"
)

func TestReverseComplementConsensus(t *testing.T) {
	a := arena.NewNodeArena()
	n1 := a.New()
	b := NewBlock(n1, []byte("ACGT"))
	rc := b.ReverseComplement()
	assert.Equal(t, "ACGT", string(rc.Consensus())) // ACGT is its own reverse complement
	assert.Equal(t, "AAAA", string(NewBlock(n1, []byte("TTTT")).ReverseComplement().Consensus()))
}

func TestReverseComplementDoesNotMutateOriginal(t *testing.T) {
	a := arena.NewNodeArena()
	n1 := a.New()
	b := NewBlock(n1, []byte("AACC"))
	_ = b.ReverseComplement()
	assert.Equal(t, "AACC", string(b.Consensus()))
}

func TestReverseComplementSNPPosition(t *testing.T) {
	a := arena.NewNodeArena()
	n1, n2 := a.New(), a.New()
	b := NewBlock(n1, []byte("AACC"))
	require.NoError(t, b.Append(n2, &MemberEdits{SNP: common.SNPMap{1: 'T'}})) // leftmost base SNP'd to T

	rc := b.ReverseComplement()
	e, err := rc.MemberEditsOf(n2)
	require.NoError(t, err)
	// L=4: pos 1 flips to L-pos+1 = 4, and the base complements (T->A).
	assert.Equal(t, common.SNPMap{4: 'A'}, e.SNP)
}

func TestReverseComplementDelRunPosition(t *testing.T) {
	a := arena.NewNodeArena()
	n1, n2 := a.New(), a.New()
	b := NewBlock(n1, []byte("AAAACCCC"))
	require.NoError(t, b.Append(n2, &MemberEdits{Del: common.DelMap{2: 3}})) // deletes positions 2-4

	rc := b.ReverseComplement()
	e, err := rc.MemberEditsOf(n2)
	require.NoError(t, err)
	// L=8, start=2, n=3: new start = L-start-n+2 = 8-2-3+2 = 5.
	assert.Equal(t, common.DelMap{5: 3}, e.Del)
}

func TestReverseComplementRoundTrip(t *testing.T) {
	a := arena.NewNodeArena()
	n1, n2 := a.New(), a.New()
	b := NewBlock(n1, []byte("ACGTACGTAC"))
	b.gaps[4] = 2 // must reserve at least as many columns as n2's insert
	require.NoError(t, b.Append(n2, &MemberEdits{
		SNP: common.SNPMap{2: 'T'},
		Del: common.DelMap{7: 2},
		Ins: common.InsMap{{Pos: 4, Off: 0}: []byte("GG")},
	}))

	want, err := b.MemberSequence(n2)
	require.NoError(t, err)

	rc := b.ReverseComplement()
	back := rc.ReverseComplement()
	got, err := back.MemberSequence(n2)
	require.NoError(t, err)

	assert.Equal(t, string(want), string(got))
}
