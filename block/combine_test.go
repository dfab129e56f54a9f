package block

import (
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmmm42/pangraph-core/arena"
	"github.com/hmmm42/pangraph-core/pgintvl"
)

func cig(ops ...sam.CigarOp) sam.Cigar { return sam.Cigar(ops) }

func TestCombinePureMatchMergesIntoOneBlock(t *testing.T) {
	a := arena.NewNodeArena()
	r1, q1 := a.New(), a.New()
	ref := NewBlock(r1, []byte("ACGTACGT"))
	qry := NewBlock(q1, []byte("ACGTACGT"))

	aln := Alignment{
		Cigar:       cig(sam.NewCigarOp(sam.CigarMatch, 8)),
		Orientation: 1,
		RefInterval: pgintvl.New(0, 8),
		QryInterval: pgintvl.New(0, 8),
		MaxGap:      4,
	}

	res, err := Combine(ref, qry, aln)
	require.NoError(t, err)
	assert.Nil(t, res.RefBefore)
	assert.Nil(t, res.RefAfter)
	assert.Nil(t, res.QryBefore)
	assert.Nil(t, res.QryAfter)
	require.Len(t, res.Core, 1)

	merged := res.Core[0]
	assert.Equal(t, 2, merged.Depth())
	assert.Equal(t, "ACGTACGT", string(merged.Consensus()))

	s1, err := merged.MemberSequence(r1)
	require.NoError(t, err)
	assert.Equal(t, "ACGTACGT", string(s1))
	s2, err := merged.MemberSequence(q1)
	require.NoError(t, err)
	assert.Equal(t, "ACGTACGT", string(s2))
}

func TestCombineRecordsSegmentLevelSNP(t *testing.T) {
	a := arena.NewNodeArena()
	r1, q1 := a.New(), a.New()
	ref := NewBlock(r1, []byte("ACGTACGT"))
	qry := NewBlock(q1, []byte("ACGAACGT")) // qry differs from ref at position 4 (T->A)

	aln := Alignment{
		Cigar:       cig(sam.NewCigarOp(sam.CigarMatch, 8)),
		Orientation: 1,
		RefInterval: pgintvl.New(0, 8),
		QryInterval: pgintvl.New(0, 8),
		MaxGap:      4,
	}

	res, err := Combine(ref, qry, aln)
	require.NoError(t, err)
	require.Len(t, res.Core, 1)
	merged := res.Core[0]
	assert.Equal(t, "ACGTACGT", string(merged.Consensus())) // ref's own consensus

	seq, err := merged.MemberSequence(q1)
	require.NoError(t, err)
	assert.Equal(t, "ACGAACGT", string(seq)) // qry's original sequence, reconstructed via SNP
}

func TestCombineAbsorbedInsertionReprojectsOntoMergedConsensus(t *testing.T) {
	a := arena.NewNodeArena()
	r1, q1 := a.New(), a.New()
	ref := NewBlock(r1, []byte("ACGT"))
	qry := NewBlock(q1, []byte("ACXGT")) // qry carries one extra base after position 2

	aln := Alignment{
		Cigar: cig(
			sam.NewCigarOp(sam.CigarMatch, 2),
			sam.NewCigarOp(sam.CigarInsertion, 1),
			sam.NewCigarOp(sam.CigarMatch, 2),
		),
		Orientation: 1,
		RefInterval: pgintvl.New(0, 4),
		QryInterval: pgintvl.New(0, 5),
		MaxGap:      4, // wider than the 1bp insertion, so it is absorbed
	}

	res, err := Combine(ref, qry, aln)
	require.NoError(t, err)
	require.Len(t, res.Core, 1)
	merged := res.Core[0]
	assert.Equal(t, "ACGT", string(merged.Consensus()))

	s1, err := merged.MemberSequence(r1)
	require.NoError(t, err)
	assert.Equal(t, "ACGT", string(s1))

	s2, err := merged.MemberSequence(q1)
	require.NoError(t, err)
	assert.Equal(t, "ACXGT", string(s2))
}

func TestCombineLongInsertionSplitsChain(t *testing.T) {
	a := arena.NewNodeArena()
	r1, q1 := a.New(), a.New()
	ref := NewBlock(r1, []byte("ACGT"))
	qry := NewBlock(q1, []byte("ACXXXXXXGT")) // a 6bp run only qry carries

	aln := Alignment{
		Cigar: cig(
			sam.NewCigarOp(sam.CigarMatch, 2),
			sam.NewCigarOp(sam.CigarInsertion, 6),
			sam.NewCigarOp(sam.CigarMatch, 2),
		),
		Orientation: 1,
		RefInterval: pgintvl.New(0, 4),
		QryInterval: pgintvl.New(0, 10),
		MaxGap:      4, // narrower than the 6bp insertion, forces a split
	}

	res, err := Combine(ref, qry, aln)
	require.NoError(t, err)
	require.Len(t, res.Core, 3)

	assert.Equal(t, 2, res.Core[0].Depth())
	assert.Equal(t, "AC", string(res.Core[0].Consensus()))

	assert.Equal(t, 1, res.Core[1].Depth())
	assert.Equal(t, "XXXXXX", string(res.Core[1].Consensus()))
	assert.True(t, res.Core[1].HasMember(q1))
	assert.False(t, res.Core[1].HasMember(r1))

	assert.Equal(t, 2, res.Core[2].Depth())
	assert.Equal(t, "GT", string(res.Core[2].Consensus()))
}

func TestCombineRejectsOutOfRangeInterval(t *testing.T) {
	a := arena.NewNodeArena()
	r1, q1 := a.New(), a.New()
	ref := NewBlock(r1, []byte("ACGT"))
	qry := NewBlock(q1, []byte("ACGT"))

	aln := Alignment{
		Cigar:       cig(sam.NewCigarOp(sam.CigarMatch, 4)),
		Orientation: 1,
		RefInterval: pgintvl.New(0, 40), // way beyond ref's length
		QryInterval: pgintvl.New(0, 4),
		MaxGap:      4,
	}
	_, err := Combine(ref, qry, aln)
	require.Error(t, err)
	var oor *AlignmentOutOfRange
	assert.ErrorAs(t, err, &oor)
}

func TestCombineFlankingRegionsPreserved(t *testing.T) {
	a := arena.NewNodeArena()
	r1, q1 := a.New(), a.New()
	ref := NewBlock(r1, []byte("XXACGT")) // 2bp ref-only prefix outside the alignment
	qry := NewBlock(q1, []byte("ACGTYY")) // 2bp qry-only suffix outside the alignment

	aln := Alignment{
		Cigar:       cig(sam.NewCigarOp(sam.CigarMatch, 4)),
		Orientation: 1,
		RefInterval: pgintvl.New(2, 6),
		QryInterval: pgintvl.New(0, 4),
		MaxGap:      4,
	}

	res, err := Combine(ref, qry, aln)
	require.NoError(t, err)
	require.NotNil(t, res.RefBefore)
	assert.Equal(t, "XX", string(res.RefBefore.Consensus()))
	assert.Nil(t, res.RefAfter)
	assert.Nil(t, res.QryBefore)
	require.NotNil(t, res.QryAfter)
	assert.Equal(t, "YY", string(res.QryAfter.Consensus()))
	require.Len(t, res.Core, 1)
	assert.Equal(t, "ACGT", string(res.Core[0].Consensus()))
}
