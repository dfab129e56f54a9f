package pgalign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmmm42/pangraph-core/pgconfig"
)

func TestFindAnchorsForwardIdentical(t *testing.T) {
	seq := []byte("ACGTTGCATGCATGCATGCACGTACGGTTAACCGGTTAACCGGTTAAGGCC")
	cfg := pgconfig.Default().Aligner
	anchors := FindAnchors(seq, seq, cfg)
	require.NotEmpty(t, anchors)
	for _, a := range anchors {
		assert.InDelta(t, 1.0, a.Identity, 1e-9)
	}
}

func TestFindAnchorsNoSimilarity(t *testing.T) {
	query := []byte("AAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	ref := []byte("CCCCCCCCCCCCCCCCCCCCCCCCCCCCCC")
	cfg := pgconfig.Default().Aligner
	anchors := FindAnchors(query, ref, cfg)
	assert.Empty(t, anchors)
}

func TestFilterAnchorsDropsOverlapping(t *testing.T) {
	anchors := []Anchor{
		{QueryStart: 0, QueryEnd: 19, RefStart: 0, RefEnd: 19, Score: 20},
		{QueryStart: 5, QueryEnd: 24, RefStart: 5, RefEnd: 24, Score: 10}, // heavily overlaps the first, lower score
		{QueryStart: 50, QueryEnd: 69, RefStart: 50, RefEnd: 69, Score: 15},
	}
	filtered := FilterAnchors(anchors, 0.5)
	require.Len(t, filtered, 2)
	assert.Equal(t, 0, filtered[0].QueryStart)
	assert.Equal(t, 50, filtered[1].QueryStart)
}

func TestFilterAnchorsEmpty(t *testing.T) {
	assert.Nil(t, FilterAnchors(nil, 0.5))
}

func TestFindReverseAnchorsReportsOriginalStrandCoords(t *testing.T) {
	fwd := []byte("ACGTTGCATGCATGCATGCACGTACGGTTAACCGGTTAACCGGTTAAGGCC")
	rev := reverseComplementLiteral(fwd)
	cfg := pgconfig.Default().Aligner

	anchors := FindReverseAnchors(fwd, rev, cfg)
	require.NotEmpty(t, anchors)
	for _, a := range anchors {
		assert.GreaterOrEqual(t, a.RefStart, 0)
		assert.Less(t, a.RefEnd, len(rev))
		assert.LessOrEqual(t, a.RefStart, a.RefEnd)
	}
}

func reverseComplementLiteral(seq []byte) []byte {
	comp := map[byte]byte{'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C'}
	out := make([]byte, len(seq))
	for i, b := range seq {
		out[len(seq)-1-i] = comp[b]
	}
	return out
}
