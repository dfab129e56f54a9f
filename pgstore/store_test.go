package pgstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmmm42/pangraph-core/arena"
	"github.com/hmmm42/pangraph-core/block"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{Dir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openTestStore(t)

	a := arena.NewNodeArena()
	n1 := a.New()
	b := block.NewBlock(n1, []byte("ACGTACGT"))

	require.NoError(t, s.Put(b))

	a2 := arena.NewNodeArena()
	got, err := s.Get(b.ID(), a2)
	require.NoError(t, err)
	assert.Equal(t, b.ID(), got.ID())
	assert.Equal(t, string(b.Consensus()), string(got.Consensus()))
}

func TestGetMissingBlockReturnsError(t *testing.T) {
	s := openTestStore(t)

	a := arena.NewNodeArena()
	n1 := a.New()
	phantom := block.NewBlock(n1, []byte("ACGT"))

	_, err := s.Get(phantom.ID(), arena.NewNodeArena())
	assert.Error(t, err)
}

func TestDeleteRemovesBlock(t *testing.T) {
	s := openTestStore(t)

	a := arena.NewNodeArena()
	n1 := a.New()
	b := block.NewBlock(n1, []byte("GGGGCCCC"))
	require.NoError(t, s.Put(b))

	require.NoError(t, s.Delete(b.ID()))

	_, err := s.Get(b.ID(), arena.NewNodeArena())
	assert.Error(t, err)
}

func TestStatsTracksAndResetsCounters(t *testing.T) {
	s := openTestStore(t)

	a := arena.NewNodeArena()
	n1 := a.New()
	b := block.NewBlock(n1, []byte("TTTTAAAA"))
	require.NoError(t, s.Put(b))
	_, err := s.Get(b.ID(), arena.NewNodeArena())
	require.NoError(t, err)

	reads, writes := s.Stats()
	assert.Equal(t, uint64(1), reads)
	assert.Equal(t, uint64(1), writes)

	reads, writes = s.Stats()
	assert.Zero(t, reads)
	assert.Zero(t, writes)
}
