package pgdedup

import (
	"bytes"

	"github.com/cespare/xxhash/v2"

	"github.com/hmmm42/pangraph-core/block"
	"github.com/hmmm42/pangraph-core/pgseq"
)

// TandemRepeat is one run of a repeat unit found by FindTandemRepeats,
// adapted from dup_identification's Duplicate.
type TandemRepeat struct {
	QueryStart int
	RefStart   int
	UnitLength int
	Count      int
	Inverted   bool
}

// FindTandemRepeats scans query for runs of a repeated unit that also
// occurs (forward or reverse-complemented) in ref, adapted from
// dup_identification/dupIdentification.go's analyzeDuplicates:
// same greedy "longest match at each position, then count consecutive
// repeats of that unit" scan, generalized from strings.Index/string
// slicing to []byte and the suffix automaton in sam.go.
func FindTandemRepeats(query, ref []byte) []TandemRepeat {
	invRef := pgseq.ReverseComplement(ref)
	fwdSA := buildSuffixAutomaton(ref)
	revSA := buildSuffixAutomaton(invRef)

	type matchInfo struct {
		length   int
		inverted bool
	}
	matches := make([]matchInfo, len(query))
	for pos := range query {
		fwdLen := fwdSA.longestMatch(query, pos)
		revLen := revSA.longestMatch(query, pos)
		inverted := revLen > fwdLen || (revLen == fwdLen && revLen > 0)
		best := fwdLen
		if inverted {
			best = revLen
		}
		matches[pos] = matchInfo{length: best, inverted: inverted}
	}

	var out []TandemRepeat
	position := 0
	for position < len(query) {
		cur := matches[position]
		if cur.length == 0 {
			position++
			continue
		}
		unitLen := cur.length
		unit := query[position : position+unitLen]

		count := 1
		next := position + unitLen
		for next+unitLen <= len(query) {
			if !bytes.Equal(query[next:next+unitLen], unit) ||
				matches[next].length < unitLen || matches[next].inverted != cur.inverted {
				break
			}
			count++
			next += unitLen
		}

		refUnit := unit
		if cur.inverted {
			refUnit = pgseq.ReverseComplement(unit)
		}
		refPos := bytes.Index(ref, refUnit)

		out = append(out, TandemRepeat{
			QueryStart: position, RefStart: refPos,
			UnitLength: unitLen, Count: count, Inverted: cur.inverted,
		})
		position = next
	}
	return out
}

// ConsensusHash returns a fast, non-cryptographic fingerprint of a
// block's consensus, used by FindDuplicateBlocks to group candidate
// duplicates before doing a byte-for-byte comparison.
func ConsensusHash(b *block.Block) uint64 {
	return xxhash.Sum64(b.Consensus())
}

// DuplicateGroup is a set of blocks whose consensus sequences are
// byte-identical (forward or reverse-complement).
type DuplicateGroup struct {
	Blocks     []*block.Block
	Inverted   []bool // Inverted[i] reports whether Blocks[i] matched in RC orientation
}

// FindDuplicateBlocks partitions blocks into duplicate groups by
// consensus hash, then confirms each candidate group with an exact
// byte comparison (forward and reverse-complement) to guard against
// hash collisions. Singleton blocks (no duplicate found) are omitted.
func FindDuplicateBlocks(blocks []*block.Block) []DuplicateGroup {
	byHash := make(map[uint64][]*block.Block)
	for _, b := range blocks {
		h := ConsensusHash(b)
		byHash[h] = append(byHash[h], b)
		rc := pgseq.ReverseComplement(b.Consensus())
		hr := xxhash.Sum64(rc)
		if hr != h {
			byHash[hr] = append(byHash[hr], b)
		}
	}

	seen := make(map[block.BlockID]bool)
	var groups []DuplicateGroup
	for _, bucket := range byHash {
		if len(bucket) < 2 {
			continue
		}
		var g DuplicateGroup
		ref := bucket[0]
		for _, b := range bucket {
			if seen[b.ID()] {
				continue
			}
			switch {
			case bytes.Equal(b.Consensus(), ref.Consensus()):
				g.Blocks = append(g.Blocks, b)
				g.Inverted = append(g.Inverted, false)
				seen[b.ID()] = true
			case bytes.Equal(b.Consensus(), pgseq.ReverseComplement(ref.Consensus())):
				g.Blocks = append(g.Blocks, b)
				g.Inverted = append(g.Inverted, true)
				seen[b.ID()] = true
			}
		}
		if len(g.Blocks) >= 2 {
			groups = append(groups, g)
		}
	}
	return groups
}
