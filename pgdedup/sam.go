// Package pgdedup finds repeated and duplicated sequence content: the
// suffix-automaton tandem-repeat detector adapted from the
// dup_identification tool, plus a block-level consensus deduplicator
// used to spot blocks whose consensus is an exact duplicate of another,
// forward or reverse-complement — the kind of redundancy a pangenome build accumulates when
// the same repeat element gets assembled into more than one block.
package pgdedup

import "maps"

// saState is one suffix-automaton state, adapted byte-for-byte from
// dup_identification/sam.go's State.
type saState struct {
	len  int
	link int
	next map[byte]int
}

func newSAState(length, link int) *saState {
	return &saState{len: length, link: link, next: make(map[byte]int)}
}

// suffixAutomaton is the online suffix automaton used to answer
// "what is the longest prefix of query[start:] that already occurred
// in s" in O(query length), adapted from dup_identification/sam.go's
// SAM/NewSAM/Extend, generalized from string indexing to []byte.
type suffixAutomaton struct {
	last   int
	size   int
	states []*saState
}

func newSuffixAutomaton() *suffixAutomaton {
	return &suffixAutomaton{last: 0, size: 1, states: []*saState{newSAState(0, -1)}}
}

// buildSuffixAutomaton constructs the automaton recognizing every
// suffix of s.
func buildSuffixAutomaton(s []byte) *suffixAutomaton {
	sa := newSuffixAutomaton()
	for _, c := range s {
		sa.extend(c)
	}
	return sa
}

func (sa *suffixAutomaton) extend(c byte) {
	p, cur := sa.last, sa.size
	sa.size++
	sa.states = append(sa.states, newSAState(sa.states[p].len+1, -1))

	for ; p != -1; p = sa.states[p].link {
		if _, ok := sa.states[p].next[c]; ok {
			break
		}
		sa.states[p].next[c] = cur
	}

	switch {
	case p == -1:
		sa.states[cur].link = 0
	default:
		q := sa.states[p].next[c]
		if sa.states[p].len+1 == sa.states[q].len {
			sa.states[cur].link = q
		} else {
			clone := sa.size
			sa.size++
			sa.states = append(sa.states, newSAState(sa.states[p].len+1, sa.states[q].link))
			maps.Copy(sa.states[clone].next, sa.states[q].next)
			for ; p != -1 && sa.states[p].next[c] == q; p = sa.states[p].link {
				sa.states[p].next[c] = clone
			}
			sa.states[q].link = clone
			sa.states[cur].link = clone
		}
	}
	sa.last = cur
}

// longestMatch returns the length of the longest prefix of query[start:]
// that the automaton recognizes, adapted from
// dup_identification/sam.go's SAM.FindMaxMatch.
func (sa *suffixAutomaton) longestMatch(query []byte, start int) int {
	maxLen, cur := 0, 0
	for i := start; i < len(query); i++ {
		next, ok := sa.states[cur].next[query[i]]
		if !ok {
			break
		}
		cur = next
		maxLen++
	}
	return maxLen
}
