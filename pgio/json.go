// Package pgio serializes blocks to the on-disk JSON form (spec §6):
// 1-based positions, a "[pos,off]" string form for insertion keys so
// they survive as JSON object keys, and sorted member/gap keys for
// reproducible diffs.
//
// Grounded on dna_aligner/io/reader.go for the package's shape (a
// small, single-purpose I/O layer sitting beside the algorithmic
// packages) and extended with encoding/json struct tags. Gzip support
// (klauspost/compress/gzip) is in fasta.go only; block JSON is written
// and read uncompressed.
package pgio

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hmmm42/pangraph-core/arena"
	"github.com/hmmm42/pangraph-core/block"
	"github.com/hmmm42/pangraph-core/common"
)

type wireBlock struct {
	ID     string                       `json:"id"`
	Seq    string                       `json:"seq"`
	Gaps   map[string]int               `json:"gaps,omitempty"`
	Mutate map[string]map[string]string `json:"mutate"`
	Insert map[string]map[string]string `json:"insert"`
	Delete map[string]map[string]int    `json:"delete"`
}

// MarshalBlock renders b in the documented on-disk form: top-level
// id/seq/gaps plus mutate/insert/delete, each a flat node-id-keyed map
// of that member's edits (spec §6).
func MarshalBlock(b *block.Block) ([]byte, error) {
	w := wireBlock{
		ID:     b.ID().String(),
		Seq:    string(b.Consensus()),
		Gaps:   map[string]int{},
		Mutate: map[string]map[string]string{},
		Insert: map[string]map[string]string{},
		Delete: map[string]map[string]int{},
	}
	for pos, n := range b.Gaps() {
		w.Gaps[strconv.Itoa(pos)] = n
	}
	for _, node := range b.Members() {
		e, err := b.MemberEditsOf(node)
		if err != nil {
			return nil, err
		}
		nodeKey := strconv.FormatUint(uint64(node), 10)

		snp := map[string]string{}
		for pos, base := range e.SNP {
			snp[strconv.Itoa(pos)] = string(base)
		}
		w.Mutate[nodeKey] = snp

		ins := map[string]string{}
		for k, run := range e.Ins {
			ins[insKey(k)] = string(run)
		}
		w.Insert[nodeKey] = ins

		del := map[string]int{}
		for start, n := range e.Del {
			del[strconv.Itoa(start)] = n
		}
		w.Delete[nodeKey] = del
	}
	return json.MarshalIndent(w, "", "  ")
}

// UnmarshalBlock parses the documented on-disk form back into a Block,
// using arena to mint a fresh NodeID for every member key encountered.
// Member keys in the JSON are opaque strings from the arena that wrote
// them; this reader treats them only as distinct identities and does
// not attempt to preserve their original numeric value across arenas.
func UnmarshalBlock(data []byte, a *arena.NodeArena) (*block.Block, error) {
	var w wireBlock
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("pgio: decode block: %w", err)
	}
	id, err := parseBlockID(w.ID)
	if err != nil {
		return nil, err
	}
	gaps := common.GapMap{}
	for k, v := range w.Gaps {
		pos, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("pgio: malformed gap key %q: %w", k, err)
		}
		gaps[pos] = v
	}

	// mutate/insert/delete carry identical key sets (spec §6 invariant
	// 1); take the union of the three top-level node-id keys so a block
	// whose member has no edits under one kind (an empty map entry)
	// still round-trips its membership correctly.
	nodeKeySet := map[string]bool{}
	for k := range w.Mutate {
		nodeKeySet[k] = true
	}
	for k := range w.Insert {
		nodeKeySet[k] = true
	}
	for k := range w.Delete {
		nodeKeySet[k] = true
	}
	// Map keys iterate in nondeterministic order; sort the textual keys
	// for a stable member order across re-encodes.
	keys := make([]string, 0, len(nodeKeySet))
	for k := range nodeKeySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	members := make(map[arena.NodeID]*block.MemberEdits, len(keys))
	order := make([]arena.NodeID, 0, len(keys))
	for _, k := range keys {
		node := a.New()
		e, err := fromWireEdits(w.Mutate[k], w.Insert[k], w.Delete[k])
		if err != nil {
			return nil, err
		}
		members[node] = e
		order = append(order, node)
	}

	return block.FromParts(id, []byte(w.Seq), gaps, members, order), nil
}

func fromWireEdits(mutate, insert map[string]string, del map[string]int) (*block.MemberEdits, error) {
	e := &block.MemberEdits{SNP: common.SNPMap{}, Ins: common.InsMap{}, Del: common.DelMap{}}
	for k, v := range mutate {
		pos, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("pgio: malformed mutate key %q: %w", k, err)
		}
		if len(v) != 1 {
			return nil, fmt.Errorf("pgio: mutate value %q is not a single base", v)
		}
		e.SNP[pos] = v[0]
	}
	for k, v := range insert {
		key, err := parseInsKey(k)
		if err != nil {
			return nil, err
		}
		e.Ins[key] = []byte(v)
	}
	for k, v := range del {
		start, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("pgio: malformed delete key %q: %w", k, err)
		}
		e.Del[start] = v
	}
	return e, nil
}

// insKey renders a common.GapKey as the documented "[pos,off]" string.
func insKey(k common.GapKey) string {
	return fmt.Sprintf("[%d,%d]", k.Pos, k.Off)
}

// parseInsKey is insKey's inverse.
func parseInsKey(s string) (common.GapKey, error) {
	trimmed := strings.TrimPrefix(strings.TrimSuffix(s, "]"), "[")
	parts := strings.SplitN(trimmed, ",", 2)
	if len(parts) != 2 {
		return common.GapKey{}, fmt.Errorf("pgio: malformed insertion key %q", s)
	}
	pos, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return common.GapKey{}, fmt.Errorf("pgio: malformed insertion key %q: %w", s, err)
	}
	off, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return common.GapKey{}, fmt.Errorf("pgio: malformed insertion key %q: %w", s, err)
	}
	return common.GapKey{Pos: pos, Off: off}, nil
}

func parseBlockID(s string) (block.BlockID, error) {
	id, err := block.ParseBlockID(s)
	if err != nil {
		return block.BlockID{}, fmt.Errorf("pgio: malformed block id %q: %w", s, err)
	}
	return id, nil
}
