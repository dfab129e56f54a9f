package block

// Validate checks the structural invariants from spec §3: every
// edit-map key falls inside the consensus, every deletion run stays
// in bounds, and the gap map reserves at least as many columns at
// every cluster as the widest member insert there.
func (b *Block) Validate() error {
	L := len(b.consensus)
	widest := make(map[int]int)
	for node, e := range b.members {
		for pos := range e.SNP {
			if pos < 1 || pos > L {
				return &InvariantViolation{Invariant: "snp-in-range",
					Detail: "member has a SNP outside [1,length]"}
			}
		}
		for start, n := range e.Del {
			if start < 1 || n < 1 || start+n-1 > L {
				return &InvariantViolation{Invariant: "del-in-range",
					Detail: "member has a deletion run outside [1,length]"}
			}
		}
		clusterWidth := make(map[int]int)
		for k, run := range e.Ins {
			if k.Pos < 0 || k.Pos > L {
				return &InvariantViolation{Invariant: "ins-in-range",
					Detail: "member has an insertion anchored outside [0,length]"}
			}
			clusterWidth[k.Pos] += len(run)
		}
		for pos, w := range clusterWidth {
			if w > widest[pos] {
				widest[pos] = w
			}
		}
		if _, ok := b.members[node]; !ok {
			return &InvariantViolation{Invariant: "member-present", Detail: "member map/order mismatch"}
		}
	}
	for pos, w := range widest {
		if b.gaps[pos] < w {
			return &InvariantViolation{Invariant: "gap-capacity",
				Detail: "gap map reserves fewer columns than a member's own insert requires"}
		}
	}
	if len(b.order) != len(b.members) {
		return &InvariantViolation{Invariant: "order-consistency", Detail: "order slice and member map disagree on depth"}
	}
	seen := make(map[interface{}]bool, len(b.order))
	for _, n := range b.order {
		if seen[n] {
			return &InvariantViolation{Invariant: "order-uniqueness", Detail: "duplicate entry in member order"}
		}
		seen[n] = true
	}
	return nil
}
