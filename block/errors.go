// Error taxonomy for the block package (spec §7). Plain structs with
// Error() methods, in the style of cigarx.MalformedCigar — no external
// errors library: the corpus's only errors dependency in scope
// (github.com/pkg/errors, pulled in transitively by badger) is a
// stack-trace wrapper, not a taxonomy helper, so there is nothing here
// for it to usefully do; see DESIGN.md.
package block

import "fmt"

// InvariantViolation reports a broken structural invariant (spec §3):
// a dangling edit-map key, a member length that does not reconstruct
// to the block's own length, and so on.
type InvariantViolation struct {
	Invariant string
	Detail    string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("block: invariant %s violated: %s", e.Invariant, e.Detail)
}

// MemberSetMismatch is returned when an operation requires two blocks
// (or a block and an edit set) to agree on membership and they do not.
type MemberSetMismatch struct {
	Detail string
}

func (e *MemberSetMismatch) Error() string { return "block: member set mismatch: " + e.Detail }

// DuplicateMember is returned by Append when node is already present
// in the block.
type DuplicateMember struct {
	Node interface{}
}

func (e *DuplicateMember) Error() string {
	return fmt.Sprintf("block: member %v already present", e.Node)
}

// EditCollision is the conservative fallback Combine raises when a
// query member's own pre-existing edit lands on a coordinate a fresh
// CIGAR-derived edit also wants to claim, and there is no safe way to
// reconcile the two without silently discarding information.
type EditCollision struct {
	Detail string
}

func (e *EditCollision) Error() string { return "block: edit collision: " + e.Detail }

// AlignmentOutOfRange is returned when an Alignment's qry/ref interval
// falls outside the block it is being combined against.
type AlignmentOutOfRange struct {
	Detail string
}

func (e *AlignmentOutOfRange) Error() string {
	return "block: alignment out of range: " + e.Detail
}
