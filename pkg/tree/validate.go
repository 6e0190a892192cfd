package tree

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrBrokenHierarchy is returned by [Tree.Validate] when a child does not
	// point back to its parent, sits at the wrong depth or is reachable twice.
	ErrBrokenHierarchy = errors.New("broken hierarchy")

	// ErrMisplacedSummary is returned by [Tree.Validate] when a summary node is
	// hidden, not last, duplicated, owns children or is present without both
	// visible and hidden siblings.
	ErrMisplacedSummary = errors.New("misplaced summary node")

	// ErrAggregateMismatch is returned by [Tree.Validate] when a node's
	// aggregates differ from the sum over its original children, or a summary's
	// aggregates differ from the sum over the hidden siblings.
	ErrAggregateMismatch = errors.New("aggregate mismatch")
)

// Validate checks the structural invariants of the tree in its current drill
// state. It is used by tests and debug logging; a correct program never
// produces an invalid tree.
func (t *Tree) Validate() error {
	seen := make(map[NodeID]bool, t.Len())
	return t.validate(t.root, seen)
}

func (t *Tree) validate(id NodeID, seen map[NodeID]bool) error {
	n := t.Node(id)
	if n == nil {
		return fmt.Errorf("%w: node %d is not live", ErrBrokenHierarchy, id)
	}
	if seen[id] {
		return fmt.Errorf("%w: node %d (%s) reachable twice", ErrBrokenHierarchy, id, n.Label)
	}
	seen[id] = true
	if n.Depth > t.Height() {
		return fmt.Errorf("%w: node %d (%s) at depth %d exceeds %d", ErrBrokenHierarchy, id, n.Label, n.Depth, t.Height())
	}

	if n.IsSummary() {
		if n.HasContent() {
			return fmt.Errorf("%w: summary %d owns children", ErrMisplacedSummary, id)
		}
		return nil
	}

	summaries := 0
	for i, c := range n.Children {
		cn := t.Node(c)
		if cn == nil {
			return fmt.Errorf("%w: node %d lists dead child %d", ErrBrokenHierarchy, id, c)
		}
		if cn.IsSummary() {
			summaries++
			if i != len(n.Children)-1 {
				return fmt.Errorf("%w: summary %d is not the last child of %d", ErrMisplacedSummary, c, id)
			}
		}
	}
	for _, c := range n.Hidden {
		if cn := t.Node(c); cn != nil && cn.IsSummary() {
			return fmt.Errorf("%w: summary %d is hidden under %d", ErrMisplacedSummary, c, id)
		}
	}
	visible := len(n.Children) - summaries
	if want := visible > 0 && len(n.Hidden) > 0; (summaries == 1) != want || summaries > 1 {
		return fmt.Errorf("%w: node %d has %d summaries with %d visible and %d hidden children",
			ErrMisplacedSummary, id, summaries, visible, len(n.Hidden))
	}
	if summaries == 1 {
		s := t.Node(n.Children[len(n.Children)-1])
		if !aggregatesEqual(s.Aggregates, t.Sum(n.Hidden)) {
			return fmt.Errorf("%w: summary under %d has %v, hidden sum is %v",
				ErrAggregateMismatch, id, s.Aggregates, t.Sum(n.Hidden))
		}
	}

	originals := t.Originals(id)
	if len(originals) > 0 && !aggregatesEqual(n.Aggregates, t.Sum(originals)) {
		return fmt.Errorf("%w: node %d (%s) has %v, children sum to %v",
			ErrAggregateMismatch, id, n.Label, n.Aggregates, t.Sum(originals))
	}

	for _, c := range slices.Concat(n.Children, n.Hidden) {
		cn := t.Node(c)
		if cn.Parent != id || cn.Depth != n.Depth+1 {
			return fmt.Errorf("%w: child %d of %d has parent %d at depth %d",
				ErrBrokenHierarchy, c, id, cn.Parent, cn.Depth)
		}
		if err := t.validate(c, seen); err != nil {
			return err
		}
	}
	return nil
}

func aggregatesEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		tol := 1e-9 * math.Max(1, math.Max(math.Abs(a[i]), math.Abs(b[i])))
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}
