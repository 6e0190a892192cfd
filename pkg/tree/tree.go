package tree

import (
	"fmt"
)

// NodeID addresses a node in a [Tree] arena.
type NodeID int

// None is the parent of the root and the result of failed lookups.
const None NodeID = -1

// Kind classifies a node.
type Kind int

const (
	// KindRoot is the synthesized root aggregating every row.
	KindRoot Kind = iota
	// KindValue is a regular category value.
	KindValue
	// KindBlank is a missing category value.
	KindBlank
	// KindEmpty is an explicit empty-string category value.
	KindEmpty
	// KindSummary is a synthetic "+N" node standing in for hidden siblings.
	KindSummary
)

var kindNames = [...]string{"root", "value", "blank", "empty", "summary"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Node is one entry of the tree.
type Node struct {
	ID     NodeID
	Parent NodeID // None for the root
	Depth  int
	Label  string
	Kind   Kind

	// Aggregates[0] is the row count, Aggregates[1:] the measure sums.
	Aggregates []float64

	Children []NodeID // visible, summary last if present
	Hidden   []NodeID

	// Layout scratch, reset on every layout pass.
	Prelim   float64
	Modifier float64
	X        float64

	released bool
}

// IsSummary reports whether the node is a synthetic "+N" node.
func (n *Node) IsSummary() bool { return n.Kind == KindSummary }

// IsRoot reports whether the node is the tree root.
func (n *Node) IsRoot() bool { return n.Parent == None }

// HasContent reports whether the node has any visible or hidden children.
func (n *Node) HasContent() bool { return len(n.Children) > 0 || len(n.Hidden) > 0 }

// Tree is an arena of nodes produced by [Build].
//
// The zero value is not usable. A Tree is not safe for concurrent use.
type Tree struct {
	nodes []Node
	spare map[NodeID]NodeID // parent -> released summary slot
	root  NodeID

	// Categories and Measures hold the column display names.
	Categories []string
	Measures   []string
}

// Root returns the root ID.
func (t *Tree) Root() NodeID { return t.root }

// Node returns the node with the given ID, or nil if the ID is out of range or
// was released.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	n := &t.nodes[id]
	if n.released {
		return nil
	}
	return n
}

// Len returns the number of live nodes, summaries included.
func (t *Tree) Len() int { return len(t.nodes) - len(t.spare) }

// Height returns the number of grouping columns, which bounds node depth.
func (t *Tree) Height() int { return len(t.Categories) }

// MeasureIndex returns the aggregate index used for ordering and shares:
// 1 when the tree has measures, 0 (row count) otherwise.
func (t *Tree) MeasureIndex() int {
	if len(t.Measures) > 0 {
		return 1
	}
	return 0
}

func (t *Tree) alloc(n Node) NodeID {
	if id, ok := t.spare[n.Parent]; ok && n.IsSummary() {
		delete(t.spare, n.Parent)
		n.ID = id
		t.nodes[id] = n
		return id
	}
	n.ID = NodeID(len(t.nodes))
	t.nodes = append(t.nodes, n)
	return n.ID
}

// NewSummary allocates a detached summary node under parent with zeroed
// aggregates. A slot released by an earlier summary of the same parent is
// reused, so a summary ID never comes back under a different parent. The caller appends it to the parent's Children. Previously
// returned *Node pointers may be invalidated.
func (t *Tree) NewSummary(parent NodeID) NodeID {
	p := t.Node(parent)
	if p == nil {
		panic(fmt.Sprintf("tree: summary parent %d does not exist", parent))
	}
	return t.alloc(Node{
		Parent:     parent,
		Depth:      p.Depth + 1,
		Kind:       KindSummary,
		Aggregates: make([]float64, len(t.Measures)+1),
	})
}

// Release returns a summary node to the arena, where it stays reserved for
// the next summary of the same parent. Only summary nodes are ever released;
// regular nodes live as long as the tree.
func (t *Tree) Release(id NodeID) {
	n := t.Node(id)
	if n == nil {
		return
	}
	if !n.IsSummary() {
		panic(fmt.Sprintf("tree: release of non-summary node %d (%s)", id, n.Label))
	}
	if t.spare == nil {
		t.spare = make(map[NodeID]NodeID)
	}
	t.spare[n.Parent] = id
	*n = Node{ID: id, Parent: None, released: true}
}

// Summary returns the trailing summary child of id, or None.
func (t *Tree) Summary(id NodeID) NodeID {
	n := t.Node(id)
	if n == nil || len(n.Children) == 0 {
		return None
	}
	last := n.Children[len(n.Children)-1]
	if t.nodes[last].IsSummary() {
		return last
	}
	return None
}

// Visible returns the visible children of id without the summary node.
func (t *Tree) Visible(id NodeID) []NodeID {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	if t.Summary(id) != None {
		return n.Children[:len(n.Children)-1]
	}
	return n.Children
}

// Originals returns every original child of id: visible ones first, then the
// hidden ones, summary excluded.
func (t *Tree) Originals(id NodeID) []NodeID {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	vis := t.Visible(id)
	out := make([]NodeID, 0, len(vis)+len(n.Hidden))
	out = append(out, vis...)
	return append(out, n.Hidden...)
}

// Walk visits every live node reachable from the root, hidden subtrees
// included, in pre-order. Visible children are visited before hidden ones.
func (t *Tree) Walk(fn func(n *Node)) {
	t.walk(t.root, fn, false)
}

// WalkVisible visits the visible shape in pre-order: the root and every node
// reachable through Children links, summaries included.
func (t *Tree) WalkVisible(fn func(n *Node)) {
	t.walk(t.root, fn, true)
}

func (t *Tree) walk(id NodeID, fn func(n *Node), visibleOnly bool) {
	n := t.Node(id)
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		t.walk(c, fn, visibleOnly)
	}
	if visibleOnly {
		return
	}
	for _, c := range n.Hidden {
		t.walk(c, fn, visibleOnly)
	}
}

// Path returns the labels from below the root down to id. The root's path is
// empty. Find(Path(id)...) returns id for every non-summary node.
func (t *Tree) Path(id NodeID) []string {
	var labels []string
	for n := t.Node(id); n != nil && n.Parent != None; n = t.Node(n.Parent) {
		labels = append(labels, n.Label)
	}
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	return labels
}

// Find resolves a label path below the root, searching visible and hidden
// children alike. It returns None if any segment is missing.
func (t *Tree) Find(path ...string) NodeID {
	cur := t.root
	for _, label := range path {
		next := None
		for _, c := range t.Originals(cur) {
			if t.nodes[c].Label == label {
				next = c
				break
			}
		}
		if next == None {
			return None
		}
		cur = next
	}
	return cur
}

// Sum adds up the aggregates of ids into a new slice of the tree's aggregate
// width.
func (t *Tree) Sum(ids []NodeID) []float64 {
	out := make([]float64, len(t.Measures)+1)
	for _, id := range ids {
		for i, v := range t.nodes[id].Aggregates {
			out[i] += v
		}
	}
	return out
}
