package graph

import (
	"github.com/matzehuels/drilltree/pkg/drill"
	"github.com/matzehuels/drilltree/pkg/tree"
)

// =============================================================================
// Layout - Renderer Input
// =============================================================================

// Layout is a snapshot of the visible shape with final coordinates.
type Layout struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	NodeWidth   float64 `json:"node_width"`
	BoxHeight   float64 `json:"box_height"`
	LevelHeight float64 `json:"level_height"`
	MaxDepth    int     `json:"max_depth"`
	ShowMeasure bool    `json:"show_measure"`

	// Column display names, in tree depth order for categories.
	Categories []string `json:"categories"`
	Measures   []string `json:"measures,omitempty"`

	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// IsEmpty reports whether there is nothing to render.
func (l *Layout) IsEmpty() bool { return len(l.Nodes) == 0 }

// Root returns the root node. It panics on an empty layout.
func (l *Layout) Root() *Node { return &l.Nodes[0] }

// Node returns the node with the given tree ID.
func (l *Layout) Node(id int) (*Node, bool) {
	for i := range l.Nodes {
		if l.Nodes[i].ID == id {
			return &l.Nodes[i], true
		}
	}
	return nil, false
}

// Children returns the visible children of id in display order.
func (l *Layout) Children(id int) []*Node {
	var out []*Node
	for i := range l.Nodes {
		if l.Nodes[i].Parent == id {
			out = append(out, &l.Nodes[i])
		}
	}
	return out
}

// =============================================================================
// Node - Positioned Box
// =============================================================================

// Node is one visible box.
type Node struct {
	ID     int      `json:"id"`
	Parent int      `json:"parent"` // -1 for the root
	Label  string   `json:"label"`
	Path   []string `json:"path,omitempty"`
	Kind   string   `json:"kind"`
	Depth  int      `json:"depth"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`

	// Aggregates[0] is the row count, Aggregates[1:] the measure sums.
	Aggregates []float64 `json:"aggregates"`

	Visible int  `json:"visible"` // visible non-summary children
	Hidden  int  `json:"hidden"`  // hidden children
	Summary bool `json:"summary,omitempty"`
	Leaf    bool `json:"leaf,omitempty"`

	ShareOfTotal  float64 `json:"share_of_total"`
	ShareOfParent float64 `json:"share_of_parent"`

	Actions drill.Affordances `json:"actions"`
}

// IsRoot reports whether the node is the root.
func (n *Node) IsRoot() bool { return n.Parent == int(tree.None) }

// Value returns the aggregate shown in the box: the first measure if there
// is one, the row count otherwise.
func (n *Node) Value() float64 {
	if len(n.Aggregates) > 1 {
		return n.Aggregates[1]
	}
	if len(n.Aggregates) == 1 {
		return n.Aggregates[0]
	}
	return 0
}

// Count returns the number of rows aggregated into the node.
func (n *Node) Count() float64 {
	if len(n.Aggregates) == 0 {
		return 0
	}
	return n.Aggregates[0]
}

// =============================================================================
// Edge - Parent Link
// =============================================================================

// Edge links a visible parent to a visible child.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}
