package drill

import "github.com/matzehuels/drilltree/pkg/tree"

// State is the drill state of a single node.
type State int

const (
	// StateLeaf marks a node without any children to drill into.
	StateLeaf State = iota
	// StateCollapsed marks a node showing none of its children.
	StateCollapsed
	// StatePartial marks a node showing some children and a summary node.
	StatePartial
	// StateExpanded marks a node showing all of its children.
	StateExpanded
)

func (s State) String() string {
	switch s {
	case StateCollapsed:
		return "collapsed"
	case StatePartial:
		return "partial"
	case StateExpanded:
		return "expanded"
	default:
		return "leaf"
	}
}

// StateOf returns the drill state of id. Summary nodes report StateLeaf.
func StateOf(t *tree.Tree, id tree.NodeID) State {
	n := t.Node(id)
	if n == nil || n.IsSummary() || !n.HasContent() {
		return StateLeaf
	}
	switch {
	case len(n.Children) == 0:
		return StateCollapsed
	case len(n.Hidden) > 0:
		return StatePartial
	default:
		return StateExpanded
	}
}

// Affordances lists the interactions currently valid for a node. Renderers
// draw one button per true field.
type Affordances struct {
	Expand     bool `json:"expand,omitempty"`
	Collapse   bool `json:"collapse,omitempty"`
	RevealMore bool `json:"more,omitempty"`
	ShowFewer  bool `json:"fewer,omitempty"`
}

// Any reports whether at least one interaction is available.
func (a Affordances) Any() bool {
	return a.Expand || a.Collapse || a.RevealMore || a.ShowFewer
}

// AffordancesOf returns the interactions valid for id in the current state.
func AffordancesOf(t *tree.Tree, id tree.NodeID) Affordances {
	n := t.Node(id)
	if n == nil {
		return Affordances{}
	}
	var a Affordances
	if n.IsSummary() {
		a.RevealMore = true
	} else if n.HasContent() {
		a.Expand = len(n.Children) == 0
		a.Collapse = len(n.Children) > 0
	}
	a.ShowFewer = isLastOfMany(t, n)
	return a
}

func isLastOfMany(t *tree.Tree, n *tree.Node) bool {
	p := t.Node(n.Parent)
	if p == nil || len(p.Children) <= 2 {
		return false
	}
	return p.Children[len(p.Children)-1] == n.ID
}
