package drill

import (
	"github.com/matzehuels/drilltree/pkg/errors"
	"github.com/matzehuels/drilltree/pkg/tree"
)

// Action names used by the server routes and the terminal explorer.
const (
	ActionExpand   = "expand"
	ActionCollapse = "collapse"
	ActionMore     = "more"
	ActionFewer    = "fewer"
)

// Command is a user interaction applied to a tree. Apply mutates only the
// drill state; callers rerun layout afterwards.
type Command interface {
	Apply(t *tree.Tree, p Policy) error
	Action() string
	Target() tree.NodeID
}

// ExpandRequest reveals the first BranchLimit children of a collapsed node.
type ExpandRequest struct{ Node tree.NodeID }

// CollapseRequest collapses a node and its whole subtree.
type CollapseRequest struct{ Node tree.NodeID }

// RevealMoreRequest targets a summary node and reveals another BranchLimit of
// its parent's hidden children.
type RevealMoreRequest struct{ Node tree.NodeID }

// ShowFewerRequest targets the last visible entry of a parent showing more
// than two entries and hides BranchLimit of its visible children, keeping at
// least one.
type ShowFewerRequest struct{ Node tree.NodeID }

// NewCommand maps an action name to its command.
func NewCommand(action string, id tree.NodeID) (Command, error) {
	switch action {
	case ActionExpand:
		return ExpandRequest{Node: id}, nil
	case ActionCollapse:
		return CollapseRequest{Node: id}, nil
	case ActionMore:
		return RevealMoreRequest{Node: id}, nil
	case ActionFewer:
		return ShowFewerRequest{Node: id}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"unknown action %q (want %s, %s, %s or %s)", action, ActionExpand, ActionCollapse, ActionMore, ActionFewer)
	}
}

func lookup(t *tree.Tree, id tree.NodeID) (*tree.Node, error) {
	n := t.Node(id)
	if n == nil {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "node %d not found", id)
	}
	return n, nil
}

func (c ExpandRequest) Action() string      { return ActionExpand }
func (c ExpandRequest) Target() tree.NodeID { return c.Node }

func (c ExpandRequest) Apply(t *tree.Tree, p Policy) error {
	n, err := lookup(t, c.Node)
	if err != nil {
		return err
	}
	if !AffordancesOf(t, c.Node).Expand {
		return errors.New(errors.ErrCodeInvalidInput, "node %q cannot be expanded", n.Label)
	}
	Expand(t, c.Node, p.Limit())
	return nil
}

func (c CollapseRequest) Action() string      { return ActionCollapse }
func (c CollapseRequest) Target() tree.NodeID { return c.Node }

func (c CollapseRequest) Apply(t *tree.Tree, _ Policy) error {
	n, err := lookup(t, c.Node)
	if err != nil {
		return err
	}
	if !AffordancesOf(t, c.Node).Collapse {
		return errors.New(errors.ErrCodeInvalidInput, "node %q has nothing to collapse", n.Label)
	}
	CollapseAll(t, c.Node)
	return nil
}

func (c RevealMoreRequest) Action() string      { return ActionMore }
func (c RevealMoreRequest) Target() tree.NodeID { return c.Node }

func (c RevealMoreRequest) Apply(t *tree.Tree, p Policy) error {
	n, err := lookup(t, c.Node)
	if err != nil {
		return err
	}
	if !n.IsSummary() {
		return errors.New(errors.ErrCodeInvalidInput, "node %q is not a summary node", n.Label)
	}
	Expand(t, n.Parent, p.Limit())
	return nil
}

func (c ShowFewerRequest) Action() string      { return ActionFewer }
func (c ShowFewerRequest) Target() tree.NodeID { return c.Node }

func (c ShowFewerRequest) Apply(t *tree.Tree, p Policy) error {
	n, err := lookup(t, c.Node)
	if err != nil {
		return err
	}
	if !isLastOfMany(t, n) {
		return errors.New(errors.ErrCodeInvalidInput,
			"node %q is not the last of more than two visible entries", n.Label)
	}
	parent := n.Parent
	visible := len(t.Visible(parent))
	Collapse(t, parent, max(1, visible-p.Limit()))
	return nil
}
