package drill

import (
	"fmt"

	"github.com/matzehuels/drilltree/pkg/tree"
)

// DefaultBranchLimit is the number of children revealed per expand step.
const DefaultBranchLimit = 5

// Policy carries the drill settings taken from the settings record.
type Policy struct {
	// BranchLimit is the keep/want count used by interactions and AutoExpand.
	BranchLimit int
	// DrillIntoBlank allows AutoExpand to descend into chains of blank values.
	DrillIntoBlank bool
	// DrillIntoEmpty allows AutoExpand to descend into chains of empty values.
	DrillIntoEmpty bool
}

// DefaultPolicy returns the policy used when no settings are supplied.
func DefaultPolicy() Policy {
	return Policy{BranchLimit: DefaultBranchLimit, DrillIntoBlank: true, DrillIntoEmpty: true}
}

// Limit returns the branch limit, never less than one.
func (p Policy) Limit() int {
	if p.BranchLimit < 1 {
		return 1
	}
	return p.BranchLimit
}

// SummaryLabel returns the label of a summary node standing in for n hidden
// children.
func SummaryLabel(n int) string {
	return fmt.Sprintf("+ %d", n)
}

func mustNode(t *tree.Tree, id tree.NodeID) *tree.Node {
	n := t.Node(id)
	if n == nil {
		panic(fmt.Sprintf("drill: node %d does not exist", id))
	}
	if n.IsSummary() {
		panic(fmt.Sprintf("drill: node %d is a summary node", id))
	}
	return n
}

// Collapse keeps the first keep visible children of id and hides the rest.
// Newly hidden children are prepended to the hidden list in their current
// order and fully collapsed themselves. A negative keep counts as zero.
func Collapse(t *tree.Tree, id tree.NodeID, keep int) {
	collapse(t, id, keep, true)
}

func collapse(t *tree.Tree, id tree.NodeID, keep int, recurse bool) {
	mustNode(t, id)
	removeSummary(t, id)
	n := t.Node(id)
	keep = max(keep, 0)

	if keep < len(n.Children) {
		moved := len(n.Children) - keep
		hidden := make([]tree.NodeID, 0, moved+len(n.Hidden))
		hidden = append(hidden, n.Children[keep:]...)
		hidden = append(hidden, n.Hidden...)
		n.Children = n.Children[:keep:keep]
		n.Hidden = hidden
		if recurse {
			for _, c := range hidden[:moved] {
				CollapseAll(t, c)
			}
		}
	}
	deriveSummary(t, id)
}

// Expand reveals up to want hidden children of id, taken from the front of the
// hidden list. When exactly one hidden child would remain, it is revealed too
// so no "+ 1" summary is left behind.
func Expand(t *tree.Tree, id tree.NodeID, want int) {
	mustNode(t, id)
	removeSummary(t, id)
	n := t.Node(id)
	want = max(want, 0)

	if len(n.Hidden) == want+1 {
		want++
	}
	want = min(want, len(n.Hidden))
	n.Children = append(n.Children, n.Hidden[:want]...)
	n.Hidden = n.Hidden[want:]
	deriveSummary(t, id)
}

// CollapseAll collapses every descendant of id to zero visible children,
// deepest first, then collapses id itself.
func CollapseAll(t *tree.Tree, id tree.NodeID) {
	mustNode(t, id)
	for _, c := range t.Originals(id) {
		CollapseAll(t, c)
	}
	collapse(t, id, 0, false)
}

// IsUninformativeChain reports whether expanding id would only reveal a single
// chain of nodes of the given kind (tree.KindBlank or tree.KindEmpty). A leaf
// is trivially uninformative; a node that already shows children is not.
func IsUninformativeChain(t *tree.Tree, id tree.NodeID, kind tree.Kind) bool {
	n := t.Node(id)
	if n == nil || !n.HasContent() {
		return true
	}
	if len(n.Children) > 0 || len(n.Hidden) != 1 {
		return false
	}
	c := t.Node(n.Hidden[0])
	return c.Kind == kind && IsUninformativeChain(t, c.ID, kind)
}

// AutoExpand expands id to the branch limit and recurses into every newly
// visible child until depth levels have been opened. Nodes whose only content
// is a blank (or empty) chain stay collapsed unless the policy allows drilling
// into them.
func AutoExpand(t *tree.Tree, id tree.NodeID, depth int, p Policy) {
	if depth <= 0 {
		return
	}
	n := t.Node(id)
	if n == nil || n.IsSummary() || !n.HasContent() {
		return
	}
	if !p.DrillIntoBlank && IsUninformativeChain(t, id, tree.KindBlank) {
		return
	}
	if !p.DrillIntoEmpty && IsUninformativeChain(t, id, tree.KindEmpty) {
		return
	}

	Expand(t, id, p.Limit())
	for _, c := range t.Visible(id) {
		AutoExpand(t, c, depth-1, p)
	}
}

// Reset discards the drill state of the whole tree and re-applies AutoExpand
// from the root. It produces the initial state after every data update.
func Reset(t *tree.Tree, p Policy, depth int) {
	CollapseAll(t, t.Root())
	AutoExpand(t, t.Root(), depth, p)
}

// ExpandAll reveals every hidden node below id, id included.
func ExpandAll(t *tree.Tree, id tree.NodeID) {
	n := mustNode(t, id)
	Expand(t, id, len(n.Hidden))
	for _, c := range t.Visible(id) {
		ExpandAll(t, c)
	}
}

// Reveal makes id visible by expanding each ancestor just far enough to show
// the next node on the path, then expands id itself to the branch limit if it
// shows no children yet.
func Reveal(t *tree.Tree, id tree.NodeID, p Policy) {
	mustNode(t, id)
	reveal(t, id)
	if len(t.Visible(id)) == 0 {
		Expand(t, id, p.Limit())
	}
}

func reveal(t *tree.Tree, id tree.NodeID) {
	parent := t.Node(id).Parent
	if parent == tree.None {
		return
	}
	reveal(t, parent)
	if i := indexOf(t.Node(parent).Hidden, id); i >= 0 {
		Expand(t, parent, i+1)
	}
}

func indexOf(ids []tree.NodeID, id tree.NodeID) int {
	for i, c := range ids {
		if c == id {
			return i
		}
	}
	return -1
}

func removeSummary(t *tree.Tree, id tree.NodeID) {
	s := t.Summary(id)
	if s == tree.None {
		return
	}
	n := t.Node(id)
	n.Children = n.Children[:len(n.Children)-1]
	t.Release(s)
}

// deriveSummary appends a summary child iff id has both visible and hidden
// children. Any previous summary must already be removed.
func deriveSummary(t *tree.Tree, id tree.NodeID) {
	n := t.Node(id)
	if len(n.Children) == 0 || len(n.Hidden) == 0 {
		return
	}
	hidden := len(n.Hidden)
	agg := t.Sum(n.Hidden)

	s := t.NewSummary(id)
	sn := t.Node(s)
	sn.Label = SummaryLabel(hidden)
	sn.Aggregates = agg

	n = t.Node(id)
	n.Children = append(n.Children, s)
}
