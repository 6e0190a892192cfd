package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/drilltree/pkg/tree"
)

// Default geometry.
const (
	DefaultNodeWidth   = 100.0
	DefaultGap         = 20.0
	DefaultMargin      = 10.0
	DefaultLevelHeight = 100.0
	DefaultBoxHeight   = 60.0
)

// Options holds the fixed geometry of the layout.
type Options struct {
	NodeWidth   float64 // box width W
	Gap         float64 // horizontal gap G between adjacent boxes
	Margin      float64 // left and bottom margin
	LevelHeight float64 // vertical distance between depths
	BoxHeight   float64 // box height
}

// DefaultOptions returns the default geometry.
func DefaultOptions() Options {
	return Options{
		NodeWidth:   DefaultNodeWidth,
		Gap:         DefaultGap,
		Margin:      DefaultMargin,
		LevelHeight: DefaultLevelHeight,
		BoxHeight:   DefaultBoxHeight,
	}
}

// WithDefaults fills zero fields from DefaultOptions.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.NodeWidth <= 0 {
		o.NodeWidth = d.NodeWidth
	}
	if o.Gap <= 0 {
		o.Gap = d.Gap
	}
	if o.Margin <= 0 {
		o.Margin = d.Margin
	}
	if o.LevelHeight <= 0 {
		o.LevelHeight = d.LevelHeight
	}
	if o.BoxHeight <= 0 {
		o.BoxHeight = d.BoxHeight
	}
	return o
}

// Y returns the top edge of boxes at the given depth.
func (o Options) Y(depth int) float64 {
	return float64(depth) * o.LevelHeight
}

// Result summarizes a layout pass.
type Result struct {
	Width    float64 // frame width including margins
	Height   float64 // frame height including the bottom margin
	MaxDepth int     // deepest visible depth
	Shift    float64 // translation applied to every X
}

type walker struct {
	t    *tree.Tree
	opts Options
}

// Compute lays out the visible shape of t and stores the final positions in
// each visible node's X field. A nil tree yields a zero Result.
func Compute(t *tree.Tree, opts Options) Result {
	if t == nil {
		return Result{}
	}
	opts = opts.WithDefaults()
	w := &walker{t: t, opts: opts}

	t.WalkVisible(func(n *tree.Node) {
		n.Prelim, n.Modifier, n.X = 0, 0, 0
	})

	root := t.Root()
	w.firstWalk(root)
	w.secondWalk(root, 0)

	rn := t.Node(root)
	if len(rn.Children) > 0 {
		first := t.Node(rn.Children[0])
		last := t.Node(rn.Children[len(rn.Children)-1])
		rn.X = (first.X + last.X) / 2
	} else {
		rn.X = 0
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	maxDepth := 0
	t.WalkVisible(func(n *tree.Node) {
		minX = min(minX, n.X)
		maxX = max(maxX, n.X)
		maxDepth = max(maxDepth, n.Depth)
	})

	shift := opts.Margin - min(0, minX)
	t.WalkVisible(func(n *tree.Node) {
		n.X += shift
	})

	return Result{
		Width:    maxX + shift + opts.NodeWidth + opts.Margin,
		Height:   float64(maxDepth)*opts.LevelHeight + opts.BoxHeight + opts.Margin,
		MaxDepth: maxDepth,
		Shift:    shift,
	}
}

func (w *walker) node(id tree.NodeID) *tree.Node {
	n := w.t.Node(id)
	if n == nil {
		panic(fmt.Sprintf("layout: visible node %d does not exist", id))
	}
	return n
}

// firstWalk computes Prelim and Modifier bottom-up.
func (w *walker) firstWalk(id tree.NodeID) {
	n := w.node(id)
	for _, c := range n.Children {
		w.firstWalk(c)
	}
	if n.Parent == tree.None {
		return
	}

	siblings := w.node(n.Parent).Children
	idx := indexOf(siblings, id)
	if idx < 0 {
		panic(fmt.Sprintf("layout: node %d missing from its parent's children", id))
	}

	if idx == 0 {
		if len(n.Children) > 0 {
			n.Prelim = w.mid(n)
		}
		return
	}

	n.Prelim = w.node(siblings[idx-1]).Prelim + w.opts.Gap + w.opts.NodeWidth
	if len(n.Children) == 0 {
		return
	}

	n.Modifier = n.Prelim - w.mid(n)
	shift := 0.0
	for r := 1; r <= w.t.Height(); r++ {
		left := w.leftmost(id, r, 0)
		for _, sib := range siblings[:idx] {
			shift = max(shift, w.rightmost(sib, r, 0)-left+w.opts.Gap+w.opts.NodeWidth)
		}
	}
	n.Prelim += shift
	n.Modifier += shift
}

// mid returns the midpoint of the Prelim values of n's first and last child.
func (w *walker) mid(n *tree.Node) float64 {
	first := w.node(n.Children[0])
	last := w.node(n.Children[len(n.Children)-1])
	return (first.Prelim + last.Prelim) / 2
}

// rightmost returns the largest position, relative to id's parent frame, of
// any descendant exactly r levels below id, or -Inf if there is none.
func (w *walker) rightmost(id tree.NodeID, r int, acc float64) float64 {
	n := w.node(id)
	if r < 1 || len(n.Children) == 0 {
		return math.Inf(-1)
	}
	acc += n.Modifier
	if r == 1 {
		return w.node(n.Children[len(n.Children)-1]).Prelim + acc
	}
	best := math.Inf(-1)
	for _, c := range n.Children {
		best = max(best, w.rightmost(c, r-1, acc))
	}
	return best
}

// leftmost is the mirror of rightmost and returns +Inf if there is no
// descendant at depth r.
func (w *walker) leftmost(id tree.NodeID, r int, acc float64) float64 {
	n := w.node(id)
	if r < 1 || len(n.Children) == 0 {
		return math.Inf(1)
	}
	acc += n.Modifier
	if r == 1 {
		return w.node(n.Children[0]).Prelim + acc
	}
	best := math.Inf(1)
	for _, c := range n.Children {
		best = min(best, w.leftmost(c, r-1, acc))
	}
	return best
}

// secondWalk turns Prelim into X by threading the modifier sum downward.
func (w *walker) secondWalk(id tree.NodeID, modSum float64) {
	n := w.node(id)
	n.X = n.Prelim + modSum
	modSum += n.Modifier
	for _, c := range n.Children {
		w.secondWalk(c, modSum)
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
