package layout

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/drilltree/pkg/drill"
	"github.com/matzehuels/drilltree/pkg/table"
	"github.com/matzehuels/drilltree/pkg/tree"
)

const eps = 1e-9

func build(t *testing.T, tbl *table.Table) *tree.Tree {
	t.Helper()
	tr, err := tree.Build(tbl, tree.Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return tr
}

func TestComputeRootOnly(t *testing.T) {
	tr := build(t, (&table.Table{}).AddCategory("c", "a", "b"))
	drill.CollapseAll(tr, tr.Root())

	res := Compute(tr, DefaultOptions())
	if got := tr.Node(tr.Root()).X; got != DefaultMargin {
		t.Errorf("root X = %v, want %v", got, DefaultMargin)
	}
	want := Result{Width: 120, Height: 70, MaxDepth: 0, Shift: DefaultMargin}
	if res != want {
		t.Errorf("Compute() = %+v, want %+v", res, want)
	}
}

func TestComputeFlat(t *testing.T) {
	tr := build(t, (&table.Table{}).AddCategory("c", "a", "b", "c"))
	res := Compute(tr, DefaultOptions())

	root := tr.Node(tr.Root())
	var xs []float64
	for _, c := range root.Children {
		xs = append(xs, tr.Node(c).X)
	}
	if !slices.Equal(xs, []float64{10, 130, 250}) {
		t.Errorf("child X = %v, want [10 130 250]", xs)
	}
	if root.X != 130 {
		t.Errorf("root X = %v, want 130", root.X)
	}
	want := Result{Width: 360, Height: 170, MaxDepth: 1, Shift: 10}
	if res != want {
		t.Errorf("Compute() = %+v, want %+v", res, want)
	}
}

func TestComputeShiftsCousins(t *testing.T) {
	// Two wide subtrees side by side: the second must be pushed right so its
	// children clear the first subtree's children.
	tbl := (&table.Table{}).
		AddCategory("l1", "p", "p", "p", "q", "q", "q").
		AddCategory("l2", "a", "b", "c", "d", "e", "f").
		AddMeasure("m", 6, 5, 4, 3, 2, 1)
	tr := build(t, tbl)
	Compute(tr, DefaultOptions())
	checkTidy(t, tr, DefaultOptions())

	p, q := tr.Node(tr.Find("p")), tr.Node(tr.Find("q"))
	if q.X-p.X < 3*(DefaultNodeWidth+DefaultGap) {
		t.Errorf("subtrees too close: p=%v q=%v", p.X, q.X)
	}
}

func TestComputeNilTree(t *testing.T) {
	if got := Compute(nil, DefaultOptions()); got != (Result{}) {
		t.Errorf("Compute(nil) = %+v, want zero", got)
	}
}

func TestComputeIsRepeatable(t *testing.T) {
	tr := build(t, randomTable(rand.New(rand.NewPCG(7, 7)), 40))
	drill.Reset(tr, drill.Policy{BranchLimit: 3}, 3)

	Compute(tr, DefaultOptions())
	first := positions(tr)
	Compute(tr, DefaultOptions())
	if second := positions(tr); !slices.Equal(first, second) {
		t.Errorf("second pass moved nodes:\n%v\n%v", first, second)
	}
}

func TestComputeProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))
	for i := range 40 {
		t.Run(fmt.Sprintf("tree%d", i), func(t *testing.T) {
			tr := build(t, randomTable(rng, 5+rng.IntN(60)))
			drill.Reset(tr, drill.Policy{BranchLimit: 1 + rng.IntN(4)}, rng.IntN(4))

			var ids []tree.NodeID
			tr.Walk(func(n *tree.Node) {
				if !n.IsSummary() {
					ids = append(ids, n.ID)
				}
			})
			for range 20 {
				id := ids[rng.IntN(len(ids))]
				switch rng.IntN(3) {
				case 0:
					drill.Expand(tr, id, rng.IntN(4))
				case 1:
					drill.Collapse(tr, id, rng.IntN(3))
				case 2:
					drill.CollapseAll(tr, id)
				}
			}

			opts := DefaultOptions()
			res := Compute(tr, opts)
			checkTidy(t, tr, opts)

			tr.WalkVisible(func(n *tree.Node) {
				if n.X+opts.NodeWidth+opts.Margin > res.Width+eps {
					t.Errorf("node %q at %v exceeds width %v", n.Label, n.X, res.Width)
				}
				if n.Depth > res.MaxDepth {
					t.Errorf("node %q deeper than MaxDepth %d", n.Label, res.MaxDepth)
				}
			})
		})
	}
}

// checkTidy asserts non-overlap per depth, parent centering and margin
// translation.
func checkTidy(t *testing.T, tr *tree.Tree, opts Options) {
	t.Helper()
	byDepth := map[int][]float64{}
	minX := math.Inf(1)
	tr.WalkVisible(func(n *tree.Node) {
		byDepth[n.Depth] = append(byDepth[n.Depth], n.X)
		minX = min(minX, n.X)

		if len(n.Children) == 0 {
			return
		}
		first := tr.Node(n.Children[0]).X
		last := tr.Node(n.Children[len(n.Children)-1]).X
		if math.Abs(n.X-(first+last)/2) > 1e-6 {
			t.Errorf("node %q at %v not centered over [%v, %v]", n.Label, n.X, first, last)
		}
	})

	for depth, xs := range byDepth {
		slices.Sort(xs)
		for i := 1; i < len(xs); i++ {
			if xs[i]-xs[i-1] < opts.NodeWidth+opts.Gap-1e-6 {
				t.Errorf("depth %d: boxes at %v and %v overlap", depth, xs[i-1], xs[i])
			}
		}
	}
	if math.Abs(minX-opts.Margin) > 1e-6 {
		t.Errorf("min X = %v, want margin %v", minX, opts.Margin)
	}
}

func positions(tr *tree.Tree) []float64 {
	var xs []float64
	tr.WalkVisible(func(n *tree.Node) { xs = append(xs, n.X) })
	return xs
}

func randomTable(rng *rand.Rand, rows int) *table.Table {
	cols := make([][]any, 3)
	measure := make([]any, rows)
	for i := range rows {
		for c := range cols {
			var v any = fmt.Sprintf("v%d", rng.IntN(3+2*c))
			if rng.IntN(10) == 0 {
				v = nil
			}
			cols[c] = append(cols[c], v)
		}
		measure[i] = rng.IntN(100)
	}
	tbl := &table.Table{}
	for c, vals := range cols {
		tbl.AddCategory(fmt.Sprintf("c%d", c), vals...)
	}
	return tbl.AddMeasure("m", measure...)
}
