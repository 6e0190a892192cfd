package graph

import (
	"github.com/matzehuels/drilltree/pkg/drill"
	"github.com/matzehuels/drilltree/pkg/layout"
	"github.com/matzehuels/drilltree/pkg/tree"
)

// FromTree snapshots the visible shape of t after a layout pass. Nodes are
// emitted in pre-order with Y derived from depth. A nil tree yields an empty
// layout sized to the margins.
func FromTree(t *tree.Tree, res layout.Result, opts layout.Options, showMeasure bool) Layout {
	opts = opts.WithDefaults()
	out := Layout{
		Width:       res.Width,
		Height:      res.Height,
		NodeWidth:   opts.NodeWidth,
		BoxHeight:   opts.BoxHeight,
		LevelHeight: opts.LevelHeight,
		MaxDepth:    res.MaxDepth,
		ShowMeasure: showMeasure,
		Nodes:       []Node{},
		Edges:       []Edge{},
	}
	if t == nil {
		return out
	}
	out.Categories = t.Categories
	out.Measures = t.Measures

	idx := t.MeasureIndex()
	total := t.Node(t.Root()).Aggregates[idx]

	t.WalkVisible(func(n *tree.Node) {
		node := Node{
			ID:         int(n.ID),
			Parent:     int(n.Parent),
			Label:      n.Label,
			Kind:       n.Kind.String(),
			Depth:      n.Depth,
			X:          n.X,
			Y:          opts.Y(n.Depth),
			Aggregates: append([]float64(nil), n.Aggregates...),
			Visible:    len(t.Visible(n.ID)),
			Hidden:     len(n.Hidden),
			Summary:    n.IsSummary(),
			Leaf:       !n.IsSummary() && n.Depth == t.Height(),
			Actions:    drill.AffordancesOf(t, n.ID),
		}
		if !n.IsSummary() {
			node.Path = t.Path(n.ID)
		}

		if n.Parent == tree.None {
			node.ShareOfTotal, node.ShareOfParent = 1, 1
		} else {
			parent := t.Node(n.Parent)
			node.ShareOfTotal = ratio(n.Aggregates[idx], total)
			node.ShareOfParent = ratio(n.Aggregates[idx], parent.Aggregates[idx])
			out.Edges = append(out.Edges, Edge{From: int(n.Parent), To: int(n.ID)})
		}
		out.Nodes = append(out.Nodes, node)
	})
	return out
}

func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
