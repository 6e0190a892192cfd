package tree

import (
	"slices"

	"github.com/matzehuels/drilltree/pkg/table"
)

// Default root labels.
const (
	RootLabelMeasures = "Total"
	RootLabelCount    = "Everything"
)

// Options configures [Build].
type Options struct {
	// RootLabel overrides the root label. When empty, the root is labeled
	// RootLabelMeasures if the table has measures and RootLabelCount otherwise.
	RootLabel string
}

type groupKey struct {
	parent NodeID
	value  table.Value
}

// Build aggregates t into a fully expanded tree.
//
// A table without category columns produces no tree and no error: the caller
// treats a nil tree as "nothing to render". Ragged or badly named tables are
// rejected with an INVALID_TABLE error. Measure cells that do not parse as
// numbers count as zero.
func Build(t *table.Table, opts Options) (*Tree, error) {
	if !t.HasCategories() {
		return nil, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	rows := t.RowCount()
	width := len(t.Measures) + 1
	tr := &Tree{
		nodes:      make([]Node, 0, rows+1),
		Categories: t.CategoryNames(),
		Measures:   t.MeasureNames(),
	}

	label := opts.RootLabel
	if label == "" {
		label = RootLabelCount
		if len(t.Measures) > 0 {
			label = RootLabelMeasures
		}
	}
	tr.root = tr.alloc(Node{
		Parent:     None,
		Label:      label,
		Kind:       KindRoot,
		Aggregates: make([]float64, width),
	})

	groups := make(map[groupKey]NodeID)
	row := make([]float64, width)
	for i := 0; i < rows; i++ {
		row[0] = 1
		for m := range t.Measures {
			row[m+1] = t.Measure(m, i)
		}

		cur := tr.root
		tr.accumulate(cur, row)
		for d := range t.Categories {
			v := t.Category(d, i)
			key := groupKey{parent: cur, value: v}
			child, ok := groups[key]
			if !ok {
				child = tr.alloc(Node{
					Parent:     cur,
					Depth:      d + 1,
					Label:      v.Label(),
					Kind:       kindOf(v.Kind),
					Aggregates: make([]float64, width),
				})
				tr.nodes[cur].Children = append(tr.nodes[cur].Children, child)
				groups[key] = child
			}
			tr.accumulate(child, row)
			cur = child
		}
	}

	if len(t.Measures) > 0 {
		for i := range tr.nodes {
			n := &tr.nodes[i]
			slices.SortStableFunc(n.Children, func(a, b NodeID) int {
				return compareDesc(tr.nodes[a].Aggregates[1], tr.nodes[b].Aggregates[1])
			})
		}
	}
	return tr, nil
}

func (t *Tree) accumulate(id NodeID, row []float64) {
	agg := t.nodes[id].Aggregates
	for i, v := range row {
		agg[i] += v
	}
}

func compareDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

func kindOf(k table.Kind) Kind {
	switch k {
	case table.KindBlank:
		return KindBlank
	case table.KindEmpty:
		return KindEmpty
	default:
		return KindValue
	}
}
