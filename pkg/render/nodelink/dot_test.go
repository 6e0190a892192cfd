package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/drilltree/pkg/drill"
	"github.com/matzehuels/drilltree/pkg/graph"
	"github.com/matzehuels/drilltree/pkg/layout"
	"github.com/matzehuels/drilltree/pkg/table"
	"github.com/matzehuels/drilltree/pkg/tree"
)

func sample(t *testing.T) graph.Layout {
	t.Helper()
	tbl := (&table.Table{}).
		AddCategory("kind", "cat", "dog", nil, "fish").
		AddMeasure("Weight in kilograms", 4, 30, 1, 1)
	tr, err := tree.Build(tbl, tree.Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	drill.Reset(tr, drill.Policy{BranchLimit: 1}, 1)
	drill.Expand(tr, tr.Root(), 1)
	opts := layout.DefaultOptions()
	return graph.FromTree(tr, layout.Compute(tr, opts), opts, true)
}

func TestToDOT_Basic(t *testing.T) {
	l := sample(t)
	dot := ToDOT(l, Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, `n0 [label="Total"]`) {
		t.Errorf("ToDOT() output missing root node:\n%s", dot)
	}
	for _, e := range l.Edges {
		if !strings.Contains(dot, nodeID(e.From)+" -> "+nodeID(e.To)) {
			t.Errorf("ToDOT() output missing edge %d -> %d", e.From, e.To)
		}
	}
}

func TestToDOT_Summary(t *testing.T) {
	dot := ToDOT(sample(t), Options{})

	if !strings.Contains(dot, "dashed") {
		t.Error("ToDOT() summary missing dashed style")
	}
	if !strings.Contains(dot, "lightgrey") {
		t.Error("ToDOT() summary missing lightgrey fill")
	}
	if !strings.Contains(dot, `label="+ 2"`) {
		t.Errorf("ToDOT() summary label missing:\n%s", dot)
	}
}

func TestFmtLabel(t *testing.T) {
	l := sample(t)
	n := l.Nodes[0]

	if got := fmtLabel(&l, n, false); got != "Total" {
		t.Errorf("fmtLabel() simple mode = %q, want %q", got, "Total")
	}

	label := fmtLabel(&l, n, true)
	if !strings.HasPrefix(label, "Total\n") {
		t.Errorf("fmtLabel() detailed should start with label: %q", label)
	}
	if !strings.Contains(label, "records: 4") {
		t.Errorf("fmtLabel() detailed missing count: %q", label)
	}
	if !strings.Contains(label, "Weight in ki...: 36") {
		t.Errorf("fmtLabel() detailed missing measure: %q", label)
	}
}

func TestFmtAttrs(t *testing.T) {
	tests := []struct {
		name  string
		node  graph.Node
		count int
		want  string
	}{
		{"regular", graph.Node{Kind: "value"}, 1, "label="},
		{"summary", graph.Node{Kind: "summary", Summary: true}, 4, "lightgrey"},
		{"blank", graph.Node{Kind: "blank"}, 3, "Oblique"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := fmtAttrs(tt.node, "x")
			if len(attrs) != tt.count {
				t.Errorf("fmtAttrs() = %v, want %d attrs", attrs, tt.count)
			}
			if !strings.Contains(strings.Join(attrs, " "), tt.want) {
				t.Errorf("fmtAttrs() = %v, missing %q", attrs, tt.want)
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(sample(t), Options{Detailed: true}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}

	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	_, err := RenderSVG(`not valid DOT {{{`)
	if err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
