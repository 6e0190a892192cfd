package tree

import (
	"slices"
	"testing"

	"github.com/matzehuels/drilltree/pkg/errors"
	"github.com/matzehuels/drilltree/pkg/table"
)

func labels(tr *Tree, ids []NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = tr.Node(id).Label
	}
	return out
}

func TestBuildSingleColumn(t *testing.T) {
	tbl := (&table.Table{}).
		AddCategory("letter", "A", "A", "B").
		AddMeasure("amount", 10, 20, 5)

	tr, err := Build(tbl, Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	root := tr.Node(tr.Root())
	if root.Label != RootLabelMeasures {
		t.Errorf("root label = %q, want %q", root.Label, RootLabelMeasures)
	}
	if !slices.Equal(root.Aggregates, []float64{3, 35}) {
		t.Errorf("root aggregates = %v, want [3 35]", root.Aggregates)
	}
	if got := labels(tr, root.Children); !slices.Equal(got, []string{"A", "B"}) {
		t.Fatalf("children = %v, want [A B]", got)
	}

	a, b := tr.Node(root.Children[0]), tr.Node(root.Children[1])
	if !slices.Equal(a.Aggregates, []float64{2, 30}) {
		t.Errorf("A aggregates = %v, want [2 30]", a.Aggregates)
	}
	if !slices.Equal(b.Aggregates, []float64{1, 5}) {
		t.Errorf("B aggregates = %v, want [1 5]", b.Aggregates)
	}
	if a.Depth != 1 || a.Parent != tr.Root() {
		t.Errorf("A depth/parent = %d/%d, want 1/%d", a.Depth, a.Parent, tr.Root())
	}
	if len(root.Hidden) != 0 {
		t.Errorf("fresh tree has %d hidden children", len(root.Hidden))
	}
}

func TestBuildNoCategories(t *testing.T) {
	tests := []struct {
		name string
		tbl  *table.Table
	}{
		{"nil table", nil},
		{"empty table", &table.Table{}},
		{"measures only", (&table.Table{}).AddMeasure("m", 1, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Build(tt.tbl, Options{})
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			if tr != nil {
				t.Errorf("Build() = %v, want nil tree", tr)
			}
		})
	}
}

func TestBuildRaggedTable(t *testing.T) {
	tbl := (&table.Table{}).
		AddCategory("a", "x", "y").
		AddMeasure("m", 1)

	_, err := Build(tbl, Options{})
	if !errors.Is(err, errors.ErrCodeInvalidTable) {
		t.Fatalf("Build() error = %v, want INVALID_TABLE", err)
	}
}

func TestBuildSentinels(t *testing.T) {
	tbl := (&table.Table{}).AddCategory("c", nil, "", table.BlankLabel, nil, "x")

	tr, err := Build(tbl, Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	root := tr.Node(tr.Root())
	if root.Label != RootLabelCount {
		t.Errorf("root label = %q, want %q", root.Label, RootLabelCount)
	}
	if len(root.Children) != 4 {
		t.Fatalf("got %d children, want 4 (blank, empty, literal, x)", len(root.Children))
	}

	want := []struct {
		label string
		kind  Kind
		count float64
	}{
		{table.BlankLabel, KindBlank, 2},
		{table.EmptyLabel, KindEmpty, 1},
		{table.BlankLabel, KindValue, 1},
		{"x", KindValue, 1},
	}
	for i, w := range want {
		n := tr.Node(root.Children[i])
		if n.Label != w.label || n.Kind != w.kind || n.Aggregates[0] != w.count {
			t.Errorf("child %d = (%q, %s, %v), want (%q, %s, %v)",
				i, n.Label, n.Kind, n.Aggregates[0], w.label, w.kind, w.count)
		}
	}
}

func TestBuildOrdering(t *testing.T) {
	tests := []struct {
		name     string
		values   []any
		measures []any
		want     []string
	}{
		{
			name:   "first seen without measures",
			values: []any{"z", "y", "z", "x"},
			want:   []string{"z", "y", "x"},
		},
		{
			name:     "descending by first measure",
			values:   []any{"x", "y", "z"},
			measures: []any{1, 3, 2},
			want:     []string{"y", "z", "x"},
		},
		{
			name:     "ties keep first seen order",
			values:   []any{"x", "y", "z", "w"},
			measures: []any{1, 2, 2, 2},
			want:     []string{"y", "z", "w", "x"},
		},
		{
			name:     "malformed measures count as zero",
			values:   []any{"x", "y", "z"},
			measures: []any{"n/a", "4", nil},
			want:     []string{"y", "x", "z"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := (&table.Table{}).AddCategory("c", tt.values...)
			if tt.measures != nil {
				tbl.AddMeasure("m", tt.measures...)
			}
			tr, err := Build(tbl, Options{})
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			if got := labels(tr, tr.Node(tr.Root()).Children); !slices.Equal(got, tt.want) {
				t.Errorf("children = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildConservation(t *testing.T) {
	tbl := (&table.Table{}).
		AddCategory("region", "eu", "eu", "us", "us", "eu", nil).
		AddCategory("city", "berlin", "paris", "nyc", "nyc", "berlin", "").
		AddMeasure("sales", 10, 20, 30, 40, 5, 1).
		AddMeasure("units", 1, 2, 3, 4, 5, 6)

	tr, err := Build(tbl, Options{RootLabel: "All"})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if tr.Node(tr.Root()).Label != "All" {
		t.Errorf("root label = %q, want All", tr.Node(tr.Root()).Label)
	}
	if tr.Height() != 2 {
		t.Errorf("Height() = %d, want 2", tr.Height())
	}

	us := tr.Find("us")
	if us == None {
		t.Fatal("Find(us) = None")
	}
	if got := labels(tr, tr.Node(tr.Root()).Children); !slices.Equal(got, []string{"us", "eu", table.BlankLabel}) {
		t.Errorf("regions = %v", got)
	}
	nyc := tr.Node(tr.Find("us", "nyc"))
	if !slices.Equal(nyc.Aggregates, []float64{2, 70, 7}) {
		t.Errorf("nyc aggregates = %v, want [2 70 7]", nyc.Aggregates)
	}

	tr.Walk(func(n *Node) {
		if n.Depth == tr.Height() && n.HasContent() {
			t.Errorf("leaf %q has children", n.Label)
		}
	})
}

func TestPathFind(t *testing.T) {
	tbl := (&table.Table{}).
		AddCategory("a", "x", "y").
		AddCategory("b", "1", "2")
	tr, err := Build(tbl, Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	tr.Walk(func(n *Node) {
		if got := tr.Find(tr.Path(n.ID)...); got != n.ID {
			t.Errorf("Find(Path(%d)) = %d", n.ID, got)
		}
	})
	if got := tr.Find("x", "2"); got != None {
		t.Errorf("Find(x, 2) = %d, want None", got)
	}
	if got := tr.Path(tr.Root()); len(got) != 0 {
		t.Errorf("Path(root) = %v, want empty", got)
	}
}

func TestSummaryAllocation(t *testing.T) {
	tbl := (&table.Table{}).AddCategory("a", "x", "y").AddMeasure("m", 1, 2)
	tr, err := Build(tbl, Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	before := tr.Len()

	s := tr.NewSummary(tr.Root())
	if n := tr.Node(s); n == nil || !n.IsSummary() || n.Depth != 1 || len(n.Aggregates) != 2 {
		t.Fatalf("NewSummary() produced %+v", n)
	}
	if tr.Len() != before+1 {
		t.Errorf("Len() = %d, want %d", tr.Len(), before+1)
	}

	tr.Release(s)
	if tr.Node(s) != nil {
		t.Error("released node still resolvable")
	}
	if tr.Len() != before {
		t.Errorf("Len() after release = %d, want %d", tr.Len(), before)
	}
	if again := tr.NewSummary(tr.Root()); again != s {
		t.Errorf("NewSummary() = %d, want reused slot %d", again, s)
	}
}

func TestSummarySlotStaysWithParent(t *testing.T) {
	tbl := (&table.Table{}).
		AddCategory("team", "core", "core", "web").
		AddCategory("member", "ann", "bob", "cyd")
	tr, err := Build(tbl, Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	core := tr.Find("core")
	before := tr.Len()

	s := tr.NewSummary(core)
	tr.Release(s)

	other := tr.NewSummary(tr.Root())
	if other == s {
		t.Fatalf("summary slot %d reused under another parent", s)
	}
	if tr.Node(s) != nil {
		t.Error("released slot resolvable before reuse")
	}
	if again := tr.NewSummary(core); again != s {
		t.Errorf("NewSummary(core) = %d, want slot %d", again, s)
	}
	if tr.Len() != before+2 {
		t.Errorf("Len() = %d, want %d", tr.Len(), before+2)
	}
}

func TestReleaseRegularNodePanics(t *testing.T) {
	tbl := (&table.Table{}).AddCategory("a", "x")
	tr, _ := Build(tbl, Options{})

	defer func() {
		if recover() == nil {
			t.Error("Release(root) did not panic")
		}
	}()
	tr.Release(tr.Root())
}
