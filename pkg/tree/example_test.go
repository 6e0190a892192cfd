package tree_test

import (
	"fmt"

	"github.com/matzehuels/drilltree/pkg/table"
	"github.com/matzehuels/drilltree/pkg/tree"
)

func ExampleBuild() {
	tbl := (&table.Table{}).
		AddCategory("product", "tea", "coffee", "tea", nil).
		AddMeasure("revenue", 4, 12, 6, 1)

	tr, _ := tree.Build(tbl, tree.Options{})
	tr.WalkVisible(func(n *tree.Node) {
		fmt.Printf("%*s%s %v\n", 2*n.Depth, "", n.Label, n.Aggregates)
	})
	// Output:
	// Total [4 23]
	//   coffee [1 12]
	//   tea [2 10]
	//   (Blank) [1 1]
}
