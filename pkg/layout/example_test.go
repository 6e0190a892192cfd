package layout_test

import (
	"fmt"

	"github.com/matzehuels/drilltree/pkg/layout"
	"github.com/matzehuels/drilltree/pkg/table"
	"github.com/matzehuels/drilltree/pkg/tree"
)

func ExampleCompute() {
	tbl := (&table.Table{}).
		AddCategory("team", "core", "core", "web").
		AddCategory("member", "ann", "bob", "cyd")
	tr, _ := tree.Build(tbl, tree.Options{})

	res := layout.Compute(tr, layout.DefaultOptions())
	tr.WalkVisible(func(n *tree.Node) {
		fmt.Printf("%-10s depth=%d x=%v\n", n.Label, n.Depth, n.X)
	})
	fmt.Printf("frame %vx%v\n", res.Width, res.Height)
	// Output:
	// Everything depth=0 x=160
	// core       depth=1 x=70
	// ann        depth=2 x=10
	// bob        depth=2 x=130
	// web        depth=1 x=250
	// cyd        depth=2 x=250
	// frame 360x270
}
