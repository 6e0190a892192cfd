package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	ltree "github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/matzehuels/drilltree/pkg/graph"
	"github.com/matzehuels/drilltree/pkg/render"
)

// printCommand creates the print command.
func (c *CLI) printCommand() *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "print <input>",
		Short: "Print the visible drill-down tree",
		Example: `  drilltree print sales.csv -m revenue
  drilltree print sales.csv -m revenue -e north -e south/beta`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPrint(cmd.Context(), cmd.OutOrStdout(), args[0], &src)
		},
	}
	src.register(cmd)
	return cmd
}

func (c *CLI) runPrint(ctx context.Context, w io.Writer, input string, src *sourceFlags) error {
	opts, err := src.options(input, c.settings)
	if err != nil {
		return err
	}
	v, err := c.loadVisual(ctx, opts)
	if err != nil {
		return err
	}
	l, ok := v.Layout()
	if !ok {
		printInfo("Nothing to show")
		return nil
	}
	_, err = fmt.Fprintln(w, printTree(l))
	return err
}

// printTree renders the visible tree with one line per box.
func printTree(l graph.Layout) string {
	t := subtree(&l, l.Root())
	t.Enumerator(ltree.RoundedEnumerator).
		EnumeratorStyle(styleEnumerator)
	return t.String()
}

func subtree(l *graph.Layout, n *graph.Node) *ltree.Tree {
	t := ltree.Root(nodeLine(l, n, lipgloss.NewStyle()))
	for _, c := range l.Children(n.ID) {
		if c.Visible == 0 {
			t.Child(nodeLine(l, c, lipgloss.NewStyle()))
			continue
		}
		t.Child(subtree(l, c))
	}
	return t
}

// nodeLine formats a box as "label value share". The root carries no share;
// summaries are set in italics. base is applied to the label.
func nodeLine(l *graph.Layout, n *graph.Node, base lipgloss.Style) string {
	labelStyle := base.Inherit(styleNodeLabel)
	if n.Summary {
		labelStyle = base.Inherit(styleNodeSummary)
	}
	line := labelStyle.Render(n.Label)
	if l.ShowMeasure {
		line += " " + StyleNumber.Render(render.FormatValue(n.Value()))
	}
	if !n.IsRoot() {
		line += " " + StyleDim.Render(render.PercentLine(n.ShareOfTotal, n.ShareOfParent, n.Depth))
	}
	if n.Hidden > 0 && !n.Summary && n.Visible == 0 {
		line += StyleDim.Render(" ▸")
	}
	return line
}
