package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/drilltree/pkg/graph"
	"github.com/matzehuels/drilltree/pkg/tree"
	"github.com/matzehuels/drilltree/pkg/visual"
)

// exploreCommand creates the interactive explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "explore <input>",
		Short: "Drill through a table interactively",
		Long: `Explore opens the drill-down tree in the terminal.

Keys:
  ↑/↓ k/j   move
  enter     open a node, or close an open one
  →  l      reveal more siblings
  ←  h      show fewer siblings
  c         collapse everything
  r         reset to the initial state
  q         quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return fmt.Errorf("explore needs a terminal; use print instead")
			}
			return c.runExplore(cmd.Context(), args[0], &src)
		},
	}
	src.register(cmd)
	return cmd
}

func (c *CLI) runExplore(ctx context.Context, input string, src *sourceFlags) error {
	opts, err := src.options(input, c.settings)
	if err != nil {
		return err
	}
	v, err := c.loadVisual(ctx, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(newExploreModel(v, input), tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

// =============================================================================
// exploreModel - Interactive drill-down
// =============================================================================

// exploreRow is one visible box in display order.
type exploreRow struct {
	node   graph.Node
	indent int
}

type exploreModel struct {
	view   *visual.Visual
	title  string
	layout graph.Layout
	rows   []exploreRow
	cursor int
	offset int
	height int
	status string
}

func newExploreModel(v *visual.Visual, title string) exploreModel {
	m := exploreModel{view: v, title: title, height: 20}
	m.refresh(tree.None)
	return m
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.status = ""
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "enter", " ":
			m.toggle()
		case "right", "l":
			m.more()
		case "left", "h":
			m.fewer()
		case "c":
			if !m.layout.IsEmpty() {
				m.apply(m.view.CollapseRequested(tree.NodeID(m.layout.Root().ID)))
			}
		case "r":
			m.view.Reset()
			m.refresh(m.current())
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-6, 5)
		m.scroll()
	}
	return m, nil
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ move  ⏎ open/close  → more  ← fewer  c collapse  r reset  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.rows))
	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		cursor := "  "
		base := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "▸ "
			base = styleNodeCursor
		}
		b.WriteString(cursor)
		b.WriteString(strings.Repeat("  ", r.indent))
		b.WriteString(nodeLine(&m.layout, &r.node, base))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(StyleWarning.Render(m.status))
	} else {
		b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rows))))
	}
	return b.String()
}

// =============================================================================
// Actions
// =============================================================================

func (m *exploreModel) current() tree.NodeID {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return tree.None
	}
	return tree.NodeID(m.rows[m.cursor].node.ID)
}

// toggle opens a closed node, closes an open one, and opens a summary.
func (m *exploreModel) toggle() {
	if len(m.rows) == 0 {
		return
	}
	n := m.rows[m.cursor].node
	id := tree.NodeID(n.ID)
	switch {
	case n.Actions.RevealMore:
		m.apply(m.view.RevealMoreRequested(id))
	case n.Actions.Expand:
		m.apply(m.view.ExpandRequested(id))
	case n.Actions.Collapse:
		m.apply(m.view.CollapseRequested(id))
	default:
		m.status = "nothing below " + n.Label
	}
}

// more reveals siblings through the summary next to the cursor.
func (m *exploreModel) more() {
	if n, ok := m.sibling(func(s graph.Node) bool { return s.Actions.RevealMore }); ok {
		m.apply(m.view.RevealMoreRequested(tree.NodeID(n.ID)))
		return
	}
	m.status = "no more entries"
}

// fewer hides siblings again through the entry carrying the show-fewer action.
func (m *exploreModel) fewer() {
	if n, ok := m.sibling(func(s graph.Node) bool { return s.Actions.ShowFewer }); ok {
		m.apply(m.view.ShowFewerRequested(tree.NodeID(n.ID)))
		return
	}
	m.status = "nothing to hide"
}

// sibling finds the first node under the cursor's parent, the cursor node
// included, that satisfies match.
func (m *exploreModel) sibling(match func(graph.Node) bool) (graph.Node, bool) {
	if len(m.rows) == 0 {
		return graph.Node{}, false
	}
	cur := m.rows[m.cursor].node
	if match(cur) {
		return cur, true
	}
	for _, s := range m.layout.Children(cur.Parent) {
		if match(*s) {
			return *s, true
		}
	}
	return graph.Node{}, false
}

func (m *exploreModel) apply(err error) {
	if err != nil {
		m.status = err.Error()
		return
	}
	m.refresh(m.current())
}

// refresh re-reads the layout and keeps the cursor on keep if it is still
// visible.
func (m *exploreModel) refresh(keep tree.NodeID) {
	l, _ := m.view.Layout()
	m.layout = l
	m.rows = nil
	if !l.IsEmpty() {
		m.flatten(l.Root(), 0)
	}
	for i, r := range m.rows {
		if tree.NodeID(r.node.ID) == keep {
			m.cursor = i
			m.scroll()
			return
		}
	}
	m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
	m.scroll()
}

func (m *exploreModel) flatten(n *graph.Node, indent int) {
	m.rows = append(m.rows, exploreRow{node: *n, indent: indent})
	for _, c := range m.layout.Children(n.ID) {
		m.flatten(c, indent+1)
	}
}

func (m *exploreModel) move(delta int) {
	m.cursor = min(max(m.cursor+delta, 0), max(len(m.rows)-1, 0))
	m.scroll()
}

func (m *exploreModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}
