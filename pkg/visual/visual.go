package visual

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drilltree/pkg/config"
	"github.com/matzehuels/drilltree/pkg/drill"
	"github.com/matzehuels/drilltree/pkg/errors"
	"github.com/matzehuels/drilltree/pkg/graph"
	"github.com/matzehuels/drilltree/pkg/layout"
	"github.com/matzehuels/drilltree/pkg/observability"
	"github.com/matzehuels/drilltree/pkg/table"
	"github.com/matzehuels/drilltree/pkg/tree"
)

// Option configures a [Visual].
type Option func(*Visual)

// WithLogger sets the logger used for rebuild and interaction events.
func WithLogger(l *log.Logger) Option {
	return func(v *Visual) {
		if l != nil {
			v.logger = l
		}
	}
}

// Visual is the drill-down view of one table.
type Visual struct {
	logger   *log.Logger
	settings config.Settings

	fingerprint uint64
	fed         bool

	tree   *tree.Tree
	layout graph.Layout
	builds int
}

// New creates an empty view. It shows nothing until the first [Visual.Update].
func New(s config.Settings, opts ...Option) *Visual {
	v := &Visual{
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		settings: s,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Settings returns the settings of the last successful update.
func (v *Visual) Settings() config.Settings { return v.settings }

// Tree returns the current tree, nil when the data has no category columns.
func (v *Visual) Tree() *tree.Tree { return v.tree }

// Builds reports how many times the tree has been rebuilt.
func (v *Visual) Builds() int { return v.builds }

// Layout returns the current layout. ok is false when there is nothing to
// render.
func (v *Visual) Layout() (l graph.Layout, ok bool) {
	if v.tree == nil {
		return graph.Layout{}, false
	}
	return v.layout, true
}

// Update feeds new data and settings. It rebuilds the tree, resets the drill
// state and re-runs the layout unless both are identical to the previous
// update, in which case nothing happens and changed is false.
//
// Invalid settings or a malformed table leave the view untouched.
func (v *Visual) Update(t *table.Table, s config.Settings) (changed bool, err error) {
	return v.UpdateContext(context.Background(), t, s)
}

// UpdateContext is [Visual.Update] with a context passed to the observability
// hooks.
func (v *Visual) UpdateContext(ctx context.Context, t *table.Table, s config.Settings) (changed bool, err error) {
	if err := s.Validate(); err != nil {
		return false, err
	}
	if t == nil {
		t = &table.Table{}
	}
	fp, err := table.Fingerprint(struct {
		Table    *table.Table    `msgpack:"table"`
		Settings config.Settings `msgpack:"settings"`
	}{t, s})
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInvalidTable, err, "fingerprint table")
	}
	if v.fed && fp == v.fingerprint {
		v.logger.Debug("data unchanged, keeping drill state")
		return false, nil
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, t.RowCount())
	start := time.Now()
	tr, err := tree.Build(t, s.TreeOptions())
	if err != nil {
		hooks.OnBuildComplete(ctx, 0, time.Since(start), err)
		return false, err
	}
	nodes := 0
	if tr != nil {
		nodes = tr.Len()
		drill.Reset(tr, s.Policy(), s.DefaultDrillDepth)
	}
	hooks.OnBuildComplete(ctx, nodes, time.Since(start), nil)

	v.tree = tr
	v.settings = s
	v.fingerprint = fp
	v.fed = true
	v.builds++
	v.logger.Debug("rebuilt tree", "rows", t.RowCount(), "nodes", nodes, "build", v.builds)

	v.relayout(ctx)
	return true, nil
}

// Apply runs a drill command against the current tree and re-runs the
// layout. Commands against an empty view fail with NOT_FOUND.
func (v *Visual) Apply(cmd drill.Command) error {
	if v.tree == nil {
		return errors.New(errors.ErrCodeNotFound, "no data to drill into")
	}
	if err := cmd.Apply(v.tree, v.settings.Policy()); err != nil {
		return err
	}
	v.logger.Debug("applied", "action", cmd.Action(), "node", cmd.Target())
	v.relayout(context.Background())
	return nil
}

// ExpandRequested reveals the first branch-limit children of a collapsed node.
func (v *Visual) ExpandRequested(id tree.NodeID) error {
	return v.Apply(drill.ExpandRequest{Node: id})
}

// CollapseRequested collapses a node and everything below it.
func (v *Visual) CollapseRequested(id tree.NodeID) error {
	return v.Apply(drill.CollapseRequest{Node: id})
}

// RevealMoreRequested reveals more siblings from behind the summary node id.
func (v *Visual) RevealMoreRequested(id tree.NodeID) error {
	return v.Apply(drill.RevealMoreRequest{Node: id})
}

// ShowFewerRequested hides siblings again, starting from the last entry id.
func (v *Visual) ShowFewerRequested(id tree.NodeID) error {
	return v.Apply(drill.ShowFewerRequest{Node: id})
}

// Reveal makes the node at the label path visible and opens it.
func (v *Visual) Reveal(path ...string) error {
	if v.tree == nil {
		return errors.New(errors.ErrCodeNotFound, "no data to drill into")
	}
	for _, seg := range path {
		if err := errors.ValidatePath(seg); err != nil {
			return err
		}
	}
	id := v.tree.Find(path...)
	if id == tree.None {
		return errors.New(errors.ErrCodeNodeNotFound, "no node at path %q", path)
	}
	drill.Reveal(v.tree, id, v.settings.Policy())
	v.relayout(context.Background())
	return nil
}

// ExpandAll reveals the whole tree.
func (v *Visual) ExpandAll() {
	if v.tree == nil {
		return
	}
	drill.ExpandAll(v.tree, v.tree.Root())
	v.relayout(context.Background())
}

// Reset discards the drill state and re-applies the initial auto-expansion.
func (v *Visual) Reset() {
	if v.tree == nil {
		return
	}
	drill.Reset(v.tree, v.settings.Policy(), v.settings.DefaultDrillDepth)
	v.relayout(context.Background())
}

func (v *Visual) relayout(ctx context.Context) {
	if v.tree == nil {
		v.layout = graph.Layout{}
		return
	}
	hooks := observability.Pipeline()
	visible := 0
	v.tree.WalkVisible(func(*tree.Node) { visible++ })
	hooks.OnLayoutStart(ctx, visible)

	start := time.Now()
	opts := v.settings.LayoutOptions()
	res := layout.Compute(v.tree, opts)
	v.layout = graph.FromTree(v.tree, res, opts, v.settings.ShowMeasure)
	hooks.OnLayoutComplete(ctx, time.Since(start), nil)
}
