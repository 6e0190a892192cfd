// Package tree builds and stores the aggregated drill-down tree.
//
// # Overview
//
// [Build] folds a [table.Table] into a tree: every grouping column is one depth
// level, every distinct combination of category values is one node, and every
// measure is summed bottom-up into all ancestors. The root sits at depth 0 and
// leaves at depth [Tree.Height].
//
// # Arena
//
// Nodes live in a single slice owned by the [Tree] and are addressed by
// [NodeID]. A node stores its parent as an ID ([None] for the root), so upward
// walks are O(1) and there are no pointer cycles. Pointers returned by
// [Tree.Node] stay valid until the next [Tree.NewSummary] call, which may grow
// the arena.
//
// Each node splits its original children into two ordered lists:
//
//   - Children: currently visible, possibly followed by one summary node
//   - Hidden: currently hidden behind that summary node
//
// The build leaves every node fully expanded. Package drill owns the partition
// from there on; package layout owns the Prelim, Modifier and X scratch fields.
//
// # Ordering
//
// Siblings are created in first-seen row order. When the table has at least
// one measure, they are then stably sorted descending by the first measure
// sum, so ties keep first-seen order.
package tree
