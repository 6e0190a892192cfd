// Package drill maintains the per-node drill-down state of a [tree.Tree].
//
// Every node splits its original children into a visible list and a hidden
// list. Whenever both are non-empty, a single synthetic summary node labeled
// "+ N" trails the visible list and carries the summed aggregates of the N
// hidden children. The summary is always re-derived by the operations in this
// package, never set directly.
//
// The primitive operations are [Collapse], [Expand] and [CollapseAll].
// [AutoExpand] seeds the initial state after a data update, skipping chains of
// blank or empty values when the [Policy] says so. [Reset] combines both.
//
// User interactions arrive as [Command] values ([ExpandRequest],
// [CollapseRequest], [RevealMoreRequest], [ShowFewerRequest]) so the caller
// can apply them outside of any rendering code and then rerun layout.
//
// Drill operations never create or destroy regular nodes and never re-sort
// siblings. They only move IDs between the two lists and allocate or release
// summary nodes.
package drill
