// Package layout assigns horizontal positions to the visible shape of a tree.
//
// # Algorithm
//
// [Compute] is a tidy-tree layout in the Reingold-Tilford family with fixed
// node widths. It runs two passes over the nodes reachable through Children
// links; hidden subtrees are never touched.
//
// The first pass is post-order. A first child is placed at 0 if it is a leaf
// and centered over its own children otherwise. Any later sibling is chained
// off the previous one at NodeWidth+Gap. A later sibling with children also
// gets a modifier that re-centers its children under it, and is then shifted
// right until its subtree clears every earlier sibling's subtree at every
// relative depth. The extents come from rightmost and leftmost, which return
// -Inf and +Inf when a subtree has no nodes at the requested depth.
//
// The second pass is pre-order and sums modifiers down the tree:
//
//	X(node) = Prelim(node) + sum of Modifier over ancestors below the root
//
// The root is centered over its first and last visible child (or placed at 0),
// and finally every X is translated so the leftmost node sits at Margin.
//
// # Scratch state
//
// Prelim, Modifier and X live on [tree.Node] and are reset at the start of
// every Compute call, so the passes are reentrant and independent of any
// rendering code.
package layout
