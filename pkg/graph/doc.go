// Package graph provides the renderer-facing serialization of a laid-out tree.
//
// This package defines the wire format consumed by every sink: the SVG and
// Graphviz renderers, the HTTP API, the terminal printer and the artifact
// cache.
//
// # Architecture
//
// The package sits at the boundary between the in-memory model and output:
//
//   - pkg/tree.Tree: arena with drill state and layout scratch
//   - pkg/layout.Result: frame size produced by a layout pass
//   - [Layout], [Node], [Edge]: serialization types (this package)
//
// Use [FromTree] to snapshot the visible shape after a layout pass.
//
// # Layout Serialization
//
//	{
//	  "width": 370, "height": 270, "node_width": 100, "box_height": 60,
//	  "show_measure": true,
//	  "categories": ["team", "member"], "measures": ["hours"],
//	  "nodes": [{"id": 0, "parent": -1, "label": "Total", "kind": "root", ...}],
//	  "edges": [{"from": 0, "to": 1}]
//	}
//
// Nodes appear in pre-order, so a node's parent always precedes it. Every
// node carries the affordances (expand, collapse, more, fewer) a renderer
// should offer, and its shares of the root and parent totals.
//
// Common operations:
//
//	l := graph.FromTree(tr, res, opts, true)   // Tree → Layout
//	data, _ := graph.Marshal(l)                 // Layout → []byte
//	l, _ = graph.Unmarshal(data)                // []byte → Layout
//	_ = graph.WriteFile(l, "view.json")         // Layout → File
//
// # Concurrency
//
// Layout values are plain data and safe to share once built.
package graph
