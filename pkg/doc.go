// Package pkg provides the core libraries for drilltree.
//
// # Overview
//
// Drilltree turns a flat table of category and measure columns into an
// aggregated tree and lets a user drill into it one level at a time. Large
// levels show their biggest entries plus a "+ N" summary node standing in
// for the rest. The pkg directory is organized into four areas:
//
//  1. Model: [table], [tree], [drill], [layout] and [visual]
//  2. Output: [graph] and [render] (SVG, Graphviz, PNG, PDF)
//  3. Plumbing: [io], [cache], [config], [errors] and [observability]
//  4. Entry points: [pipeline] for batch rendering, [server] for HTTP
//
// # Architecture
//
// The typical data flow:
//
//	CSV / JSON / SQL query
//	         ↓
//	    [io] package (read a table.Table)
//	         ↓
//	    [tree] package (group rows, sum measures)
//	         ↓
//	    [drill] package (visible and hidden children, summaries)
//	         ↓
//	    [layout] package (tidy tree coordinates)
//	         ↓
//	    [graph] package → [render] (SVG/DOT/PNG/PDF/JSON)
//
// [visual] ties the middle of this chain together for one view and reacts
// to data updates and drill commands.
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/drilltree/pkg/config"
//	    "github.com/matzehuels/drilltree/pkg/io"
//	    "github.com/matzehuels/drilltree/pkg/render/svg"
//	    "github.com/matzehuels/drilltree/pkg/visual"
//	)
//
//	// 1. Read a table
//	t, _ := io.ImportCSV("sales.csv", io.CSVOptions{Measures: []string{"revenue"}})
//
//	// 2. Build the view
//	s := config.Default()
//	v := visual.New(s)
//	v.Update(t, s)
//
//	// 3. Drill in
//	v.Reveal("north", "alpha")
//
//	// 4. Render to SVG
//	l, _ := v.Layout()
//	out := svg.Render(l)
//
// # Main Packages
//
// [table] - Column-oriented input: category columns of strings, blanks and
// empties, and numeric measure columns. [table.Fingerprint] hashes a table
// so repeated updates with identical data are no-ops.
//
// [tree] - Arena tree built from a table. Every node carries the row count
// and measure sums of its subtree; siblings are ordered by value.
//
// [drill] - Collapse, expand, reveal-more and show-fewer operations, the
// initial auto-expansion policy, and the affordances each node offers.
//
// [layout] - Tidy tree layout in the Reingold-Tilford family
// over the visible nodes.
//
// [visual] - One drillable view: data updates, drill commands, layout.
//
// [graph] - Serializable layout consumed by the renderers and the HTTP API.
//
// [render/svg] - Boxes with share bars and drill buttons, optionally wired
// to an HTTP endpoint. [render/nodelink] renders through Graphviz.
//
// [pipeline] - load → drill → layout → render with caching per stage.
//
// [server] - HTTP API holding live views.
//
// [cache] - File, bolt, redis and null cache backends.
package pkg
