// Package render provides shared helpers for drill-down tree renderers.
//
// # Overview
//
// The sinks live in subpackages and all consume a [graph.Layout]:
//
//   - [svg]: boxes, edges, share bars, tooltips and drill buttons
//   - [nodelink]: Graphviz DOT and SVG rendered through Graphviz
//
// This package holds what they share: number and percent formatting, share
// bar classification, approximate label fitting and format conversion.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	out := svg.Render(l)
//	pdf, err := render.ToPDF(out)
//	png, err := render.ToPNG(out, 2.0)  // 2x scale
//
// # Text Metrics
//
// Renderers have no access to real font metrics. [FitLabel] estimates text
// width from the font size and truncates with "..." when a label would
// overflow its box.
//
// [graph.Layout]: github.com/matzehuels/drilltree/pkg/graph#Layout
// [svg]: github.com/matzehuels/drilltree/pkg/render/svg
// [nodelink]: github.com/matzehuels/drilltree/pkg/render/nodelink
package render
