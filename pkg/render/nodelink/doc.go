// Package nodelink renders drill-down layouts as Graphviz node-link diagrams.
//
// # Overview
//
// This package lets Graphviz place the visible shape instead of the built-in
// tidy layout. It is useful for comparing layouts and for piping the tree into
// external Graphviz tooling.
//
// # Usage
//
// Convert a layout to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(l, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: node labels include the record count and the first measure
//
// Summary nodes are drawn dashed and grey, blank and empty values in italics.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
