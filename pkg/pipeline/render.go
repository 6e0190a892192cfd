package pipeline

import (
	"fmt"

	"github.com/matzehuels/drilltree/pkg/graph"
	"github.com/matzehuels/drilltree/pkg/render"
	"github.com/matzehuels/drilltree/pkg/render/nodelink"
	"github.com/matzehuels/drilltree/pkg/render/svg"
)

// RenderFromLayout generates the requested artifacts from a layout.
// PNG and PDF are converted from the static SVG and need rsvg-convert.
func RenderFromLayout(l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var static []byte
	staticSVG := func() []byte {
		if static == nil {
			static = svg.Render(l)
		}
		return static
	}

	var dot string
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			if opts.Interactive != "" {
				data = svg.Render(l, svg.WithInteractive(opts.Interactive))
			} else {
				data = staticSVG()
			}
		case FormatJSON:
			data, err = graph.Marshal(l)
		case FormatDOT, FormatNodelink:
			if dot == "" {
				dot = nodelink.ToDOT(l, nodelink.Options{Detailed: opts.Detailed})
			}
			if format == FormatDOT {
				data = []byte(dot)
			} else {
				data, err = nodelink.RenderSVG(dot)
			}
		case FormatPNG:
			data, err = render.ToPNG(staticSVG(), opts.Scale)
		case FormatPDF:
			data, err = render.ToPDF(staticSVG())
		default:
			err = ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
