// Package svg renders a drill-down layout as a standalone SVG document.
//
// Every visible node becomes a rounded box with its label above, a head line
// inside, and, when measures are shown, two share bars (of the total and of
// the parent) plus the formatted value and percentages. Summary boxes are
// drawn as pills. Hovering a box shows a tooltip with the record count and
// every measure.
//
// With [WithInteractive] the document also carries drill buttons. Each button
// is a group with data-action and data-node attributes and a small script
// that posts the action to the HTTP API and reloads the view.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/drilltree/pkg/drill"
	"github.com/matzehuels/drilltree/pkg/graph"
	"github.com/matzehuels/drilltree/pkg/render"
)

const (
	topPad         = 20.0 // room for the labels of the root row
	headFontSize   = 12.0
	labelFontSize  = 11.0
	tooltipNameLen = 14
	buttonRadius   = 8.0
	buttonOffset   = 25.0
	summaryRadius  = 30.0
	boxRadius      = 5.0
	barHeight      = 9.0
)

const css = `
    .boxbg { fill: #f4f6f8; stroke: #5b6b7a; stroke-width: 1; }
    .summary .boxbg { fill: #e6e9ec; stroke-dasharray: 4 2; }
    .upperText { font: 11px sans-serif; fill: #333; text-anchor: middle; }
    .boxhead { font: bold 12px sans-serif; fill: #111; text-anchor: middle; }
    .value { font: 10px sans-serif; fill: #222; text-anchor: start; }
    .percentage { font: 10px sans-serif; fill: #555; text-anchor: end; }
    .edge { stroke: grey; }
    .white { fill: #ffffff; }
    .halfGreen { fill: #8cc084; }
    .fullGreen { fill: #3f8f3a; }
    .halfRed { fill: #e59a8c; }
    .fullRed { fill: #c0392b; }
    .drillCrc, .nextCrc, .prevCrc { fill: #ffffff; stroke: #5b6b7a; }
    .arrow { fill: none; stroke: #333; stroke-width: 1.5; }`

const interactiveCSS = `
    [data-action] { cursor: pointer; }`

const interactionJS = `
    document.querySelectorAll('[data-action]').forEach(function (el) {
      el.addEventListener('click', function () {
        var url = %q + '/nodes/' + el.dataset.node + '/' + el.dataset.action;
        fetch(url, { method: 'POST' }).then(function () { window.location.reload(); });
      });
    });`

// Option configures SVG rendering.
type Option func(*renderer)

type renderer struct {
	endpoint string
	tooltips bool
}

// WithInteractive draws drill buttons that post their action to
// endpoint + "/nodes/{id}/{action}", for example "/api/views/<id>".
func WithInteractive(endpoint string) Option {
	return func(r *renderer) { r.endpoint = strings.TrimSuffix(endpoint, "/") }
}

// WithoutTooltips omits the hover tooltips.
func WithoutTooltips() Option {
	return func(r *renderer) { r.tooltips = false }
}

// Render renders l as an SVG document.
func Render(l graph.Layout, opts ...Option) []byte {
	r := renderer{tooltips: true}
	for _, opt := range opts {
		opt(&r)
	}

	width, height := l.Width, l.Height+topPad
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	style := css
	if r.endpoint != "" {
		style += interactiveCSS
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", style)

	if l.IsEmpty() {
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" class="upperText">Nothing to render</text>`+"\n", width/2, height/2)
		buf.WriteString("</svg>\n")
		return buf.Bytes()
	}

	fmt.Fprintf(&buf, `  <g transform="translate(0 %.1f)">`+"\n", topPad)
	byID := make(map[int]*graph.Node, len(l.Nodes))
	for i := range l.Nodes {
		byID[l.Nodes[i].ID] = &l.Nodes[i]
	}
	for _, e := range l.Edges {
		renderEdge(&buf, &l, byID[e.From], byID[e.To])
	}
	for i := range l.Nodes {
		r.renderNode(&buf, &l, &l.Nodes[i])
	}
	buf.WriteString("  </g>\n")

	if r.endpoint != "" {
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n",
			fmt.Sprintf(interactionJS, r.endpoint))
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderEdge(buf *bytes.Buffer, l *graph.Layout, from, to *graph.Node) {
	if from == nil || to == nil {
		return
	}
	fmt.Fprintf(buf, `    <line class="edge" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
		to.X+l.NodeWidth/2, to.Y, from.X+l.NodeWidth/2, from.Y+l.BoxHeight)
}

func (r *renderer) renderNode(buf *bytes.Buffer, l *graph.Layout, n *graph.Node) {
	class := "box"
	rx := boxRadius
	if n.Summary {
		class += " summary"
		rx = summaryRadius
	}
	cx := n.X + l.NodeWidth/2

	fmt.Fprintf(buf, `    <g class="%s" id="node-%d">`+"\n", class, n.ID)
	if r.tooltips {
		fmt.Fprintf(buf, "      <title>%s</title>\n", EscapeXML(tooltip(l, n)))
	}
	fmt.Fprintf(buf, `      <rect class="boxbg" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.0f"/>`+"\n",
		n.X, n.Y, l.NodeWidth, l.BoxHeight, rx)
	fmt.Fprintf(buf, `      <text class="upperText" x="%.1f" y="%.1f">%s</text>`+"\n",
		cx, n.Y-5, EscapeXML(render.FitLabel(n.Label, l.NodeWidth*1.2, labelFontSize)))

	headY := n.Y + 28
	if l.ShowMeasure {
		headY = n.Y + 16
	}
	fmt.Fprintf(buf, `      <text class="boxhead" x="%.1f" y="%.1f">%s</text>`+"\n",
		cx, headY, EscapeXML(render.FitLabel(n.Label, l.NodeWidth-8, headFontSize)))

	if l.ShowMeasure {
		if !n.IsRoot() {
			renderBar(buf, n.X, n.Y+20, l.NodeWidth, render.ShareBar(n.ShareOfTotal))
			renderBar(buf, n.X, n.Y+20+barHeight, l.NodeWidth, render.ShareBar(n.ShareOfParent))
		}
		fmt.Fprintf(buf, `      <text class="value" x="%.1f" y="%.1f">%s</text>`+"\n",
			n.X+4, n.Y+41, render.FormatValue(n.Value()))
		fmt.Fprintf(buf, `      <text class="percentage" x="%.1f" y="%.1f">%s</text>`+"\n",
			n.X+l.NodeWidth-4, n.Y+41, EscapeXML(render.PercentLine(n.ShareOfTotal, n.ShareOfParent, n.Depth)))
	}

	if r.endpoint != "" {
		renderButtons(buf, n, cx, n.Y+l.BoxHeight-9)
	}
	buf.WriteString("    </g>\n")
}

func renderBar(buf *bytes.Buffer, x, y, width float64, b render.Bar) {
	transform := ""
	if b.Flipped {
		transform = fmt.Sprintf(` transform="rotate(180 %.1f %.1f)"`, x+width/2, y+barHeight/2)
	}
	fmt.Fprintf(buf, `      <rect class="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f"%s/>`+"\n",
		b.Class, x, y, b.Ratio*width, barHeight, transform)
}

// Arrow paths, relative to the button center.
const (
	arrowDown  = "m -5 -4 l 5 5 l 5 -5 m -10 4 l 5 5 l 5 -5"
	arrowUp    = "m -5 4 l 5 -5 l 5 5 m -10 -4 l 5 -5 l 5 5"
	arrowRight = "m -4 -5 l 5 5 l -5 5 m 4 -10 l 5 5 l -5 5"
	arrowLeft  = "m 4 -5 l -5 5 l 5 5 m -4 -10 l -5 5 l 5 5"
)

func renderButtons(buf *bytes.Buffer, n *graph.Node, cx, cy float64) {
	button := func(class, circle, action, arrow string, x float64) {
		fmt.Fprintf(buf, `      <g class="%s" data-action="%s" data-node="%d">`, class, action, n.ID)
		fmt.Fprintf(buf, `<circle class="%s" cx="%.1f" cy="%.1f" r="%.0f"/>`, circle, x, cy, buttonRadius)
		fmt.Fprintf(buf, `<path class="arrow" d="M %.1f %.1f %s"/></g>`+"\n", x, cy, arrow)
	}
	a := n.Actions
	switch {
	case a.Expand:
		button("drillBtn", "drillCrc", drill.ActionExpand, arrowDown, cx)
	case a.Collapse:
		button("drillBtn", "drillCrc", drill.ActionCollapse, arrowUp, cx)
	}
	if a.RevealMore {
		button("nextBtn", "nextCrc", drill.ActionMore, arrowRight, cx+buttonOffset)
	}
	if a.ShowFewer {
		button("prevBtn", "prevCrc", drill.ActionFewer, arrowLeft, cx-buttonOffset)
	}
}

func tooltip(l *graph.Layout, n *graph.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nRecords: %s", n.Label, render.FormatValue(n.Count()))
	for i, name := range l.Measures {
		if i+1 >= len(n.Aggregates) {
			break
		}
		fmt.Fprintf(&b, "\n%s: %s", render.Truncate(name, tooltipNameLen), render.FormatValue(n.Aggregates[i+1]))
	}
	return b.String()
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
