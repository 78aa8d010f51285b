// Package render converts proximity graphs and hub allocations into
// Graphviz DOT and image formats for visual inspection of a region.
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/telcoplan/hubgrid/pkg/alloc"
	"github.com/telcoplan/hubgrid/pkg/mesh"
)

// hubColors is the fill palette cycled over hub numbers. Hub numbers start
// at 1; unallocated nodes render white.
var hubColors = []string{
	"lightblue",
	"lightgoldenrod",
	"lightpink",
	"lightseagreen",
	"plum",
	"khaki",
	"lightsalmon",
	"palegreen",
}

// Options configures DOT rendering.
type Options struct {
	// Weights includes edge distances (km) as edge labels.
	Weights bool

	// Name is the graph name in the DOT output. Defaults to "hubgrid".
	Name string
}

// ToDOT converts a proximity graph and its allocation to Graphviz DOT.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// Nodes are filled by hub number so towers sharing a frequency group are
// visually grouped. Edges are undirected.
func ToDOT(g *mesh.Graph, a alloc.Allocation, opts Options) string {
	name := opts.Name
	if name == "" {
		name = "hubgrid"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "graph %q {\n", name)
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for _, id := range g.NodeIDs() {
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(id, a))}
		if hub, ok := a[id]; ok {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", hubColor(hub)))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if opts.Weights {
			fmt.Fprintf(&buf, "  %q -- %q [label=\"%.1f\"];\n", e.U, e.V, e.Weight)
		} else {
			fmt.Fprintf(&buf, "  %q -- %q;\n", e.U, e.V)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(id string, a alloc.Allocation) string {
	if hub, ok := a[id]; ok {
		return fmt.Sprintf("%s\nhub %d", id, hub)
	}
	return id
}

func hubColor(hub int) string {
	if hub < 1 {
		return "white"
	}
	return hubColors[(hub-1)%len(hubColors)]
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.SVG, normalizeViewBox)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.PNG, nil)
}

func renderFormat(dot string, format graphviz.Format, post func([]byte) []byte) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if post != nil {
		return post(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
