package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/draad/tokeneditor/pkg/refgraph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the token type and value to node labels.
	// When false, only the token name is shown.
	Detailed bool
	// Highlight is the name of a token to emphasise, typically the focus of
	// a subgraph.
	Highlight string
}

// ToDOT converts a reference graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(g *refgraph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed), opts.Highlight)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Name, strings.Join(attrs, ", "))
	}

	missing := make(map[string]bool)
	for _, e := range g.Dangling() {
		if missing[e.To] {
			continue
		}
		missing[e.To] = true
		fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,dashed\", fontcolor=grey40];\n", e.To, e.To)
	}

	inCycle := make(map[refgraph.Edge]bool)
	for _, c := range g.Cycles() {
		for i, from := range c {
			inCycle[refgraph.Edge{From: from, To: c[(i+1)%len(c)]}] = true
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if inCycle[e] {
			fmt.Fprintf(&buf, "  %q -> %q [color=red];\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}
	for _, e := range g.Dangling() {
		fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n refgraph.Node, detailed bool) string {
	if !detailed {
		return n.Name
	}

	parts := []string{n.Name}
	if n.Type != "" {
		parts = append(parts, "type: "+n.Type)
	}
	parts = append(parts, "value: "+n.Value.String())
	return strings.Join(parts, "\n")
}

func fmtAttrs(n refgraph.Node, label, highlight string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Name == highlight {
		attrs = append(attrs, "fillcolor=\"#ffe9a8\"", "penwidth=2")
	} else if !n.Value.IsReference() {
		attrs = append(attrs, "fillcolor=\"#eef3ff\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales with its
// container.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(root))
}
