// Package nodelink renders token reference graphs as node-link diagrams.
//
// # Overview
//
// Each token is a box and each reference an arrow from the referencing token
// to the token it points at, so literals end up at the bottom of the chains
// that use them. Dangling references are drawn as dashed boxes and arrows
// that close a reference loop are drawn in red.
//
// # Usage
//
// Convert a graph to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: labels include the token type and value
//   - Highlight: a token name drawn with a highlighted fill
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be rendered with
// [RenderSVG] or saved and processed with external Graphviz tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
