// Package render groups the output renderers for resolved tokens.
//
// # Overview
//
// The subpackages turn tokens into files a consumer can use:
//
//   - [css]: a stylesheet of CSS custom properties
//   - [nodelink]: the reference graph as Graphviz DOT or SVG
//
// Nested JSON output is produced by package nest and written with package
// io; it needs no renderer of its own.
//
//	resolved := resolve.Resolve(set.All())
//	sheet := css.Generate(resolved, css.DefaultSelector)
//
//	dot := nodelink.ToDOT(refgraph.Build(set.All()), nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [css]: github.com/draad/tokeneditor/pkg/render/css
// [nodelink]: github.com/draad/tokeneditor/pkg/render/nodelink
package render
