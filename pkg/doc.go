// Package pkg provides the core libraries of tokeneditor, a design token
// editor.
//
// # Overview
//
// A project keeps its design tokens in several files: one for the brand, one
// shared by all components, one per component and a list of user-defined
// custom tokens. Token values may reference other tokens with "{name}"
// expressions. The libraries load those files into one ordered token list,
// apply the user's edits, resolve the references and write the result as
// CSS custom properties, JSON or a reference graph.
//
// # Architecture
//
// The data flow through tokeneditor:
//
//	brand.json, common.json, components/*.json|yaml, custom-tokens.json
//	         ↓
//	    [flatten] + [io] (nested documents → flat token lists)
//	         ↓
//	    [token] set (categories, overrides, custom tokens)
//	         ↓ [snapshot] applies the saved edits
//	    [resolve] ({reference} substitution with cycle protection)
//	         ↓
//	    [render/css], [nest], [render/nodelink]
//	         ↓
//	    CSS / JSON / DOT / SVG output
//
// [pipeline] runs these stages for the CLI and caches rendered output in
// [cache].
//
// # Quick Start
//
//	doc, _ := io.ReadJSON(file)
//	tokens := flatten.Flatten(doc)
//
//	resolved, report := resolve.ResolveWithReport(tokens)
//	if report.Len() > 0 {
//	    // dangling or cyclic references kept their raw value
//	}
//	sheet := css.Generate(resolved, css.RootSelector)
//
// # Main Packages
//
// ## Token Model
//
// [token] - Tokens, values and the immutable [token.Set] of categories with
// per-category overrides and custom tokens. Category order decides which
// definition of a repeated name wins: the last one.
//
// [flatten] - Walks a nested token document and emits one token per leaf
// that carries a "value" key, naming it by its dot-joined path.
//
// [resolve] - Replaces "{name}" references with the referenced value,
// following chains. A chain that loops or points at an unknown name stops
// and keeps the current value; both cases are reported.
//
// [refgraph] - The reference graph: dependencies, dependents, dangling
// references and reference loops.
//
// ## Editing
//
// [snapshot] - Versioned records of all overrides and custom tokens,
// stored as JSON files next to the project.
//
// [config] - The tokeneditor.toml project file.
//
// ## Input and Output
//
// [io] - Ordered JSON and YAML decoding, indented JSON encoding and the
// custom token file format.
//
// [nest] - Rebuilds a nested token document from a flat list.
//
// [bundle] - Zip archives holding every token file plus a manifest of
// content hashes.
//
// [render/css] - CSS custom properties under a selector.
//
// [render/nodelink] - The reference graph in Graphviz DOT and SVG.
//
// ## Infrastructure
//
// [pipeline] - Load, apply, resolve and render in one call, with render
// caching. Used by every CLI command.
//
// [cache] - TTL cache for rendered artifacts (file and no-op backends).
//
// [observability] - Hooks for tracing pipeline and snapshot events.
//
// [errors] - Error codes and input validation.
//
// [token]: https://pkg.go.dev/github.com/draad/tokeneditor/pkg/token
// [token.Set]: https://pkg.go.dev/github.com/draad/tokeneditor/pkg/token#Set
// [flatten]: https://pkg.go.dev/github.com/draad/tokeneditor/pkg/flatten
// [resolve]: https://pkg.go.dev/github.com/draad/tokeneditor/pkg/resolve
// [refgraph]: https://pkg.go.dev/github.com/draad/tokeneditor/pkg/refgraph
// [snapshot]: https://pkg.go.dev/github.com/draad/tokeneditor/pkg/snapshot
// [config]: https://pkg.go.dev/github.com/draad/tokeneditor/pkg/config
// [io]: https://pkg.go.dev/github.com/draad/tokeneditor/pkg/io
// [nest]: https://pkg.go.dev/github.com/draad/tokeneditor/pkg/nest
// [bundle]: https://pkg.go.dev/github.com/draad/tokeneditor/pkg/bundle
// [render/css]: https://pkg.go.dev/github.com/draad/tokeneditor/pkg/render/css
// [render/nodelink]: https://pkg.go.dev/github.com/draad/tokeneditor/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/draad/tokeneditor/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/draad/tokeneditor/pkg/cache
// [observability]: https://pkg.go.dev/github.com/draad/tokeneditor/pkg/observability
// [errors]: https://pkg.go.dev/github.com/draad/tokeneditor/pkg/errors
package pkg
