package pipeline

import (
	"bytes"
	"context"

	apperrors "github.com/draad/tokeneditor/pkg/errors"
	tokenio "github.com/draad/tokeneditor/pkg/io"
	"github.com/draad/tokeneditor/pkg/nest"
	"github.com/draad/tokeneditor/pkg/refgraph"
	"github.com/draad/tokeneditor/pkg/render/css"
	"github.com/draad/tokeneditor/pkg/render/nodelink"
)

// RenderFormat renders resolved in a single format without caching.
//
//   - css: custom properties of the resolved values under opts.Selector
//   - json: resolved tokens nested back into a token document
//   - flat: resolved tokens as a JSON array of records
//   - dot, svg: the reference graph of the unresolved tokens
func RenderFormat(ctx context.Context, resolved Resolved, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatCSS:
		return []byte(css.Generate(resolved.Tokens, opts.Selector)), nil
	case FormatJSON:
		doc, err := nest.Nest(resolved.Tokens)
		if err != nil {
			return nil, err
		}
		return encodeJSON(doc)
	case FormatFlat:
		return encodeJSON(resolved.Tokens)
	case FormatDOT:
		dot, err := toDOT(resolved, opts)
		if err != nil {
			return nil, err
		}
		return []byte(dot), nil
	case FormatSVG:
		dot, err := toDOT(resolved, opts)
		if err != nil {
			return nil, err
		}
		return nodelink.RenderSVG(ctx, dot)
	default:
		return nil, ValidateFormat(format)
	}
}

// Graph builds the reference graph of resolved, restricted to opts.Focus when set.
func Graph(resolved Resolved, opts Options) (*refgraph.Graph, error) {
	g := refgraph.Build(resolved.Source)
	if opts.Focus == "" {
		return g, nil
	}
	if _, ok := g.Node(opts.Focus); !ok {
		return nil, apperrors.New(apperrors.ErrCodeTokenNotFound, "token %q not found", opts.Focus)
	}
	return g.Subgraph(opts.Focus), nil
}

func toDOT(resolved Resolved, opts Options) (string, error) {
	g, err := Graph(resolved, opts)
	if err != nil {
		return "", err
	}
	return nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed, Highlight: opts.Focus}), nil
}

func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tokenio.WriteJSON(v, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
