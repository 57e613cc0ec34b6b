// Package io reads and writes token documents.
//
// # Import
//
// Token files are JSON objects whose nesting encodes token names:
//
//	{
//	  "color": {
//	    "primary": {"value": "#ff0000", "type": "color"},
//	    "accent":  {"value": "{color.primary}", "type": "color"}
//	  }
//	}
//
// [ReadJSON] decodes such a document into a [token.Object], keeping keys in
// file order. The standard library map decoding loses that order, and token
// order is visible in every output (CSS declarations, lists, exports), so the
// decoder walks the token stream itself. Numbers are kept as json.Number to
// preserve their literal text.
//
// [ReadYAML] accepts the same structure written as YAML. [ImportFile] picks
// the decoder from the file extension.
//
// An empty input decodes to an empty document. Any top-level value other
// than an object is an error.
//
// # Export
//
// [WriteJSON] writes any value as indented JSON without HTML escaping, so
// values like "a > b" stay readable. [ExportFile] is the file-based wrapper.
//
// # Custom Tokens
//
// User-added tokens are stored as a JSON array of {"name", "value", "type"}
// records, read with [ReadCustom] and written with [WriteCustom].
//
// [token.Object]: github.com/draad/tokeneditor/pkg/token.Object
package io
