package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/draad/tokeneditor/pkg/token"
)

// WriteJSON encodes v as indented JSON and writes it to w. A [token.Object]
// keeps its key order. HTML characters are not escaped.
func WriteJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportFile writes v as JSON to path, creating parent directories.
func ExportFile(v any, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(v, f)
}

// WriteCustom writes custom tokens as a JSON array. A nil slice is written as
// an empty array.
func WriteCustom(tokens []token.Token, w io.Writer) error {
	if tokens == nil {
		tokens = []token.Token{}
	}
	out := make([]token.Token, len(tokens))
	for i, t := range tokens {
		t.Overridden = false
		out[i] = t
	}
	return WriteJSON(out, w)
}
