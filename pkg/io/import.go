package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/draad/tokeneditor/pkg/token"
)

// ReadJSON decodes a JSON token document from r, keeping key order.
//
// Duplicate keys keep their first position and take the last value. Empty
// input returns an empty document. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*token.Object, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	first, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return token.NewObject(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if d, ok := first.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("decode: token document must be a JSON object")
	}

	doc, err := decodeObject(dec)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode: unexpected data after document")
	}
	return doc, nil
}

// decodeObject reads members up to and including the closing brace. The
// opening brace has already been consumed.
func decodeObject(dec *json.Decoder) (*token.Object, error) {
	obj := token.NewObject()
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := kt.(string)
		if !ok {
			return nil, fmt.Errorf("object key is %T, want string", kt)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		obj.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	arr := []any{}
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	t, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch d := t.(type) {
	case json.Delim:
		switch d {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", d)
	default:
		return t, nil
	}
}

// ImportFile reads a token document from path. Files ending in .yaml or .yml
// are decoded as YAML, everything else as JSON.
//
// A missing file yields an error matching fs.ErrNotExist, which callers that
// treat absent categories as empty can test for.
func ImportFile(path string) (*token.Object, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var doc *token.Object
	if IsYAML(path) {
		doc, err = ReadYAML(f)
	} else {
		doc, err = ReadJSON(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// IsYAML reports whether path has a YAML file extension.
func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// ReadCustom decodes a custom token list: a JSON array of token records.
// Records without a name are rejected.
func ReadCustom(r io.Reader) ([]token.Token, error) {
	var tokens []token.Token
	dec := json.NewDecoder(r)
	if err := dec.Decode(&tokens); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	for i, t := range tokens {
		if t.Name == "" {
			return nil, fmt.Errorf("custom token %d: missing name", i)
		}
		if t.Value.IsZero() {
			return nil, fmt.Errorf("custom token %s: missing value", t.Name)
		}
		tokens[i].Overridden = false
	}
	return tokens, nil
}

// ImportCustom reads a custom token list from path. A missing file yields an
// error matching fs.ErrNotExist.
func ImportCustom(path string) ([]token.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	tokens, err := ReadCustom(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tokens, nil
}
