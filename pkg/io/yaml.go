package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/draad/tokeneditor/pkg/token"
)

// ReadYAML decodes a YAML token document from r, keeping key order.
//
// Scalars are mapped the way the JSON decoder maps them: integers and floats
// become json.Number, booleans bool, null nil and everything else string.
// Special floats such as .inf have no JSON form and are kept as strings.
func ReadYAML(r io.Reader) (*token.Object, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return token.NewObject(), nil
		}
		return nil, fmt.Errorf("decode: %w", err)
	}

	node := &root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return token.NewObject(), nil
		}
		node = node.Content[0]
	}
	v, err := convertYAML(node)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	obj, ok := v.(*token.Object)
	if !ok {
		if v == nil {
			return token.NewObject(), nil
		}
		return nil, fmt.Errorf("decode: token document must be a mapping")
	}
	return obj, nil
}

func convertYAML(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return convertYAML(n.Alias)
	case yaml.MappingNode:
		obj := token.NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key must be a scalar", k.Line)
			}
			val, err := convertYAML(v)
			if err != nil {
				return nil, err
			}
			obj.Set(k.Value, val)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			val, err := convertYAML(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		return arr, nil
	case yaml.ScalarNode:
		return convertScalar(n), nil
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
}

func convertScalar(n *yaml.Node) any {
	switch n.ShortTag() {
	case "!!null":
		return nil
	case "!!bool":
		if b, err := strconv.ParseBool(n.Value); err == nil {
			return b
		}
		var b bool
		if err := n.Decode(&b); err == nil {
			return b
		}
	case "!!int", "!!float":
		if json.Valid([]byte(n.Value)) {
			return json.Number(n.Value)
		}
		var f float64
		if err := n.Decode(&f); err == nil {
			if v, ok := token.ValueOf(f); ok && !isSpecial(n.Value) {
				return json.Number(v.String())
			}
		}
	}
	return n.Value
}

func isSpecial(s string) bool {
	switch s {
	case ".inf", ".Inf", ".INF", "+.inf", "+.Inf", "+.INF",
		"-.inf", "-.Inf", "-.INF", ".nan", ".NaN", ".NAN":
		return true
	}
	return false
}
