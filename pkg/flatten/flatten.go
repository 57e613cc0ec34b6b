package flatten

import (
	"encoding/json"
	"strconv"

	"github.com/draad/tokeneditor/pkg/token"
)

// Leaf keys recognised in a token document.
const (
	KeyValue       = "value"
	KeyType        = "type"
	KeyDependsOn   = "dependsOn"
	KeyDescription = "description"
)

// VisitFunc is called by [Walk] for every node that has the shape of a leaf.
// ok is false when the node holds a value that is not a string or a number;
// tok then carries only the name and type.
type VisitFunc func(tok token.Token, ok bool)

// Flatten returns one token per leaf of doc, in document order.
func Flatten(doc *token.Object) []token.Token {
	var out []token.Token
	Walk(doc, func(tok token.Token, ok bool) {
		if ok {
			out = append(out, tok)
		}
	})
	return out
}

// Skipped returns the names of nodes that look like leaves but hold a value
// that is not a string or a number.
func Skipped(doc *token.Object) []string {
	var out []string
	Walk(doc, func(tok token.Token, ok bool) {
		if !ok {
			out = append(out, tok.Name)
		}
	})
	return out
}

// Walk visits every leaf-shaped node of doc depth-first in document order.
// Nodes reported with ok == false are not descended into. Array elements
// are visited like object members, named by their index: the first element
// of "shadow" is "shadow.0".
func Walk(doc *token.Object, fn VisitFunc) {
	for key, child := range doc.All() {
		visit(child, key, fn)
	}
}

func visit(child any, name string, fn VisitFunc) {
	switch node := child.(type) {
	case *token.Object:
		if IsLeaf(node) {
			tok, ok := leaf(name, node)
			fn(tok, ok)
			return
		}
		for key, c := range node.All() {
			visit(c, name+"."+key, fn)
		}
	case []any:
		for i, c := range node {
			visit(c, name+"."+strconv.Itoa(i), fn)
		}
	}
}

// IsLeaf reports whether node has both a value and a type key.
func IsLeaf(node *token.Object) bool {
	return node.Has(KeyValue) && node.Has(KeyType)
}

func leaf(name string, node *token.Object) (token.Token, bool) {
	raw, _ := node.Get(KeyValue)
	typ, _ := node.Get(KeyType)
	tok := token.Token{Name: name, Type: scalarString(typ)}

	v, ok := token.ValueOf(raw)
	if !ok {
		return tok, false
	}
	tok.Value = v
	if s, ok := stringMember(node, KeyDependsOn); ok {
		tok.DependsOn = s
	}
	if s, ok := stringMember(node, KeyDescription); ok {
		tok.Description = s
	}
	return tok, true
}

func stringMember(node *token.Object, key string) (string, bool) {
	v, ok := node.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// scalarString renders a type label. Labels are normally strings; numbers and
// booleans are converted, anything else becomes empty.
func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	}
	return ""
}
