// Package nest rebuilds a nested token document from flat tokens, the
// inverse of package flatten.
//
// Each token name is split on "." and the segments become object keys. The
// leaf holds the token's value and type, plus its description when set:
//
//	color.primary = #ff0000 (color)
//
// becomes
//
//	{"color": {"primary": {"value": "#ff0000", "type": "color"}}}
//
// A name that is both a leaf and a prefix of another name ("a" and "a.b")
// cannot be represented and is reported as an error. Repeated names keep
// their first position and take the last value.
package nest

import (
	"strings"

	apperrors "github.com/draad/tokeneditor/pkg/errors"
	"github.com/draad/tokeneditor/pkg/flatten"
	"github.com/draad/tokeneditor/pkg/token"
)

// Nest returns the nested document for tokens.
func Nest(tokens []token.Token) (*token.Object, error) {
	root := token.NewObject()
	leaves := make(map[*token.Object]string)

	for _, t := range tokens {
		if err := apperrors.ValidateTokenName(t.Name); err != nil {
			return nil, err
		}
		if t.Value.IsZero() {
			return nil, apperrors.New(apperrors.ErrCodeInvalidToken, "token %q has no value", t.Name)
		}

		parts := strings.Split(t.Name, ".")
		parent := root
		for i, key := range parts[:len(parts)-1] {
			child, ok := parent.Object(key)
			if !ok {
				if parent.Has(key) {
					return nil, conflict(t.Name, strings.Join(parts[:i+1], "."))
				}
				child = token.NewObject()
				parent.Set(key, child)
			}
			if owner, isLeaf := leaves[child]; isLeaf {
				return nil, conflict(t.Name, owner)
			}
			parent = child
		}

		last := parts[len(parts)-1]
		if existing, ok := parent.Object(last); ok {
			if _, isLeaf := leaves[existing]; !isLeaf {
				return nil, conflict(t.Name, t.Name)
			}
			delete(leaves, existing)
		}
		leaf := Leaf(t)
		parent.Set(last, leaf)
		leaves[leaf] = t.Name
	}
	return root, nil
}

// Leaf builds the document node for a single token.
func Leaf(t token.Token) *token.Object {
	leaf := token.NewObject()
	leaf.Set(flatten.KeyValue, t.Value.Interface())
	leaf.Set(flatten.KeyType, t.Type)
	if t.Description != "" {
		leaf.Set(flatten.KeyDescription, t.Description)
	}
	return leaf
}

func conflict(name, other string) error {
	if name == other {
		return apperrors.New(apperrors.ErrCodeInvalidToken, "token %q collides with a group of the same name", name)
	}
	return apperrors.New(apperrors.ErrCodeInvalidToken, "token %q is nested under token %q", name, other)
}
