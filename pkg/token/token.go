package token

// Token is one design token: a named value with a type label.
//
// The zero value is not a valid token; Name and Value must be set.
type Token struct {
	// Name is the dot-delimited path of the token (e.g. "color.primary.500").
	Name string `json:"name"`
	// Value is a literal or a reference expression.
	Value Value `json:"value"`
	// Type is a free-form category label ("color", "spacing", ...). It is
	// used for grouping and display only.
	Type string `json:"type"`
	// DependsOn is carried through from the source file for display. The
	// resolver ignores it.
	DependsOn string `json:"dependsOn,omitempty"`
	// Description is carried through from the source file and written back
	// on export.
	Description string `json:"description,omitempty"`
	// Overridden is set by the editing layer when a user-supplied value
	// replaced the loaded one.
	Overridden bool `json:"overridden,omitempty"`
}

// WithValue returns a copy of t carrying v and marked as overridden.
func (t Token) WithValue(v Value) Token {
	t.Value = v
	t.Overridden = true
	return t
}

// IsReference reports whether the token's value is a reference expression.
func (t Token) IsReference() bool { return t.Value.IsReference() }

// Clone returns a copy of tokens. A nil input returns nil.
func Clone(tokens []Token) []Token {
	if tokens == nil {
		return nil
	}
	out := make([]Token, len(tokens))
	copy(out, tokens)
	return out
}

// Index builds a name lookup over tokens. Later tokens win when names
// collide.
func Index(tokens []Token) map[string]Token {
	idx := make(map[string]Token, len(tokens))
	for _, t := range tokens {
		idx[t.Name] = t
	}
	return idx
}

// GroupByType groups tokens by their Type, keeping the first-seen order of
// types and the input order within each group. Tokens without a type are
// grouped under [UntypedGroup].
func GroupByType(tokens []Token) ([]string, map[string][]Token) {
	var order []string
	groups := make(map[string][]Token)
	for _, t := range tokens {
		typ := t.Type
		if typ == "" {
			typ = UntypedGroup
		}
		if _, ok := groups[typ]; !ok {
			order = append(order, typ)
		}
		groups[typ] = append(groups[typ], t)
	}
	return order, groups
}

// UntypedGroup is the group name used by [GroupByType] for tokens without a
// type.
const UntypedGroup = "other"
