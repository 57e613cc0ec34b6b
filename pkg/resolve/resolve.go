package resolve

import "github.com/draad/tokeneditor/pkg/token"

// Issue describes a reference that could not be resolved to a literal.
type Issue struct {
	// Name is the token whose value was being resolved.
	Name string `json:"name"`
	// Reference is the name inside the braces where resolution stopped.
	Reference string `json:"reference"`
}

// Report lists the references that were left unresolved, in input order.
type Report struct {
	Dangling []Issue `json:"dangling,omitempty"`
	Cyclic   []Issue `json:"cyclic,omitempty"`
}

// Len returns the total number of issues.
func (r Report) Len() int { return len(r.Dangling) + len(r.Cyclic) }

// OK reports whether every reference resolved to a literal.
func (r Report) OK() bool { return r.Len() == 0 }

type outcome uint8

const (
	literal outcome = iota
	dangling
	cyclic
)

// Resolve returns a copy of tokens in which every reference is replaced by
// the literal it ultimately points at. Input order and all other fields are
// kept. tokens is not modified.
func Resolve(tokens []token.Token) []token.Token {
	out, _ := ResolveWithReport(tokens)
	return out
}

// ResolveWithReport is [Resolve] plus a report of the references that
// degraded to their reference text.
func ResolveWithReport(tokens []token.Token) ([]token.Token, Report) {
	idx := token.Index(tokens)
	out := make([]token.Token, len(tokens))
	var rep Report

	for i, t := range tokens {
		v, res, ref := resolveValue(t, idx)
		t.Value = v
		out[i] = t
		switch res {
		case dangling:
			rep.Dangling = append(rep.Dangling, Issue{Name: t.Name, Reference: ref})
		case cyclic:
			rep.Cyclic = append(rep.Cyclic, Issue{Name: t.Name, Reference: ref})
		}
	}
	return out, rep
}

// Value resolves a single value against tokens without resolving the rest
// of the input.
func Value(v token.Value, tokens []token.Token) token.Value {
	out, _, _ := resolveValue(token.Token{Value: v}, token.Index(tokens))
	return out
}

// resolveValue follows t's reference chain. The visited set is private to
// this chain. When the next reference has already been visited, the value of
// the token holding it is returned unchanged.
func resolveValue(t token.Token, idx map[string]token.Token) (token.Value, outcome, string) {
	var seen map[string]struct{}
	cur := t
	for {
		ref, ok := cur.Value.Reference()
		if !ok {
			return cur.Value, literal, ""
		}
		if _, ok := seen[ref]; ok {
			return cur.Value, cyclic, ref
		}
		dep, ok := idx[ref]
		if !ok {
			return cur.Value, dangling, ref
		}
		if seen == nil {
			seen = make(map[string]struct{})
		}
		seen[ref] = struct{}{}
		cur = dep
	}
}
