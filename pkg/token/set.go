package token

import (
	"maps"
	"slices"

	apperrors "github.com/draad/tokeneditor/pkg/errors"
)

// Fixed category names. Every other category name denotes a UI component.
const (
	Brand  = "brand"
	Common = "common"
	Custom = "custom"
)

// Category is a named token sequence.
type Category struct {
	Name   string
	Tokens []Token
}

// Overrides maps category name to token name to the user-supplied value.
type Overrides map[string]map[string]Value

// Clone returns a deep copy of o.
func (o Overrides) Clone() Overrides {
	out := make(Overrides, len(o))
	for cat, vals := range o {
		out[cat] = maps.Clone(vals)
	}
	return out
}

// Len returns the total number of overridden tokens.
func (o Overrides) Len() int {
	n := 0
	for _, vals := range o {
		n += len(vals)
	}
	return n
}

// Set is an immutable snapshot of categorized tokens plus the user's edits.
//
// Base tokens are kept as loaded; overrides are stored separately and
// applied on read, which lets [Set.Reset] restore the loaded value. All
// editing methods return a new Set.
type Set struct {
	brand      []Token
	common     []Token
	components []Category
	custom     []Token
	loaded     []Token
	overrides  Overrides
}

// NewSet builds a Set from loaded categories. Input slices are copied.
func NewSet(brand, common []Token, components []Category, custom []Token) Set {
	comps := make([]Category, len(components))
	for i, c := range components {
		comps[i] = Category{Name: c.Name, Tokens: Clone(c.Tokens)}
	}
	return Set{
		brand:      Clone(brand),
		common:     Clone(common),
		components: comps,
		custom:     Clone(custom),
		loaded:     Clone(custom),
		overrides:  Overrides{},
	}
}

// Brand returns the brand tokens with overrides applied.
func (s Set) Brand() []Token { return s.apply(Brand, s.brand) }

// Common returns the common tokens with overrides applied.
func (s Set) Common() []Token { return s.apply(Common, s.common) }

// Custom returns the user-added tokens.
func (s Set) Custom() []Token { return Clone(s.custom) }

// Components returns the component categories, in load order, with overrides
// applied.
func (s Set) Components() []Category {
	out := make([]Category, len(s.components))
	for i, c := range s.components {
		out[i] = Category{Name: c.Name, Tokens: s.apply(c.Name, c.Tokens)}
	}
	return out
}

// ComponentNames returns the component category names in load order.
func (s Set) ComponentNames() []string {
	names := make([]string, len(s.components))
	for i, c := range s.components {
		names[i] = c.Name
	}
	return names
}

// Categories returns every category in resolution order: brand, common,
// components, custom.
func (s Set) Categories() []Category {
	out := make([]Category, 0, len(s.components)+3)
	out = append(out, Category{Name: Brand, Tokens: s.Brand()})
	out = append(out, Category{Name: Common, Tokens: s.Common()})
	out = append(out, s.Components()...)
	out = append(out, Category{Name: Custom, Tokens: s.Custom()})
	return out
}

// Category returns the tokens of one category with overrides applied.
func (s Set) Category(name string) ([]Token, bool) {
	switch name {
	case Brand:
		return s.Brand(), true
	case Common:
		return s.Common(), true
	case Custom:
		return s.Custom(), true
	}
	if i := s.componentIndex(name); i >= 0 {
		return s.apply(name, s.components[i].Tokens), true
	}
	return nil, false
}

// All concatenates every category in resolution order. This is the flat
// sequence handed to the resolver; because custom tokens come last they win
// name collisions.
func (s Set) All() []Token {
	var out []Token
	for _, c := range s.Categories() {
		out = append(out, c.Tokens...)
	}
	return out
}

// Len returns the total number of tokens across all categories.
func (s Set) Len() int {
	n := len(s.brand) + len(s.common) + len(s.custom)
	for _, c := range s.components {
		n += len(c.Tokens)
	}
	return n
}

// Lookup finds a token by name within one category. Later tokens win when a
// category holds the same name twice.
func (s Set) Lookup(category, name string) (Token, bool) {
	tokens, ok := s.Category(category)
	if !ok {
		return Token{}, false
	}
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].Name == name {
			return tokens[i], true
		}
	}
	return Token{}, false
}

// Overrides returns a copy of the user's overrides.
func (s Set) Overrides() Overrides { return s.overrides.Clone() }

// Override returns a new Set in which the token name in category carries v.
// Custom tokens are edited with [Set.SetCustom] instead.
func (s Set) Override(category, name string, v Value) (Set, error) {
	if category == Custom {
		return s, apperrors.New(apperrors.ErrCodeInvalidCategory, "custom tokens are edited directly, not overridden")
	}
	if v.IsZero() {
		return s, apperrors.New(apperrors.ErrCodeInvalidToken, "override value for %q is empty", name)
	}
	base, ok := s.base(category)
	if !ok {
		return s, apperrors.New(apperrors.ErrCodeCategoryNotFound, "category %q not found", category)
	}
	if !containsName(base, name) {
		return s, apperrors.New(apperrors.ErrCodeTokenNotFound, "token %q not found in %s", name, category)
	}

	next := s.clone()
	if next.overrides[category] == nil {
		next.overrides[category] = make(map[string]Value)
	}
	next.overrides[category][name] = v
	return next, nil
}

// Reset returns a new Set in which the override for name in category is
// removed, restoring the loaded value. Resetting a token that is not
// overridden is not an error.
func (s Set) Reset(category, name string) (Set, error) {
	base, ok := s.base(category)
	if !ok {
		return s, apperrors.New(apperrors.ErrCodeCategoryNotFound, "category %q not found", category)
	}
	if !containsName(base, name) {
		return s, apperrors.New(apperrors.ErrCodeTokenNotFound, "token %q not found in %s", name, category)
	}
	if _, ok := s.overrides[category][name]; !ok {
		return s, nil
	}

	next := s.clone()
	delete(next.overrides[category], name)
	if len(next.overrides[category]) == 0 {
		delete(next.overrides, category)
	}
	return next, nil
}

// WithOverrides returns a new Set carrying o in place of the current
// overrides. Entries that match no loaded token are kept and reported by
// [Set.StaleOverrides]; they have no effect on the tokens.
func (s Set) WithOverrides(o Overrides) Set {
	next := s.clone()
	next.overrides = o.Clone()
	return next
}

// StaleOverrides lists overrides, as "category/name", that match no loaded
// token. This happens when a source file changed after the override was
// recorded.
func (s Set) StaleOverrides() []string {
	var stale []string
	for _, cat := range slices.Sorted(maps.Keys(s.overrides)) {
		base, ok := s.base(cat)
		for _, name := range slices.Sorted(maps.Keys(s.overrides[cat])) {
			if !ok || !containsName(base, name) {
				stale = append(stale, cat+"/"+name)
			}
		}
	}
	return stale
}

// AddCustom returns a new Set with t appended to the custom tokens. Both a
// name and a value are required, and the name must not already be used by
// another custom token.
func (s Set) AddCustom(t Token) (Set, error) {
	if err := apperrors.ValidateTokenName(t.Name); err != nil {
		return s, err
	}
	if t.Value.IsZero() || t.Value.String() == "" {
		return s, apperrors.New(apperrors.ErrCodeInvalidToken, "custom token %q needs a value", t.Name)
	}
	if containsName(s.custom, t.Name) {
		return s, apperrors.New(apperrors.ErrCodeInvalidToken, "custom token %q already exists", t.Name)
	}
	t.Overridden = false
	next := s.clone()
	next.custom = append(next.custom, t)
	return next, nil
}

// SetCustom returns a new Set in which the custom token name carries v.
func (s Set) SetCustom(name string, v Value) (Set, error) {
	i := slices.IndexFunc(s.custom, func(t Token) bool { return t.Name == name })
	if i < 0 {
		return s, apperrors.New(apperrors.ErrCodeTokenNotFound, "custom token %q not found", name)
	}
	if v.IsZero() {
		return s, apperrors.New(apperrors.ErrCodeInvalidToken, "custom token %q needs a value", name)
	}
	next := s.clone()
	next.custom[i].Value = v
	return next, nil
}

// RemoveCustom returns a new Set without the custom token name.
func (s Set) RemoveCustom(name string) (Set, error) {
	if !containsName(s.custom, name) {
		return s, apperrors.New(apperrors.ErrCodeTokenNotFound, "custom token %q not found", name)
	}
	next := s.clone()
	next.custom = slices.DeleteFunc(next.custom, func(t Token) bool { return t.Name == name })
	return next, nil
}

// LoadedCustom returns the custom tokens the Set was built with. Custom
// token edits do not change it.
func (s Set) LoadedCustom() []Token { return Clone(s.loaded) }

// WithCustom returns a new Set whose custom tokens are replaced by tokens.
func (s Set) WithCustom(tokens []Token) Set {
	next := s.clone()
	next.custom = Clone(tokens)
	return next
}

// base returns the loaded (override-free) tokens of a category.
func (s Set) base(category string) ([]Token, bool) {
	switch category {
	case Brand:
		return s.brand, true
	case Common:
		return s.common, true
	case Custom:
		return s.custom, true
	}
	if i := s.componentIndex(category); i >= 0 {
		return s.components[i].Tokens, true
	}
	return nil, false
}

func (s Set) componentIndex(name string) int {
	return slices.IndexFunc(s.components, func(c Category) bool { return c.Name == name })
}

// apply returns a copy of tokens with the category's overrides applied.
func (s Set) apply(category string, tokens []Token) []Token {
	out := Clone(tokens)
	vals := s.overrides[category]
	if len(vals) == 0 {
		return out
	}
	for i, t := range out {
		if v, ok := vals[t.Name]; ok {
			out[i] = t.WithValue(v)
		}
	}
	return out
}

// clone copies the slices and maps an edit may touch. Token slices of
// untouched categories are shared; they are never written through.
func (s Set) clone() Set {
	return Set{
		brand:      s.brand,
		common:     s.common,
		components: s.components,
		custom:     Clone(s.custom),
		loaded:     s.loaded,
		overrides:  s.overrides.Clone(),
	}
}

func containsName(tokens []Token, name string) bool {
	return slices.ContainsFunc(tokens, func(t Token) bool { return t.Name == name })
}
