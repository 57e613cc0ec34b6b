// Package css renders resolved tokens as CSS custom properties.
//
// Every token becomes one declaration inside a single rule:
//
//	.openstad, [data-apos-level] {
//	  --color-primary: #ff0000;
//	  --spacing-base: 8;
//	}
//
// Property names are the token name with dots and whitespace replaced by
// hyphens. Values are written as-is: strings without quotes, numbers with
// their source text. Tokens are expected to be resolved first; a reference
// left in place is written verbatim.
package css

import (
	"strings"
	"unicode"

	"github.com/draad/tokeneditor/pkg/token"
)

// DefaultSelector scopes the properties to the editor's host page.
const DefaultSelector = ".openstad, [data-apos-level]"

// RootSelector is used when no selector is given.
const RootSelector = ":root"

// Generate returns a CSS rule declaring one custom property per token, in
// token order. An empty selector renders as [RootSelector].
func Generate(tokens []token.Token, selector string) string {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		selector = RootSelector
	}

	var b strings.Builder
	b.WriteString(selector)
	b.WriteString(" {\n")
	for _, t := range tokens {
		b.WriteString("  ")
		b.WriteString(PropertyName(t.Name))
		b.WriteString(": ")
		b.WriteString(t.Value.String())
		b.WriteString(";\n")
	}
	b.WriteString("}\n")
	return b.String()
}

// PropertyName returns the custom property name for a token name.
func PropertyName(name string) string {
	return "--" + strings.Map(func(r rune) rune {
		if r == '.' || unicode.IsSpace(r) {
			return '-'
		}
		return r
	}, name)
}

// Var returns a var() expression for the token name, for use in other
// stylesheets.
func Var(name string) string {
	return "var(" + PropertyName(name) + ")"
}
