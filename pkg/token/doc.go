// Package token defines the design-token data model.
//
// # Tokens
//
// A [Token] is a named design value (a color, a spacing step, a font family)
// with a free-form type label. Names are dot-delimited paths such as
// "color.primary.500" that mirror the token's position in its source file.
//
// A token's [Value] is either a literal (a string or a number) or a
// reference expression of the exact form "{other.token.name}". A value is a
// reference if and only if it is a string that starts with "{" and ends with
// "}"; the text between the braces is taken verbatim as another token's name.
// There is no path arithmetic and no escaping.
//
// Tokens are values. Editing never mutates a token in place: [Token.WithValue]
// returns a copy carrying the new value and the Overridden flag.
//
// # Documents
//
// Token files decode into an [Object], an insertion-ordered mapping. Key order
// matters: the flattener emits tokens in document order, and exported files
// keep the order they were loaded in.
//
// # Sets
//
// A [Set] groups tokens by category: brand, common, one category per named
// UI component, and custom (tokens the user added by hand). A Set is an
// immutable snapshot; override, reset and custom-token edits return a new Set
// and leave the receiver untouched, so a Set already handed to the resolver
// can never change underneath it.
//
// Names are expected to be unique within one flat sequence. When they are
// not, every lookup in this module uses last-write-wins: the token that
// appears later in [Set.All] shadows earlier ones.
package token
