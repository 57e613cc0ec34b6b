// Package resolve substitutes token references with the values they point
// at.
//
// A reference is a string value of the form "{name}". The text between the
// braces is used verbatim as a lookup key over the whole input; there is no
// relative path handling and no escaping.
//
// # Chains
//
// References are followed until a literal is reached:
//
//	a = "#fff"
//	b = "{a}"
//	c = "{b}"   resolves to "#fff"
//
// # Degradation
//
// Resolution never fails. A reference to a name that is not in the input
// (dangling) keeps its reference text. When a chain reaches a name it has
// already passed through, the walk stops and the token holding the repeated
// reference contributes its own unresolved text. For a = "{b}", b = "{a}" the
// result is a = "{b}" and b = "{a}".
//
// [ResolveWithReport] returns the same values plus a [Report] listing the
// dangling and cyclic references, for callers that want to warn about them.
//
// # Duplicates
//
// When several tokens share a name the last one is the lookup target. All of
// them are still resolved and returned in place.
package resolve
