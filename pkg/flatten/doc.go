// Package flatten turns a nested token document into a flat, ordered list of
// tokens.
//
// # Leaves
//
// A node is a token leaf when it is an object holding both a "value" and a
// "type" key and its value is a string or a number:
//
//	{"color": {"primary": {"value": "#ff0000", "type": "color"}}}
//
// flattens to one token named "color.primary". Names are the object keys on
// the path to the leaf joined with ".".
//
// Keys are visited in document order, so the output order matches the file.
//
// # Skipped Nodes
//
// A node with "value" and "type" whose value is an object, an array, a
// boolean or null is not a token. It is dropped and its children are not
// visited. [Skipped] lists these nodes so callers can warn about them;
// [Flatten] itself never fails.
//
// # Arrays
//
// An array at grouping level is walked like an object whose keys are the
// element indexes, so a leaf in the first element of "shadow" is named
// "shadow.0". Strings, numbers and booleans at grouping level are ignored.
package flatten
