// Package refgraph builds the reference graph of a token list: which token
// points at which.
//
// Every token is a node. A token whose value is "{other}" has one edge to
// other. Because a value holds at most one reference, every node has at most
// one outgoing edge and the graph is a forest of chains, possibly closed
// into loops.
//
// The graph answers the editor's dependency questions:
//
//   - [Graph.Dependencies] follows a token's chain to the literal it uses
//   - [Graph.Dependents] lists every token affected by a change to a token
//   - [Graph.Cycles] finds reference loops
//   - [Graph.Dangling] lists references to names that do not exist
//
// Names follow the same last-write-wins rule as package resolve: when a name
// occurs more than once only its last token contributes an edge.
package refgraph
