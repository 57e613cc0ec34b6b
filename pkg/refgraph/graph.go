package refgraph

import (
	"slices"

	"github.com/draad/tokeneditor/pkg/token"
)

// Node is one token in the graph.
type Node struct {
	Name  string
	Type  string
	Value token.Value
}

// Edge points from a token to the token its value references.
type Edge struct {
	From string
	To   string
}

// Graph is an immutable reference graph.
type Graph struct {
	nodes      []Node
	index      map[string]int
	refs       map[string]string
	dependents map[string][]string
	dangling   []Edge
}

// Build creates the reference graph of tokens. Nodes keep the position of
// the first occurrence of each name and the content of the last.
func Build(tokens []token.Token) *Graph {
	g := &Graph{
		index:      make(map[string]int),
		refs:       make(map[string]string),
		dependents: make(map[string][]string),
	}
	for _, t := range tokens {
		n := Node{Name: t.Name, Type: t.Type, Value: t.Value}
		if i, ok := g.index[t.Name]; ok {
			g.nodes[i] = n
			continue
		}
		g.index[t.Name] = len(g.nodes)
		g.nodes = append(g.nodes, n)
	}

	for _, n := range g.nodes {
		ref, ok := n.Value.Reference()
		if !ok {
			continue
		}
		if _, exists := g.index[ref]; !exists {
			g.dangling = append(g.dangling, Edge{From: n.Name, To: ref})
			continue
		}
		g.refs[n.Name] = ref
		g.dependents[ref] = append(g.dependents[ref], n.Name)
	}
	return g
}

// Nodes returns all nodes in first-seen order.
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// NodeCount returns the number of distinct token names.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Node returns the node for name.
func (g *Graph) Node(name string) (Node, bool) {
	i, ok := g.index[name]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Edges returns the resolvable references in node order. Dangling
// references are not edges; see [Graph.Dangling].
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, n := range g.nodes {
		if to, ok := g.refs[n.Name]; ok {
			edges = append(edges, Edge{From: n.Name, To: to})
		}
	}
	return edges
}

// EdgeCount returns the number of resolvable references.
func (g *Graph) EdgeCount() int { return len(g.refs) }

// Reference returns the token name directly referenced by name.
func (g *Graph) Reference(name string) (string, bool) {
	to, ok := g.refs[name]
	return to, ok
}

// Dependencies returns the chain of tokens name resolves through, nearest
// first. The walk stops at a literal, a dangling reference or the first
// repeated name.
func (g *Graph) Dependencies(name string) []string {
	var chain []string
	seen := map[string]bool{name: true}
	for cur := name; ; {
		next, ok := g.refs[cur]
		if !ok || seen[next] {
			return chain
		}
		seen[next] = true
		chain = append(chain, next)
		cur = next
	}
}

// DirectDependents returns the tokens whose value is "{name}", in node
// order.
func (g *Graph) DirectDependents(name string) []string {
	return slices.Clone(g.dependents[name])
}

// Dependents returns every token that resolves through name, breadth first.
// These are the tokens whose output changes when name is overridden.
func (g *Graph) Dependents(name string) []string {
	var out []string
	seen := map[string]bool{name: true}
	queue := []string{name}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range g.dependents[cur] {
			if seen[d] {
				continue
			}
			seen[d] = true
			out = append(out, d)
			queue = append(queue, d)
		}
	}
	return out
}

// Dangling returns references to names that are not in the graph, in node
// order.
func (g *Graph) Dangling() []Edge { return slices.Clone(g.dangling) }

// Roots returns the tokens that hold a literal or a dangling reference:
// the ends of every chain that is not a loop.
func (g *Graph) Roots() []string {
	var out []string
	for _, n := range g.nodes {
		if _, ok := g.refs[n.Name]; !ok {
			out = append(out, n.Name)
		}
	}
	return out
}

// Subgraph returns the graph restricted to name, its dependencies and its
// dependents.
func (g *Graph) Subgraph(name string) *Graph {
	keep := map[string]bool{name: true}
	for _, n := range g.Dependencies(name) {
		keep[n] = true
	}
	for _, n := range g.Dependents(name) {
		keep[n] = true
	}

	var tokens []token.Token
	for _, n := range g.nodes {
		if keep[n.Name] {
			tokens = append(tokens, token.Token{Name: n.Name, Type: n.Type, Value: n.Value})
		}
	}
	return Build(tokens)
}
