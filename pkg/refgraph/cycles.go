package refgraph

import "slices"

// Cycles returns every reference loop. Each loop is listed once, starting at
// the member that comes first in node order, and loops are ordered by that
// member.
func (g *Graph) Cycles() [][]string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	var cycles [][]string

	var dfs func(node string, path []string)
	dfs = func(node string, path []string) {
		color[node] = gray
		path = append(path, node)
		if next, ok := g.refs[node]; ok {
			switch color[next] {
			case white:
				dfs(next, path)
			case gray:
				start := slices.Index(path, next)
				cycles = append(cycles, g.rotate(slices.Clone(path[start:])))
			}
		}
		color[node] = black
	}

	for _, n := range g.nodes {
		if color[n.Name] == white {
			dfs(n.Name, nil)
		}
	}

	slices.SortFunc(cycles, func(a, b []string) int {
		return g.index[a[0]] - g.index[b[0]]
	})
	return cycles
}

// InCycle reports whether name is part of a reference loop.
func (g *Graph) InCycle(name string) bool {
	seen := map[string]bool{}
	for cur := name; ; {
		next, ok := g.refs[cur]
		if !ok {
			return false
		}
		if next == name {
			return true
		}
		if seen[next] {
			return false
		}
		seen[next] = true
		cur = next
	}
}

// rotate moves the member with the lowest node index to the front.
func (g *Graph) rotate(cycle []string) []string {
	first := 0
	for i, n := range cycle {
		if g.index[n] < g.index[cycle[first]] {
			first = i
		}
	}
	return slices.Concat(cycle[first:], cycle[:first])
}
