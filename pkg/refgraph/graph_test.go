package refgraph

import (
	"slices"
	"testing"

	"github.com/draad/tokeneditor/pkg/token"
)

func tokens(pairs ...string) []token.Token {
	var out []token.Token
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, token.Token{Name: pairs[i], Value: token.String(pairs[i+1]), Type: "t"})
	}
	return out
}

func TestBuild(t *testing.T) {
	g := Build(tokens(
		"a", "#fff",
		"b", "{a}",
		"c", "{b}",
		"d", "{missing}",
	))

	if g.NodeCount() != 4 {
		t.Errorf("NodeCount() = %d, want 4", g.NodeCount())
	}
	want := []Edge{{From: "b", To: "a"}, {From: "c", To: "b"}}
	if got := g.Edges(); !slices.Equal(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
	if got := g.Dangling(); !slices.Equal(got, []Edge{{From: "d", To: "missing"}}) {
		t.Errorf("Dangling() = %v", got)
	}
	if got := g.Roots(); !slices.Equal(got, []string{"a", "d"}) {
		t.Errorf("Roots() = %v", got)
	}
	if to, ok := g.Reference("c"); !ok || to != "b" {
		t.Errorf("Reference(c) = %q, %v", to, ok)
	}
}

func TestBuild_LastWins(t *testing.T) {
	g := Build(tokens(
		"x", "{a}",
		"a", "1",
		"b", "2",
		"x", "{b}",
	))
	if g.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", g.NodeCount())
	}
	if got := g.Edges(); !slices.Equal(got, []Edge{{From: "x", To: "b"}}) {
		t.Errorf("Edges() = %v", got)
	}
	if n, _ := g.Node("x"); n.Value.String() != "{b}" {
		t.Errorf("Node(x).Value = %v", n.Value)
	}
	if got := g.Nodes()[0].Name; got != "x" {
		t.Errorf("first node = %q, want x", got)
	}
}

func TestDependencies(t *testing.T) {
	g := Build(tokens(
		"a", "#fff",
		"b", "{a}",
		"c", "{b}",
		"x", "{y}",
		"y", "{x}",
	))
	tests := []struct {
		name string
		want []string
	}{
		{"a", nil},
		{"b", []string{"a"}},
		{"c", []string{"b", "a"}},
		{"x", []string{"y"}},
		{"unknown", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Dependencies(tt.name); !slices.Equal(got, tt.want) {
				t.Errorf("Dependencies(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestDependents(t *testing.T) {
	g := Build(tokens(
		"a", "#fff",
		"b", "{a}",
		"c", "{b}",
		"d", "{a}",
		"e", "{c}",
	))
	if got := g.Dependents("a"); !slices.Equal(got, []string{"b", "d", "c", "e"}) {
		t.Errorf("Dependents(a) = %v", got)
	}
	if got := g.DirectDependents("a"); !slices.Equal(got, []string{"b", "d"}) {
		t.Errorf("DirectDependents(a) = %v", got)
	}
	if got := g.Dependents("e"); got != nil {
		t.Errorf("Dependents(e) = %v, want none", got)
	}
}

func TestCycles(t *testing.T) {
	g := Build(tokens(
		"ok", "1",
		"b", "{c}",
		"entry", "{a}",
		"a", "{b}",
		"c", "{a}",
		"self", "{self}",
	))

	want := [][]string{{"b", "c", "a"}, {"self"}}
	got := g.Cycles()
	if len(got) != len(want) {
		t.Fatalf("Cycles() = %v, want %v", got, want)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("Cycles()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	for name, want := range map[string]bool{"a": true, "self": true, "entry": false, "ok": false} {
		if got := g.InCycle(name); got != want {
			t.Errorf("InCycle(%s) = %v, want %v", name, got, want)
		}
	}
}

func TestCycles_None(t *testing.T) {
	g := Build(tokens("a", "1", "b", "{a}"))
	if got := g.Cycles(); len(got) != 0 {
		t.Errorf("Cycles() = %v, want none", got)
	}
}

func TestSubgraph(t *testing.T) {
	g := Build(tokens(
		"a", "#fff",
		"b", "{a}",
		"c", "{b}",
		"other", "2",
	))
	sub := g.Subgraph("b")
	var names []string
	for _, n := range sub.Nodes() {
		names = append(names, n.Name)
	}
	if !slices.Equal(names, []string{"a", "b", "c"}) {
		t.Errorf("Subgraph(b) nodes = %v", names)
	}
	if sub.EdgeCount() != 2 {
		t.Errorf("Subgraph(b) EdgeCount() = %d, want 2", sub.EdgeCount())
	}
}
