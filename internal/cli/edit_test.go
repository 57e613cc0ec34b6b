package cli

import (
	"slices"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/draad/tokeneditor/pkg/errors"
	"github.com/draad/tokeneditor/pkg/resolve"
	"github.com/draad/tokeneditor/pkg/token"
)

func editSet() token.Set {
	return token.NewSet(
		[]token.Token{
			{Name: "color.primary", Value: token.String("#f00"), Type: "color"},
			{Name: "space.s", Value: token.Number("4"), Type: "spacing"},
		},
		[]token.Token{
			{Name: "color.primary", Value: token.String("#0f0"), Type: "color"},
		},
		[]token.Category{
			{Name: "button", Tokens: []token.Token{
				{Name: "button.bg", Value: token.Ref("color.primary"), Type: "color"},
			}},
		},
		[]token.Token{
			{Name: "space.s", Value: token.Number("6"), Type: "spacing"},
			{Name: "brand.logo", Value: token.String("logo.svg")},
		},
	)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in       string
		asString bool
		kind     token.Kind
	}{
		{"16", false, token.KindNumber},
		{"1.5", false, token.KindNumber},
		{"16", true, token.KindString},
		{"#fff", false, token.KindString},
		{"{color.primary}", false, token.KindString},
		{"016", false, token.KindString},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v := parseValue(tt.in, tt.asString)
			if v.Kind() != tt.kind {
				t.Errorf("parseValue(%q, %v).Kind() = %v, want %v", tt.in, tt.asString, v.Kind(), tt.kind)
			}
			if v.String() != tt.in {
				t.Errorf("parseValue(%q).String() = %q", tt.in, v.String())
			}
		})
	}
}

func TestCategoryOf(t *testing.T) {
	set := editSet()

	tests := []struct {
		name string
		want string
	}{
		{"color.primary", token.Common},
		{"space.s", token.Brand},
		{"button.bg", "button"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := categoryOf(set, tt.name)
			if err != nil {
				t.Fatalf("categoryOf: %v", err)
			}
			if got != tt.want {
				t.Errorf("categoryOf(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}

	_, err := categoryOf(set, "brand.logo")
	if !apperrors.Is(err, apperrors.ErrCodeTokenNotFound) {
		t.Errorf("custom-only token: err = %v, want TOKEN_NOT_FOUND", err)
	}
}

func TestSplitTarget(t *testing.T) {
	set := editSet()

	cat, name, rest, err := splitTarget(set, []string{"brand", "color.primary", "#000"}, 2)
	if err != nil || cat != "brand" || name != "color.primary" || !slices.Equal(rest, []string{"#000"}) {
		t.Errorf("explicit category: got %q %q %v %v", cat, name, rest, err)
	}

	cat, name, rest, err = splitTarget(set, []string{"color.primary", "#000"}, 2)
	if err != nil || cat != token.Common || name != "color.primary" || !slices.Equal(rest, []string{"#000"}) {
		t.Errorf("implicit category: got %q %q %v %v", cat, name, rest, err)
	}

	if _, _, _, err := splitTarget(set, []string{"nope", "1"}, 2); err == nil {
		t.Error("unknown token: expected error")
	}
}

func TestShadowedNames(t *testing.T) {
	got := shadowedNames(editSet())
	want := []string{"color.primary (brand, common)", "space.s (brand, custom)"}
	if !slices.Equal(got, want) {
		t.Errorf("shadowedNames = %v, want %v", got, want)
	}
}

func TestCheckReportCounts(t *testing.T) {
	r := checkReport{
		missing: []string{"tokens/common.json"},
		unresolved: resolve.Report{
			Dangling: []resolve.Issue{{Name: "a", Reference: "missing"}},
			Cyclic: []resolve.Issue{
				{Name: "x", Reference: "y"},
				{Name: "y", Reference: "x"},
				{Name: "z", Reference: "x"},
			},
		},
		cycles: [][]string{{"x", "y"}},
	}

	into := r.intoCycle()
	if len(into) != 1 || into[0].Name != "z" {
		t.Errorf("intoCycle = %v, want only z", into)
	}
	if got := r.failures(); got != 3 {
		t.Errorf("failures = %d, want 3", got)
	}
	if got := r.warnings(); got != 1 {
		t.Errorf("warnings = %d, want 1", got)
	}
}

func testRows() []tokenRow {
	return []tokenRow{
		{Category: "brand", Token: token.Token{Name: "color.primary", Value: token.String("#f00"), Type: "color"}, Resolved: token.String("#f00")},
		{Category: "brand", Token: token.Token{Name: "space.small", Value: token.Number("4"), Type: "spacing"}, Resolved: token.Number("4")},
		{Category: "button", Token: token.Token{Name: "button.bg", Value: token.Ref("color.primary"), Type: "color", Overridden: true}, Resolved: token.String("#f00")},
		{Category: "custom", Token: token.Token{Name: "brand.logo", Value: token.String("logo.svg")}, Resolved: token.String("logo.svg")},
	}
}

func rowNames(rows []tokenRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Token.Name
	}
	return out
}

func TestSearchRows(t *testing.T) {
	rows := testRows()

	if got := searchRows(rows, ""); len(got) != len(rows) {
		t.Errorf("empty query: %d rows, want %d", len(got), len(rows))
	}

	got := rowNames(searchRows(rows, "btnbg"))
	if !slices.Equal(got, []string{"button.bg"}) {
		t.Errorf("fuzzy search = %v", got)
	}

	if got := searchRows(rows, "zzz"); len(got) != 0 {
		t.Errorf("no match: got %v", rowNames(got))
	}
}

func TestListFilter(t *testing.T) {
	rows := testRows()

	tests := []struct {
		name   string
		filter listFilter
		want   []string
	}{
		{"category", listFilter{category: "brand"}, []string{"color.primary", "space.small"}},
		{"type", listFilter{typ: "color"}, []string{"color.primary", "button.bg"}},
		{"overridden", listFilter{overridden: true}, []string{"button.bg"}},
		{"none", listFilter{}, []string{"color.primary", "space.small", "button.bg", "brand.logo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, r := range rows {
				if tt.filter.keep(r) {
					got = append(got, r.Token.Name)
				}
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("keep = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"truncated", 5, "trun…"},
		{"ünïcödé", 4, "ünï…"},
		{"x", 0, "x"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m TokenListModel, keys ...string) TokenListModel {
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(TokenListModel)
	}
	return m
}

func TestTokenListModelNavigation(t *testing.T) {
	m := NewTokenListModel(testRows())

	m = press(m, "down", "down", "down", "down", "down")
	if m.Cursor != 3 {
		t.Errorf("cursor = %d, want clamp at 3", m.Cursor)
	}
	m = press(m, "k")
	if m.Cursor != 2 {
		t.Errorf("cursor after k = %d, want 2", m.Cursor)
	}

	m = press(m, "enter")
	if !m.Detail {
		t.Fatal("enter should open detail view")
	}
	if r, _ := m.Current(); r.Token.Name != "button.bg" {
		t.Errorf("current = %q, want button.bg", r.Token.Name)
	}
	m = press(m, "esc")
	if m.Detail {
		t.Error("esc should close detail view")
	}
}

func TestTokenListModelFilter(t *testing.T) {
	m := NewTokenListModel(testRows())

	m = press(m, "/", "b", "t", "n")
	if !m.Filtering || m.Query != "btn" {
		t.Fatalf("filtering=%v query=%q", m.Filtering, m.Query)
	}
	if got := rowNames(m.Visible); !slices.Equal(got, []string{"button.bg"}) {
		t.Errorf("visible = %v", got)
	}

	m = press(m, "backspace", "backspace", "backspace", "enter")
	if m.Filtering || len(m.Visible) != len(m.Rows) {
		t.Errorf("after clearing: filtering=%v visible=%d", m.Filtering, len(m.Visible))
	}

	m = press(m, "/", "z", "z", "z", "enter")
	if len(m.Visible) != 0 {
		t.Errorf("no match: visible = %v", rowNames(m.Visible))
	}
	m = press(m, "enter")
	if m.Detail {
		t.Error("detail view opened on empty list")
	}
	m = press(m, "esc")
	if m.Query != "" || len(m.Visible) != len(m.Rows) {
		t.Errorf("esc should clear the filter, query=%q", m.Query)
	}
}
