package token

import (
	"slices"
	"testing"

	apperrors "github.com/draad/tokeneditor/pkg/errors"
)

func testSet() Set {
	brand := []Token{
		{Name: "color.primary", Value: String("#ff0000"), Type: "color"},
		{Name: "spacing.base", Value: Number("8"), Type: "spacing"},
	}
	common := []Token{
		{Name: "color.text", Value: String("{color.primary}"), Type: "color"},
	}
	components := []Category{
		{Name: "button", Tokens: []Token{
			{Name: "button.background", Value: String("{color.primary}"), Type: "color"},
		}},
		{Name: "alert", Tokens: []Token{
			{Name: "alert.padding", Value: String("{spacing.base}"), Type: "spacing"},
		}},
	}
	return NewSet(brand, common, components, nil)
}

func names(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Name
	}
	return out
}

func TestSetAllOrder(t *testing.T) {
	s := testSet()
	s, err := s.AddCustom(Token{Name: "custom.accent", Value: String("#00ff00")})
	if err != nil {
		t.Fatalf("AddCustom() error: %v", err)
	}

	want := []string{"color.primary", "spacing.base", "color.text", "button.background", "alert.padding", "custom.accent"}
	if got := names(s.All()); !slices.Equal(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}
	if s.Len() != len(want) {
		t.Errorf("Len() = %d, want %d", s.Len(), len(want))
	}
}

func TestSetCategories(t *testing.T) {
	s := testSet()
	var got []string
	for _, c := range s.Categories() {
		got = append(got, c.Name)
	}
	want := []string{Brand, Common, "button", "alert", Custom}
	if !slices.Equal(got, want) {
		t.Errorf("Categories() = %v, want %v", got, want)
	}
	if !slices.Equal(s.ComponentNames(), []string{"button", "alert"}) {
		t.Errorf("ComponentNames() = %v", s.ComponentNames())
	}
	if _, ok := s.Category("missing"); ok {
		t.Error("Category(missing) should report false")
	}
}

func TestSetOverrideIsCopyOnWrite(t *testing.T) {
	s := testSet()
	before := s.Brand()

	edited, err := s.Override(Brand, "color.primary", String("#0000ff"))
	if err != nil {
		t.Fatalf("Override() error: %v", err)
	}

	tok, _ := edited.Lookup(Brand, "color.primary")
	if tok.Value.String() != "#0000ff" || !tok.Overridden {
		t.Errorf("overridden token = %+v, want #0000ff and Overridden", tok)
	}

	orig, _ := s.Lookup(Brand, "color.primary")
	if orig.Value.String() != "#ff0000" || orig.Overridden {
		t.Errorf("original set changed: %+v", orig)
	}
	if before[0].Value.String() != "#ff0000" {
		t.Errorf("previously returned slice changed: %+v", before[0])
	}
}

func TestSetOverrideComponent(t *testing.T) {
	s := testSet()
	edited, err := s.Override("button", "button.background", String("black"))
	if err != nil {
		t.Fatalf("Override() error: %v", err)
	}
	tokens, _ := edited.Category("button")
	if tokens[0].Value.String() != "black" {
		t.Errorf("button.background = %q, want black", tokens[0].Value.String())
	}
	if edited.Overrides().Len() != 1 {
		t.Errorf("Overrides().Len() = %d, want 1", edited.Overrides().Len())
	}
}

func TestSetOverrideErrors(t *testing.T) {
	s := testSet()
	tests := []struct {
		name     string
		category string
		token    string
		value    Value
		code     apperrors.Code
	}{
		{"unknown category", "nope", "x", String("1"), apperrors.ErrCodeCategoryNotFound},
		{"unknown token", Brand, "nope", String("1"), apperrors.ErrCodeTokenNotFound},
		{"custom category", Custom, "x", String("1"), apperrors.ErrCodeInvalidCategory},
		{"empty value", Brand, "color.primary", Value{}, apperrors.ErrCodeInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Override(tt.category, tt.token, tt.value)
			if !apperrors.Is(err, tt.code) {
				t.Errorf("Override() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestSetReset(t *testing.T) {
	s := testSet()
	edited, _ := s.Override(Brand, "color.primary", String("#0000ff"))

	reset, err := edited.Reset(Brand, "color.primary")
	if err != nil {
		t.Fatalf("Reset() error: %v", err)
	}
	tok, _ := reset.Lookup(Brand, "color.primary")
	if tok.Value.String() != "#ff0000" || tok.Overridden {
		t.Errorf("after Reset() token = %+v, want loaded value", tok)
	}
	if reset.Overrides().Len() != 0 {
		t.Errorf("Overrides().Len() = %d, want 0", reset.Overrides().Len())
	}

	if _, err := reset.Reset(Brand, "color.primary"); err != nil {
		t.Errorf("Reset() of a token without override should succeed, got %v", err)
	}
	if _, err := reset.Reset(Brand, "nope"); !apperrors.Is(err, apperrors.ErrCodeTokenNotFound) {
		t.Errorf("Reset() unknown token error = %v", err)
	}
}

func TestSetStaleOverrides(t *testing.T) {
	s := testSet().WithOverrides(Overrides{
		Brand:     {"color.primary": String("#000"), "color.gone": String("#111")},
		"removed": {"x": String("1")},
	})

	want := []string{"brand/color.gone", "removed/x"}
	if got := s.StaleOverrides(); !slices.Equal(got, want) {
		t.Errorf("StaleOverrides() = %v, want %v", got, want)
	}

	tok, _ := s.Lookup(Brand, "color.primary")
	if tok.Value.String() != "#000" {
		t.Errorf("WithOverrides() not applied: %+v", tok)
	}
}

func TestSetCustomTokens(t *testing.T) {
	s := testSet()

	s, err := s.AddCustom(Token{Name: "custom.radius", Value: String("4px")})
	if err != nil {
		t.Fatalf("AddCustom() error: %v", err)
	}

	if _, err := s.AddCustom(Token{Name: "custom.radius", Value: String("8px")}); !apperrors.Is(err, apperrors.ErrCodeInvalidToken) {
		t.Errorf("AddCustom() duplicate error = %v", err)
	}
	if _, err := s.AddCustom(Token{Name: "custom.empty"}); !apperrors.Is(err, apperrors.ErrCodeInvalidToken) {
		t.Errorf("AddCustom() without value error = %v", err)
	}
	if _, err := s.AddCustom(Token{Value: String("1")}); !apperrors.Is(err, apperrors.ErrCodeInvalidToken) {
		t.Errorf("AddCustom() without name error = %v", err)
	}

	edited, err := s.SetCustom("custom.radius", String("6px"))
	if err != nil {
		t.Fatalf("SetCustom() error: %v", err)
	}
	if got := edited.Custom()[0].Value.String(); got != "6px" {
		t.Errorf("SetCustom() value = %q, want 6px", got)
	}
	if got := s.Custom()[0].Value.String(); got != "4px" {
		t.Errorf("SetCustom() changed the receiver: %q", got)
	}

	removed, err := edited.RemoveCustom("custom.radius")
	if err != nil {
		t.Fatalf("RemoveCustom() error: %v", err)
	}
	if len(removed.Custom()) != 0 {
		t.Errorf("RemoveCustom() left %d tokens", len(removed.Custom()))
	}
	if _, err := removed.RemoveCustom("custom.radius"); !apperrors.IsNotFound(err) {
		t.Errorf("RemoveCustom() twice error = %v", err)
	}
}

func TestLoadedCustom(t *testing.T) {
	loaded := []Token{{Name: "a", Value: String("1")}}
	s := NewSet(nil, nil, nil, loaded)

	edited, err := s.SetCustom("a", String("2"))
	if err != nil {
		t.Fatal(err)
	}
	edited = edited.WithCustom(nil)
	if len(edited.Custom()) != 0 {
		t.Errorf("WithCustom(nil) left %v", edited.Custom())
	}
	got := edited.LoadedCustom()
	if len(got) != 1 || got[0].Value.String() != "1" {
		t.Errorf("LoadedCustom() = %v, want the tokens passed to NewSet", got)
	}
}

func TestSetLookupLastWins(t *testing.T) {
	s := NewSet([]Token{
		{Name: "dup", Value: String("first")},
		{Name: "dup", Value: String("second")},
	}, nil, nil, nil)

	tok, ok := s.Lookup(Brand, "dup")
	if !ok || tok.Value.String() != "second" {
		t.Errorf("Lookup() = %+v, want the later token", tok)
	}
}

func TestGroupByType(t *testing.T) {
	tokens := []Token{
		{Name: "a", Type: "color"},
		{Name: "b", Type: "spacing"},
		{Name: "c"},
		{Name: "d", Type: "color"},
	}
	order, groups := GroupByType(tokens)
	if !slices.Equal(order, []string{"color", "spacing", UntypedGroup}) {
		t.Errorf("order = %v", order)
	}
	if got := names(groups["color"]); !slices.Equal(got, []string{"a", "d"}) {
		t.Errorf("color group = %v", got)
	}
}

func TestIndexLastWins(t *testing.T) {
	idx := Index([]Token{
		{Name: "x", Value: String("1")},
		{Name: "x", Value: String("2")},
	})
	if idx["x"].Value.String() != "2" {
		t.Errorf("Index() kept %q, want 2", idx["x"].Value.String())
	}
}
