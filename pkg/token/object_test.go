package token

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"testing"
)

func TestObjectOrder(t *testing.T) {
	o := NewObject()
	o.Set("z", "1")
	o.Set("a", "2")
	o.Set("m", "3")

	want := []string{"z", "a", "m"}
	if got := o.Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}

	var iterated []string
	for k := range o.All() {
		iterated = append(iterated, k)
	}
	if !slices.Equal(iterated, want) {
		t.Errorf("All() order = %v, want %v", iterated, want)
	}
}

func TestObjectSetExistingKeepsPosition(t *testing.T) {
	o := NewObject()
	o.Set("a", "1")
	o.Set("b", "2")
	o.Set("a", "3")

	if got := o.Keys(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Keys() = %v, want [a b]", got)
	}
	if v, _ := o.Get("a"); v != "3" {
		t.Errorf("Get(a) = %v, want 3", v)
	}
}

func TestObjectDelete(t *testing.T) {
	o := NewObject()
	o.Set("a", "1")
	o.Set("b", "2")
	o.Delete("a")
	o.Delete("missing")

	if o.Len() != 1 || o.Has("a") {
		t.Errorf("after Delete: Len() = %d, Has(a) = %v", o.Len(), o.Has("a"))
	}
}

func TestObjectNil(t *testing.T) {
	var o *Object
	if o.Len() != 0 || o.Has("x") || o.Keys() != nil {
		t.Error("nil Object should behave as empty")
	}
	for range o.All() {
		t.Error("nil Object should not iterate")
	}
}

func TestObjectMarshalJSON(t *testing.T) {
	leaf := NewObject()
	leaf.Set("value", "#ff0000")
	leaf.Set("type", "color")

	group := NewObject()
	group.Set("primary", leaf)
	group.Set("size", json.Number("16"))

	root := NewObject()
	root.Set("color", group)
	root.Set("note", "a < b")

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(root); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	want := `{"color":{"primary":{"value":"#ff0000","type":"color"},"size":16},"note":"a < b"}` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("Encode() =\n%s\nwant\n%s", got, want)
	}

	// json.Marshal re-escapes the output of MarshalJSON.
	data, err := json.Marshal(root)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if want := `"note":"a \u003c b"`; !strings.Contains(string(data), want) {
		t.Errorf("Marshal() = %s, want it to contain %s", data, want)
	}
}

func TestObjectNestedAccess(t *testing.T) {
	child := NewObject()
	root := NewObject()
	root.Set("child", child)
	root.Set("leaf", "x")

	if got, ok := root.Object("child"); !ok || got != child {
		t.Error("Object(child) should return the nested object")
	}
	if _, ok := root.Object("leaf"); ok {
		t.Error("Object(leaf) should report false for a string")
	}
}
