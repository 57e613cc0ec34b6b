package bundle

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"testing"

	apperrors "github.com/draad/tokeneditor/pkg/errors"
	"github.com/draad/tokeneditor/pkg/token"
)

func testSet(t *testing.T) token.Set {
	t.Helper()
	set := token.NewSet(
		[]token.Token{
			{Name: "color.primary", Value: token.String("#ff0000"), Type: "color", Description: "brand red"},
			{Name: "spacing.base", Value: token.Number("8"), Type: "spacing"},
		},
		[]token.Token{{Name: "color.text", Value: token.Ref("color.primary"), Type: "color"}},
		[]token.Category{
			{Name: "button", Tokens: []token.Token{{Name: "button.bg", Value: token.Ref("color.primary"), Type: "color"}}},
			{Name: "alert", Tokens: []token.Token{{Name: "alert.gap", Value: token.Ref("spacing.base"), Type: "spacing"}}},
		},
		nil,
	)
	set, err := set.Override(token.Brand, "color.primary", token.String("#0055ff"))
	if err != nil {
		t.Fatal(err)
	}
	set, err = set.AddCustom(token.Token{Name: "custom.radius", Value: token.String("4px"), Type: "borderRadius"})
	if err != nil {
		t.Fatal(err)
	}
	return set
}

func zipOf(t *testing.T, entries map[string]string, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(entries[name])); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestWriteRead_RoundTrip(t *testing.T) {
	set := testSet(t)

	var buf bytes.Buffer
	if err := Write(&buf, set); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	got, err := Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()), ReadOptions{})
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if !got.Verified {
		t.Error("Read() should verify the manifest written by Write()")
	}
	if len(got.Skipped) != 0 {
		t.Errorf("Skipped = %v", got.Skipped)
	}

	// Overrides are baked into the exported values.
	brand := got.Set.Brand()
	if brand[0].Value.String() != "#0055ff" || brand[0].Overridden {
		t.Errorf("brand[0] = %+v", brand[0])
	}
	if brand[0].Description != "brand red" {
		t.Errorf("description lost: %+v", brand[0])
	}
	if brand[1].Value != token.Number("8") {
		t.Errorf("number value = %v", brand[1].Value)
	}
	if !slices.Equal(got.Set.ComponentNames(), []string{"button", "alert"}) {
		t.Errorf("ComponentNames() = %v", got.Set.ComponentNames())
	}
	if c := got.Set.Custom(); len(c) != 1 || c[0].Name != "custom.radius" {
		t.Errorf("Custom() = %v", c)
	}
	if got.Set.Len() != set.Len() {
		t.Errorf("Len() = %d, want %d", got.Set.Len(), set.Len())
	}
}

func TestRead_UnwrapRoot(t *testing.T) {
	entries := map[string]string{
		"brand.json":             `{"brand": {"color": {"primary": {"value": "#f00", "type": "color"}}}}`,
		"components/button.json": `{"button": {"bg": {"value": "{color.primary}", "type": "color"}}}`,
	}
	data := zipOf(t, entries, []string{"brand.json", "components/button.json"})

	got, err := Read(bytes.NewReader(data), int64(len(data)), ReadOptions{UnwrapRoot: true})
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if tok, ok := got.Set.Lookup(token.Brand, "color.primary"); !ok || tok.Value.String() != "#f00" {
		t.Errorf("Lookup(color.primary) = %+v, %v", tok, ok)
	}
	if _, ok := got.Set.Lookup("button", "bg"); !ok {
		t.Error("button.json root was not unwrapped")
	}
	if got.Verified {
		t.Error("Verified should be false without a manifest")
	}

	plain, err := Read(bytes.NewReader(data), int64(len(data)), ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := plain.Set.Lookup(token.Brand, "brand.color.primary"); !ok {
		t.Error("without UnwrapRoot the root key should stay in the name")
	}
}

func TestRead_UnwrapKeepsLeaves(t *testing.T) {
	entries := map[string]string{"brand.json": `{"only": {"value": "1", "type": "x"}}`}
	data := zipOf(t, entries, []string{"brand.json"})

	got, err := Read(bytes.NewReader(data), int64(len(data)), ReadOptions{UnwrapRoot: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.Set.Lookup(token.Brand, "only"); !ok {
		t.Error("a single leaf must not be unwrapped")
	}
}

func TestRead_SkippedAndMissing(t *testing.T) {
	entries := map[string]string{
		"common.json": `{"shadow": {"value": {"x": 1}, "type": "boxShadow"}, "ok": {"value": "1", "type": "x"}}`,
		"README.md":   "ignored",
	}
	data := zipOf(t, entries, []string{"common.json", "README.md"})

	got, err := Read(bytes.NewReader(data), int64(len(data)), ReadOptions{})
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if !slices.Equal(got.Skipped, []string{"common.json: shadow"}) {
		t.Errorf("Skipped = %v", got.Skipped)
	}
	if len(got.Set.Brand()) != 0 {
		t.Error("missing brand.json should load as an empty category")
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name    string
		entries map[string]string
		order   []string
		code    apperrors.Code
	}{
		{
			name:    "bad json",
			entries: map[string]string{"brand.json": `{"a":`},
			order:   []string{"brand.json"},
			code:    apperrors.ErrCodeInvalidTokenFile,
		},
		{
			name:    "bad custom",
			entries: map[string]string{"custom-tokens.json": `[{"value": "1"}]`},
			order:   []string{"custom-tokens.json"},
			code:    apperrors.ErrCodeInvalidTokenFile,
		},
		{
			name:    "path traversal",
			entries: map[string]string{"../evil.json": `{}`},
			order:   []string{"../evil.json"},
			code:    apperrors.ErrCodeInvalidBundle,
		},
		{
			name: "manifest mismatch",
			entries: map[string]string{
				"brand.json":    `{}`,
				"manifest.json": `{"files": {"brand.json": "0000000000000000"}}`,
			},
			order: []string{"brand.json", "manifest.json"},
			code:  apperrors.ErrCodeInvalidBundle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := zipOf(t, tt.entries, tt.order)
			_, err := Read(bytes.NewReader(data), int64(len(data)), ReadOptions{})
			if !apperrors.Is(err, tt.code) {
				t.Errorf("Read() error = %v, want code %s", err, tt.code)
			}
		})
	}

	junk := []byte("not a zip")
	if _, err := Read(bytes.NewReader(junk), int64(len(junk)), ReadOptions{}); !apperrors.Is(err, apperrors.ErrCodeInvalidBundle) {
		t.Errorf("Read(junk) error = %v", err)
	}
}

func TestWriteFileReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", DefaultArchive)
	if err := WriteFile(path, testSet(t)); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	got, err := ReadFile(path, ReadOptions{})
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if got.Set.Len() != 6 {
		t.Errorf("Len() = %d, want 6", got.Set.Len())
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.zip"), ReadOptions{}); !apperrors.IsNotFound(err) {
		t.Errorf("ReadFile(missing) error = %v", err)
	}
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	written, err := WriteFiles(dir, testSet(t))
	if err != nil {
		t.Fatalf("WriteFiles() error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "brand.json"),
		filepath.Join(dir, "common.json"),
		filepath.Join(dir, "components", "button.json"),
		filepath.Join(dir, "components", "alert.json"),
		filepath.Join(dir, "custom-tokens.json"),
	}
	if !slices.Equal(written, want) {
		t.Errorf("WriteFiles() = %v, want %v", written, want)
	}
	data, err := os.ReadFile(filepath.Join(dir, "components", "button.json"))
	if err != nil {
		t.Fatal(err)
	}
	wantJSON := "{\n  \"button\": {\n    \"bg\": {\n      \"value\": \"{color.primary}\",\n      \"type\": \"color\"\n    }\n  }\n}\n"
	if string(data) != wantJSON {
		t.Errorf("button.json =\n%s\nwant:\n%s", data, wantJSON)
	}
}

func TestWriteLayout(t *testing.T) {
	dir := t.TempDir()
	layout := Layout{
		Brand:         filepath.Join(dir, "design", "base.json"),
		Common:        filepath.Join(dir, "design", "shared.json"),
		ComponentsDir: filepath.Join(dir, "parts"),
		ComponentPath: func(name string) string { return filepath.Join(dir, "parts", name+".yaml") },
		Custom:        filepath.Join(dir, "extra.json"),
	}
	written, err := WriteLayout(layout, testSet(t))
	if err != nil {
		t.Fatalf("WriteLayout() error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "design", "base.json"),
		filepath.Join(dir, "design", "shared.json"),
		filepath.Join(dir, "parts", "button.yaml"),
		filepath.Join(dir, "parts", "alert.yaml"),
		filepath.Join(dir, "extra.json"),
	}
	if !slices.Equal(written, want) {
		t.Errorf("WriteLayout() = %v, want %v", written, want)
	}
	if _, err := os.Stat(filepath.Join(dir, "brand.json")); !os.IsNotExist(err) {
		t.Errorf("brand.json written outside the layout: %v", err)
	}
}

func TestWriteLayout_MissingPath(t *testing.T) {
	tests := []struct {
		name    string
		set     token.Set
		layout  Layout
		wantErr bool
		want    int
	}{
		{
			name:    "tokens without a target",
			set:     testSet(t),
			layout:  Layout{Brand: "brand.json"},
			wantErr: true,
		},
		{
			name: "empty categories are skipped",
			set: token.NewSet(
				[]token.Token{{Name: "a", Value: token.String("1"), Type: "t"}},
				nil, nil, nil,
			),
			layout: Layout{Brand: "brand.json"},
			want:   1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tt.layout
			l.Brand = filepath.Join(t.TempDir(), l.Brand)
			written, err := WriteLayout(l, tt.set)
			if tt.wantErr {
				if !apperrors.Is(err, apperrors.ErrCodeInvalidPath) {
					t.Errorf("WriteLayout() error = %v, want INVALID_PATH", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("WriteLayout() error: %v", err)
			}
			if len(written) != tt.want {
				t.Errorf("WriteLayout() wrote %v, want %d file(s)", written, tt.want)
			}
		})
	}
}

func TestWrite_NestConflict(t *testing.T) {
	set := token.NewSet([]token.Token{
		{Name: "a", Value: token.String("1")},
		{Name: "a.b", Value: token.String("2")},
	}, nil, nil, nil)
	var buf bytes.Buffer
	if err := Write(&buf, set); !apperrors.Is(err, apperrors.ErrCodeInvalidBundle) {
		t.Errorf("Write() error = %v, want INVALID_BUNDLE", err)
	}
}
