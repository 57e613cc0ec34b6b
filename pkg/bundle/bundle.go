package bundle

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	apperrors "github.com/draad/tokeneditor/pkg/errors"
	"github.com/draad/tokeneditor/pkg/flatten"
	tokenio "github.com/draad/tokeneditor/pkg/io"
	"github.com/draad/tokeneditor/pkg/nest"
	"github.com/draad/tokeneditor/pkg/token"
)

// File names inside a bundle.
const (
	BrandFile      = "brand.json"
	CommonFile     = "common.json"
	ComponentsDir  = "components"
	CustomFile     = "custom-tokens.json"
	ManifestFile   = "manifest.json"
	DefaultArchive = "tokens-export.zip"
)

// Manifest lists the files of a bundle with their content hashes.
type Manifest struct {
	CreatedAt time.Time         `json:"created_at"`
	Files     map[string]string `json:"files"`
}

// file is one entry of a bundle before it is written.
type file struct {
	name string
	data []byte
}

// files renders every entry of set in bundle order.
func files(set token.Set) ([]file, error) {
	var out []file
	add := func(name string, tokens []token.Token) error {
		doc, err := nest.Nest(tokens)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidBundle, err, "%s", name)
		}
		var buf bytes.Buffer
		if err := tokenio.WriteJSON(doc, &buf); err != nil {
			return err
		}
		out = append(out, file{name: name, data: buf.Bytes()})
		return nil
	}

	if err := add(BrandFile, set.Brand()); err != nil {
		return nil, err
	}
	if err := add(CommonFile, set.Common()); err != nil {
		return nil, err
	}
	for _, c := range set.Components() {
		if err := apperrors.ValidateCategoryName(c.Name); err != nil {
			return nil, err
		}
		if err := add(path.Join(ComponentsDir, c.Name+".json"), c.Tokens); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := tokenio.WriteCustom(set.Custom(), &buf); err != nil {
		return nil, err
	}
	out = append(out, file{name: CustomFile, data: buf.Bytes()})
	return out, nil
}

func manifest(entries []file) (file, error) {
	m := Manifest{CreatedAt: time.Now().UTC(), Files: make(map[string]string, len(entries))}
	for _, f := range entries {
		m.Files[f.name] = hash(f.data)
	}
	var buf bytes.Buffer
	if err := tokenio.WriteJSON(m, &buf); err != nil {
		return file{}, err
	}
	return file{name: ManifestFile, data: buf.Bytes()}, nil
}

func hash(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// Write writes set as a zip bundle to w.
func Write(w io.Writer, set token.Set) error {
	entries, err := files(set)
	if err != nil {
		return err
	}
	m, err := manifest(entries)
	if err != nil {
		return err
	}
	entries = append(entries, m)

	zw := zip.NewWriter(w)
	for _, f := range entries {
		fw, err := zw.Create(f.name)
		if err != nil {
			return fmt.Errorf("create %s: %w", f.name, err)
		}
		if _, err := fw.Write(f.data); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}

// WriteFile writes set as a zip bundle to path.
func WriteFile(path string, set token.Set) error {
	var buf bytes.Buffer
	if err := Write(&buf, set); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Layout maps the entries of a bundle to file paths.
type Layout struct {
	Brand  string
	Common string
	// ComponentsDir receives <name>.json per component unless ComponentPath
	// is set.
	ComponentsDir string
	ComponentPath func(name string) string
	Custom        string
}

// DirLayout is the bundle's own layout rooted at dir.
func DirLayout(dir string) Layout {
	return Layout{
		Brand:         filepath.Join(dir, BrandFile),
		Common:        filepath.Join(dir, CommonFile),
		ComponentsDir: filepath.Join(dir, ComponentsDir),
		Custom:        filepath.Join(dir, CustomFile),
	}
}

// path returns the target of the bundle entry name. ok is false when the
// layout has no place for it.
func (l Layout) path(name string) (string, bool) {
	var p string
	switch name {
	case BrandFile:
		p = l.Brand
	case CommonFile:
		p = l.Common
	case CustomFile:
		p = l.Custom
	default:
		comp := strings.TrimSuffix(strings.TrimPrefix(name, ComponentsDir+"/"), ".json")
		switch {
		case l.ComponentPath != nil:
			p = l.ComponentPath(comp)
		case l.ComponentsDir != "":
			p = filepath.Join(l.ComponentsDir, comp+".json")
		}
	}
	return p, p != ""
}

// WriteFiles writes the bundle layout of set into dir and returns the paths
// written. No manifest is written.
func WriteFiles(dir string, set token.Set) ([]string, error) {
	return WriteLayout(DirLayout(dir), set)
}

// WriteLayout writes each entry of set to the path l gives it and returns
// the paths written. An entry without a path is an error when it holds
// tokens and is skipped otherwise.
func WriteLayout(l Layout, set token.Set) ([]string, error) {
	entries, err := files(set)
	if err != nil {
		return nil, err
	}
	counts := entryCounts(set)

	var written []string
	for _, f := range entries {
		p, ok := l.path(f.name)
		if !ok {
			if counts[f.name] > 0 {
				return written, apperrors.New(apperrors.ErrCodeInvalidPath, "no target path for %s", f.name)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return written, fmt.Errorf("create dir: %w", err)
		}
		if err := os.WriteFile(p, f.data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", p, err)
		}
		written = append(written, p)
	}
	return written, nil
}

// entryCounts returns the number of tokens behind each bundle entry.
func entryCounts(set token.Set) map[string]int {
	counts := map[string]int{
		BrandFile:  len(set.Brand()),
		CommonFile: len(set.Common()),
		CustomFile: len(set.Custom()),
	}
	for _, c := range set.Components() {
		counts[path.Join(ComponentsDir, c.Name+".json")] = len(c.Tokens)
	}
	return counts
}

// ReadOptions configures [Read].
type ReadOptions struct {
	// UnwrapRoot strips a single root key wrapping each category document.
	UnwrapRoot bool
}

// Contents is the result of reading a bundle.
type Contents struct {
	Set token.Set
	// Skipped lists malformed leaves as "file: token".
	Skipped []string
	// Verified is true when a manifest was present and every hash matched.
	Verified bool
}

// Read decodes a zip bundle.
func Read(r io.ReaderAt, size int64, opts ReadOptions) (*Contents, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidBundle, err, "not a zip archive")
	}

	var (
		brand, common []token.Token
		components    []token.Category
		custom        []token.Token
		out           Contents
		data          = make(map[string][]byte)
		order         []string
	)

	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		name := strings.TrimPrefix(zf.Name, "./")
		if err := apperrors.ValidatePath(name); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidBundle, err, "entry %q", zf.Name)
		}
		b, err := readEntry(zf)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidBundle, err, "read %s", name)
		}
		data[name] = b
		order = append(order, name)
	}

	if raw, ok := data[ManifestFile]; ok {
		if err := verify(raw, data); err != nil {
			return nil, err
		}
		out.Verified = true
	}

	load := func(name string) ([]token.Token, error) {
		doc, err := tokenio.ReadJSON(bytes.NewReader(data[name]))
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidTokenFile, err, "%s", name)
		}
		if opts.UnwrapRoot {
			doc = unwrap(doc)
		}
		for _, s := range flatten.Skipped(doc) {
			out.Skipped = append(out.Skipped, name+": "+s)
		}
		return flatten.Flatten(doc), nil
	}

	for _, name := range order {
		var err error
		switch {
		case name == BrandFile:
			brand, err = load(name)
		case name == CommonFile:
			common, err = load(name)
		case name == CustomFile:
			custom, err = tokenio.ReadCustom(bytes.NewReader(data[name]))
			if err != nil {
				err = apperrors.Wrap(apperrors.ErrCodeInvalidTokenFile, err, "%s", name)
			}
		case path.Dir(name) == ComponentsDir && path.Ext(name) == ".json":
			comp := strings.TrimSuffix(path.Base(name), ".json")
			if verr := apperrors.ValidateCategoryName(comp); verr != nil {
				return nil, apperrors.Wrap(apperrors.ErrCodeInvalidBundle, verr, "%s", name)
			}
			var tokens []token.Token
			tokens, err = load(name)
			components = append(components, token.Category{Name: comp, Tokens: tokens})
		}
		if err != nil {
			return nil, err
		}
	}

	out.Set = token.NewSet(brand, common, components, custom)
	return &out, nil
}

// ReadFile decodes the zip bundle at path.
func ReadFile(path string, opts ReadOptions) (*Contents, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "bundle %s not found", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return Read(f, info.Size(), opts)
}

func readEntry(zf *zip.File) ([]byte, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func verify(raw []byte, data map[string][]byte) error {
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidBundle, err, "parse %s", ManifestFile)
	}
	for name, want := range m.Files {
		b, ok := data[name]
		if !ok {
			return apperrors.New(apperrors.ErrCodeInvalidBundle, "%s lists missing file %s", ManifestFile, name)
		}
		if got := hash(b); got != want {
			return apperrors.New(apperrors.ErrCodeInvalidBundle, "%s: content hash %s does not match manifest %s", name, got, want)
		}
	}
	return nil
}

// unwrap returns the object under the single root key of doc. Documents with
// several keys, or whose only key is a token leaf, are returned unchanged.
func unwrap(doc *token.Object) *token.Object {
	if doc.Len() != 1 {
		return doc
	}
	inner, ok := doc.Object(doc.Keys()[0])
	if !ok || flatten.IsLeaf(inner) {
		return doc
	}
	return inner
}
