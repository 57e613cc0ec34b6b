package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/draad/tokeneditor/pkg/errors"
	"github.com/draad/tokeneditor/pkg/flatten"
	tokenio "github.com/draad/tokeneditor/pkg/io"
	"github.com/draad/tokeneditor/pkg/observability"
	"github.com/draad/tokeneditor/pkg/token"
)

// loadConcurrency bounds the number of token files read at once.
const loadConcurrency = 8

// tokenExts are the file extensions recognised in a components directory, in
// lookup order.
var tokenExts = []string{".json", ".yaml", ".yml"}

// sourceFile is one token file feeding one category.
type sourceFile struct {
	category string
	path     string
}

// loaded is the flattened content of one source file.
type loaded struct {
	tokens  []token.Token
	skipped []string
	missing bool
}

// Load reads all token files named by src into a Set. Missing files load as
// empty categories.
func (r *Runner) Load(ctx context.Context, src Sources) (token.Set, error) {
	set, _, err := r.LoadWithReport(ctx, src)
	return set, err
}

// LoadWithReport is Load plus a report of skipped leaves and missing files.
//
// Files are read concurrently. The categories of the resulting Set keep the
// configured order regardless of which read finishes first.
func (r *Runner) LoadWithReport(ctx context.Context, src Sources) (token.Set, LoadReport, error) {
	var report LoadReport

	components, err := componentFiles(src)
	if err != nil {
		return token.Set{}, report, err
	}

	files := make([]sourceFile, 0, len(components)+2)
	if src.Brand != "" {
		files = append(files, sourceFile{category: token.Brand, path: src.Brand})
	}
	if src.Common != "" {
		files = append(files, sourceFile{category: token.Common, path: src.Common})
	}
	fixed := len(files)
	files = append(files, components...)

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnLoadStart(ctx, len(files))

	results := make([]loaded, len(files))
	var custom []token.Token
	var customMissing bool

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, f := range files {
		g.Go(func() error {
			res, err := loadFile(gctx, f.path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if src.Custom != "" {
		g.Go(func() error {
			tokens, err := tokenio.ImportCustom(src.Custom)
			if errors.Is(err, fs.ErrNotExist) {
				customMissing = true
				return nil
			}
			if err != nil {
				return apperrors.Wrap(apperrors.ErrCodeInvalidTokenFile, err, "load custom tokens")
			}
			custom = tokens
			return nil
		})
	}
	err = g.Wait()

	count := 0
	for _, res := range results {
		count += len(res.tokens)
	}
	count += len(custom)
	hooks.OnLoadComplete(ctx, count, time.Since(start), err)
	if err != nil {
		return token.Set{}, report, err
	}

	var brand, common []token.Token
	var comps []token.Category
	for i, f := range files {
		res := results[i]
		for _, name := range res.skipped {
			report.Skipped = append(report.Skipped, f.path+": "+name)
		}
		if res.missing {
			report.Missing = append(report.Missing, f.path)
			r.Logger.Debug("token file not found, loading empty", "category", f.category, "path", f.path)
		}
		switch {
		case i < fixed && f.category == token.Brand:
			brand = res.tokens
		case i < fixed:
			common = res.tokens
		default:
			comps = append(comps, token.Category{Name: f.category, Tokens: res.tokens})
		}
	}
	if customMissing {
		report.Missing = append(report.Missing, src.Custom)
	}

	r.Logger.Debug("loaded token files",
		"files", len(files),
		"tokens", count,
		"skipped", len(report.Skipped),
		"duration", time.Since(start))

	return token.NewSet(brand, common, comps, custom), report, nil
}

// loadFile reads and flattens one token file.
func loadFile(ctx context.Context, path string) (loaded, error) {
	if err := ctx.Err(); err != nil {
		return loaded{}, err
	}
	doc, err := tokenio.ImportFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return loaded{missing: true}, nil
	}
	if err != nil {
		return loaded{}, apperrors.Wrap(apperrors.ErrCodeInvalidTokenFile, err, "load token file")
	}
	return loaded{
		tokens:  flatten.Flatten(doc),
		skipped: flatten.Skipped(doc),
	}, nil
}

// componentFiles lists the component token files of src in load order.
func componentFiles(src Sources) ([]sourceFile, error) {
	if src.ComponentsDir == "" {
		return nil, nil
	}
	if len(src.Components) > 0 {
		files := make([]sourceFile, 0, len(src.Components))
		for _, name := range src.Components {
			if err := validateComponentName(name); err != nil {
				return nil, err
			}
			files = append(files, sourceFile{category: name, path: ComponentPath(src.ComponentsDir, name)})
		}
		return files, nil
	}
	return scanComponents(src.ComponentsDir)
}

// ComponentPath returns the first existing token file for name in dir, or
// the JSON path when none exists. A YAML file may be rewritten with JSON
// content since YAML decoding accepts it.
func ComponentPath(dir, name string) string {
	for _, ext := range tokenExts {
		p := filepath.Join(dir, name+ext)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(dir, name+".json")
}

// scanComponents returns one entry per token file in dir, sorted by name.
// A missing directory yields no components.
func scanComponents(dir string) ([]sourceFile, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidPath, err, "read components directory")
	}

	var files []sourceFile
	seen := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !slices.Contains(tokenExts, ext) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if err := validateComponentName(name); err != nil {
			return nil, err
		}
		if prev, ok := seen[name]; ok {
			return nil, apperrors.New(apperrors.ErrCodeInvalidCategory,
				"component %q defined by both %s and %s", name, prev, e.Name())
		}
		seen[name] = e.Name()
		files = append(files, sourceFile{category: name, path: filepath.Join(dir, e.Name())})
	}
	slices.SortFunc(files, func(a, b sourceFile) int { return strings.Compare(a.category, b.category) })
	return files, nil
}

// validateComponentName rejects invalid names and the fixed category names.
func validateComponentName(name string) error {
	if err := apperrors.ValidateCategoryName(name); err != nil {
		return err
	}
	switch name {
	case token.Brand, token.Common, token.Custom:
		return apperrors.New(apperrors.ErrCodeInvalidCategory, "component name %q is reserved", name)
	}
	return nil
}
