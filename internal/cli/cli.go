// Package cli implements the tokeneditor command-line interface.
//
// Commands operate on a project described by tokeneditor.toml (or the
// defaults when there is none). Token edits are never written back to the
// source files; every change is recorded as a snapshot under the project's
// snapshot directory and applied on the next run. Only "bundle import"
// replaces the source files.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/draad/tokeneditor/pkg/bundle"
	"github.com/draad/tokeneditor/pkg/cache"
	"github.com/draad/tokeneditor/pkg/config"
	"github.com/draad/tokeneditor/pkg/pipeline"
	"github.com/draad/tokeneditor/pkg/snapshot"
	"github.com/draad/tokeneditor/pkg/token"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "tokeneditor"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is set by the --config flag.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Project
// =============================================================================

// project is the loaded configuration plus its snapshot store.
type project struct {
	cfg   config.Config
	store *snapshot.FileStore
}

// openProject discovers the configuration from --config or the working
// directory and opens the snapshot store.
func (c *CLI) openProject() (*project, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Discover(c.configPath, wd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("using config", "path", cfg.Path)
	}

	store, err := snapshot.NewFileStore(cfg.Abs(cfg.Snapshots.Dir), snapshot.WithLogger(c.Logger))
	if err != nil {
		return nil, err
	}
	return &project{cfg: cfg, store: store}, nil
}

// sources maps the configured token locations to pipeline sources.
func (p *project) sources() pipeline.Sources {
	s := p.cfg.Sources
	return pipeline.Sources{
		Brand:         p.cfg.Abs(s.Brand),
		Common:        p.cfg.Abs(s.Common),
		ComponentsDir: p.cfg.Abs(s.ComponentsDir),
		Components:    s.Components,
		Custom:        p.cfg.Abs(s.Custom),
	}
}

// layout maps bundle entries onto the configured token locations.
func (p *project) layout() bundle.Layout {
	src := p.sources()
	l := bundle.Layout{
		Brand:         src.Brand,
		Common:        src.Common,
		ComponentsDir: src.ComponentsDir,
		Custom:        src.Custom,
	}
	if src.ComponentsDir != "" {
		l.ComponentPath = func(name string) string {
			return pipeline.ComponentPath(src.ComponentsDir, name)
		}
	}
	return l
}

// unlisted returns the components of set missing from a fixed
// sources.components list.
func (p *project) unlisted(set token.Set) []string {
	listed := p.cfg.Sources.Components
	if len(listed) == 0 {
		return nil
	}
	var out []string
	for _, c := range set.Components() {
		if !slices.Contains(listed, c.Name) {
			out = append(out, c.Name)
		}
	}
	return out
}

// renderOptions returns pipeline options seeded from the configuration.
func (p *project) renderOptions() pipeline.Options {
	return pipeline.Options{
		Sources:  p.sources(),
		Formats:  p.cfg.Formats,
		Selector: p.cfg.Selector,
	}
}

// edited loads the token set with the latest snapshot applied. The returned
// snapshot is nil when no edits were saved yet.
func (c *CLI) edited(ctx context.Context, p *project) (token.Set, *snapshot.Snapshot, error) {
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	set, err := runner.Load(ctx, p.sources())
	if err != nil {
		return token.Set{}, nil, err
	}
	latest, err := p.store.Latest(ctx)
	if err != nil {
		return token.Set{}, nil, err
	}
	set, err = runner.Apply(set, latest)
	if err != nil {
		return token.Set{}, nil, err
	}
	return set, latest, nil
}

// commit saves set's edits as a new snapshot and prunes old ones.
func (c *CLI) commit(ctx context.Context, p *project, latest *snapshot.Snapshot, set token.Set, message string) error {
	snap, saved, err := snapshot.Commit(ctx, p.store, latest, set, message)
	if err != nil {
		return err
	}
	if !saved {
		printInfo("No changes")
		return nil
	}
	if keep := p.cfg.Snapshots.Keep; keep > 0 {
		if n, err := p.store.Prune(ctx, keep); err != nil {
			c.Logger.Warn("prune snapshots", "error", err)
		} else if n > 0 {
			c.Logger.Debug("pruned snapshots", "removed", n)
		}
	}
	printSuccess("%s", message)
	printDetail("snapshot %s (v%d) · %s", snap.ShortID(), snap.Version, snap.Summary())
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Artifact keys are scoped
// to the project root so projects can share the user cache directory.
func (c *CLI) newRunner(p *project, noCache bool) (*pipeline.Runner, error) {
	cc, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	root, _ := filepath.Abs(p.cfg.Root)
	keyer := cache.NewScopedKeyer(nil, "project:"+cache.Hash([]byte(root))+":")
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/tokeneditor/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice. An
// empty string keeps fallback.
func parseFormats(s string, fallback []string) []string {
	if s == "" {
		return fallback
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
