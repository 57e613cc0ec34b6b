// Package config loads the tokeneditor project file.
//
// A project is described by a tokeneditor.toml at its root:
//
//	selector = ".openstad, [data-apos-level]"
//	formats  = ["css", "json"]
//	output   = "dist"
//
//	[sources]
//	brand          = "tokens/brand.json"
//	common         = "tokens/common.json"
//	components_dir = "tokens/components"
//	components     = ["button", "alert"]   # optional, default: every file in components_dir
//	custom         = "tokens/custom-tokens.json"
//
//	[snapshots]
//	dir  = ".tokeneditor/snapshots"
//	keep = 50
//
// Relative paths are resolved against the directory holding the file. Every
// key is optional; [Default] supplies the values used when a key or the whole
// file is absent.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	apperrors "github.com/draad/tokeneditor/pkg/errors"
)

// FileName is the project file looked up by [Find].
const FileName = "tokeneditor.toml"

// DefaultSelector matches the host page the editor was built for.
const DefaultSelector = ".openstad, [data-apos-level]"

// Formats accepted in the formats list.
var Formats = []string{"css", "json", "flat", "dot", "svg"}

// Config is the decoded project file.
type Config struct {
	Selector  string    `toml:"selector"`
	Formats   []string  `toml:"formats"`
	Output    string    `toml:"output"`
	Sources   Sources   `toml:"sources"`
	Snapshots Snapshots `toml:"snapshots"`

	// Root is the directory relative paths are resolved against. It is
	// not read from the file.
	Root string `toml:"-"`
	// Path is the file the config was loaded from, empty for defaults.
	Path string `toml:"-"`
}

// Sources locates the token files of each category.
type Sources struct {
	Brand         string   `toml:"brand"`
	Common        string   `toml:"common"`
	ComponentsDir string   `toml:"components_dir"`
	Components    []string `toml:"components"`
	Custom        string   `toml:"custom"`
}

// Snapshots configures the snapshot store.
type Snapshots struct {
	Dir  string `toml:"dir"`
	Keep int    `toml:"keep"`
}

// Default returns the configuration used without a project file.
func Default() Config {
	return Config{
		Selector: DefaultSelector,
		Formats:  []string{"css"},
		Output:   "dist",
		Sources: Sources{
			Brand:         "tokens/brand.json",
			Common:        "tokens/common.json",
			ComponentsDir: "tokens/components",
			Custom:        "tokens/custom-tokens.json",
		},
		Snapshots: Snapshots{
			Dir:  ".tokeneditor/snapshots",
			Keep: 50,
		},
		Root: ".",
	}
}

// Load reads the project file at path. Keys missing from the file keep their
// [Default] values.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "%s: failed to parse TOML", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, apperrors.New(apperrors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Find walks up from startDir looking for [FileName]. ok is false when no
// file exists up to the filesystem root.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the file at explicit when it is set, otherwise the nearest
// project file above startDir, otherwise [Default].
func Discover(explicit, startDir string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		cfg := Default()
		if startDir != "" {
			cfg.Root = startDir
		}
		return cfg, nil
	}
	return Load(path)
}

// Validate checks the selector, formats and snapshot settings.
func (c Config) Validate() error {
	if err := apperrors.ValidateSelector(c.Selector); err != nil {
		return err
	}
	for _, f := range c.Formats {
		if !slices.Contains(Formats, f) {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown format %q (want one of %s)", f, strings.Join(Formats, ", "))
		}
	}
	for _, name := range c.Sources.Components {
		if err := apperrors.ValidateCategoryName(name); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "sources.components")
		}
	}
	if c.Snapshots.Keep < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "snapshots.keep must not be negative")
	}
	return nil
}

// Abs resolves p against the config root. Absolute and empty paths are
// returned unchanged.
func (c Config) Abs(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	root := c.Root
	if root == "" {
		root = "."
	}
	return filepath.Join(root, filepath.FromSlash(p))
}

// Encode renders c as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Write saves c as TOML to path. An existing file is not overwritten unless
// force is set.
func (c Config) Write(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "%s already exists", path)
		}
	}
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
