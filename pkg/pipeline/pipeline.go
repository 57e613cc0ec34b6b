// Package pipeline runs the token editor's load → resolve → render pipeline.
//
// The CLI commands all go through a [Runner] so that every entry point reads
// token files, applies the user's edits and renders outputs the same way.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: read brand, common, component and custom token files and flatten
//     them into a [token.Set]
//  2. Apply: layer a [snapshot.Snapshot] (overrides and custom tokens) on top
//  3. Resolve: substitute references across all categories
//  4. Render: generate outputs (CSS, nested JSON, flat JSON, DOT, SVG)
//
// Each stage can be run on its own or through [Runner.Execute].
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Sources: pipeline.Sources{Brand: "tokens/brand.json", Common: "tokens/common.json"},
//	    Formats: []string{pipeline.FormatCSS},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	css := result.Artifacts["css"]
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/draad/tokeneditor/pkg/cache"
	apperrors "github.com/draad/tokeneditor/pkg/errors"
	"github.com/draad/tokeneditor/pkg/render/css"
	"github.com/draad/tokeneditor/pkg/resolve"
	"github.com/draad/tokeneditor/pkg/snapshot"
	"github.com/draad/tokeneditor/pkg/token"
)

// Format constants for output formats.
const (
	FormatCSS  = "css"
	FormatJSON = "json"
	FormatFlat = "flat"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatCSS

// DefaultSelector is the CSS selector list the custom properties are scoped to.
const DefaultSelector = css.DefaultSelector

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatCSS:  true,
	FormatJSON: true,
	FormatFlat: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// Extensions maps each format to the file extension its artifact is written with.
var Extensions = map[string]string{
	FormatCSS:  ".css",
	FormatJSON: ".json",
	FormatFlat: ".flat.json",
	FormatDOT:  ".dot",
	FormatSVG:  ".svg",
}

// Sources locates the token files of a project.
type Sources struct {
	Brand  string `json:"brand,omitempty"`
	Common string `json:"common,omitempty"`

	// ComponentsDir holds one token file per component.
	ComponentsDir string `json:"components_dir,omitempty"`
	// Components fixes the component names and their order. When empty,
	// every token file in ComponentsDir is loaded in name order.
	Components []string `json:"components,omitempty"`

	// Custom is the JSON list of user-defined tokens.
	Custom string `json:"custom,omitempty"`
}

// IsZero reports whether no source is configured.
func (s Sources) IsZero() bool {
	return s.Brand == "" && s.Common == "" && s.ComponentsDir == "" && s.Custom == ""
}

// Options contains all configuration for a pipeline run.
type Options struct {
	Sources Sources `json:"sources"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Selector string   `json:"selector,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // show values in graph nodes
	Focus    string   `json:"focus,omitempty"`    // restrict graphs to one token's neighbourhood

	// Strict fails the run when a reference is dangling or cyclic.
	Strict bool `json:"strict,omitempty"`
	// Refresh bypasses the artifact cache.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Snapshot *snapshot.Snapshot `json:"-"`
	Logger   *log.Logger        `json:"-"`

	validated bool
}

// Resolved is the output of the resolve stage.
type Resolved struct {
	// Source is the concatenated token list before resolution.
	Source []token.Token
	// Tokens has the same names and order as Source with references replaced.
	Tokens []token.Token
	// Report lists references left unresolved.
	Report resolve.Report
}

// Hash returns a content hash of the unresolved tokens. Every artifact is a
// function of Source and the render options, so this is the artifact cache key.
func (r Resolved) Hash() string {
	data, _ := json.Marshal(r.Source)
	return cache.Hash(data)
}

// LoadReport describes what the load stage left out.
type LoadReport struct {
	// Skipped lists "file: name" for leaves whose value was not a string or number.
	Skipped []string
	// Missing lists configured files that do not exist and loaded as empty.
	Missing []string
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Set       token.Set
	Resolved  Resolved
	Load      LoadReport
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	TokenCount     int
	ReferenceCount int
	Unresolved     int
	Skipped        int
	LoadTime       time.Duration
	ResolveTime    time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperrors.New(apperrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: css, json, flat, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the token sources.
func (o *Options) ValidateForLoad() error {
	if o.Sources.IsZero() {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "no token sources configured")
	}
	for _, name := range o.Sources.Components {
		if err := validateComponentName(name); err != nil {
			return err
		}
	}
	if len(o.Sources.Components) > 0 && o.Sources.ComponentsDir == "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "components listed without a components directory")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Selector == "" {
		o.Selector = DefaultSelector
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := apperrors.ValidateSelector(o.Selector); err != nil {
		return err
	}
	if o.Focus != "" {
		if err := apperrors.ValidateTokenName(o.Focus); err != nil {
			return err
		}
	}
	return nil
}

// NeedsGraph reports whether any requested format renders the reference graph.
func (o *Options) NeedsGraph() bool {
	for _, f := range o.Formats {
		if f == FormatDOT || f == FormatSVG {
			return true
		}
	}
	return false
}

// ArtifactKeyOpts returns cache key options for one format. Options that do
// not affect the format's output are left out so they do not split the cache.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatCSS:
		k.Selector = o.Selector
	case FormatDOT, FormatSVG:
		k.Detailed = o.Detailed
		k.Focus = o.Focus
	}
	return k
}
