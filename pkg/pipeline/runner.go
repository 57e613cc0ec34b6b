package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/draad/tokeneditor/pkg/cache"
	apperrors "github.com/draad/tokeneditor/pkg/errors"
	"github.com/draad/tokeneditor/pkg/observability"
	"github.com/draad/tokeneditor/pkg/resolve"
	"github.com/draad/tokeneditor/pkg/snapshot"
	"github.com/draad/tokeneditor/pkg/token"
)

// Runner encapsulates pipeline execution with artifact caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → apply → resolve → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	set, report, err := r.LoadWithReport(ctx, opts.Sources)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Load = report
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Skipped = len(report.Skipped)

	r.Logger.Info("loaded tokens",
		"categories", len(set.Categories()),
		"tokens", set.Len(),
		"duration", result.Stats.LoadTime)
	for _, s := range report.Skipped {
		r.Logger.Warn("skipped token with unsupported value", "token", s)
	}

	// Stage 2: Apply edits
	set, err = r.Apply(set, opts.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("apply snapshot: %w", err)
	}
	result.Set = set

	// Stage 3: Resolve
	resolveStart := time.Now()
	resolved, err := r.Resolve(ctx, set)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	result.Resolved = resolved
	result.Stats.ResolveTime = time.Since(resolveStart)
	result.Stats.TokenCount = len(resolved.Tokens)
	result.Stats.ReferenceCount = countReferences(resolved.Source)
	result.Stats.Unresolved = resolved.Report.Len()

	r.Logger.Info("resolved references",
		"references", result.Stats.ReferenceCount,
		"unresolved", result.Stats.Unresolved,
		"duration", result.Stats.ResolveTime)

	if opts.Strict && !resolved.Report.OK() {
		return result, apperrors.New(apperrors.ErrCodeInvalidToken,
			"%d unresolved references", resolved.Report.Len())
	}

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, resolved, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Apply layers snap's overrides and custom tokens onto set. A nil snapshot
// returns set unchanged. Overrides whose token no longer exists are kept and
// logged; they take effect again if the token comes back.
func (r *Runner) Apply(set token.Set, snap *snapshot.Snapshot) (token.Set, error) {
	if snap == nil {
		return set, nil
	}
	for _, t := range snap.Custom {
		if err := apperrors.ValidateTokenName(t.Name); err != nil {
			return token.Set{}, fmt.Errorf("snapshot %s: %w", snap.ShortID(), err)
		}
		if t.Value.IsZero() {
			return token.Set{}, apperrors.New(apperrors.ErrCodeInvalidToken,
				"snapshot %s: custom token %q has no value", snap.ShortID(), t.Name)
		}
	}

	out := snap.Apply(set)
	for _, name := range out.StaleOverrides() {
		r.Logger.Warn("override targets a missing token", "token", name, "snapshot", snap.ShortID())
	}
	r.Logger.Debug("applied snapshot",
		"snapshot", snap.ShortID(),
		"version", snap.Version,
		"overrides", snap.Overrides.Len(),
		"custom", len(snap.Custom),
		"removed", len(snap.Removed))
	return out, nil
}

// Resolve substitutes references across every category of set, in the order
// brand, common, components, custom.
func (r *Runner) Resolve(ctx context.Context, set token.Set) (Resolved, error) {
	if err := ctx.Err(); err != nil {
		return Resolved{}, err
	}
	hooks := observability.Pipeline()
	start := time.Now()

	source := set.All()
	hooks.OnResolveStart(ctx, len(source))
	tokens, report := resolve.ResolveWithReport(source)
	hooks.OnResolveComplete(ctx, len(tokens), report.Len(), time.Since(start))

	for _, iss := range report.Dangling {
		r.Logger.Debug("dangling reference", "token", iss.Name, "ref", iss.Reference)
	}
	for _, iss := range report.Cyclic {
		r.Logger.Debug("cyclic reference", "token", iss.Name, "ref", iss.Reference)
	}
	return Resolved{Source: source, Tokens: tokens, Report: report}, nil
}

// RenderWithCacheInfo generates artifacts with caching and reports whether
// every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, resolved Resolved, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)

	hash := resolved.Hash()
	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true

	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
				continue
			}
		}
		allCached = false

		data, err := RenderFormat(ctx, resolved, format, opts)
		if err != nil {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Debug("cache write failed", "format", format, "error", err)
		}
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, allCached, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, resolved Resolved, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, resolved, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func countReferences(tokens []token.Token) int {
	n := 0
	for _, t := range tokens {
		if t.IsReference() {
			n++
		}
	}
	return n
}
