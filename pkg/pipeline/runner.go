package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cyclegen/pkg/cache"
	"github.com/matzehuels/cyclegen/pkg/generator"
	"github.com/matzehuels/cyclegen/pkg/graph"
	pio "github.com/matzehuels/cyclegen/pkg/io"
	"github.com/matzehuels/cyclegen/pkg/observability"
	"github.com/matzehuels/cyclegen/pkg/rules"
	"github.com/matzehuels/cyclegen/pkg/selector"
	"github.com/matzehuels/cyclegen/pkg/template"
	"github.com/matzehuels/cyclegen/pkg/template/builtin"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, the pattern library and the
// logger - it doesn't store pipeline results. Multiple goroutines can safely
// use the same Runner with different options, provided Library and Rules
// are not modified concurrently.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Library *template.Registry
	Rules   *rules.Registry

	// ResultTTL is how long generated results stay cached.
	ResultTTL time.Duration
}

// NewRunner creates a runner over the built-in pattern library.
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
	lib, rr := builtin.Library()
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
		Library:   lib,
		Rules:     rr,
		ResultTTL: cache.TTLResult,
	}
}

// AddPatterns registers extra templates, replacing any built-in pattern of
// the same type. The replaced pattern's rule is dropped with it.
func (r *Runner) AddPatterns(tmpls ...*template.CycleTemplate) {
	for _, t := range tmpls {
		r.Library.Register(t)
		r.Rules.Unregister(t.Type())
	}
}

// Execute runs the complete generate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Generate
	genStart := time.Now()
	res, hit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Generation = res
	result.Stats.GenerateTime = time.Since(genStart)
	result.CacheInfo.GenerateHit = hit

	if fp, err := graph.Fingerprint(graph.FromResult(res)); err == nil {
		result.Fingerprint = fp.String()
	}

	r.Logger.Info("generated dungeon",
		"overall", res.OverallType,
		"rooms", res.Stats.Nodes,
		"insertions", res.Stats.Insertions,
		"cached", hit,
		"duration", result.Stats.GenerateTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateWithCacheInfo runs the driver with caching and returns cache hit info.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (*generator.GenerationResult, bool, error) {
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.ResultKey(opts.ResultKeyOpts(r.typeNames(), r.libraryHash()))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if res, err := graph.UnmarshalResult(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "result")
				return res, true, nil // Cache hit
			}
			// A stale or corrupt entry falls through to regeneration
		}
		observability.Cache().OnCacheMiss(ctx, "result")
	}

	hooks := observability.Generator()
	hooks.OnGenerateStart(ctx, opts.Settings.Seed)
	start := time.Now()

	d := generator.New(r.Library, r.selector(opts), r.Rules, opts.Logger)
	res, err := d.Run(opts.Settings)

	insertions := 0
	if res != nil {
		insertions = res.Stats.Insertions
	}
	hooks.OnGenerateComplete(ctx, opts.Settings.Seed, insertions, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache the result (a refresh overwrites the stale entry)
	if data, err := graph.MarshalResult(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.ResultTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "result", len(data))
		} else {
			r.Logger.Warn("cache write failed", "error", err)
		}
	}

	return res, false, nil // Cache miss
}

// Generate is a convenience wrapper that calls GenerateWithCacheInfo and discards the cache hit info.
func (r *Runner) Generate(ctx context.Context, opts Options) (*generator.GenerationResult, error) {
	res, _, err := r.GenerateWithCacheInfo(ctx, opts)
	return res, err
}

// RenderWithCacheInfo exports a result with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *generator.GenerationResult, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	fp, err := graph.Fingerprint(graph.FromResult(res))
	if err != nil {
		return nil, false, fmt.Errorf("fingerprint result for cache key: %w", err)
	}
	resultHash := fp.String()

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.RenderKey(resultHash, opts.RenderKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "render")
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "render")
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all formats
	hooks := observability.Generator()
	for _, format := range opts.Formats {
		hooks.OnRenderStart(ctx, format)
	}
	start := time.Now()
	rendered, err := Render(ctx, res, opts)
	elapsed := time.Since(start)
	for _, format := range opts.Formats {
		hooks.OnRenderComplete(ctx, format, len(rendered[format]), elapsed, err)
	}
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.RenderKey(resultHash, opts.RenderKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLRender); err == nil {
			observability.Cache().OnCacheSet(ctx, "render", len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res *generator.GenerationResult, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// selector draws uniformly from the library, pinning the root pattern when
// opts.Overall is set.
func (r *Runner) selector(opts Options) selector.Selector {
	base := selector.NewDefault(r.Library)
	if opts.Overall == "" {
		return base
	}
	return selector.NewForced(template.CycleType(opts.Overall), base)
}

func (r *Runner) typeNames() []string {
	types := r.Library.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}

// libraryHash fingerprints the pattern shapes in the library.
func (r *Runner) libraryHash() string {
	var tmpls []*template.CycleTemplate
	for _, t := range r.Library.Types() {
		if tmpl, err := r.Library.Get(t); err == nil {
			tmpls = append(tmpls, tmpl)
		}
	}
	var buf bytes.Buffer
	if err := pio.WritePatterns(tmpls, &buf); err != nil {
		return ""
	}
	return cache.Hash(buf.Bytes())
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
