// Package pipeline provides the generate → render pipeline shared by the CLI
// and the HTTP API.
//
// By centralizing this logic, both entry points resolve defaults, consult
// the cache and emit observability events the same way.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Generate: Run the graph grammar driver (or load the result from cache)
//  2. Render: Export the result in the requested formats (JSON, DOT, SVG, PNG, PDF)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Settings: generator.DefaultSettings(),
//	    Formats:  []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	res, err := runner.Generate(ctx, opts)
//	artifacts, err := runner.Render(ctx, res, opts)
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cyclegen/pkg/cache"
	errs "github.com/matzehuels/cyclegen/pkg/errors"
	"github.com/matzehuels/cyclegen/pkg/generator"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultScale is the PNG scale factor.
const DefaultScale = 2.0

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// DefaultFormat is used when no format is requested.
const DefaultFormat = FormatJSON

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Generation options. Settings are used as given: zero budgets are
	// meaningful, so callers start from generator.DefaultSettings().
	Settings generator.Settings `json:"settings"`
	Overall  string             `json:"overall,omitempty"` // pin the root pattern
	Refresh  bool               `json:"refresh,omitempty"` // bypass the result cache

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Clusters bool     `json:"clusters,omitempty"`
	Labels   bool     `json:"labels,omitempty"`
	Scale    float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Generation is the generated dungeon and its derivation tree.
	Generation *generator.GenerationResult

	// Fingerprint is the content UUID of the result document.
	Fingerprint string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GenerateHit bool // Whether the result came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidInput, "invalid format: %q (must be one of: json, dot, svg, png, pdf)", format)
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

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForGenerate checks the generation settings and the pinned type.
func (o *Options) ValidateForGenerate() error {
	if err := o.Settings.Validate(); err != nil {
		return err
	}
	if o.Overall != "" {
		if err := errs.ValidateCycleType(o.Overall); err != nil {
			return err
		}
	}
	o.setLoggerDefault()
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.setLoggerDefault()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Scale < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "scale must be > 0, got %g", o.Scale)
	}
	return ValidateFormats(o.Formats)
}

// NeedsSVG reports whether any requested format is derived from SVG.
func (o *Options) NeedsSVG() bool {
	return slices.ContainsFunc(o.Formats, func(f string) bool {
		return f == FormatSVG || f == FormatPNG || f == FormatPDF
	})
}

// ResultKeyOpts returns cache key options for the generated result.
// types and library identify the pattern library the runner draws from.
func (o *Options) ResultKeyOpts(types []string, library string) cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		Seed:               o.Settings.Seed,
		MaxDepth:           o.Settings.MaxDepth,
		MaxInsertionsTotal: o.Settings.MaxInsertionsTotal,
		MaxNodes:           o.Settings.MaxNodes,
		Overall:            o.Overall,
		Types:              types,
		Library:            library,
	}
}

// RenderKeyOpts returns cache key options for one export format.
func (o *Options) RenderKeyOpts(format string) cache.RenderKeyOpts {
	opts := cache.RenderKeyOpts{
		Format:   format,
		Clusters: o.Clusters,
		Labels:   o.Labels,
	}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
