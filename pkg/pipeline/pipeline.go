// Package pipeline provides the core diagram pipeline for figflow.
//
// This package implements the complete parse → layout → render pipeline
// shared by the CLI and the HTTP server. Centralizing it keeps behavior
// identical across entry points and puts the caching logic in one place.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Turn DSL spec text into an abstract plan
//  2. Layout: Compute deterministic positions for the plan
//  3. Render: Generate output in various formats (SVG, DOT, JSON)
//
// Each stage can be run independently or as part of the complete
// pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Spec:    specText,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/figflow/figflow/pkg/cache"
	"github.com/figflow/figflow/pkg/errors"
	"github.com/figflow/figflow/pkg/layout"
	"github.com/figflow/figflow/pkg/plan"
)

// Default canvas size, re-exported so CLI and server flag defaults stay in
// sync with the layout engine.
const (
	DefaultWidth  = layout.DefaultWidth
	DefaultHeight = layout.DefaultHeight
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// Engine constants for SVG rendering.
const (
	// EngineLayered is the built-in deterministic layered renderer.
	EngineLayered = "layered"
	// EngineGraphviz routes the plan through DOT and renders with the
	// in-process graphviz engine instead.
	EngineGraphviz = "graphviz"
)

// ValidEngines is the set of supported SVG engines.
var ValidEngines = map[string]bool{
	EngineLayered:  true,
	EngineGraphviz: true,
}

// Options contains all configuration for the diagram pipeline.
// The struct serializes to JSON for API requests.
type Options struct {
	// Parse options
	Spec            string `json:"spec"`
	DefaultNodeType string `json:"default_node_type,omitempty"`

	// Layout options
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Engine    string   `json:"engine,omitempty"` // SVG engine: layered (default) or graphviz
	Theme     string   `json:"theme,omitempty"`  // path to a TOML theme file
	ShowTitle bool     `json:"show_title,omitempty"`

	// Refresh bypasses cache reads, forcing every stage to recompute.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Plan is the parsed diagram plan.
	Plan *plan.Plan

	// PlanHash is the content hash of the spec text.
	PlanHash string

	// Layout is the positioned graph.
	Layout layout.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool // Whether the parsed plan came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, dot, json)", format)
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

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidCanvas, "canvas dimensions must be positive, got %gx%g", o.Width, o.Height)
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if o.Spec == "" {
		return errors.New(errors.ErrCodeInvalidSpec, "spec text is required")
	}
	if o.DefaultNodeType == "" {
		o.DefaultNodeType = plan.DefaultNodeType
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Engine == "" {
		o.Engine = EngineLayered
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if !ValidEngines[o.Engine] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid engine: %q (must be layered or graphviz)", o.Engine)
	}
	return ValidateFormats(o.Formats)
}

// LayoutOptions converts pipeline options to layout engine options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{Width: o.Width, Height: o.Height}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Width: o.Width, Height: o.Height}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Engine: o.Engine, Theme: o.Theme, ShowTitle: o.ShowTitle}
}
