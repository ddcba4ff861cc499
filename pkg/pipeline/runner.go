package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/figflow/figflow/pkg/cache"
	"github.com/figflow/figflow/pkg/layout"
	"github.com/figflow/figflow/pkg/plan"
	"github.com/figflow/figflow/pkg/render/dot"
	"github.com/figflow/figflow/pkg/render/styles"
	"github.com/figflow/figflow/pkg/render/svg"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer falls back to the default
// keyer, a nil cache disables caching, a nil logger uses the package
// default.
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete parse → layout → render pipeline with
// caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
		PlanHash:  cache.Hash([]byte(opts.Spec)),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	p, parseHit, err := r.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Plan = p
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = p.NodeCount()
	result.Stats.EdgeCount = p.EdgeCount()
	result.CacheInfo.ParseHit = parseHit

	r.Logger.Info("parsed spec",
		"nodes", p.NodeCount(),
		"edges", p.EdgeCount(),
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, p, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"canvas", fmt.Sprintf("%gx%g", l.Width, l.Height),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, p, opts)
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

// ParseWithCacheInfo parses spec text with caching and reports whether
// the plan came from cache.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, opts Options) (*plan.Plan, bool, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.PlanKey(cache.Hash([]byte(opts.Spec + "\x00" + opts.DefaultNodeType)))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if p, err := plan.Unmarshal(data); err == nil {
				return p, true, nil
			}
		}
	}

	p, err := plan.Parse(opts.Spec, plan.ParseOptions{DefaultNodeType: opts.DefaultNodeType})
	if err != nil {
		return nil, false, err
	}

	if data, err := plan.Marshal(p); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLPlan)
	}

	return p, false, nil
}

// Parse is a convenience wrapper that discards the cache hit info.
func (r *Runner) Parse(ctx context.Context, opts Options) (*plan.Plan, error) {
	p, _, err := r.ParseWithCacheInfo(ctx, opts)
	return p, err
}

// ComputeLayoutWithCacheInfo computes a layout with caching and reports
// whether it came from cache.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, p *plan.Plan, opts Options) (layout.Result, bool, error) {
	opts.SetLayoutDefaults()
	r.applyLogger(&opts)

	planData, err := plan.Marshal(p)
	if err != nil {
		return layout.Result{}, false, fmt.Errorf("serialize plan for cache key: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(planData), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := layout.Unmarshal(data); err == nil {
				return cached, true, nil
			}
			// Corrupt cached layout: fall through and recompute.
		}
	}

	l, err := layout.Compute(p, opts.LayoutOptions())
	if err != nil {
		return layout.Result{}, false, err
	}

	if data, err := layout.Marshal(l); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
	}

	return l, false, nil
}

// ComputeLayout is a convenience wrapper that discards the cache hit
// info.
func (r *Runner) ComputeLayout(ctx context.Context, p *plan.Plan, opts Options) (layout.Result, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, p, opts)
	return l, err
}

// RenderWithCacheInfo renders artifacts with caching and reports whether
// every requested format came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Result, p *plan.Plan, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutData, err := layout.Marshal(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte)
	allCached := !opts.Refresh
	if allCached {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered, err := r.renderAll(ctx, l, p, layoutData, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l layout.Result, p *plan.Plan, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, p, opts)
	return artifacts, err
}

// renderAll produces every requested format from the layout.
func (r *Runner) renderAll(ctx context.Context, l layout.Result, p *plan.Plan, layoutData []byte, opts Options) (map[string][]byte, error) {
	theme, err := r.resolveTheme(opts)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			data, err := r.renderSVG(ctx, l, p, theme, opts)
			if err != nil {
				return nil, err
			}
			artifacts[format] = data
		case FormatDOT:
			artifacts[format] = []byte(dot.ToDOT(p, dot.Options{Theme: theme}))
		case FormatJSON:
			artifacts[format] = layoutData
		}
	}
	return artifacts, nil
}

// renderSVG dispatches on the configured engine: the deterministic layered
// renderer by default, or a pass through graphviz.
func (r *Runner) renderSVG(ctx context.Context, l layout.Result, p *plan.Plan, theme styles.Theme, opts Options) ([]byte, error) {
	if opts.Engine == EngineGraphviz {
		return dot.RenderSVG(ctx, dot.ToDOT(p, dot.Options{Theme: theme}))
	}

	svgOpts := []svg.Option{svg.WithTheme(theme)}
	if opts.ShowTitle {
		svgOpts = append(svgOpts, svg.WithTitle())
	}
	return svg.Render(l, svgOpts...), nil
}

// resolveTheme loads the theme file named in the options, or the default
// theme when none is set.
func (r *Runner) resolveTheme(opts Options) (styles.Theme, error) {
	if opts.Theme == "" {
		return styles.Default(), nil
	}
	return styles.Load(opts.Theme)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
