package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drilltree/pkg/cache"
	"github.com/matzehuels/drilltree/pkg/config"
	"github.com/matzehuels/drilltree/pkg/errors"
	"github.com/matzehuels/drilltree/pkg/graph"
	"github.com/matzehuels/drilltree/pkg/layout"
	"github.com/matzehuels/drilltree/pkg/observability"
	"github.com/matzehuels/drilltree/pkg/table"
	"github.com/matzehuels/drilltree/pkg/visual"
)

// Runner encapsulates pipeline execution with caching.
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

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	tbl, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Table = tbl
	result.Stats.Rows = tbl.RowCount()
	result.Stats.LoadTime = time.Since(loadStart)
	result.CacheInfo.LoadHit = loadHit

	r.Logger.Info("loaded table",
		"rows", result.Stats.Rows,
		"categories", len(tbl.Categories),
		"measures", len(tbl.Measures),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, tableHash, layoutHit, err := r.LayoutWithCacheInfo(ctx, tbl, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.TableHash = tableHash
	result.Stats.Visible = len(l.Nodes)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"visible", result.Stats.Visible,
		"width", l.Width,
		"height", l.Height,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo reads the input table. SQL results are cached by query;
// files are always read fresh since reading them is as cheap as a cache hit.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*table.Table, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	if opts.InputFormat != InputSQLite && opts.InputFormat != InputPostgres {
		t, err := Load(ctx, opts)
		return t, false, err
	}

	key := r.Keyer.TableKey(cache.TableKeyOpts{
		Driver:     opts.SQL.Driver,
		DSN:        opts.SQL.DSN,
		Query:      opts.SQL.Query,
		Args:       opts.SQL.Args,
		Categories: opts.SQL.Categories,
		Measures:   opts.SQL.Measures,
	})
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if t, err := decodeTable(data); err == nil {
				hooks.OnCacheHit(ctx, "table")
				return t, true, nil
			}
		}
		hooks.OnCacheMiss(ctx, "table")
	}

	t, err := Load(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	if data, err := encodeTable(t); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLTable); err == nil {
			hooks.OnCacheSet(ctx, "table", len(data))
		}
	}
	return t, false, nil
}

// LayoutWithCacheInfo builds the tree, applies the drill options and lays
// out the visible shape. It also returns the table fingerprint used in the
// cache key.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, tbl *table.Table, opts Options) (graph.Layout, string, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.Layout{}, "", false, err
	}

	fp, err := tbl.Fingerprint()
	if err != nil {
		return graph.Layout{}, "", false, errors.Wrap(errors.ErrCodeInvalidTable, err, "fingerprint table")
	}
	sfp, err := table.Fingerprint(opts.Settings)
	if err != nil {
		return graph.Layout{}, "", false, errors.Wrap(errors.ErrCodeInvalidSettings, err, "fingerprint settings")
	}
	tableHash := cache.FingerprintHash(fp)
	key := r.Keyer.LayoutKey(tableHash, opts.layoutKeyOpts(cache.FingerprintHash(sfp)))
	hooks := observability.Cache()

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		if l, err := graph.Unmarshal(data); err == nil {
			hooks.OnCacheHit(ctx, "layout")
			return l, tableHash, true, nil
		}
	}
	hooks.OnCacheMiss(ctx, "layout")

	l, err := GenerateLayout(ctx, tbl, opts)
	if err != nil {
		return graph.Layout{}, "", false, err
	}
	if data, err := graph.Marshal(l); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err == nil {
			hooks.OnCacheSet(ctx, "layout", len(data))
		}
	}
	return l, tableHash, false, nil
}

// GenerateLayout runs the drill-down model over tbl without caching.
func GenerateLayout(ctx context.Context, tbl *table.Table, opts Options) (graph.Layout, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.Layout{}, err
	}
	v := visual.New(opts.Settings, visual.WithLogger(opts.Logger))
	if _, err := v.UpdateContext(ctx, tbl, opts.Settings); err != nil {
		return graph.Layout{}, err
	}
	if v.Tree() == nil {
		return emptyLayout(opts.Settings), nil
	}

	if opts.ExpandAll {
		v.ExpandAll()
	}
	for _, path := range opts.Expand {
		if err := v.Reveal(path...); err != nil {
			return graph.Layout{}, err
		}
	}
	l, _ := v.Layout()
	return l, nil
}

// emptyLayout is the layout of a table without category columns: no nodes
// and a frame one box wide, so the sinks can draw a placeholder.
func emptyLayout(s config.Settings) graph.Layout {
	lo := s.LayoutOptions().WithDefaults()
	res := layout.Result{
		Width:  lo.NodeWidth + 2*lo.Margin,
		Height: lo.BoxHeight + lo.Margin,
	}
	return graph.FromTree(nil, res, lo, s.ShowMeasure)
}

// RenderWithCacheInfo generates artifacts with caching. The render hit flag
// is true only when every format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	layoutData, err := graph.Marshal(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.artifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			hooks.OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		hooks.OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	pipe := observability.Pipeline()
	pipe.OnRenderStart(ctx, missing)
	start := time.Now()
	sub := opts
	sub.Formats = missing
	rendered, err := RenderFromLayout(l, sub)
	pipe.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(layoutHash, opts.artifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			hooks.OnCacheSet(ctx, "artifact", len(data))
		} else {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
		}
	}
	return artifacts, false, nil
}
