// Package pipeline provides the batch load → drill → layout → render path.
//
// The CLI's render command and any other non-interactive entry point run
// through here, so cache keys, defaults and format handling stay identical
// everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read a table from CSV, JSON or a SQL query
//  2. Layout: build the tree, apply the initial drill state plus any
//     requested expansions, and run the tidy layout
//  3. Render: produce artifacts (SVG, JSON, DOT, Graphviz SVG, PNG, PDF)
//
// Each stage is cached independently: SQL results by query, layouts by table
// fingerprint and drill options, artifacts by layout hash and format.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "sales.csv",
//	    CSV:     io.CSVOptions{Measures: []string{"revenue"}},
//	    Expand:  [][]string{{"north"}},
//	    Formats: []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drilltree/pkg/cache"
	"github.com/matzehuels/drilltree/pkg/config"
	"github.com/matzehuels/drilltree/pkg/errors"
	"github.com/matzehuels/drilltree/pkg/graph"
	dtio "github.com/matzehuels/drilltree/pkg/io"
	"github.com/matzehuels/drilltree/pkg/table"
)

// =============================================================================
// Formats
// =============================================================================

// Input formats.
const (
	InputCSV      = "csv"
	InputJSON     = "json"
	InputSQLite   = dtio.DriverSQLite
	InputPostgres = dtio.DriverPostgres
)

// Output formats.
const (
	FormatSVG      = "svg"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatNodelink = "nodelink"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
)

// DefaultScale is the PNG resolution multiplier.
const DefaultScale = 2.0

// ValidFormats lists the supported output formats in render order.
var ValidFormats = []string{FormatSVG, FormatJSON, FormatDOT, FormatNodelink, FormatPNG, FormatPDF}

// ValidInputFormats lists the supported input formats.
var ValidInputFormats = []string{InputCSV, InputJSON, InputSQLite, InputPostgres}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(ValidFormats, ", "))
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

// DetectInputFormat guesses the input format from a file extension.
// Database files (.db, .sqlite, .sqlite3) map to sqlite.
func DetectInputFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return InputJSON
	case ".db", ".sqlite", ".sqlite3":
		return InputSQLite
	default:
		return InputCSV
	}
}

// =============================================================================
// Options
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Load options
	Input       string          `json:"input"`
	InputFormat string          `json:"input_format,omitempty"`
	CSV         dtio.CSVOptions `json:"-"`
	SQL         dtio.SQLOptions `json:"-"`
	Refresh     bool            `json:"refresh,omitempty"` // bypass the query result cache

	// Drill options
	Settings  config.Settings `json:"settings"`
	Expand    [][]string      `json:"expand,omitempty"`
	ExpandAll bool            `json:"expand_all,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Detailed    bool     `json:"detailed,omitempty"`    // record counts in nodelink labels
	Interactive string   `json:"interactive,omitempty"` // endpoint for SVG drill buttons
	Scale       float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if o.InputFormat == "" {
		if o.SQL.Driver != "" {
			o.InputFormat = o.SQL.Driver
		} else {
			o.InputFormat = DetectInputFormat(o.Input)
		}
	}
	switch o.InputFormat {
	case InputCSV, InputJSON:
		if o.Input == "" {
			return errors.New(errors.ErrCodeInvalidInput, "input file is required")
		}
	case InputSQLite, InputPostgres:
		o.SQL.Driver = o.InputFormat
		if o.SQL.DSN == "" {
			o.SQL.DSN = o.Input
		}
		if err := o.SQL.Validate(); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "invalid input format: %q (must be one of: %s)",
			o.InputFormat, strings.Join(ValidInputFormats, ", "))
	}

	if o.Settings == (config.Settings{}) {
		o.Settings = config.Default()
	}
	if err := o.Settings.Validate(); err != nil {
		return err
	}
	for _, p := range o.Expand {
		if len(p) == 0 {
			return errors.New(errors.ErrCodeInvalidPath, "empty expand path")
		}
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}

	o.validated = true
	return nil
}

// ParseExpandPaths splits slash-separated node paths ("north/alpha").
func ParseExpandPaths(paths []string) ([][]string, error) {
	out := make([][]string, 0, len(paths))
	for _, p := range paths {
		if err := errors.ValidatePath(p); err != nil {
			return nil, err
		}
		if p == "" {
			continue
		}
		out = append(out, strings.Split(p, "/"))
	}
	return out, nil
}

func (o *Options) layoutKeyOpts(settingsHash string) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		SettingsHash: settingsHash,
		Expand:       o.Expand,
		ExpandAll:    o.ExpandAll,
	}
}

func (o *Options) artifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatDOT, FormatNodelink:
		opts.Detailed = o.Detailed
	case FormatPNG:
		opts.Scale = o.Scale
	case FormatSVG:
		opts.Interactive = o.Interactive
	}
	return opts
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Table is the loaded input.
	Table *table.Table

	// TableHash is the content fingerprint of the table.
	TableHash string

	// Layout is the laid-out visible tree.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows       int
	Visible    int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // query result came from cache
	LayoutHit bool // layout came from cache
	RenderHit bool // all artifacts came from cache
}

func (s Stats) String() string {
	return fmt.Sprintf("%d rows, %d visible nodes (load %s, layout %s, render %s)",
		s.Rows, s.Visible, s.LoadTime.Round(time.Millisecond),
		s.LayoutTime.Round(time.Millisecond), s.RenderTime.Round(time.Millisecond))
}
