package cli

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drilltree/pkg/config"
	"github.com/matzehuels/drilltree/pkg/pipeline"
	"github.com/matzehuels/drilltree/pkg/visual"
)

// sourceFlags are the input and drill flags shared by render, print and
// explore.
type sourceFlags struct {
	format     string
	categories []string
	measures   []string
	delimiter  string
	null       string
	query      string
	refresh    bool

	expand    []string
	expandAll bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.format, "input-format", "", "input format: "+strings.Join(pipeline.ValidInputFormats, ", ")+" (default: from extension)")
	fs.StringSliceVarP(&f.categories, "category", "c", nil, "category column(s) in tree order (default: all non-measure columns)")
	fs.StringSliceVarP(&f.measures, "measure", "m", nil, "measure column(s) to sum")
	fs.StringVar(&f.delimiter, "delimiter", "", `CSV field delimiter (default ","; "\t" for tabs)`)
	fs.StringVar(&f.null, "null", "", "CSV cell value treated as blank")
	fs.StringVarP(&f.query, "query", "q", "", "SQL query for sqlite and postgres inputs")
	fs.BoolVar(&f.refresh, "refresh", false, "re-run the SQL query instead of using the cached result")
	fs.StringArrayVarP(&f.expand, "expand", "e", nil, `reveal and open the node at a label path, e.g. "north/alpha" (repeatable)`)
	fs.BoolVar(&f.expandAll, "expand-all", false, "open every node")
}

// options converts the flags into pipeline options for input. The input is
// a file path for csv, json and sqlite, and a connection string for postgres.
func (f *sourceFlags) options(input string, settings config.Settings) (pipeline.Options, error) {
	comma, err := parseDelimiter(f.delimiter)
	if err != nil {
		return pipeline.Options{}, err
	}
	expand, err := pipeline.ParseExpandPaths(f.expand)
	if err != nil {
		return pipeline.Options{}, err
	}

	opts := pipeline.Options{
		Input:       input,
		InputFormat: f.format,
		Refresh:     f.refresh,
		Settings:    settings,
		Expand:      expand,
		ExpandAll:   f.expandAll,
	}
	opts.CSV.Categories = f.categories
	opts.CSV.Measures = f.measures
	opts.CSV.Comma = comma
	opts.CSV.NullToken = f.null
	opts.SQL.Query = f.query
	opts.SQL.Categories = f.categories
	opts.SQL.Measures = f.measures
	return opts, nil
}

// parseDelimiter accepts a single character or the escape "\t".
func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("invalid delimiter %q: must be a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// loadVisual loads the table described by opts into a fresh view and
// applies the requested expansions.
func (c *CLI) loadVisual(ctx context.Context, opts pipeline.Options) (*visual.Visual, error) {
	logger := loggerFromContext(ctx)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return nil, err
	}
	defer runner.Cache.Close()

	tbl, _, err := runner.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}

	v := visual.New(opts.Settings, visual.WithLogger(logger))
	if _, err := v.UpdateContext(ctx, tbl, opts.Settings); err != nil {
		return nil, err
	}
	if opts.ExpandAll {
		v.ExpandAll()
	}
	for _, p := range opts.Expand {
		if err := v.Reveal(p...); err != nil {
			return nil, err
		}
	}
	return v, nil
}
