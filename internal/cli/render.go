package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/drilltree/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	source      sourceFlags
	output      string  // output file (single format), base path, or "-" for stdout
	formats     string  // comma-separated output formats
	detailed    bool    // record counts in nodelink labels
	interactive string  // endpoint baked into SVG drill buttons
	scale       float64 // PNG resolution multiplier
	noCache     bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Render a drill-down tree to SVG, JSON, DOT, PNG or PDF",
		Long: `Render loads a table, applies the initial drill state plus any --expand
paths, and writes the laid-out tree in each requested format.

The input is a CSV, JSON or sqlite file, or a postgres connection string
together with --input-format postgres. SQL inputs need --query.`,
		Example: `  drilltree render sales.csv -m revenue
  drilltree render sales.csv -c region,shop -m revenue -e north -f svg,json
  drilltree render sales.db -q "SELECT region, shop, revenue FROM sales" -m revenue -f png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	opts.source.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file (single format), base path (several formats), or "-" for stdout`)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): "+strings.Join(pipeline.ValidFormats, ", ")+" (comma-separated, default svg)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show record counts in dot and nodelink output")
	cmd.Flags().StringVar(&opts.interactive, "interactive", "", "endpoint for the SVG drill buttons (e.g. http://localhost:8080/api/views/<id>)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	popts, err := opts.source.options(input, c.settings)
	if err != nil {
		return err
	}
	popts.Formats = parseFormats(opts.formats)
	popts.Detailed = opts.detailed
	popts.Interactive = opts.interactive
	popts.Scale = opts.scale
	popts.Logger = logger
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if opts.output == "-" && len(popts.Formats) > 1 {
		return fmt.Errorf("cannot write %d formats to stdout", len(popts.Formats))
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	var spin *Spinner
	if opts.output != "-" && isatty.IsTerminal(os.Stderr.Fd()) {
		spin = newSpinnerWithContext(ctx, "Rendering "+input)
		spin.Start()
	}
	prog := newProgress(logger)
	result, err := runner.Execute(ctx, popts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	if opts.output == "-" {
		_, err := os.Stdout.Write(result.Artifacts[popts.Formats[0]])
		return err
	}

	paths := outputPaths(opts.output, input, popts)
	for _, format := range popts.Formats {
		if err := writeFile(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}
	prog.done(fmt.Sprintf("Rendered %d file(s)", len(popts.Formats)))

	printSuccess("Rendered %s", input)
	for _, format := range popts.Formats {
		printFile(paths[format])
	}
	fmt.Println(statsLine(result.Stats.Rows, result.Stats.Visible, cachedStages(result.CacheInfo)))
	return nil
}

func cachedStages(ci pipeline.CacheInfo) []string {
	var out []string
	if ci.LoadHit {
		out = append(out, "query")
	}
	if ci.LayoutHit {
		out = append(out, "layout")
	}
	if ci.RenderHit {
		out = append(out, "render")
	}
	return out
}

// extension returns the file suffix for a format. Graphviz SVG gets its own
// suffix so it can sit next to the tree SVG.
func extension(format string) string {
	if format == pipeline.FormatNodelink {
		return ".nodelink.svg"
	}
	return "." + format
}

// outputPaths maps each format to its output file. A single format is
// written to output verbatim when given; otherwise the files share a base
// path derived from output or the input name.
func outputPaths(output, input string, opts pipeline.Options) map[string]string {
	paths := make(map[string]string, len(opts.Formats))
	if output != "" && len(opts.Formats) == 1 {
		paths[opts.Formats[0]] = output
		return paths
	}
	base := basePath(output, input, opts.InputFormat)
	for _, f := range opts.Formats {
		paths[f] = base + extension(f)
	}
	return paths
}

// basePath derives the base output path. Without an output it strips the
// input extension; postgres inputs are connection strings and fall back to
// the app name. Known format extensions are stripped from output.
func basePath(output, input, inputFormat string) string {
	if output == "" {
		if inputFormat == pipeline.InputPostgres {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	for _, f := range pipeline.ValidFormats {
		if ext == f {
			return strings.TrimSuffix(output, "."+ext)
		}
	}
	return output
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
