// Package cli implements the drilltree command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/matzehuels/drilltree/pkg/buildinfo"
	"github.com/matzehuels/drilltree/pkg/cache"
	"github.com/matzehuels/drilltree/pkg/config"
	"github.com/matzehuels/drilltree/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "drilltree"

	defaultRedisURL = "redis://localhost:6379/0"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Cache backends selectable with --cache.
const (
	cacheFile  = "file"
	cacheBolt  = "bolt"
	cacheRedis = "redis"
	cacheNone  = "none"
)

var cacheBackends = []string{cacheFile, cacheBolt, cacheRedis, cacheNone}

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out        io.Writer // log destination before --log-file is applied
	configPath string
	logFile    string
	cacheKind  string
	redisURL   string

	settings config.Settings
	rotator  *lumberjack.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:    newLogger(w, level),
		out:       w,
		cacheKind: cacheFile,
		redisURL:  defaultRedisURL,
		settings:  config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Close flushes and closes the rotated log file, if any.
func (c *CLI) Close() error {
	if c.rotator == nil {
		return nil
	}
	return c.rotator.Close()
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Drilltree explores aggregated tables as drill-down trees",
		Long: `Drilltree turns a flat table into a drill-down tree: each level groups the
rows by one category column and sums the measure columns. Large levels show
their top entries plus a "+ N" summary node that can be opened step by step.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "settings file (default ./"+config.DefaultSettingsFileName+" if present)")
	pf.StringVar(&c.logFile, "log-file", "", "also write logs to this file, rotated at 10 MB")
	pf.StringVar(&c.cacheKind, "cache", c.cacheKind, "cache backend: "+strings.Join(cacheBackends, ", "))
	pf.StringVar(&c.redisURL, "redis-url", c.redisURL, "redis URL for --cache redis")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.printCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup runs before every command: it applies --log-file, loads settings
// and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.logFile != "" && c.rotator == nil {
		c.rotator = &lumberjack.Logger{
			Filename:   c.logFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
		c.Logger.SetOutput(io.MultiWriter(c.out, c.rotator))
	}

	settings, err := loadSettings(c.configPath)
	if err != nil {
		return err
	}
	c.settings = settings

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// loadSettings reads the settings file. An explicit path must exist; the
// default file in the working directory is optional.
func loadSettings(path string) (config.Settings, error) {
	if path == "" {
		return config.Load(config.DefaultSettingsFileName)
	}
	if _, err := os.Stat(path); err != nil {
		return config.Settings{}, fmt.Errorf("settings file: %w", err)
	}
	return config.Load(path)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The caller closes the
// runner's cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	kind := c.cacheKind
	if noCache {
		kind = cacheNone
	}
	ch, err := c.newCache(ctx, kind)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, kind string) (cache.Cache, error) {
	switch kind {
	case cacheNone:
		return cache.NewNullCache(), nil
	case cacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{URL: c.redisURL, Prefix: appName + ":"})
	case cacheFile, cacheBolt:
	default:
		return nil, fmt.Errorf("invalid cache backend: %q (must be one of: %s)", kind, strings.Join(cacheBackends, ", "))
	}

	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	if kind == cacheBolt {
		return cache.NewBoltCache(boltPath(dir))
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/drilltree/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// boltPath is the database file of the bolt backend inside the cache dir.
func boltPath(dir string) string {
	return filepath.Join(dir, appName+".db")
}
