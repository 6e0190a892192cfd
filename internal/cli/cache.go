package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drilltree/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the query, layout and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var expired bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached entries of the local backends",
		RunE: func(cmd *cobra.Command, args []string) error {
			if expired {
				return runCachePrune(cmd.Context())
			}
			return runCacheClear()
		},
	}
	cmd.Flags().BoolVar(&expired, "expired", false, "only remove expired file entries")
	return cmd
}

// runCacheClear empties the cache directory, which holds both the file
// entries and the bolt database. Redis entries expire on their own.
func runCacheClear() error {
	dir, err := cacheDir()
	if err != nil {
		return fmt.Errorf("get cache dir: %w", err)
	}
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		printInfo("Cache is empty")
		return nil
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return err
	}
	if err := fc.Clear(); err != nil {
		return fmt.Errorf("clear %s: %w", dir, err)
	}

	printSuccess("Cleared cache")
	printDetail("Directory: %s", dir)
	return nil
}

// runCachePrune removes expired file entries and keeps the rest.
func runCachePrune(ctx context.Context) error {
	dir, err := cacheDir()
	if err != nil {
		return fmt.Errorf("get cache dir: %w", err)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return err
	}
	n, err := fc.Prune(ctx)
	if err != nil {
		return fmt.Errorf("prune %s: %w", dir, err)
	}
	printSuccess("Removed %d expired entries", n)
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location of the selected backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cacheKind == cacheRedis {
				fmt.Fprintln(cmd.OutOrStdout(), c.redisURL)
				return nil
			}
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if c.cacheKind == cacheBolt {
				dir = boltPath(dir)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
