package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/typegraph/internal/config"
	"github.com/matzehuels/typegraph/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the snapshot cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every snapshot and tag from the configured backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.settings()

			ch, err := newCache(ctx, cfg)
			if err != nil {
				return err
			}
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if !ok {
				printInfo("Cache is empty")
				return nil
			}
			count, err := clearer.Clear(ctx)
			if err != nil {
				return err
			}

			printSuccess("Cleared %d cached entries", count)
			switch cfg.Cache.Backend {
			case config.BackendFile:
				printDetail("Directory: %s", cfg.Cache.Dir)
			case config.BackendRedis:
				printDetail("Redis: %s (prefix %s)", cfg.Redis.Addr, cfg.Redis.Prefix)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := c.settings().Cache.Dir
			if dir == "" {
				return fmt.Errorf("no cache directory (set --cache-dir or TYPEGRAPH_CACHE_DIR)")
			}
			fmt.Println(dir)
			return nil
		},
	}
}
