// Package cli implements the typegraph command-line interface.
//
// The CLI loads a schema file, reads flattened graphs from JSON, and runs the
// graph engines over them: validation, merging, rendering, browsing and
// snapshot storage. It is built using cobra and logs via charmbracelet/log.
//
// # Commands
//
//   - schema: Show the types declared by a schema file
//   - check: Validate and rebuild a flattened graph
//   - merge: Merge two graphs and write the result
//   - render: Draw a graph as DOT, SVG, PDF or PNG
//   - browse: Explore a graph interactively
//   - snapshot: Save, load and tag graphs in the cache
//   - cache: Manage the snapshot cache
//
// # Configuration
//
// Settings come from --config (YAML), TYPEGRAPH_* environment variables and
// flags. See [config.Load] for precedence.
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/typegraph/internal/config"
	"github.com/matzehuels/typegraph/pkg/buildinfo"
	"github.com/matzehuels/typegraph/pkg/cache"
	"github.com/matzehuels/typegraph/pkg/errors"
	"github.com/matzehuels/typegraph/pkg/flatten"
	"github.com/matzehuels/typegraph/pkg/observability"
	"github.com/matzehuels/typegraph/pkg/schema"
	"github.com/matzehuels/typegraph/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "typegraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	status  io.Writer // spinner output, shared with the logger
	cfgFile string
	cfg     *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), status: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Typegraph validates, merges and renders schema-typed object graphs",
		Long:         `Typegraph is a CLI tool for working with object graphs whose node types are declared in a schema file. Graphs are exchanged as flattened JSON: a root reference and a table of node records keyed by id.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.installHooks()
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (YAML)")
	flags.StringP("schema", "s", "", "schema file (.toml, .yaml or .yml)")
	flags.String("cache-backend", "", "snapshot cache: file, memory, redis or none")
	flags.String("cache-dir", "", "directory of the file cache")
	flags.Duration("cache-ttl", 0, "expiry of stored snapshots (0 keeps them)")
	flags.String("redis-addr", "", "redis address for the redis backend")

	root.AddCommand(c.schemaCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.mergeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// settings returns the loaded configuration, or defaults when a command runs
// without the root pre-run (as in tests).
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		cfg, err := config.Load("", nil)
		if err != nil {
			return &config.Config{Cache: config.CacheConfig{Backend: config.BackendNone}}
		}
		c.cfg = cfg
	}
	return c.cfg
}

// =============================================================================
// Schema and Graph Loading
// =============================================================================

// loadRegistry reads the configured schema file into a fresh registry.
func (c *CLI) loadRegistry(ctx context.Context) (*schema.Registry, error) {
	path := c.settings().Schema
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no schema file given (use --schema or TYPEGRAPH_SCHEMA)")
	}
	reg := schema.NewRegistry()
	types, err := schema.LoadFile(reg, path)
	observability.Graph().OnSchemaLoad(ctx, path, len(types), err)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("Loaded schema", "path", path, "types", len(types))
	return reg, nil
}

// readGraph reads a flattened graph from path, or from stdin when path is "-".
func readGraph(path string) (*flatten.Flattened, error) {
	if path == "-" {
		return flatten.ReadJSON(os.Stdin)
	}
	return flatten.ImportJSON(path)
}

// unflatten rebuilds f and reports the attempt to the graph hooks.
func unflatten(ctx context.Context, reg *schema.Registry, f *flatten.Flattened) (any, error) {
	start := time.Now()
	root, err := flatten.Unflatten(reg, f)
	observability.Graph().OnUnflatten(ctx, f.Len(), time.Since(start), err)
	return root, err
}

// loadGraph reads and rebuilds the graph stored at path.
func loadGraph(ctx context.Context, reg *schema.Registry, path string) (any, *flatten.Flattened, error) {
	f, err := readGraph(path)
	if err != nil {
		return nil, nil, err
	}
	root, err := unflatten(ctx, reg, f)
	if err != nil {
		return nil, f, err
	}
	return root, f, nil
}

// writeGraph flattens root to path, or to stdout when path is "" or "-".
func writeGraph(ctx context.Context, root any, path string) (*flatten.Flattened, error) {
	start := time.Now()
	f := flatten.Flatten(root)
	observability.Graph().OnFlatten(ctx, f.Len(), time.Since(start))
	if path == "" || path == "-" {
		return f, flatten.WriteJSON(f, os.Stdout)
	}
	return f, flatten.ExportJSON(f, path)
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache opens the configured snapshot cache backend.
func newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendMemory:
		return cache.NewMemoryCache(cfg.Cache.MemorySize)
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cfg.Redis.RedisOptions())
	default:
		if cfg.Cache.Dir == "" {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(cfg.Cache.Dir)
	}
}

// newStore opens the snapshot store over the configured cache.
func (c *CLI) newStore(ctx context.Context, reg *schema.Registry) (*store.Store, cache.Cache, error) {
	cfg := c.settings()
	ch, err := newCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	c.Logger.Debug("Opened cache", "backend", cfg.Cache.Backend)
	return store.New(ch, reg, store.WithTTL(cfg.Cache.TTL)), ch, nil
}
