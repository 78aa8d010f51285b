// Package cli implements the hubgrid command-line interface.
//
// This package provides commands for allocating cell towers to hubs,
// exporting proximity graphs as DOT or images, browsing allocation results,
// serving the HTTP API, and managing the result cache. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - allocate: Assign towers from a CSV or JSON file to hubs
//   - graph: Export a region's proximity graph as DOT, SVG, or PNG
//   - regions: Browse a saved allocation result interactively
//   - serve: Run the HTTP allocation API
//   - cache: Manage the allocation result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
//
// # Example
//
//	import "github.com/telcoplan/hubgrid/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/telcoplan/hubgrid/pkg/buildinfo"
	"github.com/telcoplan/hubgrid/pkg/cache"
	"github.com/telcoplan/hubgrid/pkg/plan"
)

// appName is the application name used for directories and display.
const appName = "hubgrid"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath overrides the default config file location when set via
	// the --config flag.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "hubgrid",
		Short:        "Hubgrid assigns cell towers to interference-free hubs",
		Long:         `Hubgrid plans hub assignments for cell tower networks: towers closer than a distance threshold must not share a hub, and each region converges toward a small number of frequency groups.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/hubgrid/config.toml)")

	// Register all subcommands
	root.AddCommand(c.allocateCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.regionsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates an allocation runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *Config, noCache bool) (*plan.Runner, error) {
	store, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return plan.NewRunner(store, newKeyer(cfg), c.Logger), nil
}

// newKeyer builds the cache keyer, scoped when the config names a scope so
// deployments sharing one backend do not collide.
func newKeyer(cfg *Config) cache.Keyer {
	if cfg.Cache.Scope != "" {
		return cache.NewScopedKeyer(nil, cfg.Cache.Scope+":")
	}
	return cache.NewDefaultKeyer()
}

// newCache builds a cache backend from the config. An unreachable file
// backend degrades to a null cache; redis and mongo failures are reported
// because the operator asked for them explicitly.
func (c *CLI) newCache(ctx context.Context, cfg *Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}

	switch cfg.Cache.Backend {
	case "", CacheBackendFile:
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	case CacheBackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	case CacheBackendMongo:
		return cache.NewMongoCache(ctx, cache.MongoConfig{
			URI:        cfg.Cache.Mongo.URI,
			Database:   cfg.Cache.Mongo.Database,
			Collection: cfg.Cache.Mongo.Collection,
		})
	case CacheBackendNone:
		return cache.NewNullCache(), nil
	default:
		return nil, errInvalidBackend(cfg.Cache.Backend)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/hubgrid/).
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
