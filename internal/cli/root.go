package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/figflow/figflow/pkg/buildinfo"
	"github.com/figflow/figflow/pkg/cache"
	"github.com/figflow/figflow/pkg/pipeline"
)

// appName is used for cache directories and display.
const appName = "figflow"

// Execute runs the figflow CLI. This is the main entry point.
//
// Logging defaults to info level on stderr; --verbose (-v) raises it to
// debug. The logger is attached to the command context and accessible to
// all commands via loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "figflow",
		Short:        "figflow turns diagram specs into laid-out SVG figures",
		Long:         `figflow is a CLI for a deterministic diagram pipeline: it parses a small markdown-flavored spec into a graph, computes a layered left-to-right layout, and renders SVG, DOT, or JSON artifacts.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newParseCmd())
	root.AddCommand(newLayoutCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCacheCmd())

	return root.ExecuteContext(ctx)
}

// newRunner creates a pipeline runner for CLI use, backed by the local
// file cache unless caching is disabled.
func newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(newCLICache(noCache), nil, loggerFromContext(ctx))
}

func newCLICache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err == nil {
		if c, cerr := cache.NewFileCache(dir); cerr == nil {
			return c
		}
		err = fmt.Errorf("open cache at %s", dir)
	}
	printWarning("Caching disabled: %v", err)
	return cache.NewNullCache()
}

// cacheDir returns the cache directory using the XDG convention
// (~/.cache/figflow/).
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

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// basePath derives the base output path from the output and input paths.
// Used when generating one file per format.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
