package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/figflow/figflow/pkg/cache"
	"github.com/figflow/figflow/pkg/pipeline"
	"github.com/figflow/figflow/pkg/store"

	"github.com/figflow/figflow/internal/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string // listen address
	redisURL string // redis connection URL; empty uses the local file cache
	mongoURI string // mongo connection URI; empty keeps history in memory
	mongoDB  string // mongo database name
	noCache  bool   // disable caching entirely
}

// newServeCmd creates the serve command, running the HTTP rendering API.
// By default it uses the same local file cache as the CLI and keeps
// render history in memory; --redis and --mongo-uri switch both to
// shared backends for multi-replica deployments.
func newServeCmd() *cobra.Command {
	opts := serveOpts{addr: ":8080", mongoDB: appName}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the figflow HTTP rendering API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "redis URL for a shared cache (redis://host:port/db)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "mongo URI for persistent render history")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "mongo database name")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	c, keyer, err := newServeCache(ctx, opts)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(c, keyer, logger)
	defer runner.Close()

	st, err := newServeStore(ctx, opts)
	if err != nil {
		return err
	}
	defer st.Close(context.WithoutCancel(ctx))

	srv := server.New(server.Config{
		Addr:   opts.addr,
		Runner: runner,
		Store:  st,
		Logger: logger,
	})
	return srv.ListenAndServe(ctx)
}

// newServeCache picks the cache backend for serve mode. Redis entries are
// namespaced with a scoped keyer since the instance may be shared.
func newServeCache(ctx context.Context, opts *serveOpts) (cache.Cache, cache.Keyer, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil, nil
	}
	if opts.redisURL != "" {
		c, err := cache.NewRedisCache(ctx, opts.redisURL)
		if err != nil {
			return nil, nil, err
		}
		return c, cache.NewScopedKeyer(nil, appName+":"), nil
	}
	return newCLICache(false), nil, nil
}

func newServeStore(ctx context.Context, opts *serveOpts) (store.Store, error) {
	if opts.mongoURI == "" {
		return store.NewMemoryStore(), nil
	}
	return store.NewMongoStore(ctx, opts.mongoURI, opts.mongoDB)
}
