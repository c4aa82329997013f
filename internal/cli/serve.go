package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/screenlint/screenlint/internal/config"
	"github.com/screenlint/screenlint/internal/server"
	"github.com/screenlint/screenlint/internal/store"
)

// serveCommand creates the HTTP service command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis service",
		Long: `Run the HTTP analysis service.

The server exposes POST /invoke for running analyses on fetched inputs,
GET /reports for listing stored reports, GET /reports/{id} for retrieving
one, and GET /health for liveness checks. It shuts down gracefully on
SIGINT and SIGTERM.

Configuration is read from the --config file when given, otherwise from
defaults, with SCREENLINT_* environment variables applied on top. The
--addr flag overrides the configured listen address.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")

	return cmd
}

// runServe wires the runner, report store, and HTTP server together and
// blocks until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, cfg config.Config) error {
	runner, err := c.newConfigRunner(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st, err := newStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close(context.Background())

	return server.New(cfg.Server, runner, st, c.Logger).Run(ctx)
}

// newStore selects the report store backend from configuration. An empty
// Mongo URI selects the bounded in-memory store.
func newStore(ctx context.Context, cfg config.Store) (store.Store, error) {
	if cfg.MongoURI != "" {
		return store.NewMongoStore(ctx, cfg.MongoURI, cfg.Database)
	}
	return store.NewMemoryStore(cfg.MaxRecords), nil
}
