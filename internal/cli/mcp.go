package cli

import (
	"github.com/spf13/cobra"

	"github.com/screenlint/screenlint/internal/mcp"
)

// mcpCommand creates the MCP server command.
func (c *CLI) mcpCommand() *cobra.Command {
	var (
		transport string
		addr      string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Expose the analyzer as MCP tools",
		Long: `Expose the analyzer as MCP tools.

The MCP server registers an "analyze" tool for full hierarchy analysis
and a "contrast" tool for standalone screenshot scans. The default
transport is stdio, which desktop MCP clients expect; --transport
streamable-http serves the same tools over HTTP at --addr.

Logs go to stderr so the stdio transport stays clean.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := mcp.NewServer(runner, c.Logger)
			return srv.Serve(mcp.Config{Transport: transport, Addr: addr})
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "transport: stdio (default), streamable-http")
	cmd.Flags().StringVar(&addr, "addr", ":8081", "listen address for the streamable-http transport")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
