// Package mcp exposes the analyzer as Model Context Protocol tools so
// agents can lint screens they capture.
package mcp

import (
	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/screenlint/screenlint/pkg/buildinfo"
	"github.com/screenlint/screenlint/pkg/errors"
	"github.com/screenlint/screenlint/pkg/fetch"
	"github.com/screenlint/screenlint/pkg/pipeline"
)

// Config selects the MCP transport.
type Config struct {
	// Transport is "stdio" (default) or "streamable-http".
	Transport string

	// Addr is the listen address for the streamable-http transport.
	Addr string
}

// Server wraps the MCP server around a pipeline runner.
type Server struct {
	runner  *pipeline.Runner
	fetcher *fetch.Client
	logger  *log.Logger
	mcp     *mcpserver.MCPServer
}

// NewServer creates the MCP server and registers the screenlint tools.
func NewServer(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}

	s := &Server{
		runner:  runner,
		fetcher: fetch.New(nil, logger.Debugf),
		logger:  logger,
	}
	s.mcp = mcpserver.NewMCPServer("screenlint", buildinfo.Version)
	s.registerTools()
	return s
}

// Serve blocks serving the configured transport.
func (s *Server) Serve(cfg Config) error {
	switch cfg.Transport {
	case "", "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		s.logger.Info("mcp listening", "addr", cfg.Addr)
		return mcpserver.NewStreamableHTTPServer(s.mcp).Start(cfg.Addr)
	default:
		return errors.New(errors.ErrCodeUnsupported,
			"unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("analyze",
			mcp.WithDescription("Run a static accessibility analysis over a mobile UI screenshot and its XML view hierarchy. Reports missing content descriptions, undersized touch targets, low color contrast, and broken heading hierarchies as JSON."),
			mcp.WithString("xml", mcp.Required(), mcp.Description("View hierarchy XML: local file path or HTTP(S) URL")),
			mcp.WithString("image", mcp.Required(), mcp.Description("Screenshot: local file path or HTTP(S) URL")),
			mcp.WithBoolean("regions", mcp.Description("Also scan auto-detected text regions for low contrast")),
			mcp.WithBoolean("refresh", mcp.Description("Recompute even when a cached report exists")),
		),
		s.handleAnalyze,
	)

	s.mcp.AddTool(
		mcp.NewTool("contrast",
			mcp.WithDescription("Scan a screenshot for low-contrast text regions without a view hierarchy. Returns the failing regions with measured ratios and suggested replacement colors as JSON."),
			mcp.WithString("image", mcp.Required(), mcp.Description("Screenshot: local file path or HTTP(S) URL")),
		),
		s.handleContrast,
	)
}
