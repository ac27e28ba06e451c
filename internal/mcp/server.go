// Package mcp provides an MCP (Model Context Protocol) server for fcx.
// This lets AI agents run feature discovery through MCP tools instead of CLI
// commands.
package mcp

import (
	"context"
	"fmt"
	"strconv"

	"github.com/compasshq/fcx/internal/config"
	"github.com/compasshq/fcx/internal/discovery"
	"github.com/compasshq/fcx/internal/output"
	"github.com/compasshq/fcx/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps the MCP server with fcx-specific functionality.
type Server struct {
	mcpServer *server.MCPServer
	store     *store.Store
	cfg       *config.Config
}

// New creates an MCP server over the given graph store.
func New(st *store.Store, cfg *config.Config) (*Server, error) {
	mcpServer := server.NewMCPServer(
		"fcx",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcpServer: mcpServer,
		store:     st,
		cfg:       cfg,
	}

	s.registerDiscoverTool()
	s.registerShowTool()
	return s, nil
}

// ServeStdio runs the server over stdio until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// registerDiscoverTool registers the fcx_discover tool.
func (s *Server) registerDiscoverTool() {
	tool := mcp.NewTool("fcx_discover",
		mcp.WithDescription("Discover all symbols belonging to the feature around an entry-point symbol."),
		mcp.WithString("symbol_id",
			mcp.Required(),
			mcp.Description("Entry-point symbol id"),
		),
		mcp.WithString("feature",
			mcp.Description("Feature name for the report"),
		),
		mcp.WithNumber("max_depth",
			mcp.Description("Traversal depth limit (default: 5)"),
		),
		mcp.WithNumber("min_score",
			mcp.Description("Drop symbols below this relevance (default: 0)"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleDiscover)
}

func (s *Server) handleDiscover(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	rawID, ok := args["symbol_id"].(string)
	if !ok || rawID == "" {
		return mcp.NewToolResultError("symbol_id parameter is required"), nil
	}
	entryID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid symbol id %q", rawID)), nil
	}

	feature, _ := args["feature"].(string)

	opts := discovery.DefaultOptions()
	opts.MaxDepth = s.cfg.Discovery.MaxDepth
	opts.MaxSymbols = s.cfg.Discovery.MaxSymbols
	opts.MinRelevanceScore = s.cfg.Discovery.MinRelevance
	opts.FeatureName = feature
	if d, ok := args["max_depth"].(float64); ok && d > 0 {
		opts.MaxDepth = int(d)
	}
	if m, ok := args["min_score"].(float64); ok && m > 0 {
		opts.MinRelevanceScore = m
	}

	engine := discovery.NewEngine(s.store, discovery.EngineOptions{
		MaxIterations: s.cfg.Discovery.MaxIterations,
	})

	result, err := engine.Discover(ctx, entryID, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := output.BuildReport(s.store, feature, result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rendered, err := output.Render(report, output.FormatYAML)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(rendered), nil
}

// registerShowTool registers the fcx_show tool.
func (s *Server) registerShowTool() {
	tool := mcp.NewTool("fcx_show",
		mcp.WithDescription("Show details of a single symbol."),
		mcp.WithString("symbol_id",
			mcp.Required(),
			mcp.Description("Symbol id to look up"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleShow)
}

func (s *Server) handleShow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	rawID, ok := args["symbol_id"].(string)
	if !ok || rawID == "" {
		return mcp.NewToolResultError("symbol_id parameter is required"), nil
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid symbol id %q", rawID)), nil
	}

	sym, err := s.store.GetSymbol(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if sym == nil {
		return mcp.NewToolResultError(fmt.Sprintf("symbol %d not found", id)), nil
	}

	rendered, err := output.RenderSymbol(sym, output.FormatYAML)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(rendered), nil
}
