package cmd

import (
	"fmt"

	"github.com/compasshq/fcx/internal/mcp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server for AI agent integration",
	Long: `Start an MCP (Model Context Protocol) server over stdio.

This allows AI agents to run feature discovery through MCP tools instead of
spawning CLI commands.

Available Tools:
  fcx_discover   Discover the feature symbol set around an entry point
  fcx_show       Show details of a single symbol

Examples:
  fcx serve --mcp`,
	RunE: runServe,
}

var serveMCP bool

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "Start MCP server (stdio transport)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if !serveMCP {
		return fmt.Errorf("only stdio MCP transport is supported: pass --mcp")
	}

	st, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	srv, err := mcp.New(st, cfg)
	if err != nil {
		return err
	}
	return srv.ServeStdio()
}
