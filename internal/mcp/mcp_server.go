// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/scanreport/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the report MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Scan Report Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: read_report ---
	s.AddTool(mcp.NewTool("read_report",
		mcp.WithDescription("Decode a scanner report archive and summarize every unit (issues, coverage, duplications)."),
		mcp.WithString("archive_path", mcp.Description("Path to the report archive (defaults to the configured archive).")),
		mcp.WithString("filter", mcp.Description("Only include units whose path starts with this prefix.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of units returned.")),
		mcp.WithBoolean("tests", mcp.Description("Include test units.")),
	), h.handleReadReport)

	// --- 2. Tool: rule_histogram ---
	s.AddTool(mcp.NewTool("rule_histogram",
		mcp.WithDescription("Count active rules per rule repository in a report archive."),
		mcp.WithString("archive_path", mcp.Description("Path to the report archive.")),
	), h.handleRuleHistogram)

	// --- 3. Tool: unit_summary ---
	s.AddTool(mcp.NewTool("unit_summary",
		mcp.WithDescription("Return the full decoded data and counters for one unit by its join key (the component ref)."),
		mcp.WithString("key", mcp.Description("The unit join key, e.g. '2'."), mcp.Required()),
		mcp.WithString("archive_path", mcp.Description("Path to the report archive.")),
	), h.handleUnitSummary)

	// --- 4. Tool: list_runs ---
	s.AddTool(mcp.NewTool("list_runs",
		mcp.WithDescription("List previously recorded report runs from the history store."),
		mcp.WithNumber("limit", mcp.Description("Only return the most recent runs.")),
	), h.handleListRuns)

	return s
}

// StartMCPServer starts the report MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
