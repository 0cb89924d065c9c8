// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/whodunit/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the whodunit MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(client contract.P4Client, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Whodunit Annotation Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		client: client,
		mgr:    mgr,
	}

	// --- 1. Tool: annotate_file ---
	s.AddTool(mcp.NewTool("annotate_file",
		mcp.WithDescription("Show every line of a Perforce file, including deleted lines, with the changes and users that added and removed them."),
		mcp.WithString("path", mcp.Description("Depot or workspace path of the file to annotate."), mcp.Required()),
	), h.handleAnnotateFile)

	// --- 2. Tool: summarize_owners ---
	s.AddTool(mcp.NewTool("summarize_owners",
		mcp.WithDescription("Count present, deleted and removed lines per user for a Perforce file."),
		mcp.WithString("path", mcp.Description("Depot or workspace path of the file to summarize."), mcp.Required()),
	), h.handleSummarizeOwners)

	return s
}

// StartMCPServer starts the whodunit MCP server on stdio.
func StartMCPServer(_ context.Context, client contract.P4Client, mgr contract.CacheManager) error {
	s := NewMCPServer(client, mgr)
	return server.ServeStdio(s)
}
