package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/huangsam/whodunit/core"
	"github.com/huangsam/whodunit/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	client contract.P4Client
	mgr    contract.CacheManager
}

// requirePath returns the trimmed path argument or an error result.
func requirePath(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	path := strings.TrimSpace(request.GetString("path", ""))
	if path == "" {
		return "", mcp.NewToolResultError("path is required")
	}
	return path, nil
}

func (h *toolHandler) handleAnnotateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, errResult := requirePath(request)
	if errResult != nil {
		return errResult, nil
	}

	out, err := core.RenderReport(ctx, h.client, h.mgr, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("annotate failed: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (h *toolHandler) handleSummarizeOwners(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, errResult := requirePath(request)
	if errResult != nil {
		return errResult, nil
	}

	out, err := core.RenderSummary(ctx, h.client, h.mgr, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}
