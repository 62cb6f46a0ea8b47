package histtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/computor/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

// RecentTool handles the history_recent MCP tool.
type RecentTool struct {
	store *history.Store
}

// NewRecentTool creates a RecentTool.
func NewRecentTool(store *history.Store) *RecentTool {
	return &RecentTool{store: store}
}

// Definition returns the MCP tool definition for history_recent.
func (t *RecentTool) Definition() mcp.Tool {
	return mcp.NewTool("history_recent",
		mcp.WithDescription("List the most recently solved equations, newest first."),
		mcp.WithString("type",
			mcp.Description("Filter by solution type, e.g. quadratic_complex_solutions"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: 10)"),
		),
	)
}

// Handle processes the history_recent tool call.
func (t *RecentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	solves, err := t.store.Recent(history.SearchOptions{
		Type:  req.GetString("type", ""),
		Limit: intArg(req, "limit", 10),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list history: %v", err)), nil
	}

	if len(solves) == 0 {
		return mcp.NewToolResultText("No equations solved yet."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d recent solves:\n\n", len(solves))
	for i, sv := range solves {
		writeSolve(&b, i+1, sv)
	}
	return mcp.NewToolResultText(b.String()), nil
}
