package histtools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/computor/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

// ─── GetTool ────────────────────────────────────────────────────────────────

// GetTool handles the history_get MCP tool.
type GetTool struct {
	store *history.Store
}

// NewGetTool creates a GetTool with the given history store.
func NewGetTool(store *history.Store) *GetTool {
	return &GetTool{store: store}
}

// Definition returns the MCP tool definition for history_get.
func (t *GetTool) Definition() mcp.Tool {
	return mcp.NewTool("history_get",
		mcp.WithDescription("Show one recorded solve in full, by ID."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Solve ID, as shown by history_search or history_recent"),
		),
	)
}

// Handle processes the history_get tool call.
func (t *GetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := intArg(req, "id", 0)
	if id == 0 {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	sv, err := t.store.Get(int64(id))
	if errors.Is(err, history.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("solve #%d not found", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get solve: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Solve #%d\n\n", sv.ID)
	fmt.Fprintf(&b, "- **Equation**: %s\n", sv.Equation)
	if sv.Error != nil {
		fmt.Fprintf(&b, "- **Error**: %s\n", *sv.Error)
	} else {
		fmt.Fprintf(&b, "- **Reduced form**: %s\n", sv.ReducedForm)
		if sv.Degree != nil {
			fmt.Fprintf(&b, "- **Degree**: %d\n", *sv.Degree)
		}
	}
	fmt.Fprintf(&b, "- **Type**: %s\n", sv.SolutionType)
	fmt.Fprintf(&b, "- **Summary**: %s\n", sv.Summary)
	fmt.Fprintf(&b, "- **Solved**: %d time(s), first %s, last %s\n", sv.SolveCount, sv.CreatedAt, sv.LastSeenAt)
	if sv.SessionID != nil {
		fmt.Fprintf(&b, "- **Session**: %s\n", *sv.SessionID)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// ─── DeleteTool ─────────────────────────────────────────────────────────────

// DeleteTool handles the history_delete MCP tool.
type DeleteTool struct {
	store *history.Store
}

// NewDeleteTool creates a DeleteTool with the given history store.
func NewDeleteTool(store *history.Store) *DeleteTool {
	return &DeleteTool{store: store}
}

// Definition returns the MCP tool definition for history_delete.
func (t *DeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("history_delete",
		mcp.WithDescription("Permanently delete one recorded solve by ID."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Solve ID to delete"),
		),
	)
}

// Handle processes the history_delete tool call.
func (t *DeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := intArg(req, "id", 0)
	if id == 0 {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	if err := t.store.Delete(int64(id)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete solve: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Solve %d deleted", id)), nil
}
