package histtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/computor/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

// SearchTool handles the history_search MCP tool.
type SearchTool struct {
	store *history.Store
}

// NewSearchTool creates a SearchTool.
func NewSearchTool(store *history.Store) *SearchTool {
	return &SearchTool{store: store}
}

// Definition returns the MCP tool definition for history_search.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("history_search",
		mcp.WithDescription(
			"Search previously solved equations. Matches equation text, reduced form, "+
				"solution type and summary (e.g. \"X^2\", \"complex\", \"no solution\").",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query: keywords or fragments of an equation"),
		),
		mcp.WithString("type",
			mcp.Description("Filter by solution type: no_solution, infinite_solutions, linear_solution, "+
				"quadratic_real_solutions, quadratic_complex_solutions, unsolvable_degree, invalid_equation"),
		),
		mcp.WithString("session_id",
			mcp.Description("Only return solves from this session"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: 10)"),
		),
	)
}

// Handle processes the history_search tool call.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("'query' is required"), nil
	}

	results, err := t.store.Search(query, history.SearchOptions{
		Type:      req.GetString("type", ""),
		SessionID: req.GetString("session_id", ""),
		Limit:     intArg(req, "limit", 10),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No solved equations match your query."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d solves:\n\n", len(results))
	for i, r := range results {
		writeSolve(&b, i+1, r.Solve)
	}
	return mcp.NewToolResultText(b.String()), nil
}
