package histtools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/HendryAvila/computor/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

// StatsTool handles the history_stats MCP tool.
type StatsTool struct {
	store *history.Store
}

// NewStatsTool creates a StatsTool with the given history store.
func NewStatsTool(store *history.Store) *StatsTool {
	return &StatsTool{store: store}
}

// Definition returns the MCP tool definition for history_stats.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool("history_stats",
		mcp.WithDescription(
			"Show solve history statistics: sessions, distinct equations, total attempts, "+
				"and breakdowns by solution type and degree.",
		),
	)
}

// Handle processes the history_stats tool call.
func (t *StatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := t.store.Stats()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get stats: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString("## Solve History Statistics\n\n")
	sb.WriteString(fmt.Sprintf("- **Sessions**: %d\n", stats.TotalSessions))
	sb.WriteString(fmt.Sprintf("- **Distinct equations**: %d\n", stats.TotalSolves))
	sb.WriteString(fmt.Sprintf("- **Attempts**: %d\n", stats.TotalAttempts))
	writeBreakdown(&sb, "By type", stats.ByType)
	writeBreakdown(&sb, "By degree", stats.ByDegree)

	return mcp.NewToolResultText(sb.String()), nil
}

func writeBreakdown(sb *strings.Builder, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(sb, "\n### %s\n\n", title)
	for _, k := range keys {
		fmt.Fprintf(sb, "- %s: %d\n", k, counts[k])
	}
}
