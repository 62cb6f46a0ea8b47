// Package histtools provides MCP tool handlers over the solve history.
//
// Each tool handler follows the same pattern as internal/tools:
// - A struct with dependencies (history.Store) injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// The tools are read-mostly: solves are recorded by the solver tools
// through history.Recorder, never by the assistant directly.
package histtools

import (
	"fmt"
	"strings"

	"github.com/HendryAvila/computor/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// writeSolve appends one numbered history entry.
func writeSolve(b *strings.Builder, i int, sv history.Solve) {
	fmt.Fprintf(b, "[%d] #%d (%s) - %s\n    %s\n",
		i, sv.ID, sv.SolutionType, history.Truncate(sv.Equation, 120),
		history.Truncate(sv.Summary, 300),
	)
	seen := ""
	if sv.SolveCount > 1 {
		seen = fmt.Sprintf(" | solved %dx, last %s", sv.SolveCount, sv.LastSeenAt)
	}
	fmt.Fprintf(b, "    %s%s\n\n", sv.CreatedAt, seen)
}
