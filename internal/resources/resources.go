// Package resources implements MCP resource handlers for the solver.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (computor://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/computor/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

// Resource URIs.
const (
	StatsURI  = "computor://history/stats"
	SyntaxURI = "computor://syntax"
)

// Handler manages computor resource endpoints.
type Handler struct {
	store *history.Store
}

// NewHandler creates a resource Handler. store may be nil when history is
// disabled; the stats resource then reports an error text.
func NewHandler(store *history.Store) *Handler {
	return &Handler{store: store}
}

// StatsResource returns the MCP resource definition for history statistics.
func (h *Handler) StatsResource() mcp.Resource {
	return mcp.NewResource(
		StatsURI,
		"Solve History Statistics",
		mcp.WithResourceDescription("Sessions, distinct equations, attempts, and counts by solution type and degree"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStats returns the history statistics as JSON.
func (h *Handler) HandleStats(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.store == nil {
		return errorResource(req.Params.URI, "solve history is disabled"), nil
	}

	stats, err := h.store.Stats()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling stats: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// SyntaxResource returns the MCP resource definition for the input grammar.
func (h *Handler) SyntaxResource() mcp.Resource {
	return mcp.NewResource(
		SyntaxURI,
		"Equation Syntax",
		mcp.WithResourceDescription("Accepted equation forms and the rules the parser enforces"),
		mcp.WithMIMEType("text/markdown"),
	)
}

// HandleSyntax returns the equation syntax reference.
func (h *Handler) HandleSyntax(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     syntaxReference,
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}

const syntaxReference = `# Equation syntax

An equation has exactly one '=' and a non-empty expression on each side.
The only variable is X (x is accepted). Spaces are ignored.

## Terms

| Form        | Meaning        |
|-------------|----------------|
| 5 * X^2     | 5 times X²     |
| 5X^2, 5X    | implicit "*"   |
| X^2, -X     | coefficient ±1 |
| 4.5         | constant       |
| 4 * X^0     | constant       |

Powers are non-negative integers written after '^'. Coefficients may have
one decimal point with digits on both sides.

## Rejected input

- characters other than digits, X, +, -, *, ^, '.', '=' and spaces
- any letter other than X
- '^' not directly preceded by X, "X^" without a power, X^-1, X^2.5
- consecutive operators such as "+-" or "**"
- a side starting with '*' or '^', or ending with an operator

## Results

Degree 0: no solution or every real number. Degree 1: one root.
Degree 2: the discriminant decides between two real roots, one repeated
root and two complex conjugate roots. Higher degrees are reduced only.
`
