package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/computor/internal/display"
	"github.com/HendryAvila/computor/internal/polynomial"
	"github.com/mark3labs/mcp-go/mcp"
)

// ReduceTool handles the reduce_equation MCP tool. It parses and reduces
// without solving, which is useful for checking how input is read.
type ReduceTool struct {
	settings Settings
}

// NewReduceTool creates a ReduceTool.
func NewReduceTool(settings Settings) *ReduceTool {
	return &ReduceTool{settings: settings}
}

// Definition returns the MCP tool definition for reduce_equation.
func (t *ReduceTool) Definition() mcp.Tool {
	return mcp.NewTool("reduce_equation",
		mcp.WithDescription(
			"Move every term of an equation in X to the left side and combine like terms. "+
				"Returns the reduced form, its degree, the canonical 'c * X^n' equation and "+
				"the coefficient of each power. Does not solve.",
		),
		mcp.WithString("equation",
			mcp.Required(),
			mcp.Description("The equation to reduce. It must contain exactly one '='."),
		),
	)
}

// Handle processes the reduce_equation tool call.
func (t *ReduceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	equation := req.GetString("equation", "")
	if strings.TrimSpace(equation) == "" {
		return mcp.NewToolResultError("'equation' is required"), nil
	}

	p, err := polynomial.Parse(equation)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Reduced form: %s\n", display.ReducedForm(p, t.settings.MaxDenominator))
	fmt.Fprintf(&sb, "Polynomial degree: %d\n", p.Degree())
	fmt.Fprintf(&sb, "Canonical: %s\n", p.Equation())

	terms := p.Significant()
	if len(terms) == 0 {
		sb.WriteString("Coefficients: none\n")
		return mcp.NewToolResultText(sb.String()), nil
	}
	sb.WriteString("Coefficients:\n")
	for _, term := range terms {
		fmt.Fprintf(&sb, "- X^%d: %s\n", term.Power, display.FormatNumber(term.Coefficient, t.settings.MaxDenominator))
	}
	return mcp.NewToolResultText(sb.String()), nil
}
