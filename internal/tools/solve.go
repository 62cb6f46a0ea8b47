package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/HendryAvila/computor/internal/display"
	"github.com/HendryAvila/computor/internal/polynomial"
	"github.com/mark3labs/mcp-go/mcp"
)

// Output formats accepted by solve_equation.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// SolveTool handles the solve_equation MCP tool.
type SolveTool struct {
	settings Settings
	observer SolveObserver
}

// NewSolveTool creates a SolveTool with the given display settings.
func NewSolveTool(settings Settings) *SolveTool {
	return &SolveTool{settings: settings}
}

// SetObserver wires an optional observer that sees every result,
// including rejected equations.
func (t *SolveTool) SetObserver(obs SolveObserver) {
	t.observer = obs
}

// Definition returns the MCP tool definition for solve_equation.
func (t *SolveTool) Definition() mcp.Tool {
	return mcp.NewTool("solve_equation",
		mcp.WithDescription(
			"Solve a polynomial equation in X of degree 0, 1 or 2. "+
				"Terms are written as coefficient * X^power, e.g. \"5 * X^0 + 4 * X^1 - 9.3 * X^2 = 1 * X^0\"; "+
				"free forms like \"X^2 - 5X + 4 = 0\" are accepted too. "+
				"Returns the reduced form, the degree, the discriminant for quadratics and the solutions "+
				"(fractions when exact, complex roots as a + bi). Higher degrees are reduced but not solved.",
		),
		mcp.WithString("equation",
			mcp.Required(),
			mcp.Description("The equation to solve. It must contain exactly one '='."),
		),
		mcp.WithBoolean("explain",
			mcp.Description("Append a numbered step-by-step explanation (text format only)."),
		),
		mcp.WithBoolean("graph",
			mcp.Description("Append an ASCII plot of the reduced polynomial (text format only)."),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'text' (default) or 'json'."),
			mcp.Enum(FormatText, FormatJSON),
		),
	)
}

// Handle processes the solve_equation tool call.
func (t *SolveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	equation := req.GetString("equation", "")
	if strings.TrimSpace(equation) == "" {
		return mcp.NewToolResultError("'equation' is required"), nil
	}
	format := strings.ToLower(req.GetString("format", FormatText))
	if format != FormatText && format != FormatJSON {
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q: use 'text' or 'json'", format)), nil
	}

	result := polynomial.SolveEquation(equation)
	notifyObserver(t.observer, result)

	if format == FormatJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding result: %w", err)
		}
		if !result.OK() {
			return mcp.NewToolResultError(string(data)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}

	opts := t.settings.options()
	if !result.OK() {
		return mcp.NewToolResultError(strings.TrimSuffix(display.Render(result, opts), "\n")), nil
	}

	var sb strings.Builder
	sb.WriteString(display.Render(result, opts))
	if boolArg(req, "explain", false) {
		sb.WriteString("\n## Steps\n\n")
		sb.WriteString(display.Explain(result, opts))
	}
	if boolArg(req, "graph", false) {
		sb.WriteString("\n## Graph\n\n")
		sb.WriteString(display.Graph(result.ReducedForm, result, t.settings.GraphWidth, t.settings.GraphHeight))
	}
	return mcp.NewToolResultText(sb.String()), nil
}
