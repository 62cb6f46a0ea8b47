// Package prompts implements MCP prompt handlers for the equation solver.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// SolvePrompt handles the solve-equation MCP prompt.
// It guides the AI to solve an equation with the tools and explain the answer.
type SolvePrompt struct{}

// NewSolvePrompt creates a SolvePrompt.
func NewSolvePrompt() *SolvePrompt {
	return &SolvePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *SolvePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("solve-equation",
		mcp.WithPromptDescription(
			"Solve a polynomial equation of degree 2 or lower and walk through the result, "+
				"including the reduced form, the discriminant and exact fractions where possible.",
		),
		mcp.WithArgument("equation",
			mcp.ArgumentDescription("The equation to solve, e.g. \"X^2 - 5 * X^1 + 4 = 0\""),
			mcp.RequiredArgument(),
		),
	)
}

// Handle processes the solve-equation prompt request.
func (p *SolvePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	equation := ""
	if args := req.Params.Arguments; args != nil {
		equation = args["equation"]
	}

	var text string
	if equation == "" {
		text = "I want to solve a polynomial equation in X.\n\n" +
			"Ask me for the equation first. Then follow the steps below."
	} else {
		text = fmt.Sprintf("Please solve this equation: `%s`", equation)
	}
	text += "\n\n" +
		"1. Call `solve_equation` with `explain: true`\n" +
		"2. If it reports an error, show me the error and suggest a corrected equation, then stop\n" +
		"3. Otherwise show the reduced form and degree, then the solutions exactly as returned\n" +
		"4. Summarise the numbered steps in plain language; do not recompute the roots yourself\n" +
		"5. If the degree is above 2, say that it is reduced but not solved"

	return &mcp.GetPromptResult{
		Description: "Solve an equation",
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(text),
			},
		},
	}, nil
}
