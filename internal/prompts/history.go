package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// HistoryPrompt handles the solve-history MCP prompt.
// It instructs the AI to review what has been solved so far.
type HistoryPrompt struct{}

// NewHistoryPrompt creates a HistoryPrompt.
func NewHistoryPrompt() *HistoryPrompt {
	return &HistoryPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *HistoryPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("solve-history",
		mcp.WithPromptDescription(
			"Review previously solved equations: totals, the most recent solves "+
				"and any equations that were rejected.",
		),
	)
}

// Handle processes the solve-history prompt request.
func (p *HistoryPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Solve history review",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `history_stats` and `history_recent` to review my solved equations.\n\n" +
						"Then:\n" +
						"1. Give me the totals by solution type and degree\n" +
						"2. List the recent solves with their summaries\n" +
						"3. Point out rejected equations (type invalid_equation) and how to fix them\n" +
						"4. Mention equations I solved more than once",
				),
			},
		},
	}, nil
}
