// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools, prompts and resources that depend on them.
// No business logic lives here, only wiring.
package server

import (
	"log"

	"github.com/HendryAvila/computor/internal/config"
	"github.com/HendryAvila/computor/internal/histtools"
	"github.com/HendryAvila/computor/internal/history"
	"github.com/HendryAvila/computor/internal/prompts"
	"github.com/HendryAvila/computor/internal/resources"
	"github.com/HendryAvila/computor/internal/tools"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. A nil cfg means config.Default().
//
// The returned cleanup function ends the history session and closes the
// store's database connection; it must be called on shutdown (typically
// via defer). It is always non-nil and safe to call even if history is
// disabled or failed to open.
func New(cfg *config.Config) (*server.MCPServer, func(), error) {
	if cfg == nil {
		cfg = config.Default()
	}

	s := server.NewMCPServer(
		"computor",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register solver tools ---

	settings := tools.Settings{
		MaxDenominator: cfg.Display.MaxDenominator,
		GraphWidth:     cfg.Display.GraphWidth,
		GraphHeight:    cfg.Display.GraphHeight,
	}

	solveTool := tools.NewSolveTool(settings)
	s.AddTool(solveTool.Definition(), solveTool.Handle)

	reduceTool := tools.NewReduceTool(settings)
	s.AddTool(reduceTool.Definition(), reduceTool.Handle)

	// --- Register history tools ---
	//
	// History is an independent subsystem: if it is disabled or fails to
	// open, the solver tools keep working. We log a warning and skip the
	// history tools.

	cleanup := noop
	store := openHistory(cfg)
	if store != nil {
		sessionID := uuid.NewString()
		if err := store.CreateSession(sessionID, "mcp"); err != nil {
			log.Printf("WARNING: history session: %v", err)
			sessionID = ""
		}
		cleanup = func() {
			if sessionID != "" {
				if err := store.EndSession(sessionID); err != nil {
					log.Printf("WARNING: history session end: %v", err)
				}
			}
			if err := store.Close(); err != nil {
				log.Printf("WARNING: history store close: %v", err)
			}
		}

		solveTool.SetObserver(history.NewRecorder(store, sessionID, cfg.Display.MaxDenominator))
		registerHistoryTools(s, store)
	}

	// --- Register prompts ---

	solvePrompt := prompts.NewSolvePrompt()
	s.AddPrompt(solvePrompt.Definition(), solvePrompt.Handle)

	if store != nil {
		historyPrompt := prompts.NewHistoryPrompt()
		s.AddPrompt(historyPrompt.Definition(), historyPrompt.Handle)
	}

	// --- Register resources ---

	resourceHandler := resources.NewHandler(store)
	s.AddResource(resourceHandler.SyntaxResource(), resourceHandler.HandleSyntax)
	s.AddResource(resourceHandler.StatsResource(), resourceHandler.HandleStats)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used as the default when history
// is disabled or hasn't been initialized.
func noop() {}

// openHistory returns the history store, or nil when it is disabled or
// cannot be opened.
func openHistory(cfg *config.Config) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := history.New(history.Config{
		DataDir:          cfg.History.DataDir,
		MaxSearchResults: cfg.History.MaxSearchResults,
		DedupeWindow:     cfg.History.DedupeWindow(),
	})
	if err != nil {
		log.Printf("WARNING: history subsystem disabled: %v", err)
		return nil
	}
	return store
}

// registerHistoryTools registers the history MCP tools with the server.
func registerHistoryTools(s *server.MCPServer, store *history.Store) {
	searchTool := histtools.NewSearchTool(store)
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	recentTool := histtools.NewRecentTool(store)
	s.AddTool(recentTool.Definition(), recentTool.Handle)

	getTool := histtools.NewGetTool(store)
	s.AddTool(getTool.Definition(), getTool.Handle)

	deleteTool := histtools.NewDeleteTool(store)
	s.AddTool(deleteTool.Definition(), deleteTool.Handle)

	statsTool := histtools.NewStatsTool(store)
	s.AddTool(statsTool.Definition(), statsTool.Handle)
}

// serverInstructions returns the system instructions that tell the AI
// how to use computor effectively.
func serverInstructions() string {
	return `You have access to computor, a polynomial equation solver.

## WHEN TO USE computor

Use solve_equation whenever the user asks to solve, check or explain an
equation in one variable of degree 2 or lower. Do NOT solve such equations
in your head: the tool gives exact fractions, the discriminant and complex
roots without arithmetic slips.

## Input format

- Exactly one '=' with a non-empty expression on each side
- The variable is X; terms look like "5 * X^2", "5X^2", "-X" or "4.5"
- Powers are non-negative integers; coefficients are plain decimals
- Translate the user's notation: x² becomes X^2, 3x becomes 3 * X

If the tool rejects the input, show its error message and propose a fixed
equation instead of guessing the answer.

## Tools

- solve_equation: reduced form, degree, discriminant and solutions.
  Pass explain=true when the user wants the working, graph=true for a
  quick plot, format=json when you need to process the numbers.
- reduce_equation: reduced form and coefficients without solving; use it
  to confirm how an equation was read.
- history_search / history_recent / history_get / history_delete /
  history_stats: previously solved equations (only when history is on).

## Reading results

- Degree 0: either no solution or every real number is a solution
- Degree 1: one solution
- Degree 2: discriminant > 0 gives two real roots, = 0 one repeated root,
  < 0 two complex conjugate roots written a + bi and a - bi
- Degree 3 or more: the equation is reduced but not solved; say so

Report solutions exactly as returned (fractions stay fractions).`
}
