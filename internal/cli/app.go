package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/HendryAvila/computor/internal/config"
	"github.com/HendryAvila/computor/internal/display"
	"github.com/HendryAvila/computor/internal/history"
	"github.com/HendryAvila/computor/internal/polynomial"
	"github.com/google/uuid"
)

// Exit codes returned by Run.
const (
	ExitOK      = 0
	ExitFailure = 1 // a rejected equation or a failed command
	ExitUsage   = 2
)

// App is one computor invocation. Build it with New, or fill the fields
// directly in tests.
type App struct {
	Config  *config.Config
	Version string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Interactive selects the line editor when no equation is given.
	Interactive bool
	Theme       display.Theme
	// TermWidth caps the graph width; 0 means unknown.
	TermWidth int

	newLineReader func(historyFile string) (lineReader, error)

	store     *history.Store
	recorder  *history.Recorder
	sessionID string
}

// New returns an App wired to the process streams.
func New(cfg *config.Config, version string) *App {
	a := &App{
		Config:        cfg,
		Version:       version,
		Stdin:         os.Stdin,
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		Interactive:   IsTTY(),
		Theme:         ThemeFor(cfg.Display.Color),
		newLineReader: newLinerReader,
	}
	if IsStdoutTTY() {
		a.TermWidth = TerminalWidth()
	}
	return a
}

// Run executes args (without the program name) and returns the exit code.
//
//	computor                          prompt, or one equation per stdin line
//	computor "<equation>" [-g]        solve one equation
//	computor solve|batch|history|serve|update|version|help ...
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		return a.withHistory(func() int {
			return a.solveInput(ctx, a.defaultSolveOptions())
		})
	}

	switch args[0] {
	case "solve":
		return a.withHistory(func() int { return a.cmdSolve(ctx, args[1:]) })
	case "batch":
		return a.withHistory(func() int { return a.cmdBatch(ctx, args[1:]) })
	case "history":
		return a.cmdHistory(args[1:])
	case "serve":
		return a.cmdServe(ctx)
	case "update":
		return a.cmdUpdate(ctx)
	case "version", "--version", "-v":
		fmt.Fprintf(a.Stdout, "computor v%s\n", a.Version)
		return ExitOK
	case "help", "--help", "-h":
		a.printUsage(a.Stdout)
		return ExitOK
	default:
		// computor "<equation>", computor -g "<equation>", computor "<equation>" --graph
		return a.withHistory(func() int { return a.cmdSolve(ctx, args) })
	}
}

// ─── Solving ─────────────────────────────────────────────────────────────────

type solveOptions struct {
	graph   bool
	explain bool
	json    bool
}

func (a *App) defaultSolveOptions() solveOptions {
	return solveOptions{explain: a.Config.Display.Explain}
}

func (a *App) cmdSolve(ctx context.Context, args []string) int {
	p, err := parseArgs(args, solveFlags)
	if err != nil {
		return a.usageError(err)
	}

	opts := a.defaultSolveOptions()
	opts.graph = p.bools["graph"]
	opts.json = p.bools["json"]
	if v, ok := p.bools["explain"]; ok {
		opts.explain = v
	}

	equation := p.joined()
	if equation == "" {
		return a.solveInput(ctx, opts)
	}
	return a.solveOne(equation, opts)
}

// solveInput handles an invocation without an equation: the prompt on a
// terminal, otherwise every line of stdin.
func (a *App) solveInput(ctx context.Context, opts solveOptions) int {
	if a.Interactive {
		return a.repl(ctx, opts)
	}
	return a.solveStdin(ctx, opts)
}

func (a *App) solveOne(equation string, opts solveOptions) int {
	res := polynomial.SolveEquation(equation)
	a.recorder.OnSolve(res)
	if err := a.writeResult(res, opts); err != nil {
		return a.fail(err)
	}
	if !res.OK() {
		return ExitFailure
	}
	return ExitOK
}

// writeResult prints one result in the selected form.
func (a *App) writeResult(res *polynomial.SolutionResult, opts solveOptions) error {
	if opts.json {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		_, err = fmt.Fprintf(a.Stdout, "%s\n", data)
		return err
	}

	dopts := a.displayOptions()
	if _, err := io.WriteString(a.Stdout, display.Render(res, dopts)); err != nil {
		return err
	}
	if !res.OK() {
		return nil
	}
	if opts.explain {
		if _, err := fmt.Fprintf(a.Stdout, "\n%s", display.Explain(res, dopts)); err != nil {
			return err
		}
	}
	if opts.graph {
		width, height := a.graphSize()
		if _, err := fmt.Fprintf(a.Stdout, "\n%s", display.Graph(res.ReducedForm, res, width, height)); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) displayOptions() display.Options {
	return display.Options{MaxDenominator: a.Config.Display.MaxDenominator, Theme: a.Theme}
}

func (a *App) graphSize() (int, int) {
	width := a.Config.Display.GraphWidth
	if a.TermWidth > 0 && width > a.TermWidth-1 {
		width = a.TermWidth - 1
	}
	return width, a.Config.Display.GraphHeight
}

// ─── History wiring ──────────────────────────────────────────────────────────

// withHistory opens the history store for the duration of fn. A store that
// fails to open only disables recording.
func (a *App) withHistory(fn func() int) int {
	if a.openStore() {
		a.sessionID = uuid.NewString()
		if err := a.store.CreateSession(a.sessionID, "cli"); err != nil {
			a.warnf("history session: %v", err)
			a.sessionID = ""
		}
		a.recorder = history.NewRecorder(a.store, a.sessionID, a.Config.Display.MaxDenominator)
	}
	defer a.closeStore()
	return fn()
}

func (a *App) openStore() bool {
	h := a.Config.History
	if !h.Enabled {
		return false
	}
	store, err := history.New(history.Config{
		DataDir:          h.DataDir,
		MaxSearchResults: h.MaxSearchResults,
		DedupeWindow:     h.DedupeWindow(),
	})
	if err != nil {
		a.warnf("history disabled: %v", err)
		return false
	}
	a.store = store
	return true
}

func (a *App) closeStore() {
	if a.store == nil {
		return
	}
	if a.sessionID != "" {
		if err := a.store.EndSession(a.sessionID); err != nil {
			a.warnf("history session: %v", err)
		}
	}
	if err := a.store.Close(); err != nil {
		a.warnf("closing history: %v", err)
	}
	a.store, a.recorder, a.sessionID = nil, nil, ""
}

// ─── Diagnostics ─────────────────────────────────────────────────────────────

func (a *App) warnf(format string, args ...any) {
	fmt.Fprintf(a.Stderr, "WARNING: "+format+"\n", args...)
}

func (a *App) fail(err error) int {
	fmt.Fprintf(a.Stderr, "%s %v\n", a.paint(errorStyle, "Error:"), err)
	return ExitFailure
}

func (a *App) usageError(err error) int {
	fmt.Fprintf(a.Stderr, "%s %v\n\n", a.paint(errorStyle, "Error:"), err)
	a.printUsage(a.Stderr)
	return ExitUsage
}

func (a *App) printUsage(w io.Writer) {
	fmt.Fprintf(w, `computor v%s - polynomial equation solver (degree 2 or lower)

Usage:
  computor "<equation>" [-g|--graph]   Solve one equation
  computor                             Interactive prompt, or one equation per stdin line
  computor solve [flags] <equation>    Solve with options
      -g, --graph      plot the reduced polynomial
      -e, --explain    show the working
      --json           print the result as JSON
  computor batch [--workers N] [--json] [file|-]
                                       Solve one equation per line
  computor history [query] [--type T] [--limit N] [--json]
  computor history stats | show <id> | delete <id>
  computor serve                       Start the MCP server (stdio transport)
  computor update                      Update to the latest version
  computor version

Equations use X as the variable, e.g. "5 * X^0 + 4 * X^1 - 9.3 * X^2 = 1 * X^0".

Configuration:
  ~/.computor/config.toml, overridden by COMPUTOR_* environment variables.
  Colors follow [display] color, NO_COLOR and FORCE_COLOR.

  MCP config:

  {
    "mcpServers": {
      "computor": {
        "command": "computor",
        "args": ["serve"]
      }
    }
  }
`, a.Version)
}
