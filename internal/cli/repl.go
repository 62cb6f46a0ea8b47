package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/HendryAvila/computor/internal/history"
	"github.com/HendryAvila/computor/internal/polynomial"
	"github.com/peterh/liner"
)

const (
	promptText      = "computor> "
	replHistoryFile = "repl_history"
)

// lineReader is the line editor behind the prompt.
type lineReader interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// linerReader keeps prompt history in a file across runs.
type linerReader struct {
	state       *liner.State
	historyFile string
}

func newLinerReader(historyFile string) (lineReader, error) {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)

	if f, err := os.Open(historyFile); err == nil {
		_, _ = state.ReadHistory(f)
		f.Close()
	}
	return &linerReader{state: state, historyFile: historyFile}, nil
}

func (r *linerReader) Prompt(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		r.state.AppendHistory(line)
	}
	return line, nil
}

func (r *linerReader) Close() error {
	if err := os.MkdirAll(filepath.Dir(r.historyFile), 0o700); err == nil {
		if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
			_, _ = r.state.WriteHistory(f)
			f.Close()
		}
	}
	return r.state.Close()
}

// repl reads equations until EOF, Ctrl+C or /quit.
func (a *App) repl(ctx context.Context, opts solveOptions) int {
	open := a.newLineReader
	if open == nil {
		open = newLinerReader
	}
	reader, err := open(filepath.Join(a.Config.History.DataDir, replHistoryFile))
	if err != nil {
		return a.fail(err)
	}
	defer reader.Close()

	a.printBanner()
	for ctx.Err() == nil {
		input, err := reader.Prompt(promptText)
		if err != nil {
			// io.EOF and liner.ErrPromptAborted both end the session.
			fmt.Fprintln(a.Stdout)
			return ExitOK
		}
		input = strings.TrimSpace(input)
		switch {
		case input == "":
			continue
		case input == "exit" || input == "quit":
			return ExitOK
		case strings.HasPrefix(input, "/"):
			if quit := a.replCommand(input, &opts); quit {
				return ExitOK
			}
			continue
		}

		res := polynomial.SolveEquation(input)
		a.recorder.OnSolve(res)
		if err := a.writeResult(res, opts); err != nil {
			return a.fail(err)
		}
		fmt.Fprintln(a.Stdout)
	}
	return ExitOK
}

func (a *App) printBanner() {
	fmt.Fprintf(a.Stdout, "%s\n%s\n\n",
		a.paint(titleStyle, "computor v"+a.Version),
		a.paint(hintStyle, "Enter an equation in X, /help for commands, /quit to leave."))
}

// replCommand runs one slash command and reports whether to quit.
func (a *App) replCommand(input string, opts *solveOptions) bool {
	name, arg, _ := strings.Cut(strings.TrimPrefix(input, "/"), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "quit", "exit", "q":
		return true
	case "help", "h", "?":
		fmt.Fprint(a.Stdout, `Commands:
  /graph        toggle the ASCII graph
  /explain      toggle the worked steps
  /json         toggle JSON output
  /history [q]  recent solves, or search them
  /quit         leave
`)
	case "graph":
		opts.graph = !opts.graph
		a.replToggle("graph", opts.graph)
	case "explain":
		opts.explain = !opts.explain
		a.replToggle("explain", opts.explain)
	case "json":
		opts.json = !opts.json
		a.replToggle("json", opts.json)
	case "history":
		a.replHistory(arg)
	default:
		fmt.Fprintf(a.Stdout, "%s unknown command /%s (try /help)\n", a.paint(errorStyle, "Error:"), name)
	}
	return false
}

func (a *App) replToggle(name string, on bool) {
	state := "off"
	if on {
		state = "on"
	}
	fmt.Fprintf(a.Stdout, "%s %s\n", a.paint(hintStyle, name+":"), state)
}

func (a *App) replHistory(query string) {
	if a.store == nil {
		fmt.Fprintln(a.Stdout, "Solve history is disabled.")
		return
	}

	solves, err := a.findSolves(query, history.SearchOptions{Limit: 10})
	if err != nil {
		a.fail(err)
		return
	}
	if len(solves) == 0 {
		fmt.Fprintln(a.Stdout, "No solves found.")
		return
	}
	for i := range solves {
		a.writeSolve(a.Stdout, &solves[i])
	}
}
