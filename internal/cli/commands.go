package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/HendryAvila/computor/internal/batch"
	"github.com/HendryAvila/computor/internal/config"
	"github.com/HendryAvila/computor/internal/history"
	"github.com/HendryAvila/computor/internal/polynomial"
	appserver "github.com/HendryAvila/computor/internal/server"
	"github.com/HendryAvila/computor/internal/updater"
	"github.com/mark3labs/mcp-go/server"
)

// ─── stdin and batch ─────────────────────────────────────────────────────────

// solveStdin solves every equation piped on stdin. A single line prints
// exactly like a command-line equation.
func (a *App) solveStdin(ctx context.Context, opts solveOptions) int {
	lines, err := batch.ReadEquations(a.Stdin)
	if err != nil {
		return a.fail(err)
	}
	if len(lines) == 0 {
		fmt.Fprintln(a.Stderr, "No equation provided.")
		return ExitFailure
	}

	outcomes, err := batch.Solve(ctx, lines, a.Config.Batch.Workers)
	if err != nil {
		return a.fail(err)
	}

	code := ExitOK
	for i, o := range outcomes {
		a.recorder.OnSolve(o.Result)
		if len(outcomes) > 1 && !opts.json {
			if i > 0 {
				fmt.Fprintln(a.Stdout)
			}
			fmt.Fprintf(a.Stdout, "[line %d] %s\n", o.Line.Number, o.Line.Equation)
		}
		if err := a.writeResult(o.Result, opts); err != nil {
			return a.fail(err)
		}
		if !o.Result.OK() {
			code = ExitFailure
		}
	}
	return code
}

func (a *App) cmdBatch(ctx context.Context, args []string) int {
	p, err := parseArgs(args, batchFlags)
	if err != nil {
		return a.usageError(err)
	}
	workers, err := p.intValue("workers", a.Config.Batch.Workers, 1, config.MaxWorkers)
	if err != nil {
		return a.usageError(err)
	}
	if len(p.positional) > 1 {
		return a.usageError(errors.New("batch takes at most one file"))
	}

	in := a.Stdin
	if len(p.positional) == 1 && p.positional[0] != "-" {
		f, err := os.Open(p.positional[0])
		if err != nil {
			return a.fail(err)
		}
		defer f.Close()
		in = f
	}

	lines, err := batch.ReadEquations(in)
	if err != nil {
		return a.fail(err)
	}
	outcomes, err := batch.Solve(ctx, lines, workers)
	if err != nil {
		return a.fail(err)
	}
	for _, o := range outcomes {
		a.recorder.OnSolve(o.Result)
	}

	if p.bools["json"] {
		err = batch.WriteJSON(a.Stdout, outcomes)
	} else {
		err = batch.WriteText(a.Stdout, outcomes, a.displayOptions())
	}
	if err != nil {
		return a.fail(err)
	}

	if batch.Counts(outcomes)[polynomial.InvalidEquation] > 0 {
		return ExitFailure
	}
	return ExitOK
}

// ─── history ─────────────────────────────────────────────────────────────────

// cmdHistory queries the solve history:
//
//	history [query]      recent solves, or a full-text search
//	history stats
//	history show <id>
//	history delete <id>
func (a *App) cmdHistory(args []string) int {
	p, err := parseArgs(args, historyFlags)
	if err != nil {
		return a.usageError(err)
	}
	limit, err := p.intValue("limit", 0, 1, 1000)
	if err != nil {
		return a.usageError(err)
	}

	if !a.openStore() {
		return a.fail(errors.New("solve history is disabled (set [history] enabled = true)"))
	}
	defer a.closeStore()

	var sub string
	if len(p.positional) > 0 {
		sub = p.positional[0]
	}
	switch sub {
	case "stats":
		return a.historyStats(p.bools["json"])
	case "show", "delete":
		if len(p.positional) != 2 {
			return a.usageError(fmt.Errorf("history %s needs exactly one id", sub))
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(p.positional[1], "#"), 10, 64)
		if err != nil {
			return a.usageError(fmt.Errorf("invalid id %q", p.positional[1]))
		}
		if sub == "show" {
			return a.historyShow(id, p.bools["json"])
		}
		if err := a.store.Delete(id); err != nil {
			return a.fail(historyErr(id, err))
		}
		fmt.Fprintf(a.Stdout, "Solve #%d deleted\n", id)
		return ExitOK
	}

	opts := history.SearchOptions{Type: p.values["type"], Limit: limit}
	query := p.joined()

	solves, err := a.findSolves(query, opts)
	if err != nil {
		return a.fail(err)
	}

	if p.bools["json"] {
		return a.writeJSON(solves)
	}
	if len(solves) == 0 {
		fmt.Fprintln(a.Stdout, "No solves found.")
		return ExitOK
	}
	for i := range solves {
		if i > 0 {
			fmt.Fprintln(a.Stdout)
		}
		a.writeSolve(a.Stdout, &solves[i])
	}
	return ExitOK
}

// findSolves lists recent solves, or searches them when query is set.
func (a *App) findSolves(query string, opts history.SearchOptions) ([]history.Solve, error) {
	if query == "" {
		return a.store.Recent(opts)
	}
	results, err := a.store.Search(query, opts)
	if err != nil {
		return nil, err
	}
	solves := make([]history.Solve, len(results))
	for i, r := range results {
		solves[i] = r.Solve
	}
	return solves, nil
}

func (a *App) historyShow(id int64, asJSON bool) int {
	sv, err := a.store.Get(id)
	if err != nil {
		return a.fail(historyErr(id, err))
	}
	if asJSON {
		return a.writeJSON(sv)
	}
	a.writeSolve(a.Stdout, sv)
	return ExitOK
}

func (a *App) historyStats(asJSON bool) int {
	stats, err := a.store.Stats()
	if err != nil {
		return a.fail(err)
	}
	if asJSON {
		return a.writeJSON(stats)
	}

	label := func(s string) string { return a.paint(hintStyle, s) }
	fmt.Fprintf(a.Stdout, "%s %d\n", label("Sessions:"), stats.TotalSessions)
	fmt.Fprintf(a.Stdout, "%s %d\n", label("Distinct equations:"), stats.TotalSolves)
	fmt.Fprintf(a.Stdout, "%s %d\n", label("Attempts:"), stats.TotalAttempts)
	writeCounts(a.Stdout, label("By type:"), stats.ByType)
	writeCounts(a.Stdout, label("By degree:"), stats.ByDegree)
	return ExitOK
}

func writeCounts(w io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintln(w, title)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-28s %d\n", k, counts[k])
	}
}

// writeSolve prints one stored solve:
//
//	#12  2026-10-17 09:30:00  quadratic_real_solutions  x3
//	     X^2 - 5 * X^1 + 4 = 0
//	     degree 2, two real solutions: 4, 1
func (a *App) writeSolve(w io.Writer, sv *history.Solve) {
	header := fmt.Sprintf("%s  %s  %s",
		a.paint(idStyle, fmt.Sprintf("#%d", sv.ID)),
		a.paint(hintStyle, sv.LastSeenAt),
		sv.SolutionType)
	if sv.SolveCount > 1 {
		header += a.paint(hintStyle, fmt.Sprintf("  x%d", sv.SolveCount))
	}
	fmt.Fprintln(w, header)
	fmt.Fprintf(w, "     %s\n", sv.Equation)
	if sv.Error != nil {
		fmt.Fprintf(w, "     %s\n", a.paint(errorStyle, "Error: "+*sv.Error))
		return
	}
	fmt.Fprintf(w, "     %s\n", a.paint(successStyle, sv.Summary))
}

func (a *App) writeJSON(v any) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.Stdout, "%s\n", data)
	return ExitOK
}

func historyErr(id int64, err error) error {
	if errors.Is(err, history.ErrNotFound) {
		return fmt.Errorf("solve #%d not found", id)
	}
	return err
}

// ─── serve and update ────────────────────────────────────────────────────────

func (a *App) cmdServe(ctx context.Context) int {
	s, cleanup, err := appserver.New(a.Config)
	if err != nil {
		return a.fail(fmt.Errorf("creating server: %w", err))
	}
	defer cleanup()

	// Notices go to stderr so they stay out of the stdio transport.
	go a.checkForUpdates(ctx)

	err = server.NewStdioServer(s).Listen(ctx, a.Stdin, a.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return a.fail(err)
	}
	return ExitOK
}

// checkForUpdates prints a notice when a newer release exists. Failures are
// silent.
func (a *App) checkForUpdates(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result := updater.CheckVersion(ctx, a.Version)
	if result.UpdateAvailable {
		fmt.Fprintf(a.Stderr,
			"\n  📦 Update available: v%s → v%s\n"+
				"     Run: computor update\n"+
				"     Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}

func (a *App) cmdUpdate(ctx context.Context) int {
	fmt.Fprintf(a.Stderr, "🔍 Checking for updates...\n")

	version, err := updater.SelfUpdate(ctx, a.Version)
	if errors.Is(err, updater.ErrUpToDate) {
		fmt.Fprintf(a.Stderr, "✅ Already at the latest version (v%s)\n", a.Version)
		return ExitOK
	}
	if err != nil {
		fmt.Fprintf(a.Stderr, "❌ Update failed: %v\n", err)
		fmt.Fprintf(a.Stderr, "\n   You can download manually from:\n   https://github.com/HendryAvila/computor/releases/latest\n")
		return ExitFailure
	}

	fmt.Fprintf(a.Stderr, "✅ Updated to v%s!\n", version)
	return ExitOK
}
