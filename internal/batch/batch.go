// Package batch solves many equations at once, in parallel, keeping the
// results in input order.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/HendryAvila/computor/internal/polynomial"
	"golang.org/x/sync/errgroup"
)

// maxLineSize bounds a single input line.
const maxLineSize = 1 << 20

// Line is one equation read from input, with its 1-based line number.
type Line struct {
	Number   int
	Equation string
}

// Outcome is the result for one input line.
type Outcome struct {
	Line   Line
	Result *polynomial.SolutionResult
}

// ReadEquations reads one equation per line. Blank lines and lines whose
// first non-space character is '#' are skipped.
func ReadEquations(r io.Reader) ([]Line, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []Line
	n := 0
	for sc.Scan() {
		n++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, Line{Number: n, Equation: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("batch: read line %d: %w", n+1, err)
	}
	return lines, nil
}

// Solve solves every line with at most workers goroutines. Outcomes are in
// input order. Rejected equations are outcomes, not errors; the only error
// is ctx being cancelled, in which case no outcomes are returned.
func Solve(ctx context.Context, lines []Line, workers int) ([]Outcome, error) {
	if workers < 1 {
		workers = 1
	}
	out := make([]Outcome, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, line := range lines {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = Outcome{Line: line, Result: polynomial.SolveEquation(line.Equation)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	return out, nil
}

// Counts tallies outcomes by classification.
func Counts(outcomes []Outcome) map[polynomial.SolutionType]int {
	counts := make(map[polynomial.SolutionType]int)
	for _, o := range outcomes {
		counts[o.Result.Type]++
	}
	return counts
}
