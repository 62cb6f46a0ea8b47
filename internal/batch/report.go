package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/HendryAvila/computor/internal/display"
	"github.com/HendryAvila/computor/internal/polynomial"
)

// WriteText writes each outcome as a "[line N] equation" header followed by
// its rendered report, then a one-line tally.
func WriteText(w io.Writer, outcomes []Outcome, opts display.Options) error {
	for i, o := range outcomes {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "[line %d] %s\n%s", o.Line.Number, o.Line.Equation, display.Render(o.Result, opts)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%s\n", Tally(outcomes))
	return err
}

type jsonLine struct {
	Line   int                        `json:"line"`
	Result *polynomial.SolutionResult `json:"result"`
}

// WriteJSON writes one JSON object per outcome (JSON Lines).
func WriteJSON(w io.Writer, outcomes []Outcome) error {
	enc := json.NewEncoder(w)
	for _, o := range outcomes {
		if err := enc.Encode(jsonLine{Line: o.Line.Number, Result: o.Result}); err != nil {
			return fmt.Errorf("batch: encode line %d: %w", o.Line.Number, err)
		}
	}
	return nil
}

// Tally summarises outcomes, e.g. "3 equations: 2 solved, 1 invalid".
func Tally(outcomes []Outcome) string {
	counts := Counts(outcomes)
	invalid := counts[polynomial.InvalidEquation]
	unsolved := counts[polynomial.UnsolvableDegree]
	outOfRange := counts[polynomial.RootsOutOfRange]
	solved := len(outcomes) - invalid - unsolved - outOfRange

	parts := []string{fmt.Sprintf("%d solved", solved)}
	if unsolved > 0 {
		parts = append(parts, fmt.Sprintf("%d above degree 2", unsolved))
	}
	if outOfRange > 0 {
		parts = append(parts, fmt.Sprintf("%d out of range", outOfRange))
	}
	if invalid > 0 {
		parts = append(parts, fmt.Sprintf("%d invalid", invalid))
	}
	noun := "equations"
	if len(outcomes) == 1 {
		noun = "equation"
	}
	return fmt.Sprintf("%d %s: %s", len(outcomes), noun, strings.Join(parts, ", "))
}
