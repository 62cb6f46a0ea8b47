package history

import (
	"log"

	"github.com/HendryAvila/computor/internal/display"
	"github.com/HendryAvila/computor/internal/polynomial"
)

// Recorder saves solver outcomes under one session.
//
// Recording is best-effort: failures are logged and never reach the caller,
// because answering the equation is the primary concern.
type Recorder struct {
	store          *Store
	sessionID      string
	maxDenominator int
}

// NewRecorder returns a Recorder writing to store, or nil if store is nil.
func NewRecorder(store *Store, sessionID string, maxDenominator int) *Recorder {
	if store == nil {
		return nil
	}
	return &Recorder{store: store, sessionID: sessionID, maxDenominator: maxDenominator}
}

// OnSolve records one result. It is safe to call on a nil Recorder.
func (r *Recorder) OnSolve(res *polynomial.SolutionResult) {
	if r == nil || res == nil {
		return
	}
	if _, err := r.store.Record(ParamsFor(r.sessionID, res, r.maxDenominator)); err != nil {
		log.Printf("WARNING: history recorder: record %q: %v", Truncate(res.Equation, 60), err)
	}
}

// ParamsFor converts a solver result into RecordParams. Parsed equations are
// keyed by their canonical reduced equation, so "X^2 = 1" and "X^2 - 1 = 0" dedupe
// together; rejected input falls back to Normalize on the raw text.
func ParamsFor(sessionID string, res *polynomial.SolutionResult, maxDenominator int) RecordParams {
	p := RecordParams{
		SessionID:    sessionID,
		Equation:     res.Equation,
		SolutionType: string(res.Type),
		Summary:      display.Summary(res, maxDenominator),
	}
	if !res.OK() {
		p.Error = res.ErrorMessage()
		return p
	}
	p.Normalized = res.ReducedForm.Equation()
	p.ReducedForm = display.ReducedForm(res.ReducedForm, maxDenominator)
	p.Degree = res.Degree
	return p
}
