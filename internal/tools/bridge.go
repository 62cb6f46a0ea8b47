package tools

import "github.com/HendryAvila/computor/internal/polynomial"

// SolveObserver is notified after every equation the tools solve.
// It's an optional dependency: tools work fine with a nil observer.
// *history.Recorder is the production implementation.
type SolveObserver interface {
	OnSolve(result *polynomial.SolutionResult)
}

// notifyObserver is a nil-safe helper called from Handle methods.
func notifyObserver(obs SolveObserver, result *polynomial.SolutionResult) {
	if obs == nil {
		return
	}
	obs.OnSolve(result)
}
