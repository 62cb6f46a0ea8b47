package polynomial

import "encoding/json"

// SolutionType classifies the outcome of solving an equation.
type SolutionType string

const (
	NoSolution                SolutionType = "no_solution"
	InfiniteSolutions         SolutionType = "infinite_solutions"
	LinearSolution            SolutionType = "linear_solution"
	QuadraticRealSolutions    SolutionType = "quadratic_real_solutions"
	QuadraticComplexSolutions SolutionType = "quadratic_complex_solutions"
	UnsolvableDegree          SolutionType = "unsolvable_degree"
	RootsOutOfRange           SolutionType = "roots_out_of_range"
	InvalidEquation           SolutionType = "invalid_equation"
)

// SolutionTypes lists every classification, in declaration order.
var SolutionTypes = []SolutionType{
	NoSolution,
	InfiniteSolutions,
	LinearSolution,
	QuadraticRealSolutions,
	QuadraticComplexSolutions,
	UnsolvableDegree,
	RootsOutOfRange,
	InvalidEquation,
}

// Complex is one root of a conjugate pair.
type Complex struct {
	Real      float64 `json:"real"`
	Imaginary float64 `json:"imaginary"`
}

// SolutionResult is everything the display layer needs about one equation.
//
// When Err is set the equation was rejected by the parser: Type is
// InvalidEquation and ReducedForm is nil. Otherwise ReducedForm and Degree
// are always set, and Discriminant is set when Degree is 2 (unless the
// coefficients themselves are not finite).
//
// When b² - 4ac does not fit in a float64, the quadratic is solved divided
// by its largest coefficient magnitude: DiscriminantScale holds that divisor
// and Discriminant is the scaled value, so the true discriminant is
// Discriminant * DiscriminantScale². DiscriminantScale is 0 otherwise.
type SolutionResult struct {
	Equation          string
	ReducedForm       *Polynomial
	Degree            int
	Type              SolutionType
	RealSolutions     []float64
	ComplexSolutions  []Complex
	Discriminant      *float64
	DiscriminantScale float64
	Err               error
}

// OK reports whether the equation parsed.
func (r *SolutionResult) OK() bool {
	return r.Err == nil
}

// ErrorMessage returns the parse diagnostic, or "" when the equation parsed.
func (r *SolutionResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// HasDiscriminant reports whether a discriminant was computed.
func (r *SolutionResult) HasDiscriminant() bool {
	return r.Discriminant != nil
}

// RootCount is the number of distinct roots found (real or complex).
func (r *SolutionResult) RootCount() int {
	return len(r.RealSolutions) + len(r.ComplexSolutions)
}

type resultJSON struct {
	Equation         string       `json:"equation,omitempty"`
	ReducedForm      *Polynomial  `json:"reduced_form,omitempty"`
	ReducedEquation  string       `json:"reduced_equation,omitempty"`
	Degree           *int         `json:"degree,omitempty"`
	Type             SolutionType `json:"type"`
	RealSolutions    []float64    `json:"real_solutions"`
	ComplexSolutions []Complex    `json:"complex_solutions"`
	Discriminant     *float64     `json:"discriminant,omitempty"`
	Scale            float64      `json:"discriminant_scale,omitempty"`
	Error            string       `json:"error,omitempty"`
}

// MarshalJSON exposes the result with snake_case fields. Degree and the
// reduced form are omitted for rejected equations.
func (r *SolutionResult) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		Equation:         r.Equation,
		Type:             r.Type,
		RealSolutions:    r.RealSolutions,
		ComplexSolutions: r.ComplexSolutions,
		Discriminant:     r.Discriminant,
		Scale:            r.DiscriminantScale,
		Error:            r.ErrorMessage(),
	}
	if out.RealSolutions == nil {
		out.RealSolutions = []float64{}
	}
	if out.ComplexSolutions == nil {
		out.ComplexSolutions = []Complex{}
	}
	if r.ReducedForm != nil {
		degree := r.Degree
		out.ReducedForm = r.ReducedForm
		out.ReducedEquation = r.ReducedForm.Equation()
		out.Degree = &degree
	}
	return json.Marshal(out)
}
