package polynomial

import (
	"math"

	"github.com/HendryAvila/computor/internal/numeric"
)

// SolveEquation parses equation and solves it. Parse failures produce an
// InvalidEquation result carrying the error; they never panic or return nil.
func SolveEquation(equation string) *SolutionResult {
	p, err := Parse(equation)
	if err != nil {
		return &SolutionResult{
			Equation: equation,
			Type:     InvalidEquation,
			Err:      err,
		}
	}
	result := Solve(p)
	result.Equation = equation
	return result
}

// Solve classifies p by degree and computes its roots. It never fails:
// degrees above 2 are reported as UnsolvableDegree with no roots, and roots
// that do not fit in a float64 as RootsOutOfRange. p is not modified.
func Solve(p *Polynomial) *SolutionResult {
	result := &SolutionResult{
		ReducedForm: p,
		Degree:      p.Degree(),
	}

	switch result.Degree {
	case 0:
		solveConstant(result)
	case 1:
		solveLinear(result)
	case 2:
		solveQuadratic(result)
	default:
		result.Type = UnsolvableDegree
	}
	if !rootsFinite(result) {
		result.Type = RootsOutOfRange
		result.RealSolutions = nil
		result.ComplexSolutions = nil
	}
	return result
}

func solveConstant(r *SolutionResult) {
	if numeric.IsNegligible(r.ReducedForm.Coefficient(0)) {
		r.Type = InfiniteSolutions
		return
	}
	r.Type = NoSolution
}

// solveLinear handles a·X + b = 0; a is non-negligible by definition of degree.
func solveLinear(r *SolutionResult) {
	a := r.ReducedForm.Coefficient(1)
	b := r.ReducedForm.Coefficient(0)

	r.Type = LinearSolution
	r.RealSolutions = []float64{positiveZero(-b / a)}
}

// solveQuadratic handles a·X² + b·X + c = 0.
func solveQuadratic(r *SolutionResult) {
	a := r.ReducedForm.Coefficient(2)
	b := r.ReducedForm.Coefficient(1)
	c := r.ReducedForm.Coefficient(0)

	delta := b*b - 4*a*c
	if math.IsInf(delta, 0) || math.IsNaN(delta) {
		// Dividing every coefficient by the same value keeps the roots.
		scale := math.Max(numeric.Abs(a), math.Max(numeric.Abs(b), numeric.Abs(c)))
		a, b, c = a/scale, b/scale, c/scale
		delta = b*b - 4*a*c
		r.DiscriminantScale = scale
	}
	if math.IsNaN(delta) {
		// Only reachable with non-finite coefficients.
		r.Type = RootsOutOfRange
		return
	}
	r.Discriminant = &delta

	switch {
	case delta > numeric.Epsilon:
		sqrtDelta := numeric.Sqrt(delta)
		r.Type = QuadraticRealSolutions
		r.RealSolutions = []float64{
			positiveZero((-b + sqrtDelta) / (2 * a)),
			positiveZero((-b - sqrtDelta) / (2 * a)),
		}
	case delta >= -numeric.Epsilon:
		r.Type = QuadraticRealSolutions
		r.RealSolutions = []float64{positiveZero(-b / (2 * a))}
	default:
		re := positiveZero(-b / (2 * a))
		imaginary := numeric.Abs(numeric.Sqrt(-delta) / (2 * a))
		r.Type = QuadraticComplexSolutions
		r.ComplexSolutions = []Complex{
			{Real: re, Imaginary: imaginary},
			{Real: re, Imaginary: -imaginary},
		}
	}
}

// rootsFinite reports whether every computed root is a finite number.
func rootsFinite(r *SolutionResult) bool {
	finite := func(x float64) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }
	for _, x := range r.RealSolutions {
		if !finite(x) {
			return false
		}
	}
	for _, z := range r.ComplexSolutions {
		if !finite(z.Real) || !finite(z.Imaginary) {
			return false
		}
	}
	return true
}

// positiveZero maps -0 to +0 so roots never print as "-0".
func positiveZero(x float64) float64 {
	if x == 0 {
		return 0
	}
	return x
}
