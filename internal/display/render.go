package display

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/HendryAvila/computor/internal/numeric"
	"github.com/HendryAvila/computor/internal/polynomial"
)

// Branch messages printed before the roots.
const (
	MsgNoSolution       = "No solution exists."
	MsgInfinite         = "Infinite solutions (any real number)."
	MsgLinear           = "The solution is:"
	MsgPositive         = "Discriminant is strictly positive, the two solutions are:"
	MsgZero             = "Discriminant is zero, the solution is:"
	MsgNegative         = "Discriminant is strictly negative, the two complex solutions are:"
	MsgUnsolvableDegree = "The polynomial degree is strictly greater than 2, I can't solve."
	MsgOutOfRange       = "The solutions are too large to represent as floating point numbers."
)

// Options control how results are rendered.
type Options struct {
	// MaxDenominator bounds fraction display; below 1 means DefaultMaxDenominator.
	MaxDenominator int
	Theme          Theme
}

// Render produces the full report for one result, one item per line:
//
//	Reduced form: 4 - 5 * X + X^2 = 0
//	Polynomial degree: 2
//	Discriminant: 9
//	Discriminant is strictly positive, the two solutions are:
//	4
//	1
//
// Rejected equations render as a single "Error: ..." line.
func Render(r *polynomial.SolutionResult, opts Options) string {
	t := opts.Theme
	if !r.OK() {
		return t.err("Error: "+r.ErrorMessage()) + "\n"
	}

	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line(t.label("Reduced form: ") + ReducedForm(r.ReducedForm, opts.MaxDenominator))
	line(t.label("Polynomial degree: ") + strconv.Itoa(r.Degree))
	if r.HasDiscriminant() {
		line(t.label("Discriminant: ") + Discriminant(r, opts.MaxDenominator))
	}

	line(t.message(BranchMessage(r)))
	for _, root := range Roots(r, opts.MaxDenominator) {
		line(t.solution(root))
	}
	return b.String()
}

// Discriminant formats r.Discriminant, with its scale factor when the
// quadratic had to be divided down: "-3 * (1e+200)^2". It returns "" when no
// discriminant was computed.
func Discriminant(r *polynomial.SolutionResult, maxDen int) string {
	if !r.HasDiscriminant() {
		return ""
	}
	d := FormatNumber(*r.Discriminant, maxDen)
	if r.DiscriminantScale == 0 {
		return d
	}
	return fmt.Sprintf("%s * (%s)^2", d, formatDecimal(r.DiscriminantScale))
}

// BranchMessage is the sentence describing which case the solver took.
func BranchMessage(r *polynomial.SolutionResult) string {
	switch r.Type {
	case polynomial.NoSolution:
		return MsgNoSolution
	case polynomial.InfiniteSolutions:
		return MsgInfinite
	case polynomial.LinearSolution:
		return MsgLinear
	case polynomial.QuadraticRealSolutions:
		if len(r.RealSolutions) > 1 {
			return MsgPositive
		}
		return MsgZero
	case polynomial.QuadraticComplexSolutions:
		return MsgNegative
	case polynomial.UnsolvableDegree:
		return MsgUnsolvableDegree
	case polynomial.RootsOutOfRange:
		return MsgOutOfRange
	case polynomial.InvalidEquation:
		return "Error: " + r.ErrorMessage()
	}
	return ""
}

// Roots returns the formatted roots: real roots in descending order, then
// complex roots with the positive imaginary part first.
func Roots(r *polynomial.SolutionResult, maxDen int) []string {
	reals := append([]float64(nil), r.RealSolutions...)
	sort.Sort(sort.Reverse(sort.Float64Slice(reals)))

	out := make([]string, 0, len(reals)+len(r.ComplexSolutions))
	for _, x := range reals {
		out = append(out, FormatNumber(x, maxDen))
	}
	for _, c := range r.ComplexSolutions {
		if numeric.IsNegligible(c.Imaginary) {
			out = append(out, FormatNumber(c.Real, maxDen))
			continue
		}
		out = append(out, FormatComplex(c, maxDen))
	}
	return out
}

// Summary is a one-line description used by history and tool output,
// e.g. "degree 2, two real solutions: 4, 1".
func Summary(r *polynomial.SolutionResult, maxDen int) string {
	if !r.OK() {
		return "invalid: " + r.ErrorMessage()
	}
	head := "degree " + strconv.Itoa(r.Degree)
	roots := strings.Join(Roots(r, maxDen), ", ")
	switch r.Type {
	case polynomial.NoSolution:
		return head + ", no solution"
	case polynomial.InfiniteSolutions:
		return head + ", every real number is a solution"
	case polynomial.LinearSolution:
		return head + ", solution: " + roots
	case polynomial.QuadraticRealSolutions:
		if len(r.RealSolutions) > 1 {
			return head + ", two real solutions: " + roots
		}
		return head + ", one real solution: " + roots
	case polynomial.QuadraticComplexSolutions:
		return head + ", two complex solutions: " + roots
	case polynomial.RootsOutOfRange:
		return head + ", solutions out of range"
	default:
		return head + ", not solved"
	}
}
