package display

import (
	"fmt"
	"strings"

	"github.com/HendryAvila/computor/internal/numeric"
	"github.com/HendryAvila/computor/internal/polynomial"
)

// Explain walks through how the result was obtained, one numbered step per
// line. Rejected equations produce the error line only.
func Explain(r *polynomial.SolutionResult, opts Options) string {
	t := opts.Theme
	if !r.OK() {
		return t.err("Error: "+r.ErrorMessage()) + "\n"
	}

	maxDen := opts.MaxDenominator
	num := func(v float64) string { return FormatNumber(v, maxDen) }
	p := r.ReducedForm

	var steps []string
	if r.Equation != "" {
		steps = append(steps, fmt.Sprintf("Start from %s", strings.TrimSpace(r.Equation)))
	}
	steps = append(steps,
		"Move every term to the left side and combine like terms: "+ReducedForm(p, maxDen),
		fmt.Sprintf("The highest power with a non-zero coefficient is %d", r.Degree),
	)

	switch r.Degree {
	case 0:
		c := p.Coefficient(0)
		if numeric.IsNegligible(c) {
			steps = append(steps, "No X remains and 0 = 0 holds, so every real number is a solution")
		} else {
			steps = append(steps, fmt.Sprintf("No X remains and %s = 0 is false, so there is no solution", num(c)))
		}

	case 1:
		a, b := p.Coefficient(1), p.Coefficient(0)
		steps = append(steps, fmt.Sprintf("Isolate X in a * X + b = 0 with a = %s and b = %s", num(a), num(b)))
		if r.Type == polynomial.RootsOutOfRange {
			steps = append(steps, "X = -b / a is outside the floating point range")
			break
		}
		steps = append(steps,
			fmt.Sprintf("X = -b / a = %s / %s = %s", num(-b), paren(num(a), a), num(r.RealSolutions[0])),
		)

	case 2:
		a, b, c := p.Coefficient(2), p.Coefficient(1), p.Coefficient(0)
		steps = append(steps, fmt.Sprintf("Read a = %s, b = %s and c = %s", num(a), num(b), num(c)))
		if !r.HasDiscriminant() {
			steps = append(steps, "The coefficients are outside the floating point range")
			break
		}
		if s := r.DiscriminantScale; s != 0 {
			a, b, c = a/s, b/s, c/s
			steps = append(steps, fmt.Sprintf(
				"b² - 4ac is outside the floating point range, so divide every coefficient by %s: a = %s, b = %s, c = %s",
				formatDecimal(s), num(a), num(b), num(c)))
		}
		delta := *r.Discriminant
		steps = append(steps,
			fmt.Sprintf("Δ = b² - 4ac = %s² - 4 * %s * %s = %s",
				paren(num(b), b), paren(num(a), a), paren(num(c), c), num(delta)),
		)
		switch r.Type {
		case polynomial.QuadraticRealSolutions:
			if len(r.RealSolutions) > 1 {
				steps = append(steps,
					"Δ > 0, so X = (-b ± √Δ) / 2a",
					fmt.Sprintf("√Δ = %s", num(numeric.Sqrt(delta))),
					"X = "+strings.Join(Roots(r, maxDen), " or X = "),
				)
			} else {
				steps = append(steps,
					"Δ = 0, so X = -b / 2a",
					"X = "+num(r.RealSolutions[0]),
				)
			}
		case polynomial.QuadraticComplexSolutions:
			steps = append(steps,
				"Δ < 0, so X = (-b ± i√-Δ) / 2a",
				fmt.Sprintf("√-Δ = %s", num(numeric.Sqrt(-delta))),
				"X = "+strings.Join(Roots(r, maxDen), " or X = "),
			)
		case polynomial.RootsOutOfRange:
			steps = append(steps, "The roots are outside the floating point range")
		}

	default:
		steps = append(steps, "Only degrees 0, 1 and 2 have a closed-form solution here")
	}

	var sb strings.Builder
	for i, s := range steps {
		sb.WriteString(t.dim(fmt.Sprintf("%d. ", i+1)))
		sb.WriteString(s)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// paren wraps negative values so substitutions read unambiguously.
func paren(s string, v float64) string {
	if v < 0 && !numeric.IsNegligible(v) {
		return "(" + s + ")"
	}
	return s
}
