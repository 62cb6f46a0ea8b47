// Package display turns solver results into the text computor prints:
// the reduced form, the degree, the discriminant, the roots, an optional
// step-by-step explanation and an ASCII graph.
//
// Numbers are shown as small fractions when one matches exactly (within
// numeric.Epsilon), otherwise as the shortest decimal that round-trips.
package display

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/HendryAvila/computor/internal/numeric"
	"github.com/HendryAvila/computor/internal/polynomial"
)

// DefaultMaxDenominator is the largest denominator shown as a fraction when
// no other limit is configured.
const DefaultMaxDenominator = 20

// FormatNumber renders v as "n", "n/d" or a plain decimal.
// Negligible values print as "0"; a maxDen below 1 means the default.
func FormatNumber(v float64, maxDen int) string {
	if numeric.IsNegligible(v) {
		return "0"
	}
	if n, d, ok := numeric.Fraction(v, denominatorLimit(maxDen)); ok {
		if d == 1 {
			return strconv.FormatInt(n, 10)
		}
		return fmt.Sprintf("%d/%d", n, d)
	}
	return formatDecimal(v)
}

// FormatImaginary renders the magnitude of an imaginary part:
// "i", "3i", "3i/2" or "1.5i".
func FormatImaginary(v float64, maxDen int) string {
	v = numeric.Abs(v)
	if numeric.NearlyEqual(v, 1) {
		return "i"
	}
	if n, d, ok := numeric.Fraction(v, denominatorLimit(maxDen)); ok {
		if d == 1 {
			return fmt.Sprintf("%di", n)
		}
		return fmt.Sprintf("%di/%d", n, d)
	}
	return formatDecimal(v) + "i"
}

// FormatComplex renders a root as "a + bi" or "a - bi".
func FormatComplex(c polynomial.Complex, maxDen int) string {
	sign := "+"
	if c.Imaginary < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s %s %s", FormatNumber(c.Real, maxDen), sign, FormatImaginary(c.Imaginary, maxDen))
}

// ReducedForm renders p in ascending power order, e.g. "4 - 5 * X + X^2 = 0".
func ReducedForm(p *polynomial.Polynomial, maxDen int) string {
	if p == nil {
		return ""
	}
	terms := p.Significant()
	if len(terms) == 0 {
		return "0 = 0"
	}

	var b strings.Builder
	for i, t := range terms {
		text := formatTerm(t, maxDen)
		switch {
		case i == 0 && t.Coefficient < 0:
			b.WriteString("-" + text)
		case i == 0:
			b.WriteString(text)
		case t.Coefficient < 0:
			b.WriteString(" - " + text)
		default:
			b.WriteString(" + " + text)
		}
	}
	b.WriteString(" = 0")
	return b.String()
}

// formatTerm renders |coefficient| with its variable part. A unit
// coefficient is dropped in front of X.
func formatTerm(t polynomial.Term, maxDen int) string {
	abs := numeric.Abs(t.Coefficient)
	coefficient := FormatNumber(abs, maxDen)
	if t.Power == 0 {
		return coefficient
	}

	variable := "X"
	if t.Power > 1 {
		variable = fmt.Sprintf("X^%d", t.Power)
	}
	if numeric.NearlyEqual(abs, 1) {
		return variable
	}
	return coefficient + " * " + variable
}

func denominatorLimit(maxDen int) int64 {
	if maxDen < 1 {
		return DefaultMaxDenominator
	}
	return int64(maxDen)
}

// formatDecimal uses plain notation for everyday magnitudes and falls back
// to exponent notation for very large or very small values.
func formatDecimal(v float64) string {
	abs := math.Abs(v)
	if abs >= 1e-9 && abs < 1e15 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
