// Package numeric holds the small set of floating point primitives the
// solver relies on: a tolerance, an absolute value, a reproducible square
// root and a fraction approximation used when printing results.
//
// The square root is computed with Newton's method rather than math.Sqrt so
// that results are identical on every target, independent of whether the
// platform has a hardware square root instruction.
package numeric

import "math"

// Epsilon is the tolerance used for every "is this zero" decision.
const Epsilon = 1e-10

// sqrtTolerance is the relative step size at which Newton's iteration stops.
const sqrtTolerance = 1e-15

// maxSqrtIterations bounds Newton's method. With the exponent-based initial
// guess convergence takes well under 10 steps for any finite input.
const maxSqrtIterations = 64

// Abs returns the absolute value of x.
func Abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	// Turns -0 into +0.
	return x + 0
}

// IsNegligible reports whether x is within Epsilon of zero.
func IsNegligible(x float64) bool {
	return Abs(x) <= Epsilon
}

// NearlyEqual reports whether a and b differ by at most Epsilon.
func NearlyEqual(a, b float64) bool {
	return Abs(a-b) <= Epsilon
}

// Sqrt returns the square root of x using Newton's iteration.
//
// Negative inputs return NaN. NaN and +Inf are returned unchanged.
func Sqrt(x float64) float64 {
	switch {
	case math.IsNaN(x) || math.IsInf(x, 1):
		return x
	case x < 0:
		return math.NaN()
	case x == 0 || x == 1:
		return x
	}

	guess := initialGuess(x)
	for i := 0; i < maxSqrtIterations; i++ {
		next := (guess + x/guess) / 2
		if Abs(next-guess) <= sqrtTolerance*next {
			return next
		}
		guess = next
	}
	return guess
}

// initialGuess halves the binary exponent of x, which puts the first guess
// within a factor of two of the root.
func initialGuess(x float64) float64 {
	frac, exp := math.Frexp(x)
	return math.Ldexp(frac, exp/2) + math.Ldexp(0.5, exp/2)
}

// Fraction approximates value as num/den with the smallest denominator up to
// maxDenominator that reproduces value within Epsilon. The result is reduced
// and the sign is carried by num. ok is false when no such fraction exists or
// the magnitude is too large to be represented.
func Fraction(value float64, maxDenominator int64) (num, den int64, ok bool) {
	if math.IsNaN(value) || math.IsInf(value, 0) || maxDenominator < 1 {
		return 0, 0, false
	}
	negative := value < 0
	v := Abs(value)
	if v > 1e12 {
		return 0, 0, false
	}

	for d := int64(1); d <= maxDenominator; d++ {
		n := int64(math.Floor(v*float64(d) + 0.5))
		if Abs(v-float64(n)/float64(d)) < Epsilon {
			g := GCD(n, d)
			if g > 1 {
				n /= g
				d /= g
			}
			if negative && n != 0 {
				n = -n
			}
			return n, d, true
		}
	}
	return 0, 0, false
}

// GCD returns the greatest common divisor of |a| and |b|.
func GCD(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
