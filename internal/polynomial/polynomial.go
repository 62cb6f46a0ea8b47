// Package polynomial implements the core of computor: the single-variable
// polynomial model, the tolerant equation parser and the degree 0–2 solver.
//
// Data flows one way:
//
//	equation text → Parse → *Polynomial (reduced form) → Solve → *SolutionResult
//
// Nothing in this package keeps state between calls, so Parse and Solve are
// safe to call from many goroutines at once.
package polynomial

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/HendryAvila/computor/internal/numeric"
)

// MaxPower is the largest exponent the parser accepts.
const MaxPower = 100

// Term is one monomial: Coefficient * X^Power.
type Term struct {
	Power       int     `json:"power"`
	Coefficient float64 `json:"coefficient"`
}

// Polynomial is a sparse mapping from power to coefficient.
//
// Entries may be (near-)zero after cancellation; they are kept but ignored by
// Degree, IsZero and Significant.
type Polynomial struct {
	coeffs map[int]float64
}

// New returns an empty (zero) polynomial.
func New() *Polynomial {
	return &Polynomial{coeffs: make(map[int]float64)}
}

// FromTerms builds a polynomial by adding every term in order.
func FromTerms(terms ...Term) *Polynomial {
	p := New()
	for _, t := range terms {
		p.AddTerm(t)
	}
	return p
}

// Add accumulates coefficient at power. Repeated powers are summed.
// A negative power is a programming error and panics.
func (p *Polynomial) Add(power int, coefficient float64) {
	if power < 0 {
		panic(fmt.Sprintf("polynomial: negative power %d", power))
	}
	if p.coeffs == nil {
		p.coeffs = make(map[int]float64)
	}
	p.coeffs[power] += coefficient
}

// AddTerm is Add for a Term value.
func (p *Polynomial) AddTerm(t Term) {
	p.Add(t.Power, t.Coefficient)
}

// Coefficient returns the coefficient stored at power, or 0.
func (p *Polynomial) Coefficient(power int) float64 {
	return p.coeffs[power]
}

// Degree is the highest power whose coefficient is not negligible.
// The zero polynomial has degree 0.
func (p *Polynomial) Degree() int {
	degree := 0
	for power, c := range p.coeffs {
		if power > degree && !numeric.IsNegligible(c) {
			degree = power
		}
	}
	return degree
}

// IsZero reports whether every coefficient is negligible.
func (p *Polynomial) IsZero() bool {
	for _, c := range p.coeffs {
		if !numeric.IsNegligible(c) {
			return false
		}
	}
	return true
}

// Len returns the number of stored entries, negligible ones included.
func (p *Polynomial) Len() int {
	return len(p.coeffs)
}

// Terms returns every stored term sorted by ascending power.
func (p *Polynomial) Terms() []Term {
	terms := make([]Term, 0, len(p.coeffs))
	for power, c := range p.coeffs {
		terms = append(terms, Term{Power: power, Coefficient: c})
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].Power < terms[j].Power })
	return terms
}

// Significant returns the terms with non-negligible coefficients, sorted by
// ascending power.
func (p *Polynomial) Significant() []Term {
	all := p.Terms()
	out := all[:0]
	for _, t := range all {
		if !numeric.IsNegligible(t.Coefficient) {
			out = append(out, t)
		}
	}
	return out
}

// Map returns a copy of the power → coefficient mapping.
func (p *Polynomial) Map() map[int]float64 {
	m := make(map[int]float64, len(p.coeffs))
	for power, c := range p.coeffs {
		m[power] = c
	}
	return m
}

// Clone returns an independent copy of p.
func (p *Polynomial) Clone() *Polynomial {
	return &Polynomial{coeffs: p.Map()}
}

// Merge returns left − right: the reduced form of the equation left = right.
func Merge(left, right *Polynomial) *Polynomial {
	out := left.Clone()
	for power, c := range right.coeffs {
		out.Add(power, -c)
	}
	return out
}

// Eval evaluates p at x with Horner's scheme.
func (p *Polynomial) Eval(x float64) float64 {
	degree := 0
	for power := range p.coeffs {
		if power > degree {
			degree = power
		}
	}
	result := 0.0
	for power := degree; power >= 0; power-- {
		result = result*x + p.coeffs[power]
	}
	return result
}

// Equation renders p as "c0 * X^0 + c1 * X^1 + ... = 0".
//
// Coefficients are written in plain decimal notation so the result is
// accepted by Parse and reproduces the same mapping. Negligible terms are
// skipped; the zero polynomial renders as "0 = 0".
func (p *Polynomial) Equation() string {
	terms := p.Significant()
	if len(terms) == 0 {
		return "0 = 0"
	}

	var b strings.Builder
	for i, t := range terms {
		c := t.Coefficient
		switch {
		case i == 0 && c < 0:
			b.WriteString("-")
		case i > 0 && c < 0:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		fmt.Fprintf(&b, "%s * X^%d", formatDecimal(numeric.Abs(c)), t.Power)
	}
	b.WriteString(" = 0")
	return b.String()
}

// String implements fmt.Stringer with the canonical equation form.
func (p *Polynomial) String() string {
	return p.Equation()
}

// MarshalJSON encodes the mapping as an object keyed by power.
func (p *Polynomial) MarshalJSON() ([]byte, error) {
	m := make(map[string]float64, len(p.coeffs))
	for power, c := range p.coeffs {
		m[strconv.Itoa(power)] = c
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes an object keyed by power.
func (p *Polynomial) UnmarshalJSON(data []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	p.coeffs = make(map[int]float64, len(m))
	for key, c := range m {
		power, err := strconv.Atoi(key)
		if err != nil || power < 0 {
			return fmt.Errorf("polynomial: invalid power key %q", key)
		}
		p.coeffs[power] = c
	}
	return nil
}

// formatDecimal prints v without an exponent, since 'e' is not part of the
// equation vocabulary.
func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
