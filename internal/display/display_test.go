package display

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/HendryAvila/computor/internal/polynomial"
)

// --- number formatting ---

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name   string
		v      float64
		maxDen int
		want   string
	}{
		{"integer", 4, 0, "4"},
		{"negative quarter", -0.25, 0, "-1/4"},
		{"third", 1.0 / 3, 0, "1/3"},
		{"improper fraction", 2.5, 0, "5/2"},
		{"zero", 0, 0, "0"},
		{"negligible", 1e-12, 0, "0"},
		{"negative negligible", -1e-11, 0, "0"},
		{"irrational", math.Sqrt2, 0, strconv.FormatFloat(math.Sqrt2, 'f', -1, 64)},
		{"denominator above default", 1.0 / 47, 0, strconv.FormatFloat(1.0/47, 'f', -1, 64)},
		{"denominator within custom limit", 1.0 / 47, 50, "1/47"},
		{"integers only", 1.5, 1, "1.5"},
		{"huge", 1e20, 0, "1e+20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatNumber(tt.v, tt.maxDen); got != tt.want {
				t.Errorf("FormatNumber(%v, %d) = %q, want %q", tt.v, tt.maxDen, got, tt.want)
			}
		})
	}
}

func TestFormatImaginary(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{1, "i"},
		{-1, "i"},
		{3, "3i"},
		{1.5, "3i/2"},
		{math.Sqrt2, strconv.FormatFloat(math.Sqrt2, 'f', -1, 64) + "i"},
	}
	for _, tt := range tests {
		if got := FormatImaginary(tt.v, 0); got != tt.want {
			t.Errorf("FormatImaginary(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestFormatComplex(t *testing.T) {
	tests := []struct {
		c    polynomial.Complex
		want string
	}{
		{polynomial.Complex{Real: 0, Imaginary: 1}, "0 + i"},
		{polynomial.Complex{Real: 0, Imaginary: -1}, "0 - i"},
		{polynomial.Complex{Real: -1, Imaginary: -2}, "-1 - 2i"},
		{polynomial.Complex{Real: 0.5, Imaginary: 1.5}, "1/2 + 3i/2"},
	}
	for _, tt := range tests {
		if got := FormatComplex(tt.c, 0); got != tt.want {
			t.Errorf("FormatComplex(%+v) = %q, want %q", tt.c, got, tt.want)
		}
	}
}

// --- reduced form ---

func TestReducedForm(t *testing.T) {
	tests := []struct {
		name  string
		terms []polynomial.Term
		want  string
	}{
		{"zero", nil, "0 = 0"},
		{"linear", []polynomial.Term{{Power: 0, Coefficient: 1}, {Power: 1, Coefficient: 4}}, "1 + 4 * X = 0"},
		{"quadratic", []polynomial.Term{{Power: 0, Coefficient: 4}, {Power: 1, Coefficient: -5}, {Power: 2, Coefficient: 1}}, "4 - 5 * X + X^2 = 0"},
		{"all negative", []polynomial.Term{{Power: 0, Coefficient: -1}, {Power: 2, Coefficient: -1}}, "-1 - X^2 = 0"},
		{"lone negative X", []polynomial.Term{{Power: 1, Coefficient: -1}}, "-X = 0"},
		{"fraction coefficient", []polynomial.Term{{Power: 0, Coefficient: 0.5}, {Power: 3, Coefficient: 2}}, "1/2 + 2 * X^3 = 0"},
		{"negligible skipped", []polynomial.Term{{Power: 2, Coefficient: 1e-12}, {Power: 1, Coefficient: 3}}, "3 * X = 0"},
		{"unit constant kept", []polynomial.Term{{Power: 0, Coefficient: 1}}, "1 = 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReducedForm(polynomial.FromTerms(tt.terms...), 0); got != tt.want {
				t.Errorf("ReducedForm() = %q, want %q", got, tt.want)
			}
		})
	}
	if got := ReducedForm(nil, 0); got != "" {
		t.Errorf("ReducedForm(nil) = %q, want empty", got)
	}
}

// --- render ---

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		equation string
		want     string
	}{
		{
			name:     "two real roots",
			equation: "X^2 - 5 * X^1 + 4 = 0",
			want: "Reduced form: 4 - 5 * X + X^2 = 0\n" +
				"Polynomial degree: 2\n" +
				"Discriminant: 9\n" +
				MsgPositive + "\n" +
				"4\n" +
				"1\n",
		},
		{
			name:     "roots in descending order",
			equation: "-X^2 + 5X - 4 = 0",
			want: "Reduced form: -4 + 5 * X - X^2 = 0\n" +
				"Polynomial degree: 2\n" +
				"Discriminant: 9\n" +
				MsgPositive + "\n" +
				"4\n" +
				"1\n",
		},
		{
			name:     "linear",
			equation: "5 * X^0 + 4 * X^1 = 4 * X^0",
			want: "Reduced form: 1 + 4 * X = 0\n" +
				"Polynomial degree: 1\n" +
				MsgLinear + "\n" +
				"-1/4\n",
		},
		{
			name:     "repeated root",
			equation: "X^2 + 2X + 1 = 0",
			want: "Reduced form: 1 + 2 * X + X^2 = 0\n" +
				"Polynomial degree: 2\n" +
				"Discriminant: 0\n" +
				MsgZero + "\n" +
				"-1\n",
		},
		{
			name:     "complex",
			equation: "X^2 + 1 = 0",
			want: "Reduced form: 1 + X^2 = 0\n" +
				"Polynomial degree: 2\n" +
				"Discriminant: -4\n" +
				MsgNegative + "\n" +
				"0 + i\n" +
				"0 - i\n",
		},
		{
			name:     "identity",
			equation: "5 = 5",
			want:     "Reduced form: 0 = 0\nPolynomial degree: 0\n" + MsgInfinite + "\n",
		},
		{
			name:     "contradiction",
			equation: "5 = 6",
			want:     "Reduced form: -1 = 0\nPolynomial degree: 0\n" + MsgNoSolution + "\n",
		},
		{
			name:     "cubic",
			equation: "X^3 + X = 0",
			want:     "Reduced form: X + X^3 = 0\nPolynomial degree: 3\n" + MsgUnsolvableDegree + "\n",
		},
		{
			name:     "invalid",
			equation: "5/X = 1",
			want:     "Error: Invalid character '/' found\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(polynomial.SolveEquation(tt.equation), Options{})
			if got != tt.want {
				t.Errorf("Render(%q) =\n%s\nwant:\n%s", tt.equation, got, tt.want)
			}
		})
	}
}

func TestRender_ColorThemeKeepsText(t *testing.T) {
	got := Render(polynomial.SolveEquation("X^2 + 1 = 0"), Options{Theme: ColorTheme()})
	for _, want := range []string{"Reduced form:", "1 + X^2 = 0", MsgNegative, "0 - i"} {
		if !strings.Contains(got, want) {
			t.Errorf("colored output missing %q:\n%s", want, got)
		}
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		equation string
		want     string
	}{
		{"X^2 - 5 * X^1 + 4 = 0", "degree 2, two real solutions: 4, 1"},
		{"X^2 + 1 = 0", "degree 2, two complex solutions: 0 + i, 0 - i"},
		{"2X = 1", "degree 1, solution: 1/2"},
		{"5 = 5", "degree 0, every real number is a solution"},
		{"X^3 = 1", "degree 3, not solved"},
		{"= 1", "invalid: The left side of the equation is empty"},
	}
	for _, tt := range tests {
		if got := Summary(polynomial.SolveEquation(tt.equation), 0); got != tt.want {
			t.Errorf("Summary(%q) = %q, want %q", tt.equation, got, tt.want)
		}
	}
}

// --- explain ---

func TestExplain(t *testing.T) {
	tests := []struct {
		equation string
		contains []string
	}{
		{"X^2 - 5 * X^1 + 4 = 0", []string{
			"1. Start from X^2 - 5 * X^1 + 4 = 0",
			"combine like terms: 4 - 5 * X + X^2 = 0",
			"Read a = 1, b = -5 and c = 4",
			"Δ = b² - 4ac = (-5)² - 4 * 1 * 4 = 9",
			"Δ > 0",
			"X = 4 or X = 1",
		}},
		{"5 * X^0 + 4 * X^1 = 4 * X^0", []string{
			"X = -b / a = -1 / 4 = -1/4",
		}},
		{"X^2 + 1 = 0", []string{"Δ < 0", "X = 0 + i or X = 0 - i"}},
		{"X^2 = 0", []string{"Δ = 0, so X = -b / 2a", "X = 0"}},
		{"5 = 5", []string{"every real number is a solution"}},
		{"5 = 6", []string{"-1 = 0 is false"}},
		{"X^4 = 0", []string{"Only degrees 0, 1 and 2"}},
		{"Y = 1", []string{"Error: Invalid variable 'Y'"}},
	}
	for _, tt := range tests {
		t.Run(tt.equation, func(t *testing.T) {
			got := Explain(polynomial.SolveEquation(tt.equation), Options{})
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Explain missing %q:\n%s", want, got)
				}
			}
		})
	}
}

// --- graph ---

func TestGraph_Shape(t *testing.T) {
	r := polynomial.SolveEquation("X^2 - 5 * X^1 + 4 = 0")
	out := Graph(r.ReducedForm, r, 41, 11)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 12 {
		t.Fatalf("got %d lines, want 12:\n%s", len(lines), out)
	}
	for i, l := range lines[:11] {
		if len(l) > 41 {
			t.Errorf("line %d is %d wide, want <= 41", i, len(l))
		}
	}
	if !strings.HasPrefix(lines[11], "x: [") {
		t.Errorf("footer = %q", lines[11])
	}
	for _, glyph := range []string{"*", "o", "|", "-"} {
		if !strings.Contains(out, glyph) {
			t.Errorf("graph missing %q:\n%s", glyph, out)
		}
	}
}

func TestGraph_Defaults(t *testing.T) {
	p := polynomial.FromTerms(polynomial.Term{Power: 1, Coefficient: 2})
	out := Graph(p, nil, 0, 0)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != DefaultGraphHeight+1 {
		t.Errorf("got %d lines, want %d", len(lines), DefaultGraphHeight+1)
	}
	if strings.Contains(out, "o") {
		t.Error("roots should only be marked when a result is given")
	}
}

func TestGraph_EdgeCases(t *testing.T) {
	if got := Graph(nil, nil, 40, 10); got != "" {
		t.Errorf("Graph(nil) = %q, want empty", got)
	}

	out := Graph(polynomial.New(), nil, 20, 5)
	if !strings.Contains(out, "x: [-5, 5]") {
		t.Errorf("zero polynomial window:\n%s", out)
	}

	r := polynomial.SolveEquation("X^100 + 1 = 0")
	if out := Graph(r.ReducedForm, r, 30, 8); !strings.Contains(out, "*") {
		t.Errorf("high degree graph has no curve:\n%s", out)
	}
}

func TestHugeCoefficients(t *testing.T) {
	e200 := "1" + strings.Repeat("0", 200)
	huge := "15" + strings.Repeat("0", 307)

	scaled := polynomial.SolveEquation(e200 + " * X^2 + " + e200 + " * X + " + e200 + " = 0")
	out := Render(scaled, Options{})
	for _, want := range []string{"Discriminant: -3 * (1e+200)^2", MsgNegative, "-1/2 + "} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q:\n%s", want, out)
		}
	}
	steps := Explain(scaled, Options{})
	for _, want := range []string{
		"divide every coefficient by 1e+200: a = 1, b = 1, c = 1",
		"Δ = b² - 4ac = 1² - 4 * 1 * 1 = -3",
	} {
		if !strings.Contains(steps, want) {
			t.Errorf("Explain() missing %q:\n%s", want, steps)
		}
	}

	linear := polynomial.SolveEquation("0.001 * X = " + huge)
	if got, want := Summary(linear, 0), "degree 1, solutions out of range"; got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
	if out := Render(linear, Options{}); !strings.Contains(out, MsgOutOfRange) {
		t.Errorf("Render() missing out of range message:\n%s", out)
	}
	if steps := Explain(linear, Options{}); !strings.Contains(steps, "X = -b / a is outside the floating point range") {
		t.Errorf("Explain() missing out of range step:\n%s", steps)
	}

	quad := polynomial.SolveEquation("0.001 * X^2 + " + huge + " * X = 0")
	if steps := Explain(quad, Options{}); !strings.Contains(steps, "The roots are outside the floating point range") {
		t.Errorf("Explain() missing out of range step:\n%s", steps)
	}
	if out := Graph(quad.ReducedForm, quad, 30, 8); !strings.Contains(out, "x: [") {
		t.Errorf("graph of out of range roots:\n%s", out)
	}
}
