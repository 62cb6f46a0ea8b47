package numeric

import (
	"math"
	"testing"
)

func TestAbs(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{3.5, 3.5},
		{-3.5, 3.5},
		{-1e-300, 1e-300},
	}
	for _, tt := range tests {
		if got := Abs(tt.in); got != tt.want {
			t.Errorf("Abs(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if got := Abs(math.Copysign(0, -1)); math.Signbit(got) {
		t.Error("Abs(-0) should be +0")
	}
}

func TestSqrt_MatchesMath(t *testing.T) {
	inputs := []float64{
		2, 4, 9, 0.25, 1e-30, 1e-8, 12345.678, 1e10, 1e300, math.MaxFloat64,
		math.SmallestNonzeroFloat64,
	}
	for _, x := range inputs {
		got := Sqrt(x)
		want := math.Sqrt(x)
		if math.Abs(got-want) > 1e-14*want {
			t.Errorf("Sqrt(%g) = %.17g, want %.17g", x, got, want)
		}
	}
}

func TestSqrt_PerfectSquares(t *testing.T) {
	for i := 1; i <= 100; i++ {
		x := float64(i * i)
		if got := Sqrt(x); math.Abs(got-float64(i)) > 1e-12 {
			t.Errorf("Sqrt(%v) = %.17g, want %d", x, got, i)
		}
	}
}

func TestSqrt_SpecialValues(t *testing.T) {
	if got := Sqrt(0); got != 0 {
		t.Errorf("Sqrt(0) = %v, want 0", got)
	}
	if got := Sqrt(1); got != 1 {
		t.Errorf("Sqrt(1) = %v, want 1", got)
	}
	if got := Sqrt(-4); !math.IsNaN(got) {
		t.Errorf("Sqrt(-4) = %v, want NaN", got)
	}
	if got := Sqrt(math.NaN()); !math.IsNaN(got) {
		t.Errorf("Sqrt(NaN) = %v, want NaN", got)
	}
	if got := Sqrt(math.Inf(1)); !math.IsInf(got, 1) {
		t.Errorf("Sqrt(+Inf) = %v, want +Inf", got)
	}
}

func TestIsNegligible(t *testing.T) {
	if !IsNegligible(1e-11) {
		t.Error("1e-11 should be negligible")
	}
	if !IsNegligible(-1e-10) {
		t.Error("-1e-10 should be negligible (boundary is inclusive)")
	}
	if IsNegligible(1e-9) {
		t.Error("1e-9 should not be negligible")
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(0.1+0.2, 0.3) {
		t.Error("0.1+0.2 should be nearly equal to 0.3")
	}
	if NearlyEqual(1, 1.001) {
		t.Error("1 and 1.001 should differ")
	}
}

func TestFraction(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		maxDen  int64
		wantNum int64
		wantDen int64
		wantOK  bool
	}{
		{"integer", 4, 50, 4, 1, true},
		{"quarter", -0.25, 50, -1, 4, true},
		{"third", 1.0 / 3.0, 50, 1, 3, true},
		{"seven fifths", 1.4, 50, 7, 5, true},
		{"zero", 0, 50, 0, 1, true},
		{"irrational", math.Sqrt2, 50, 0, 0, false},
		{"denominator too large", 1.0 / 47.0, 20, 0, 0, false},
		{"huge", 1e15, 50, 0, 0, false},
		{"nan", math.NaN(), 50, 0, 0, false},
		{"bad bound", 0.5, 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, d, ok := Fraction(tt.value, tt.maxDen)
			if ok != tt.wantOK {
				t.Fatalf("Fraction(%v) ok = %v, want %v", tt.value, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if n != tt.wantNum || d != tt.wantDen {
				t.Errorf("Fraction(%v) = %d/%d, want %d/%d", tt.value, n, d, tt.wantNum, tt.wantDen)
			}
		})
	}
}

func TestGCD(t *testing.T) {
	tests := []struct{ a, b, want int64 }{
		{12, 18, 6},
		{-12, 18, 6},
		{7, 0, 7},
		{0, 0, 0},
		{17, 5, 1},
	}
	for _, tt := range tests {
		if got := GCD(tt.a, tt.b); got != tt.want {
			t.Errorf("GCD(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
