package polynomial

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Parse validates equation and returns its reduced form (left − right).
//
// Validation runs to completion before any term is read, in a fixed order,
// and the first violation found is returned as a *ParseError. On failure the
// returned polynomial is nil.
func Parse(equation string) (*Polynomial, error) {
	left, right, err := validate(equation)
	if err != nil {
		return nil, err
	}

	lp, err := parseSide(left, SideLeft)
	if err != nil {
		return nil, err
	}
	rp, err := parseSide(right, SideRight)
	if err != nil {
		return nil, err
	}
	reduced := Merge(lp, rp)
	if err := checkFinite(reduced); err != nil {
		return nil, err
	}
	return reduced, nil
}

// checkFinite rejects a reduced form whose like terms summed past the
// float64 range, e.g. two maximal coefficients on the same power.
func checkFinite(p *Polynomial) error {
	for _, t := range p.Terms() {
		if math.IsInf(t.Coefficient, 0) || math.IsNaN(t.Coefficient) {
			return newParseError(ErrInvalidCoefficient, SideNone, "X^"+strconv.Itoa(t.Power), "combined coefficient out of range")
		}
	}
	return nil
}

// ─── Validation ─────────────────────────────────────────────────────────────

// validate applies the equation-level rules and returns both sides with
// whitespace removed.
func validate(equation string) (left, right string, err error) {
	if strings.TrimSpace(equation) == "" {
		return "", "", newParseError(ErrEmptyEquation, SideNone, "", "")
	}
	if err := checkVocabulary(equation); err != nil {
		return "", "", err
	}

	switch n := strings.Count(equation, "="); {
	case n == 0:
		return "", "", newParseError(ErrMissingEquals, SideNone, "", "")
	case n > 1:
		return "", "", newParseError(ErrTooManyEquals, SideNone, "=", "")
	}

	if err := checkVariables(equation); err != nil {
		return "", "", err
	}

	rawLeft, rawRight, _ := strings.Cut(equation, "=")
	if strings.TrimSpace(rawLeft) == "" {
		return "", "", newParseError(ErrEmptySide, SideLeft, "", "")
	}
	if strings.TrimSpace(rawRight) == "" {
		return "", "", newParseError(ErrEmptySide, SideRight, "", "")
	}

	left = stripSpaces(rawLeft)
	if err := validateSide(left, SideLeft); err != nil {
		return "", "", err
	}
	right = stripSpaces(rawRight)
	if err := validateSide(right, SideRight); err != nil {
		return "", "", err
	}
	return left, right, nil
}

// checkVocabulary rejects any non-letter outside the equation alphabet.
// Letters are left to checkVariables, which reports them more precisely.
func checkVocabulary(s string) error {
	for _, r := range s {
		if unicode.IsLetter(r) || isVocabulary(r) {
			continue
		}
		return newParseError(ErrInvalidCharacter, SideNone, string(r), "")
	}
	return nil
}

func checkVariables(s string) error {
	for _, r := range s {
		if unicode.IsLetter(r) && r != 'x' && r != 'X' {
			return newParseError(ErrInvalidVariable, SideNone, string(r), "")
		}
	}
	return nil
}

// validateSide runs the structural checks on one whitespace-free side.
func validateSide(s string, side Side) error {
	for i := 0; i+1 < len(s); i++ {
		a, b := s[i], s[i+1]
		if isOperator(a) && isOperator(b) && !(isSign(a) && isSign(b)) {
			return newParseError(ErrConsecutiveOperators, side, s[i:i+2], "")
		}
	}

	if first := s[0]; first == '*' || first == '/' || first == '^' {
		return newParseError(ErrLeadingOperator, side, string(first), "")
	}
	if last := s[len(s)-1]; isOperator(last) {
		return newParseError(ErrTrailingOperator, side, string(last), "")
	}

	if err := checkPowers(s, side); err != nil {
		return err
	}
	return checkDecimals(s, side)
}

// checkPowers validates the text after every "X^".
func checkPowers(s string, side Side) error {
	for i := 0; i+1 < len(s); i++ {
		if (s[i] != 'x' && s[i] != 'X') || s[i+1] != '^' {
			continue
		}
		start := i + 2
		end := start
		for end < len(s) && !strings.ContainsRune("+-*/=", rune(s[end])) {
			end++
		}
		if reason := powerProblem(s[start:end]); reason != "" {
			return newParseError(ErrInvalidPower, side, s[start:end], reason)
		}
	}
	return nil
}

func powerProblem(text string) string {
	switch {
	case text == "":
		return PowerMissing
	case strings.Contains(text, "."):
		return PowerDecimal
	case strings.HasPrefix(text, "-"):
		return PowerNegative
	case !allDigits(text):
		return PowerNotNumber
	}
	n, err := strconv.Atoi(text)
	if err != nil || n > MaxPower {
		return PowerTooLarge
	}
	return ""
}

// checkDecimals validates every number fragment that contains a '.'.
func checkDecimals(s string, side Side) error {
	fragments := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune("+-*/^xX", r)
	})
	for _, f := range fragments {
		if strings.Contains(f, ".") && !validDecimal(f) {
			return newParseError(ErrInvalidDecimal, side, f, "")
		}
	}
	return nil
}

// validDecimal accepts "1.5", "1." and ".5" but not ".", "1.2.3" or "1a.2".
func validDecimal(f string) bool {
	digits := 0
	dots := 0
	for i := 0; i < len(f); i++ {
		switch {
		case f[i] == '.':
			dots++
		case isDigit(f[i]):
			digits++
		default:
			return false
		}
	}
	return dots == 1 && digits > 0
}

// ─── Tokenization ───────────────────────────────────────────────────────────

// parseSide tokenizes a validated, whitespace-free side into a polynomial.
func parseSide(s string, side Side) (*Polynomial, error) {
	s = strings.ToUpper(s)
	if !isSign(s[0]) {
		s = "+" + s
	}

	p := New()
	for i := 0; i < len(s); {
		start := i

		// A run of signs collapses by parity: "--" is "+", "+-" is "-".
		negative := false
		for i < len(s) && isSign(s[i]) {
			if s[i] == '-' {
				negative = !negative
			}
			i++
		}
		bodyStart := i
		for i < len(s) && !isSign(s[i]) {
			i++
		}

		term, err := classifyTerm(s[bodyStart:i], s[start:i], side)
		if err != nil {
			return nil, err
		}
		if negative {
			term.Coefficient = -term.Coefficient
		}
		p.AddTerm(term)
	}
	return p, nil
}

// classifyTerm turns the body of one signed term into a Term. The body has
// one of three shapes: a constant, "<coef>X^<n>" or "<coef>X", where the
// coefficient may sit on either side of X with an optional '*'.
func classifyTerm(body, raw string, side Side) (Term, error) {
	if body == "" {
		return Term{}, newParseError(ErrInvalidCoefficient, side, raw, "sign without a value")
	}

	xi := strings.IndexByte(body, 'X')
	if xi < 0 {
		c, err := parseCoefficient(body, raw, side)
		if err != nil {
			return Term{}, err
		}
		return Term{Power: 0, Coefficient: c}, nil
	}
	if strings.Count(body, "X") > 1 {
		return Term{}, newParseError(ErrInvalidCoefficient, side, raw, "more than one X in a term")
	}

	before, after := body[:xi], body[xi+1:]
	power := 1
	if strings.HasPrefix(after, "^") {
		digits := after[1:]
		n := 0
		for n < len(digits) && isDigit(digits[n]) {
			n++
		}
		if reason := powerProblem(digits[:n]); reason != "" {
			return Term{}, newParseError(ErrInvalidPower, side, digits, reason)
		}
		power, _ = strconv.Atoi(digits[:n])
		after = digits[n:]
	}

	before = strings.TrimSuffix(before, "*")
	after = strings.TrimPrefix(after, "*")
	if before != "" && after != "" {
		return Term{}, newParseError(ErrInvalidCoefficient, side, raw, "coefficient on both sides of X")
	}

	coefficient := 1.0
	if text := before + after; text != "" {
		c, err := parseCoefficient(text, raw, side)
		if err != nil {
			return Term{}, err
		}
		coefficient = c
	}
	return Term{Power: power, Coefficient: coefficient}, nil
}

func parseCoefficient(text, raw string, side Side) (float64, error) {
	for i := 0; i < len(text); i++ {
		if !isDigit(text[i]) && text[i] != '.' {
			return 0, newParseError(ErrInvalidCoefficient, side, raw, "not a number")
		}
	}
	c, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, newParseError(ErrInvalidCoefficient, side, raw, "out of range")
		}
		return 0, newParseError(ErrInvalidCoefficient, side, raw, "not a number")
	}
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return 0, newParseError(ErrInvalidCoefficient, side, raw, "out of range")
	}
	return c, nil
}

// ─── Character classes ──────────────────────────────────────────────────────

func isVocabulary(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case unicode.IsSpace(r):
		return true
	}
	return strings.ContainsRune(".+-*^=xX", r)
}

func isOperator(b byte) bool {
	return b == '+' || b == '-' || b == '*' || b == '/' || b == '^'
}

func isSign(b byte) bool {
	return b == '+' || b == '-'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return s != ""
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
