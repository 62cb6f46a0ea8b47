package polynomial

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per rejection rule. A *ParseError always unwraps to
// exactly one of these, so callers match with errors.Is.
var (
	ErrEmptyEquation        = errors.New("polynomial: empty equation")
	ErrInvalidCharacter     = errors.New("polynomial: invalid character")
	ErrMissingEquals        = errors.New("polynomial: missing equals sign")
	ErrTooManyEquals        = errors.New("polynomial: too many equals signs")
	ErrInvalidVariable      = errors.New("polynomial: invalid variable")
	ErrEmptySide            = errors.New("polynomial: empty side")
	ErrConsecutiveOperators = errors.New("polynomial: consecutive operators")
	ErrLeadingOperator      = errors.New("polynomial: leading operator")
	ErrTrailingOperator     = errors.New("polynomial: trailing operator")
	ErrInvalidPower         = errors.New("polynomial: invalid power")
	ErrInvalidDecimal       = errors.New("polynomial: invalid decimal")
	ErrInvalidCoefficient   = errors.New("polynomial: invalid coefficient")
)

// Side identifies which half of the equation an error refers to.
type Side string

const (
	SideNone  Side = ""
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Reasons attached to ErrInvalidPower.
const (
	PowerMissing   = "missing"
	PowerDecimal   = "decimal"
	PowerNegative  = "negative"
	PowerNotNumber = "not a number"
	PowerTooLarge  = "too large"
)

// ParseError describes why an equation was rejected. Text holds the
// offending character or substring, Reason an optional detail.
type ParseError struct {
	Kind   error
	Side   Side
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return e.Message()
}

// Unwrap returns the sentinel for errors.Is.
func (e *ParseError) Unwrap() error {
	return e.Kind
}

// Message is the human-readable diagnostic.
func (e *ParseError) Message() string {
	on := ""
	if e.Side != SideNone {
		on = fmt.Sprintf(" on %s side", e.Side)
	}

	switch e.Kind {
	case ErrEmptyEquation:
		return "No equation provided"
	case ErrInvalidCharacter:
		return fmt.Sprintf("Invalid character '%s' found", e.Text)
	case ErrMissingEquals:
		return "Missing equals sign (=)"
	case ErrTooManyEquals:
		return "Too many equals signs - equation must have exactly one '='"
	case ErrInvalidVariable:
		return fmt.Sprintf("Invalid variable '%s': only X is supported", e.Text)
	case ErrEmptySide:
		return fmt.Sprintf("The %s side of the equation is empty", e.Side)
	case ErrConsecutiveOperators:
		return fmt.Sprintf("Consecutive operators '%s' found%s", e.Text, on)
	case ErrLeadingOperator:
		return fmt.Sprintf("Equation %s side starts with invalid operator '%s'", e.Side, e.Text)
	case ErrTrailingOperator:
		return fmt.Sprintf("Equation %s side ends with incomplete operator '%s'", e.Side, e.Text)
	case ErrInvalidPower:
		return fmt.Sprintf("Invalid power X^%s (%s)%s", e.Text, e.Reason, on)
	case ErrInvalidDecimal:
		return fmt.Sprintf("Invalid decimal format '%s'%s", e.Text, on)
	case ErrInvalidCoefficient:
		if e.Reason != "" {
			return fmt.Sprintf("Invalid term '%s': %s%s", e.Text, e.Reason, on)
		}
		return fmt.Sprintf("Invalid term '%s'%s", e.Text, on)
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return "polynomial: parse error"
}

func newParseError(kind error, side Side, text, reason string) *ParseError {
	return &ParseError{Kind: kind, Side: side, Text: text, Reason: reason}
}
