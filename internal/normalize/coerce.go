package normalize

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrNotNumeric is returned when a value cannot be coerced to a number.
	ErrNotNumeric = errors.New("value is not numeric")

	// ErrNotBoolean is returned when a value cannot be coerced to a boolean.
	ErrNotBoolean = errors.New("value is not a boolean")
)

// Only plain integer and floating point literals are accepted, so forms that
// strconv would take (Inf, NaN, hex, underscores) stay strings.
var (
	intLiteral   = regexp.MustCompile(`^[+-]?\d+$`)
	floatLiteral = regexp.MustCompile(`^[+-]?\d+(\.\d+)?([eE][+-]?\d+)?$`)
)

// ToNumber coerces raw to a number.
// Values that are already numbers pass through unchanged; integer literal
// strings become int64, floating point literal strings become float64.
func ToNumber(raw any) (any, error) {
	switch v := raw.(type) {
	case json.Number, float64, int, int64:
		return raw, nil
	case string:
		if intLiteral.MatchString(v) {
			if i, err := strconv.ParseInt(v, 10, 64); err == nil {
				return i, nil
			}
			// Out of int64 range, keep the value as a float.
		}
		if floatLiteral.MatchString(v) {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f, nil
			}
		}
		return nil, ErrNotNumeric
	default:
		return nil, ErrNotNumeric
	}
}

// BoolLiteral matches the short boolean string forms, case-insensitively.
// yes/true/1 are true, no/false/0 are false.
func BoolLiteral(s string) (value, ok bool) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, true
	case "no", "false", "0":
		return false, true
	default:
		return false, false
	}
}

// ClassifyDescriptive classifies a free-text capability description as a boolean.
//
// The text is lower-cased and checked against negative markers; any match wins
// over otherwise positive wording. An empty string means the capability is
// absent. Total over strings, it never fails.
func ClassifyDescriptive(text string) bool {
	if text == "" {
		return false
	}

	lower := strings.ToLower(text)
	for _, marker := range []string{" no ", "not ", "none", "disabled", "unsupported"} {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}

// ToBool coerces raw to a boolean.
// Booleans pass through unchanged. Strings are matched against the short
// boolean forms first, then fall through to the descriptive heuristic, since
// capability strings are prose rather than literals. Any other type fails.
func ToBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		if b, ok := BoolLiteral(v); ok {
			return b, nil
		}
		return ClassifyDescriptive(v), nil
	default:
		return false, ErrNotBoolean
	}
}

// ToArray wraps raw into a single-element array unless it already is one.
// Null values are left alone so absent fields are never invented.
// changed reports whether the shape was altered.
func ToArray(raw any) (value any, changed bool) {
	switch raw.(type) {
	case []any:
		return raw, false
	case nil:
		return raw, false
	default:
		return []any{raw}, true
	}
}

// NumericString reports whether s is an integer or floating point literal.
func NumericString(s string) bool {
	return intLiteral.MatchString(s) || floatLiteral.MatchString(s)
}
