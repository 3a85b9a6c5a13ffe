package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericPattern accepts what the site's text inputs accept: digits with an
// optional single decimal point. Signs, exponents and separators are rejected.
var numericPattern = regexp.MustCompile(`^\d*\.?\d*$`)

// ErrNotNumeric is returned for text that is not a plain non-negative decimal.
var ErrNotNumeric = errors.New("value must contain only digits and an optional decimal point")

// IsNumeric reports whether the text passes the numeric input gate. The empty
// string passes, as an empty field is allowed while typing.
func IsNumeric(text string) bool {
	return numericPattern.MatchString(text)
}

// ParseAmount parses gated numeric text into a float. Empty text and a lone
// decimal point parse as zero.
func ParseAmount(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if !IsNumeric(text) {
		return 0, fmt.Errorf("invalid amount %q: %w", text, ErrNotNumeric)
	}
	if text == "" || text == "." {
		return 0, nil
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", text, err)
	}
	return value, nil
}

// ParseTerm parses gated numeric text into a whole number of periods. Any
// fractional part is truncated, as parseInt does on the site.
func ParseTerm(text string) (int, error) {
	value, err := ParseAmount(text)
	if err != nil {
		return 0, err
	}
	if value > math.MaxInt32 {
		return 0, fmt.Errorf("invalid term %q: value out of range", text)
	}
	return int(value), nil
}

// Numeric is a form field that may arrive as a JSON number or a JSON string.
// The raw text is kept so it can be passed through the numeric gate.
type Numeric string

// UnmarshalJSON accepts numbers, strings and null.
func (n *Numeric) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*n = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*n = Numeric(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err != nil {
		return fmt.Errorf("expected number or string, got %s", string(trimmed))
	}
	*n = Numeric(num.String())
	return nil
}

// Float parses the field as an amount.
func (n Numeric) Float() (float64, error) {
	return ParseAmount(string(n))
}

// Int parses the field as a term.
func (n Numeric) Int() (int, error) {
	return ParseTerm(string(n))
}
