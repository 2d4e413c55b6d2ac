package domain

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Value is a raw JSON value taken verbatim from a Bruno export.
// Exports are loose about scalar types: the same field may arrive as a string,
// a number, a boolean or not at all. JSON null is stored as an absent value.
type Value []byte

// Text returns a Value holding the JSON string s.
func Text(s string) Value {
	b, _ := json.Marshal(s)
	return Value(b)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*v = nil
		return nil
	}

	*v = append((*v)[0:0], trimmed...)

	return nil
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if len(v) == 0 {
		return []byte("null"), nil
	}

	return v, nil
}

// Defined reports whether the value was present and not null.
func (v Value) Defined() bool {
	return len(v) > 0
}

// IsString reports whether the value is a JSON string.
func (v Value) IsString() bool {
	return len(v) > 0 && v[0] == '"'
}

// String renders the value the way a script runtime would coerce it to text.
// Absent values become the empty string and strings are unquoted. Numbers are
// formatted like JavaScript's String(n), so 1.0 is "1" and 1e3 is "1000".
// Booleans keep their literal form and objects or arrays stay compact JSON.
func (v Value) String() string {
	if len(v) == 0 {
		return ""
	}

	if v.IsString() {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return string(v)
		}

		return s
	}

	if v[0] == '{' || v[0] == '[' {
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return string(v)
		}

		return buf.String()
	}

	if v[0] == '-' || (v[0] >= '0' && v[0] <= '9') {
		if f, err := strconv.ParseFloat(string(v), 64); err == nil {
			return formatNumber(f)
		}
	}

	return string(v)
}

// formatNumber renders f the way JavaScript converts numbers to strings:
// plain decimals between 1e-6 and 1e21, exponent form outside that range.
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}

	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	// Go pads the exponent to two digits ("1e-07"), JavaScript does not.
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")

	return mantissa + "e" + sign + digits
}

// Truthy follows JavaScript truthiness: absent, false, 0 and "" are falsy,
// everything else (including empty objects and arrays) is truthy.
func (v Value) Truthy() bool {
	if len(v) == 0 {
		return false
	}

	switch v[0] {
	case '"':
		return v.String() != ""
	case 't':
		return true
	case 'f':
		return false
	case '{', '[':
		return true
	}

	f, err := strconv.ParseFloat(string(v), 64)
	if err != nil {
		return true
	}

	return f != 0
}

// Or returns the string form of v when it is truthy, otherwise def.
func (v Value) Or(def string) string {
	if v.Truthy() {
		return v.String()
	}

	return def
}
