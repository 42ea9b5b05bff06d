package dataset

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags the content of a Value
type Kind uint8

const (
	// KindMissing is the missing marker
	KindMissing Kind = iota
	KindNumber
	KindText
)

// String implements fmt.Stringer
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "missing"
	}
}

// Value is a single cell: a number, a text token or the missing marker
type Value struct {
	Kind Kind
	Num  float64
	Text string
}

// nullTokens are raw spellings read as missing rather than as text
var nullTokens = map[string]struct{}{
	"NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"NULL": {}, "null": {}, "None": {}, "<NA>": {}, "#N/A": {}, "#NA": {},
}

// Missing returns the missing marker
func Missing() Value {
	return Value{Kind: KindMissing}
}

// Number returns a numeric value. NaN is folded into the missing marker.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Missing()
	}
	return Value{Kind: KindNumber, Num: f}
}

// Int returns an integral numeric value
func Int(i int64) Value {
	return Value{Kind: KindNumber, Num: float64(i)}
}

// Text returns a textual value. The empty string is the missing marker.
func Text(s string) Value {
	if s == "" {
		return Missing()
	}
	return Value{Kind: KindText, Text: s}
}

// Parse interprets a raw cell. Blank cells and null spellings are missing,
// finite numbers are numeric and everything else is text.
func Parse(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Missing()
	}
	if _, ok := nullTokens[s]; ok {
		return Missing()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return Value{Kind: KindNumber, Num: f}
	}
	return Value{Kind: KindText, Text: s}
}

// IsMissing reports whether v is the missing marker
func (v Value) IsMissing() bool {
	return v.Kind == KindMissing
}

// IsNumber reports whether v holds a number
func (v Value) IsNumber() bool {
	return v.Kind == KindNumber
}

// Integer returns the integer held by v when v is an integral number
func (v Value) Integer() (int64, bool) {
	if v.Kind != KindNumber || v.Num != math.Trunc(v.Num) || math.Abs(v.Num) >= 1<<53 {
		return 0, false
	}
	return int64(v.Num), true
}

// Canonical returns the comparison form of v: integral numbers render without a
// fractional part (3.0 -> "3"), other numbers in shortest form, text unchanged.
// The missing marker has no canonical form.
func (v Value) Canonical() (string, bool) {
	switch v.Kind {
	case KindNumber:
		if i, ok := v.Integer(); ok {
			return strconv.FormatInt(i, 10), true
		}
		return strconv.FormatFloat(v.Num, 'f', -1, 64), true
	case KindText:
		return v.Text, true
	default:
		return "", false
	}
}

// CanonicalToken canonicalizes a raw token the same way cells are canonicalized,
// so "-1.0" and "-1" compare equal.
func CanonicalToken(raw string) string {
	v := Parse(raw)
	if s, ok := v.Canonical(); ok {
		return s
	}
	return strings.TrimSpace(raw)
}

// String renders v for output; the missing marker renders empty
func (v Value) String() string {
	s, _ := v.Canonical()
	return s
}

// Equal compares two values by kind and content
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNumber:
		return v.Num == o.Num
	case KindText:
		return v.Text == o.Text
	}
	return true
}

// Less orders values: numbers ascending, then text ascending, missing last
func (v Value) Less(o Value) bool {
	if v.Kind != o.Kind {
		return rank(v.Kind) < rank(o.Kind)
	}
	switch v.Kind {
	case KindNumber:
		return v.Num < o.Num
	case KindText:
		return v.Text < o.Text
	}
	return false
}

func rank(k Kind) int {
	switch k {
	case KindNumber:
		return 0
	case KindText:
		return 1
	}
	return 2
}
