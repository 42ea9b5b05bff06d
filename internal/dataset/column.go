package dataset

import (
	"math"
)

// Column is a named, fixed-length sequence of cells. Numbers live in a float64
// slice with NaN for non-numeric cells; the text slice is only allocated once a
// text cell is stored, so fully numeric columns cost one float64 per row.
type Column struct {
	name string
	num  []float64
	text []string
}

// NewColumn creates a column of n missing cells
func NewColumn(name string, n int) *Column {
	num := make([]float64, n)
	for i := range num {
		num[i] = math.NaN()
	}
	return &Column{name: name, num: num}
}

// NewNumericColumn creates a column from numbers; NaN entries are missing
func NewNumericColumn(name string, values []float64) *Column {
	num := make([]float64, len(values))
	copy(num, values)
	return &Column{name: name, num: num}
}

// NewColumnFromValues creates a column holding the given cells
func NewColumnFromValues(name string, values []Value) *Column {
	c := NewColumn(name, len(values))
	for i, v := range values {
		c.Set(i, v)
	}
	return c
}

// ParseColumn creates a column by parsing raw cells
func ParseColumn(name string, raw []string) *Column {
	c := NewColumn(name, len(raw))
	for i, s := range raw {
		c.Set(i, Parse(s))
	}
	return c
}

// Name returns the column name
func (c *Column) Name() string {
	return c.name
}

// Len returns the number of cells
func (c *Column) Len() int {
	return len(c.num)
}

// Value returns cell i
func (c *Column) Value(i int) Value {
	if c.text != nil && c.text[i] != "" {
		return Value{Kind: KindText, Text: c.text[i]}
	}
	if math.IsNaN(c.num[i]) {
		return Missing()
	}
	return Value{Kind: KindNumber, Num: c.num[i]}
}

// Set stores v in cell i
func (c *Column) Set(i int, v Value) {
	switch v.Kind {
	case KindNumber:
		c.num[i] = v.Num
		if c.text != nil {
			c.text[i] = ""
		}
	case KindText:
		if c.text == nil {
			c.text = make([]string, len(c.num))
		}
		c.num[i] = math.NaN()
		c.text[i] = v.Text
	default:
		c.num[i] = math.NaN()
		if c.text != nil {
			c.text[i] = ""
		}
	}
}

// IsMissing reports whether cell i holds the missing marker
func (c *Column) IsMissing(i int) bool {
	return math.IsNaN(c.num[i]) && (c.text == nil || c.text[i] == "")
}

// MissingCount returns the number of missing cells
func (c *Column) MissingCount() int {
	n := 0
	for i := range c.num {
		if c.IsMissing(i) {
			n++
		}
	}
	return n
}

// MissingRatio returns the fraction of missing cells; an empty column has ratio 0
func (c *Column) MissingRatio() float64 {
	if len(c.num) == 0 {
		return 0
	}
	return float64(c.MissingCount()) / float64(len(c.num))
}

// HasText reports whether any cell holds text
func (c *Column) HasText() bool {
	if c.text == nil {
		return false
	}
	for _, s := range c.text {
		if s != "" {
			return true
		}
	}
	return false
}

// Observed returns the numbers of all numeric cells in row order
func (c *Column) Observed() []float64 {
	out := make([]float64, 0, len(c.num))
	for _, f := range c.num {
		if !math.IsNaN(f) {
			out = append(out, f)
		}
	}
	return out
}

// Recode builds a new column named name by applying fn to every cell
func (c *Column) Recode(name string, fn func(Value) Value) *Column {
	out := NewColumn(name, len(c.num))
	for i := range c.num {
		out.Set(i, fn(c.Value(i)))
	}
	return out
}

// Values returns a copy of all cells
func (c *Column) Values() []Value {
	out := make([]Value, len(c.num))
	for i := range c.num {
		out[i] = c.Value(i)
	}
	return out
}

// Clone returns a deep copy of the column
func (c *Column) Clone() *Column {
	out := &Column{name: c.name, num: make([]float64, len(c.num))}
	copy(out.num, c.num)
	if c.text != nil {
		out.text = make([]string, len(c.text))
		copy(out.text, c.text)
	}
	return out
}
