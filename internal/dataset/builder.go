package dataset

import (
	"fmt"
	"math"
)

// Builder accumulates parsed rows column by column. Only the numeric slice
// grows per cell; a column's text slice is allocated on its first text cell.
type Builder struct {
	names []string
	num   [][]float64
	text  [][]string
	rows  int
}

// NewBuilder creates a builder for the given header
func NewBuilder(names []string) (*Builder, error) {
	seen := make(map[string]struct{}, len(names))
	for i, n := range names {
		if n == "" {
			return nil, fmt.Errorf("column %d has an empty name", i+1)
		}
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("duplicate column %q", n)
		}
		seen[n] = struct{}{}
	}

	b := &Builder{
		names: append([]string(nil), names...),
		num:   make([][]float64, len(names)),
		text:  make([][]string, len(names)),
	}
	return b, nil
}

// AppendRow parses one raw record and appends it
func (b *Builder) AppendRow(raw []string) error {
	if len(raw) != len(b.names) {
		return fmt.Errorf("row %d has %d fields, want %d", b.rows+1, len(raw), len(b.names))
	}
	for j, s := range raw {
		v := Parse(s)
		switch v.Kind {
		case KindNumber:
			b.num[j] = append(b.num[j], v.Num)
			if b.text[j] != nil {
				b.text[j] = append(b.text[j], "")
			}
		case KindText:
			if b.text[j] == nil {
				b.text[j] = make([]string, b.rows, b.rows+1)
			}
			b.num[j] = append(b.num[j], math.NaN())
			b.text[j] = append(b.text[j], v.Text)
		default:
			b.num[j] = append(b.num[j], math.NaN())
			if b.text[j] != nil {
				b.text[j] = append(b.text[j], "")
			}
		}
	}
	b.rows++
	return nil
}

// Rows returns the number of rows appended so far
func (b *Builder) Rows() int {
	return b.rows
}

// Build returns the dataset. The builder must not be used afterwards.
func (b *Builder) Build() *Dataset {
	d := New(b.rows)
	for j, name := range b.names {
		num := b.num[j]
		if num == nil {
			num = []float64{}
		}
		// names were checked in NewBuilder and every column has b.rows cells
		_ = d.Append(&Column{name: name, num: num, text: b.text[j]})
	}
	b.num, b.text = nil, nil
	return d
}
