// Package dataset holds the in-memory, column-oriented table that flows through
// the cleaning pipeline.
//
// A Dataset keeps both column order and row order. Columns are added and removed
// whole; a column is never partially present. Cells are tagged values (number,
// text or the missing marker), see Value.
package dataset

import (
	"fmt"
)

// Dataset is a table of rows x named columns
type Dataset struct {
	rows  int
	cols  []*Column
	index map[string]int
}

// New creates an empty dataset with the given row count
func New(rows int) *Dataset {
	return &Dataset{
		rows:  rows,
		cols:  make([]*Column, 0),
		index: make(map[string]int),
	}
}

// FromColumns builds a dataset from equally sized columns
func FromColumns(cols ...*Column) (*Dataset, error) {
	rows := 0
	if len(cols) > 0 {
		rows = cols[0].Len()
	}
	d := New(rows)
	for _, c := range cols {
		if err := d.Append(c); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// NumRows returns the row count
func (d *Dataset) NumRows() int {
	return d.rows
}

// NumColumns returns the column count
func (d *Dataset) NumColumns() int {
	return len(d.cols)
}

// Names returns the column names in order
func (d *Dataset) Names() []string {
	names := make([]string, len(d.cols))
	for i, c := range d.cols {
		names[i] = c.Name()
	}
	return names
}

// Columns returns the columns in order. The slice is a copy; the columns are not.
func (d *Dataset) Columns() []*Column {
	out := make([]*Column, len(d.cols))
	copy(out, d.cols)
	return out
}

// Column looks up a column by name
func (d *Dataset) Column(name string) (*Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.cols[i], true
}

// Has reports whether a column exists
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Append adds a column at the end
func (d *Dataset) Append(c *Column) error {
	if c == nil {
		return fmt.Errorf("cannot append nil column")
	}
	if _, exists := d.index[c.Name()]; exists {
		return fmt.Errorf("column %s already exists", c.Name())
	}
	if c.Len() != d.rows {
		return fmt.Errorf("column %s has %d rows, dataset has %d", c.Name(), c.Len(), d.rows)
	}
	d.index[c.Name()] = len(d.cols)
	d.cols = append(d.cols, c)
	return nil
}

// Replace swaps the column with the same name, keeping its position
func (d *Dataset) Replace(c *Column) error {
	i, ok := d.index[c.Name()]
	if !ok {
		return fmt.Errorf("column %s not found", c.Name())
	}
	if c.Len() != d.rows {
		return fmt.Errorf("column %s has %d rows, dataset has %d", c.Name(), c.Len(), d.rows)
	}
	d.cols[i] = c
	return nil
}

// Drop removes the named columns and returns the ones that were present
func (d *Dataset) Drop(names ...string) []string {
	if len(names) == 0 {
		return nil
	}
	remove := make(map[string]struct{}, len(names))
	for _, n := range names {
		remove[n] = struct{}{}
	}

	var dropped []string
	kept := d.cols[:0]
	for _, c := range d.cols {
		if _, ok := remove[c.Name()]; ok {
			dropped = append(dropped, c.Name())
			continue
		}
		kept = append(kept, c)
	}
	// clear the tail so dropped columns can be collected
	for i := len(kept); i < len(d.cols); i++ {
		d.cols[i] = nil
	}
	d.cols = kept
	d.reindex()
	return dropped
}

// Extract removes a column and returns it
func (d *Dataset) Extract(name string) (*Column, bool) {
	c, ok := d.Column(name)
	if !ok {
		return nil, false
	}
	d.Drop(name)
	return c, true
}

// Clone returns a deep copy
func (d *Dataset) Clone() *Dataset {
	out := New(d.rows)
	for _, c := range d.cols {
		out.index[c.Name()] = len(out.cols)
		out.cols = append(out.cols, c.Clone())
	}
	return out
}

// Row returns the cells of row i in column order
func (d *Dataset) Row(i int) []Value {
	row := make([]Value, len(d.cols))
	for j, c := range d.cols {
		row[j] = c.Value(i)
	}
	return row
}

// MissingCount returns the number of missing cells across all columns
func (d *Dataset) MissingCount() int {
	n := 0
	for _, c := range d.cols {
		n += c.MissingCount()
	}
	return n
}

func (d *Dataset) reindex() {
	d.index = make(map[string]int, len(d.cols))
	for i, c := range d.cols {
		d.index[c.Name()] = i
	}
}
