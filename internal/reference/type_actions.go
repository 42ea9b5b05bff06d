package reference

import (
	"io"
	"strings"

	apperrors "surveyprep/internal/errors"
	"surveyprep/pkg/contracts/domain"
)

// TypeActionRow is one row of the attribute type-action table
type TypeActionRow struct {
	Attribute string               `validate:"required"`
	Type      domain.AttributeType `validate:"omitempty,oneof=binary numeric categorical"`
	Action    domain.Action        `validate:"omitempty,oneof=drop onehot"`
}

// TypeActions maps attribute names to their declared type and cleaning action.
// Row order is kept; it decides the order of expanded indicator columns.
type TypeActions struct {
	rows       []TypeActionRow
	index      map[string]int
	duplicates []string
}

// NewTypeActions builds the lookup from table rows. The first row of a
// duplicated attribute wins.
func NewTypeActions(rows []TypeActionRow) (*TypeActions, error) {
	t := &TypeActions{
		rows:  make([]TypeActionRow, 0, len(rows)),
		index: make(map[string]int, len(rows)),
	}
	for i, row := range rows {
		row.Attribute = strings.TrimSpace(row.Attribute)
		row.Type = domain.AttributeType(strings.ToLower(strings.TrimSpace(string(row.Type))))
		row.Action = domain.Action(strings.ToLower(strings.TrimSpace(string(row.Action))))

		if err := validate.Struct(row); err != nil {
			return nil, apperrors.NewValidationError("invalid type-action row", err).
				WithContext("row", i+1).
				WithContext("attribute", row.Attribute)
		}
		if _, exists := t.index[row.Attribute]; exists {
			t.duplicates = append(t.duplicates, row.Attribute)
			continue
		}
		t.index[row.Attribute] = len(t.rows)
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// LoadTypeActions reads the type-action table from CSV
func LoadTypeActions(r io.Reader) (*TypeActions, error) {
	header, records, err := readTable(r)
	if err != nil {
		return nil, err
	}

	attrIdx := columnIndex(header, "Attribute")
	typeIdx := columnIndex(header, "Type")
	actionIdx := columnIndex(header, "Action")
	if attrIdx < 0 || typeIdx < 0 || actionIdx < 0 {
		return nil, apperrors.NewParsingError("type-action table needs Attribute, Type and Action columns", nil).
			WithContext("header", header)
	}

	rows := make([]TypeActionRow, 0, len(records))
	for _, rec := range records {
		attr := cell(rec, attrIdx)
		if attr == "" {
			continue
		}
		rows = append(rows, TypeActionRow{
			Attribute: attr,
			Type:      domain.AttributeType(nullCell(cell(rec, typeIdx))),
			Action:    domain.Action(nullCell(cell(rec, actionIdx))),
		})
	}
	return NewTypeActions(rows)
}

// LoadTypeActionsFile reads the type-action table from a file
func LoadTypeActionsFile(path string) (*TypeActions, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadTypeActions(f)
}

// Lookup returns the row for an attribute
func (t *TypeActions) Lookup(attribute string) (TypeActionRow, bool) {
	i, ok := t.index[attribute]
	if !ok {
		return TypeActionRow{}, false
	}
	return t.rows[i], true
}

// Has reports whether the attribute is declared
func (t *TypeActions) Has(attribute string) bool {
	_, ok := t.index[attribute]
	return ok
}

// WithAction returns the attributes carrying the action, in table order
func (t *TypeActions) WithAction(action domain.Action) []string {
	var out []string
	for _, row := range t.rows {
		if row.Action == action {
			out = append(out, row.Attribute)
		}
	}
	return out
}

// WithType returns the attributes declared with the type, in table order
func (t *TypeActions) WithType(attrType domain.AttributeType) []string {
	var out []string
	for _, row := range t.rows {
		if row.Type == attrType {
			out = append(out, row.Attribute)
		}
	}
	return out
}

// Rows returns the table rows in order
func (t *TypeActions) Rows() []TypeActionRow {
	out := make([]TypeActionRow, len(t.rows))
	copy(out, t.rows)
	return out
}

// Duplicates returns attributes that appeared more than once
func (t *TypeActions) Duplicates() []string {
	out := make([]string, len(t.duplicates))
	copy(out, t.duplicates)
	return out
}

// Len returns the number of declared attributes
func (t *TypeActions) Len() int {
	return len(t.rows)
}
