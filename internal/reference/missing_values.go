package reference

import (
	"io"
	"sort"
	"strings"

	"surveyprep/internal/dataset"
	apperrors "surveyprep/internal/errors"
	"surveyprep/pkg/contracts/domain"
)

// MissingValueHeader is the column layout of the missing-value reference table
var MissingValueHeader = []string{"Attribute", "Description", "Meaning", "Missing Value"}

// MissingValueRow is one row of the missing-value reference table
type MissingValueRow struct {
	Attribute    string `validate:"required"`
	Description  string
	Meaning      string
	MissingValue string
}

// Record renders the row in MissingValueHeader order
func (r MissingValueRow) Record() []string {
	return []string{r.Attribute, r.Description, r.Meaning, r.MissingValue}
}

// MissingValues maps attribute names to the sentinel tokens that mean "missing".
// It is read-only once built and safe to share between runs.
type MissingValues struct {
	rows       []MissingValueRow
	tokens     map[string][]string
	order      []string
	collisions []domain.ReferenceCollision
}

// NewMissingValues builds the lookup from table rows. Every sentinel field is
// parsed up front; a malformed one fails the whole table.
func NewMissingValues(rows []MissingValueRow) (*MissingValues, error) {
	m := &MissingValues{
		rows:   make([]MissingValueRow, 0, len(rows)),
		tokens: make(map[string][]string, len(rows)),
	}

	ignored := make(map[string][]string)
	counts := make(map[string]int)
	for i, row := range rows {
		row.Attribute = strings.TrimSpace(row.Attribute)
		if err := validate.Struct(row); err != nil {
			return nil, apperrors.NewValidationError("invalid missing-value row", err).WithContext("row", i+1)
		}

		tokens, err := ParseSentinels(row.Attribute, row.MissingValue)
		if err != nil {
			return nil, err
		}

		m.rows = append(m.rows, row)
		counts[row.Attribute]++
		if _, seen := m.tokens[row.Attribute]; seen {
			ignored[row.Attribute] = append(ignored[row.Attribute], tokens...)
			continue
		}
		m.tokens[row.Attribute] = tokens
		m.order = append(m.order, row.Attribute)
	}

	for _, attr := range m.order {
		if counts[attr] < 2 {
			continue
		}
		m.collisions = append(m.collisions, domain.ReferenceCollision{
			Attribute: attr,
			Rows:      counts[attr],
			Used:      m.tokens[attr],
			Ignored:   ignored[attr],
		})
	}
	return m, nil
}

// LoadMissingValues reads the missing-value reference table from CSV
func LoadMissingValues(r io.Reader) (*MissingValues, error) {
	header, records, err := readTable(r)
	if err != nil {
		return nil, err
	}

	attrIdx := columnIndex(header, "Attribute")
	valueIdx := columnIndex(header, "Missing Value", "MissingValue")
	if attrIdx < 0 || valueIdx < 0 {
		return nil, apperrors.NewParsingError("missing-value table needs Attribute and Missing Value columns", nil).
			WithContext("header", header)
	}
	descIdx := columnIndex(header, "Description")
	meaningIdx := columnIndex(header, "Meaning")

	rows := make([]MissingValueRow, 0, len(records))
	for _, rec := range records {
		attr := cell(rec, attrIdx)
		if attr == "" {
			continue
		}
		rows = append(rows, MissingValueRow{
			Attribute:    attr,
			Description:  nullCell(cell(rec, descIdx)),
			Meaning:      nullCell(cell(rec, meaningIdx)),
			MissingValue: nullCell(cell(rec, valueIdx)),
		})
	}
	return NewMissingValues(rows)
}

// LoadMissingValuesFile reads the missing-value reference table from a file
func LoadMissingValuesFile(path string) (*MissingValues, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadMissingValues(f)
}

// ParseSentinels splits a comma separated missing-value field into canonical
// tokens. All whitespace is ignored. A blank field yields no tokens; an empty
// token between commas is malformed.
func ParseSentinels(attribute, field string) ([]string, error) {
	compact := strings.Join(strings.Fields(field), "")
	if compact == "" {
		return nil, nil
	}

	parts := strings.Split(compact, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			return nil, apperrors.NewSentinelSpecError(attribute, field)
		}
		tokens = append(tokens, dataset.CanonicalToken(p))
	}
	return tokens, nil
}

// Has reports whether the attribute is documented
func (m *MissingValues) Has(attribute string) bool {
	_, ok := m.tokens[attribute]
	return ok
}

// Resolve returns the sentinel tokens of the attribute's first row
func (m *MissingValues) Resolve(attribute string) ([]string, bool) {
	tokens, ok := m.tokens[attribute]
	if !ok {
		return nil, false
	}
	out := make([]string, len(tokens))
	copy(out, tokens)
	return out, true
}

// SentinelSet returns the resolved tokens as a set for cell lookups
func (m *MissingValues) SentinelSet(attribute string) (map[string]struct{}, bool) {
	tokens, ok := m.tokens[attribute]
	if !ok {
		return nil, false
	}
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set, true
}

// Attributes returns the documented attributes in first-appearance order
func (m *MissingValues) Attributes() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Collisions returns the attributes documented by more than one row
func (m *MissingValues) Collisions() []domain.ReferenceCollision {
	out := make([]domain.ReferenceCollision, len(m.collisions))
	copy(out, m.collisions)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Attribute < out[j].Attribute })
	return out
}

// Rows returns the table rows as loaded
func (m *MissingValues) Rows() []MissingValueRow {
	out := make([]MissingValueRow, len(m.rows))
	copy(out, m.rows)
	return out
}

// Len returns the number of documented attributes
func (m *MissingValues) Len() int {
	return len(m.order)
}
