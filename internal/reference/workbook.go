package reference

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "surveyprep/internal/errors"
)

// DefaultWorkbookSheet is the sheet holding the attribute value catalogue
const DefaultWorkbookSheet = "Tabelle1"

// WorkbookOptions controls how the missing-value table is derived from the
// attribute values workbook
type WorkbookOptions struct {
	Sheet string
	// UnknownMeanings lists the Meaning texts whose Value codes mean "missing"
	UnknownMeanings []string
	// Extra rows override the workbook's unknown codes for their attribute
	Extra []MissingValueRow
}

// DefaultWorkbookOptions returns the options matching the DIAS attribute workbook
func DefaultWorkbookOptions() WorkbookOptions {
	return WorkbookOptions{
		Sheet:           DefaultWorkbookSheet,
		UnknownMeanings: []string{"unknown", "unknown / no main age detectable"},
		Extra: []MissingValueRow{
			{Attribute: "RELAT_AB", MissingValue: "-1,9"},
			{Attribute: "KBA05_AUTOQUOT", MissingValue: "-1,9"},
		},
	}
}

// BuildMissingValuesFromWorkbook reads the attribute values workbook and
// derives the missing-value reference rows from it
func BuildMissingValuesFromWorkbook(path string, opts WorkbookOptions) ([]MissingValueRow, error) {
	if opts.Sheet == "" {
		opts.Sheet = DefaultWorkbookSheet
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	rows, err := f.GetRows(opts.Sheet)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", opts.Sheet), err).
			WithContext("sheets", f.GetSheetList())
	}
	return BuildMissingValueRows(rows, opts)
}

// BuildMissingValueRows derives missing-value rows from sheet rows. The sheet
// lists one attribute per block: the first row names the attribute, following
// rows leave the Attribute cell blank and continue the value list. Only rows
// that name their attribute count as unknown-code rows; an "unknown" meaning
// further down a block is ignored. Extra rows replace whatever the workbook
// gives for their attribute.
//
// The result holds one row per (attribute, unknown code group), sorted by
// attribute. Attributes without unknown codes keep one row with an empty
// Missing Value.
func BuildMissingValueRows(rows [][]string, opts WorkbookOptions) ([]MissingValueRow, error) {
	headerAt, idx, err := locateHeader(rows)
	if err != nil {
		return nil, err
	}

	unknown := make(map[string]struct{}, len(opts.UnknownMeanings))
	for _, m := range opts.UnknownMeanings {
		unknown[strings.ToLower(strings.TrimSpace(m))] = struct{}{}
	}

	type described struct{ description, meaning string }
	names := make(map[string]described)
	codes := make(map[string][]string)

	for _, row := range rows[headerAt+1:] {
		attr := cell(row, idx.attribute)
		if attr == "" {
			continue
		}
		if _, seen := names[attr]; !seen {
			names[attr] = described{
				description: cell(row, idx.description),
				meaning:     cell(row, idx.meaning),
			}
		}

		value := cell(row, idx.value)
		if value == "" {
			continue
		}
		if _, ok := unknown[strings.ToLower(cell(row, idx.meaning))]; ok {
			codes[attr] = append(codes[attr], compactCodes(value))
		}
	}

	overridden := make(map[string]bool, len(opts.Extra))
	for _, extra := range opts.Extra {
		if !overridden[extra.Attribute] {
			codes[extra.Attribute] = nil
			overridden[extra.Attribute] = true
		}
		codes[extra.Attribute] = append(codes[extra.Attribute], compactCodes(extra.MissingValue))
	}

	attrs := make([]string, 0, len(names)+len(codes))
	for attr := range names {
		attrs = append(attrs, attr)
	}
	for attr := range codes {
		if _, ok := names[attr]; !ok {
			attrs = append(attrs, attr)
		}
	}
	sort.Strings(attrs)

	out := make([]MissingValueRow, 0, len(attrs))
	for _, attr := range attrs {
		d := names[attr]
		list := codes[attr]
		if len(list) == 0 {
			out = append(out, MissingValueRow{Attribute: attr, Description: d.description, Meaning: d.meaning})
			continue
		}
		for _, c := range list {
			if _, err := ParseSentinels(attr, c); err != nil {
				return nil, err
			}
			out = append(out, MissingValueRow{
				Attribute:    attr,
				Description:  d.description,
				Meaning:      d.meaning,
				MissingValue: c,
			})
		}
	}
	return out, nil
}

type workbookColumns struct {
	attribute, description, value, meaning int
}

func locateHeader(rows [][]string) (int, workbookColumns, error) {
	for i, row := range rows {
		idx := workbookColumns{
			attribute:   columnIndex(row, "Attribute"),
			description: columnIndex(row, "Description"),
			value:       columnIndex(row, "Value"),
			meaning:     columnIndex(row, "Meaning"),
		}
		if idx.attribute >= 0 && idx.value >= 0 && idx.meaning >= 0 {
			return i, idx, nil
		}
	}
	return 0, workbookColumns{}, apperrors.NewParsingError("workbook sheet has no Attribute/Value/Meaning header", nil)
}

// compactCodes normalizes "-1, 9" to "-1,9"
func compactCodes(s string) string {
	return strings.Join(strings.Fields(s), "")
}
