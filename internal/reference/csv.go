package reference

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "surveyprep/internal/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

const utf8BOM = "\ufeff"

// readTable reads a comma separated reference table and returns its header and rows
func readTable(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, apperrors.NewParsingError("reference table is empty", nil)
	}
	if err != nil {
		return nil, nil, apperrors.NewParsingError("failed to read reference header", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, apperrors.NewParsingError("failed to read reference rows", err)
	}
	return header, records, nil
}

// columnIndex finds the first header matching any of the given names.
// Matching ignores case, surrounding spaces, inner spaces and underscores.
func columnIndex(header []string, names ...string) int {
	for _, name := range names {
		want := normalizeHeader(name)
		for i, h := range header {
			if normalizeHeader(h) == want {
				return i
			}
		}
	}
	return -1
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "_", "")
}

// cell returns record[i] trimmed, or "" when the record is short or i is negative
func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// nullCell folds spellings of "no value" written by spreadsheet tools into ""
func nullCell(s string) string {
	switch strings.ToLower(s) {
	case "nan", "none", "null", "n/a":
		return ""
	}
	return s
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	return f, nil
}
