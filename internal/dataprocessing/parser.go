package dataprocessing

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"surveyprep/internal/dataset"
	apperrors "surveyprep/internal/errors"
)

// ParseOptions configures how a raw survey extract is read
type ParseOptions struct {
	// Delimiter separates fields; the survey extracts use ';'
	Delimiter rune
}

// DefaultParseOptions returns the options for the semicolon separated extracts
func DefaultParseOptions() ParseOptions {
	return ParseOptions{Delimiter: ';'}
}

// ParseDataset reads a delimited survey extract into a dataset. The first
// record is the header. Blank cells and null spellings become the missing
// marker, numbers are parsed, anything else is kept as text.
func ParseDataset(r io.Reader, opts ParseOptions) (*dataset.Dataset, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = DefaultParseOptions().Delimiter
	}

	reader := csv.NewReader(bufio.NewReaderSize(r, 1<<20))
	reader.Comma = opts.Delimiter
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewParsingError("dataset is empty", nil)
	}
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read dataset header", err)
	}

	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
	}
	if len(names) > 0 {
		names[0] = strings.TrimPrefix(names[0], "\ufeff")
	}

	builder, err := dataset.NewBuilder(names)
	if err != nil {
		return nil, apperrors.NewParsingError("invalid dataset header", err)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read dataset row", err).
				WithContext("row", builder.Rows()+1)
		}
		if err := builder.AppendRow(record); err != nil {
			return nil, apperrors.NewParsingError("malformed dataset row", err)
		}
	}

	data := builder.Build()
	slog.Debug("Parsed dataset",
		slog.Int("rows", data.NumRows()),
		slog.Int("columns", data.NumColumns()))
	return data, nil
}

// ParseDatasetFile reads a survey extract from disk
func ParseDatasetFile(path string, opts ParseOptions) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open dataset %s", path), err)
	}
	defer f.Close()

	data, err := ParseDataset(f, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return data, nil
}
