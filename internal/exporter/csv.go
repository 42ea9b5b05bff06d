package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"surveyprep/internal/dataset"
	apperrors "surveyprep/internal/errors"
	"surveyprep/internal/reference"
)

// utf8BOM helps spreadsheet tools recognize UTF-8
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Delimiter rune
	BOMPrefix bool
}

// CSVWriter writes cleaned datasets and reference tables
type CSVWriter struct {
	opts   WriteOptions
	logger *slog.Logger
}

// NewCSVWriter creates a writer; a zero delimiter means ','
func NewCSVWriter(opts WriteOptions, logger *slog.Logger) *CSVWriter {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{opts: opts, logger: logger}
}

// WriteDataset writes data with a header row. Missing cells are empty and
// numbers use their shortest form.
func (w *CSVWriter) WriteDataset(out io.Writer, data *dataset.Dataset) error {
	stream, err := w.newStream(out, data.Names())
	if err != nil {
		return err
	}

	cols := data.Columns()
	record := make([]string, len(cols))
	for i := 0; i < data.NumRows(); i++ {
		for j, c := range cols {
			record[j] = formatValue(c.Value(i))
		}
		if err := stream.WriteRecord(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	return stream.Flush()
}

// WriteDatasetFile writes data to path, creating parent directories
func (w *CSVWriter) WriteDatasetFile(path string, data *dataset.Dataset) error {
	w.logger.Info("Writing dataset",
		slog.String("file_path", path),
		slog.Int("rows", data.NumRows()),
		slog.Int("columns", data.NumColumns()))

	return w.writeFile(path, func(f io.Writer) error {
		return w.WriteDataset(f, data)
	})
}

// WriteMissingValues writes a missing-value reference table in the layout
// reference.LoadMissingValues reads back
func (w *CSVWriter) WriteMissingValues(out io.Writer, rows []reference.MissingValueRow) error {
	stream, err := w.newStream(out, reference.MissingValueHeader)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if err := stream.WriteRecord(row.Record()); err != nil {
			return fmt.Errorf("failed to write reference row %d: %w", i, err)
		}
	}
	return stream.Flush()
}

// WriteMissingValuesFile writes a missing-value reference table to path
func (w *CSVWriter) WriteMissingValuesFile(path string, rows []reference.MissingValueRow) error {
	w.logger.Info("Writing missing-value reference",
		slog.String("file_path", path),
		slog.Int("record_count", len(rows)))

	return w.writeFile(path, func(f io.Writer) error {
		return w.WriteMissingValues(f, rows)
	})
}

func (w *CSVWriter) writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.NewStorageError("failed to create directory", err).WithContext("path", dir)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("failed to create file", err).WithContext("path", path)
	}
	if err := write(file); err != nil {
		file.Close()
		return apperrors.NewStorageError("failed to write file", err).WithContext("path", path)
	}
	if err := file.Close(); err != nil {
		return apperrors.NewStorageError("failed to close file", err).WithContext("path", path)
	}
	return nil
}

// StreamWriter writes CSV records one at a time
type StreamWriter struct {
	writer *csv.Writer
}

func (w *CSVWriter) newStream(out io.Writer, headers []string) (*StreamWriter, error) {
	if w.opts.BOMPrefix {
		if _, err := out.Write(utf8BOM); err != nil {
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)
	writer.Comma = w.opts.Delimiter
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}
	return &StreamWriter{writer: writer}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Flush flushes buffered records and reports any write error
func (s *StreamWriter) Flush() error {
	s.writer.Flush()
	return s.writer.Error()
}
