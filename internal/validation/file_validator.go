// Package validation checks the files a command is pointed at before any
// work starts, so a typo fails fast with a clear message.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "surveyprep/internal/errors"
)

// StdoutPath is the output path meaning "write to stdout"
const StdoutPath = "-"

// FileValidator checks input and output paths
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateFile checks that path is an existing, readable, non-empty file
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return apperrors.NewStorageError(fmt.Sprintf("file %s does not exist", path), err)
	}
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to stat file %s", path), err)
	}
	if info.IsDir() {
		return apperrors.NewInvalidInputError(fmt.Sprintf("%s is a directory, not a file", path))
	}
	if info.Size() == 0 {
		return apperrors.NewInvalidInputError(fmt.Sprintf("file %s is empty", path))
	}

	file, err := os.Open(path)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("file %s is not readable", path), err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateDelimitedFile checks a raw extract or reference table. Survey
// extracts ship as .csv or .txt.
func (v *FileValidator) ValidateDelimitedFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		return nil
	default:
		return apperrors.NewInvalidInputError(
			fmt.Sprintf("file %s is not a delimited text file (extension: %s)", path, ext))
	}
}

// ValidateExcelFile checks the attribute workbook
func (v *FileValidator) ValidateExcelFile(path string) error {
	if strings.HasPrefix(filepath.Base(path), "~$") {
		return apperrors.NewInvalidInputError(fmt.Sprintf("file %s is a temporary Excel lock file", path))
	}
	if err := v.ValidateFile(path); err != nil {
		return err
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".xlsx" {
		return apperrors.NewInvalidInputError(
			fmt.Sprintf("file %s is not an .xlsx workbook (extension: %s)", path, ext))
	}
	return nil
}

// ValidateOutputPath ensures the directory of an output file exists and is
// writable. The stdout marker is always valid.
func (v *FileValidator) ValidateOutputPath(path string) error {
	if path == StdoutPath {
		return nil
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return apperrors.NewInvalidInputError(fmt.Sprintf("output %s is a directory", path))
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	probe, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output path validated", slog.String("path", path))
	return nil
}

// ValidateAll runs every check and reports the first failure
func ValidateAll(checks ...func() error) error {
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}
