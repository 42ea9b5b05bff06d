package exporter

import (
	"encoding/json"
	"io"
	"log/slog"

	"surveyprep/pkg/contracts/domain"
)

// WriteReport writes the run report as indented JSON
func WriteReport(out io.Writer, report *domain.TransformReport) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// WriteReportFile writes the run report to path
func (w *CSVWriter) WriteReportFile(path string, report *domain.TransformReport) error {
	w.logger.Info("Writing run report",
		slog.String("file_path", path),
		slog.String("run_id", report.RunID))

	return w.writeFile(path, func(f io.Writer) error {
		return WriteReport(f, report)
	})
}
