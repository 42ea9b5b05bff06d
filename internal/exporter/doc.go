// Package exporter writes the outputs of a transform run.
//
// CSVWriter writes cleaned datasets with a configurable delimiter, missing
// cells left empty and numbers in shortest form. It also writes missing-value
// reference tables built from the attribute workbook, in the layout the
// reference package loads. Run reports are written as indented JSON.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(exporter.WriteOptions{Delimiter: ','}, logger)
//	if err := w.WriteDatasetFile("out/general.csv", data); err != nil {
//		return err
//	}
//	err := w.WriteReportFile("out/general.report.json", report)
package exporter
