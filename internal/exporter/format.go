package exporter

import (
	"strconv"

	"surveyprep/internal/dataset"
)

// formatFloat renders f in its shortest round-tripping form
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatValue renders a cell; missing cells are empty
func formatValue(v dataset.Value) string {
	switch {
	case v.IsMissing():
		return ""
	case v.IsNumber():
		return formatFloat(v.Num)
	default:
		return v.Text
	}
}
