package dataprocessing

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"surveyprep/internal/dataset"
	apperrors "surveyprep/internal/errors"
)

// ScaleUnit maps xs linearly onto [0,1] using their own minimum and maximum.
// A constant input maps to all zeros.
func ScaleUnit(xs []float64) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	lo, hi := floats.Min(xs), floats.Max(xs)
	if hi == lo {
		return out
	}
	span := hi - lo
	for i, x := range xs {
		out[i] = (x - lo) / span
	}
	return out
}

// MinMaxScale rescales each listed column in place onto [0,1] and returns the
// columns it scaled. Absent columns are skipped; a column holding text or a
// missing cell is rejected.
func MinMaxScale(data *dataset.Dataset, columns []string) ([]string, error) {
	var scaled []string
	for _, name := range columns {
		col, ok := data.Column(name)
		if !ok {
			continue
		}
		if col.HasText() || col.MissingCount() > 0 {
			return scaled, apperrors.NewInvalidInputError(fmt.Sprintf("column %s is not fully numeric", name)).
				WithContext("attribute", name)
		}

		values := ScaleUnit(col.Observed())
		if err := data.Replace(dataset.NewNumericColumn(name, values)); err != nil {
			return scaled, fmt.Errorf("scale %s: %w", name, err)
		}
		scaled = append(scaled, name)
	}
	return scaled, nil
}
