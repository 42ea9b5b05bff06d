package dataprocessing

import (
	"fmt"
	"sort"

	"surveyprep/internal/dataset"
	apperrors "surveyprep/internal/errors"
	"surveyprep/pkg/contracts/domain"
)

// ImputeResult reports what the imputer filled
type ImputeResult struct {
	// Filled counts filled cells per class
	Filled map[domain.AttributeClass]int
	// FillValues records the value used for every column that had gaps
	FillValues map[string]float64
}

// Impute fills the missing marker in every classified column: categorical
// columns get categoricalFill, binary columns their most frequent observed
// value, numeric columns their observed median. Statistics come from data
// alone.
func Impute(data *dataset.Dataset, sets AttributeSets, categoricalFill float64) (ImputeResult, error) {
	result := ImputeResult{
		Filled:     make(map[domain.AttributeClass]int),
		FillValues: make(map[string]float64),
	}

	for _, col := range data.Columns() {
		class, ok := sets.ClassOf(col.Name())
		if !ok {
			continue
		}
		missing := col.MissingCount()
		if missing == 0 {
			continue
		}

		var fill float64
		switch class {
		case domain.ClassCategorical:
			fill = categoricalFill
		case domain.ClassBinary, domain.ClassNumeric:
			if col.HasText() {
				return result, apperrors.NewInvalidInputError(fmt.Sprintf("%s column %s holds text values", class, col.Name())).
					WithContext("attribute", col.Name())
			}
			observed := col.Observed()
			if len(observed) == 0 {
				return result, apperrors.NewInvalidInputError(fmt.Sprintf("%s column %s has no observed values", class, col.Name())).
					WithContext("attribute", col.Name())
			}
			if class == domain.ClassBinary {
				fill = Mode(observed)
			} else {
				fill = Median(observed)
			}
		}

		for i := 0; i < col.Len(); i++ {
			if col.IsMissing(i) {
				col.Set(i, dataset.Number(fill))
			}
		}
		result.Filled[class] += missing
		result.FillValues[col.Name()] = fill
	}
	return result, nil
}

// Mode returns the most frequent value; ties go to the smallest value.
// xs must not be empty.
func Mode(xs []float64) float64 {
	counts := make(map[float64]int, 8)
	for _, x := range xs {
		counts[x]++
	}

	best, bestCount := 0.0, 0
	for x, n := range counts {
		if n > bestCount || (n == bestCount && x < best) {
			best, bestCount = x, n
		}
	}
	return best
}

// Median returns the middle value; for an even count the mean of the two
// middle values. xs must not be empty and is not modified.
func Median(xs []float64) float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
