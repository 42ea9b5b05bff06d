package dataprocessing

import (
	"fmt"
	"sort"

	"surveyprep/internal/dataset"
	apperrors "surveyprep/internal/errors"
)

// IndicatorName names the indicator column of one category
func IndicatorName(column string, category dataset.Value) string {
	return column + "_" + category.String()
}

// ExpandCategorical replaces each listed column with one 0/1 indicator column
// per distinct observed value. Indicators are ordered numbers ascending then
// text ascending and appended after the existing columns, in the order of
// columns. Categories not observed in data get no indicator. It returns the
// number of indicators per expanded column.
func ExpandCategorical(data *dataset.Dataset, columns []string) (map[string]int, error) {
	counts := make(map[string]int, len(columns))
	var (
		sources    []string
		indicators []*dataset.Column
	)

	for _, name := range columns {
		col, ok := data.Column(name)
		if !ok {
			continue
		}

		categories := distinctValues(col)
		for _, cat := range categories {
			ind := dataset.NewNumericColumn(IndicatorName(name, cat), make([]float64, col.Len()))
			for i := 0; i < col.Len(); i++ {
				if col.Value(i).Equal(cat) {
					ind.Set(i, dataset.Int(1))
				}
			}
			indicators = append(indicators, ind)
		}
		counts[name] = len(categories)
		sources = append(sources, name)
	}

	data.Drop(sources...)
	for _, ind := range indicators {
		if err := data.Append(ind); err != nil {
			return nil, apperrors.NewInvalidInputError(fmt.Sprintf("cannot add indicator column: %v", err)).
				WithContext("column", ind.Name())
		}
	}
	return counts, nil
}

// distinctValues returns the distinct non-missing values of a column, sorted
func distinctValues(col *dataset.Column) []dataset.Value {
	seen := make(map[string]struct{})
	var out []dataset.Value
	for i := 0; i < col.Len(); i++ {
		v := col.Value(i)
		key, ok := v.Canonical()
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
