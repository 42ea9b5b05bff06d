package dataprocessing

import (
	"surveyprep/internal/dataset"
	"surveyprep/internal/reference"
	"surveyprep/pkg/contracts/domain"
)

// DefaultSparsityThreshold is the largest missing ratio a column may keep
const DefaultSparsityThreshold = 0.30

// DropSparseColumns drops every column whose missing ratio is strictly greater
// than threshold and returns them with their ratios, in column order
func DropSparseColumns(data *dataset.Dataset, threshold float64) []domain.DroppedColumn {
	var dropped []domain.DroppedColumn
	for _, col := range data.Columns() {
		ratio := col.MissingRatio()
		if ratio > threshold {
			dropped = append(dropped, domain.DroppedColumn{
				Name:         col.Name(),
				Reason:       domain.DropReasonSparse,
				MissingRatio: ratio,
			})
		}
	}

	names := make([]string, len(dropped))
	for i, d := range dropped {
		names[i] = d.Name
	}
	data.Drop(names...)
	return dropped
}

// DropByAction drops every column whose type-action row says "drop" and
// returns the ones that were present
func DropByAction(data *dataset.Dataset, types *reference.TypeActions) []string {
	return data.Drop(types.WithAction(domain.ActionDrop)...)
}
