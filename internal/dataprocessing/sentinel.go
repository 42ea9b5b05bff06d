package dataprocessing

import (
	"surveyprep/internal/dataset"
	"surveyprep/internal/reference"
)

// SentinelResult summarizes a sentinel substitution pass
type SentinelResult struct {
	// Undocumented lists columns dropped because the reference has no row for them
	Undocumented []string
	// Substituted counts cells replaced by the missing marker, per column
	Substituted map[string]int
}

// SubstituteSentinels drops every column the missing-value reference does not
// document and replaces sentinel-coded cells of the others with the missing
// marker. Cells are compared in canonical form, so 3.0 matches the token "3".
func SubstituteSentinels(data *dataset.Dataset, refs *reference.MissingValues) SentinelResult {
	result := SentinelResult{Substituted: make(map[string]int)}

	for _, col := range data.Columns() {
		if !refs.Has(col.Name()) {
			result.Undocumented = append(result.Undocumented, col.Name())
		}
	}
	data.Drop(result.Undocumented...)

	for _, col := range data.Columns() {
		sentinels, _ := refs.SentinelSet(col.Name())
		if len(sentinels) == 0 {
			continue
		}
		n := 0
		for i := 0; i < col.Len(); i++ {
			canonical, ok := col.Value(i).Canonical()
			if !ok {
				continue
			}
			if _, hit := sentinels[canonical]; hit {
				col.Set(i, dataset.Missing())
				n++
			}
		}
		if n > 0 {
			result.Substituted[col.Name()] = n
		}
	}
	return result
}
