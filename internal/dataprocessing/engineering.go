package dataprocessing

import (
	"fmt"

	"surveyprep/internal/dataset"
	apperrors "surveyprep/internal/errors"
)

// Legacy source attributes and the columns derived from them
const (
	ColSettlementSide   = "OST_WEST_KZ"
	ColYouthEra         = "PRAEGENDE_JUGENDJAHRE"
	ColNeighborhood     = "WOHNLAGE"
	ColBuildingType     = "PLZ8_BAUMAX"
	ColMovement         = "MOVEMENT"
	ColGeneration       = "GENERATION_DECADE"
	ColRural            = "RURAL_NEIGBORHOOD"
	ColBuildingFamily   = "PLZ8_BAUMAX_FAMILY"
	ColBuildingBusiness = "PLZ8_BAUMAX_BUSINESS"
)

// DerivedColumn names one output of a recoding
type DerivedColumn struct {
	Name   string
	Recode Recoder
}

// Recoding turns one legacy column into derived columns. When the only output
// carries the source name the column is recoded in place; otherwise the source
// is retired once its outputs are appended.
type Recoding struct {
	Source  string
	Outputs []DerivedColumn
}

// inPlace reports whether the recoding rewrites its source column
func (r Recoding) inPlace() bool {
	return len(r.Outputs) == 1 && r.Outputs[0].Name == r.Source
}

// LegacyRecodings are the recodings applied to the survey extracts
var LegacyRecodings = []Recoding{
	{
		Source:  ColSettlementSide,
		Outputs: []DerivedColumn{{Name: ColSettlementSide, Recode: RecodeSettlementSide}},
	},
	{
		Source: ColYouthEra,
		Outputs: []DerivedColumn{
			{Name: ColMovement, Recode: RecodeMovement},
			{Name: ColGeneration, Recode: RecodeGenerationDecade},
		},
	},
	{
		Source:  ColNeighborhood,
		Outputs: []DerivedColumn{{Name: ColRural, Recode: RecodeRuralNeighborhood}},
	},
	{
		Source: ColBuildingType,
		Outputs: []DerivedColumn{
			{Name: ColBuildingFamily, Recode: RecodeBuildingFamily},
			{Name: ColBuildingBusiness, Recode: RecodeBuildingBusiness},
		},
	},
}

// EngineeredCategorical are derived columns that join the categorical class
var EngineeredCategorical = []string{ColMovement, ColGeneration, ColBuildingFamily}

// EngineeredBinary are derived columns that join the binary class
var EngineeredBinary = []string{ColBuildingBusiness, ColRural}

// EngineeringResult lists what feature engineering changed
type EngineeringResult struct {
	Added   []string
	Recoded []string
	Retired []string
}

// EngineerFeatures applies the recodings. Every source must be present; a
// missing one fails the run before any column is touched.
func EngineerFeatures(data *dataset.Dataset, recodings []Recoding) (EngineeringResult, error) {
	var result EngineeringResult

	for _, r := range recodings {
		if !data.Has(r.Source) {
			return result, apperrors.NewReferenceLookupError(r.Source, "legacy attribute required for feature engineering is not present")
		}
		for _, out := range r.Outputs {
			if out.Name != r.Source && data.Has(out.Name) {
				return result, apperrors.NewInvalidInputError(fmt.Sprintf("derived column %s already exists", out.Name)).
					WithContext("source", r.Source)
			}
		}
	}

	var retire []string
	for _, r := range recodings {
		src, _ := data.Column(r.Source)

		if r.inPlace() {
			if err := data.Replace(src.Recode(r.Source, r.Outputs[0].Recode)); err != nil {
				return result, fmt.Errorf("recode %s: %w", r.Source, err)
			}
			result.Recoded = append(result.Recoded, r.Source)
			continue
		}

		for _, out := range r.Outputs {
			if err := data.Append(src.Recode(out.Name, out.Recode)); err != nil {
				return result, fmt.Errorf("derive %s from %s: %w", out.Name, r.Source, err)
			}
			result.Added = append(result.Added, out.Name)
		}
		retire = append(retire, r.Source)
	}

	result.Retired = data.Drop(retire...)
	return result, nil
}
