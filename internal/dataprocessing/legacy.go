package dataprocessing

import (
	"math"

	"surveyprep/internal/dataset"
	apperrors "surveyprep/internal/errors"
)

// LegacyXAttribute is the attribute whose historical unknown code is the literal "X"
const LegacyXAttribute = "CAMEO_DEUG_2015"

const legacyXToken = "X"

// FixLegacyX maps "X" to the missing marker and every number to its integer
// form in the named column. It reports false when the column is absent.
// Text other than "X" is rejected.
func FixLegacyX(data *dataset.Dataset, attribute string) (bool, error) {
	col, ok := data.Column(attribute)
	if !ok {
		return false, nil
	}

	for i := 0; i < col.Len(); i++ {
		v := col.Value(i)
		switch v.Kind {
		case dataset.KindNumber:
			col.Set(i, dataset.Number(math.Trunc(v.Num)))
		case dataset.KindText:
			if v.Text != legacyXToken {
				return false, apperrors.NewInvalidInputError("unexpected text code in legacy column").
					WithContext("attribute", attribute).
					WithContext("row", i+1).
					WithContext("value", v.Text)
			}
			col.Set(i, dataset.Missing())
		}
	}
	return true, nil
}
