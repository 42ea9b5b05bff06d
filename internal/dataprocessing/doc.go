// Package dataprocessing implements the column-level cleaning steps applied to
// a survey extract.
//
// # Steps
//
// Each step works in place on a *dataset.Dataset and is driven by the two
// reference tables rather than per-column code:
//
//  1. SubstituteSentinels: drop undocumented columns, blank sentinel codes
//  2. FixLegacyX: the "X" unknown code of CAMEO_DEUG_2015
//  3. DropSparseColumns: drop columns more than 30% missing
//  4. DropByAction: drop columns flagged "drop"
//  5. EngineerFeatures: recode legacy multi-meaning codes (see LegacyRecodings)
//  6. ClassifyAttributes + Impute: fill gaps per attribute class
//  7. ExpandCategorical: one 0/1 indicator per observed category
//  8. MinMaxScale: rescale onto [0,1]
//
// The order matters and is enforced by the operations package, which also
// handles the dataset variants.
//
// # Usage
//
//	data, err := dataprocessing.ParseDatasetFile("azdias.csv", dataprocessing.DefaultParseOptions())
//	if err != nil {
//	    return err
//	}
//	res := dataprocessing.SubstituteSentinels(data, missingValues)
//
// # Recoders
//
// Recoders are total functions over dataset.Value. Anything outside the codes
// a recoder enumerates, including text and fractional numbers, becomes the
// missing marker.
package dataprocessing
