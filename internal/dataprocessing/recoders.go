package dataprocessing

import (
	"surveyprep/internal/dataset"
)

// Recoder maps one legacy cell to its derived value. Every recoder is total:
// any input outside its enumerated codes, including text and non-integral
// numbers, maps to the missing marker.
type Recoder func(dataset.Value) dataset.Value

// codeTable builds a recoder from an integer partition
func codeTable(partition map[int64][]int64) Recoder {
	lookup := make(map[int64]int64)
	for out, codes := range partition {
		for _, c := range codes {
			lookup[c] = out
		}
	}
	return func(v dataset.Value) dataset.Value {
		code, ok := v.Integer()
		if !ok {
			return dataset.Missing()
		}
		out, ok := lookup[code]
		if !ok {
			return dataset.Missing()
		}
		return dataset.Int(out)
	}
}

// RecodeSettlementSide maps the east/west flag to binary: W -> 1, O -> 0
func RecodeSettlementSide(v dataset.Value) dataset.Value {
	if v.Kind != dataset.KindText {
		return dataset.Missing()
	}
	switch v.Text {
	case "W":
		return dataset.Int(1)
	case "O":
		return dataset.Int(0)
	}
	return dataset.Missing()
}

// RecodeMovement extracts the youth movement from the youth-era code:
// 1 mainstream, 2 avantgarde
var RecodeMovement = codeTable(map[int64][]int64{
	1: {1, 3, 5, 8, 10, 12, 14},
	2: {2, 4, 6, 7, 11, 13, 15},
})

// RecodeGenerationDecade extracts the decade of youth (4 = 40s ... 9 = 90s)
// from the youth-era code
var RecodeGenerationDecade = codeTable(map[int64][]int64{
	4: {1, 2},
	5: {3, 4},
	6: {5, 6, 7},
	7: {8, 9},
	8: {10, 11, 12, 13},
	9: {14, 15},
})

// RecodeRuralNeighborhood collapses the neighborhood quality code into a
// rural flag; code 6 and anything else is missing
var RecodeRuralNeighborhood = codeTable(map[int64][]int64{
	0: {0, 1, 2, 3, 4, 5},
	1: {7, 8},
})

// RecodeBuildingFamily keeps the family home classes of the regional building
// type; the business class 5 becomes 0
var RecodeBuildingFamily = codeTable(map[int64][]int64{
	0: {5},
	1: {1},
	2: {2},
	3: {3},
	4: {4},
})

// RecodeBuildingBusiness flags the business class of the regional building type
var RecodeBuildingBusiness = codeTable(map[int64][]int64{
	0: {1, 2, 3, 4},
	1: {5},
})
