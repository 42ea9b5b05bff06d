package testutil

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"surveyprep/internal/dataset"
	"surveyprep/internal/reference"
	"surveyprep/pkg/contracts/domain"
)

// surveyRows is a six-row general population extract. AGER_TYP is sentinel
// coded in four rows; LNR is not documented by the missing-value table.
var surveyRows = []string{
	"LNR;AGER_TYP;ALTERSKATEGORIE_GROB;ANREDE_KZ;CAMEO_DEUG_2015;CJT_GESAMTTYP;EINGEFUEGT_AM;KBA05_BAUMAX;KKK;OST_WEST_KZ;PLZ8_BAUMAX;PRAEGENDE_JUGENDJAHRE;REGIOTYP;WOHNLAGE",
	"910215;-1;2;1;4;1;1992-02-10 00:00:00;5;2;W;1;14;3;3",
	"910220;-1;1;2;X;2;1992-02-12 00:00:00;1;3;O;5;8;7;7",
	"910225;2;9;2;8;0;1992-02-12 00:00:00;0;-1;W;2;0;2;0",
	"910226;-1;3;1;2;2;1992-02-12 00:00:00;3;4;W;4;3;5;8",
	"910241;0;4;2;3;3;1992-02-12 00:00:00;1;1;O;5;15;4;6",
	"910244;1;2;0;6.0;1;1992-02-10 00:00:00;2;3;-1;3;5;1;1",
}

// customerColumns are appended to the customer extract, one value per row
var customerColumns = map[string][]string{
	"CUSTOMER_GROUP":  {"MULTI_BUYER", "SINGLE_BUYER", "MULTI_BUYER", "MULTI_BUYER", "SINGLE_BUYER", "MULTI_BUYER"},
	"ONLINE_PURCHASE": {"0", "0", "1", "0", "0", "1"},
	"PRODUCT_GROUP":   {"COSMETIC", "FOOD", "COSMETIC_AND_FOOD", "FOOD", "COSMETIC", "FOOD"},
}

var customerColumnOrder = []string{"CUSTOMER_GROUP", "ONLINE_PURCHASE", "PRODUCT_GROUP"}

// SurveyResponses is the RESPONSE column of the labeled extract
var SurveyResponses = []float64{0, 0, 1, 0, 0, 1}

// SurveyRowCount is the number of rows in every fixture extract
const SurveyRowCount = 6

// SurveyCSV returns the raw semicolon separated extract for a variant
func SurveyCSV(variant domain.Variant) string {
	lines := make([]string, len(surveyRows))
	copy(lines, surveyRows)

	switch variant {
	case domain.VariantCustomer:
		lines[0] += ";" + strings.Join(customerColumnOrder, ";")
		for i := 1; i < len(lines); i++ {
			for _, name := range customerColumnOrder {
				lines[i] += ";" + customerColumns[name][i-1]
			}
		}
	case domain.VariantLabeled:
		lines[0] += ";RESPONSE"
		for i := 1; i < len(lines); i++ {
			if SurveyResponses[i-1] == 1 {
				lines[i] += ";1"
			} else {
				lines[i] += ";0"
			}
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// MissingValuesCSV is the missing-value reference for the fixture extract.
// KKK is listed twice to produce a collision.
const MissingValuesCSV = `Attribute,Description,Meaning,Missing Value
AGER_TYP,best-ager typology,unknown,"-1,0"
ALTERSKATEGORIE_GROB,age classification through prename analysis,unknown,"-1, 0, 9"
ANREDE_KZ,gender,unknown,"-1,0"
CAMEO_DEUG_2015,CAMEO classification 2015 - Uppergroup,unknown,-1
CJT_GESAMTTYP,customer journey typology,unknown,0
EINGEFUEGT_AM,insertion date,,
KBA05_BAUMAX,most common type of homes in the cell,unknown,"-1,0"
KKK,purchasing power,unknown,"-1,0"
KKK,purchasing power,unknown,-1
OST_WEST_KZ,flag indicating the former GDR/FRG,unknown,-1
PLZ8_BAUMAX,most common building-type within the PLZ8,unknown,"-1,0"
PRAEGENDE_JUGENDJAHRE,dominating movement in the person's youth,unknown,"-1,0"
REGIOTYP,AZ neighbourhood typology,unknown,"-1,0"
WOHNLAGE,residential-area,unknown,-1
TITEL_KZ,flag whether this person holds an academic title,unknown,"-1,0"
`

// TypeActionsCSV is the type-action table for the fixture extract
const TypeActionsCSV = `Attribute,Type,Action
AGER_TYP,categorical,drop
ALTERSKATEGORIE_GROB,numeric,
ANREDE_KZ,binary,
CAMEO_DEUG_2015,numeric,
CJT_GESAMTTYP,categorical,onehot
EINGEFUEGT_AM,,drop
KBA05_BAUMAX,categorical,
KKK,numeric,
OST_WEST_KZ,binary,
PLZ8_BAUMAX,categorical,
PRAEGENDE_JUGENDJAHRE,categorical,
REGIOTYP,numeric,
WOHNLAGE,categorical,
`

// SurveyDataset parses the fixture extract for a variant
func SurveyDataset(t *testing.T, variant domain.Variant) *dataset.Dataset {
	t.Helper()

	lines := strings.Split(strings.TrimSpace(SurveyCSV(variant)), "\n")
	b, err := dataset.NewBuilder(strings.Split(lines[0], ";"))
	require.NoError(t, err)
	for _, line := range lines[1:] {
		require.NoError(t, b.AppendRow(strings.Split(line, ";")))
	}
	return b.Build()
}

// SurveyMissingValues loads the fixture missing-value reference
func SurveyMissingValues(t *testing.T) *reference.MissingValues {
	t.Helper()
	mv, err := reference.LoadMissingValues(strings.NewReader(MissingValuesCSV))
	require.NoError(t, err)
	return mv
}

// SurveyTypeActions loads the fixture type-action table
func SurveyTypeActions(t *testing.T) *reference.TypeActions {
	t.Helper()
	ta, err := reference.LoadTypeActions(strings.NewReader(TypeActionsCSV))
	require.NoError(t, err)
	return ta
}

// WriteTempFile writes content to a file in a test temp dir and returns its path
func WriteTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ColumnFloats returns a numeric column's cells; missing cells are NaN
func ColumnFloats(t *testing.T, data *dataset.Dataset, name string) []float64 {
	t.Helper()
	col, ok := data.Column(name)
	require.True(t, ok, "column %s not found", name)

	out := make([]float64, col.Len())
	for i := range out {
		v := col.Value(i)
		require.NotEqual(t, dataset.KindText, v.Kind, "column %s row %d holds text", name, i)
		if v.IsMissing() {
			out[i] = math.NaN()
			continue
		}
		out[i] = v.Num
	}
	return out
}
