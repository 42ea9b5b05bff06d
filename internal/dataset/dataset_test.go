package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Value
	}{
		{name: "empty", raw: "", want: Missing()},
		{name: "blank", raw: "   ", want: Missing()},
		{name: "nan spelling", raw: "NaN", want: Missing()},
		{name: "integer", raw: "3", want: Number(3)},
		{name: "float integer", raw: "3.0", want: Number(3)},
		{name: "negative", raw: "-1", want: Number(-1)},
		{name: "fraction", raw: "2.5", want: Number(2.5)},
		{name: "text", raw: "W", want: Text("W")},
		{name: "padded text", raw: " 8A ", want: Text("8A")},
		{name: "infinity stays text", raw: "inf", want: Text("inf")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			assert.True(t, tt.want.Equal(got), "got %+v want %+v", got, tt.want)
		})
	}
}

func TestValue_Canonical(t *testing.T) {
	tests := []struct {
		name   string
		value  Value
		want   string
		wantOK bool
	}{
		{name: "float integer", value: Number(3.0), want: "3", wantOK: true},
		{name: "negative integer", value: Number(-1.0), want: "-1", wantOK: true},
		{name: "fraction", value: Number(0.25), want: "0.25", wantOK: true},
		{name: "text", value: Text("XX"), want: "XX", wantOK: true},
		{name: "missing", value: Missing(), want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.Canonical()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalToken(t *testing.T) {
	assert.Equal(t, "-1", CanonicalToken("-1.0"))
	assert.Equal(t, "9", CanonicalToken(" 9 "))
	assert.Equal(t, "X", CanonicalToken("X"))
}

func TestValue_Less(t *testing.T) {
	assert.True(t, Number(1).Less(Number(2)))
	assert.True(t, Number(100).Less(Text("1A")))
	assert.True(t, Text("1A").Less(Text("2B")))
	assert.True(t, Text("Z").Less(Missing()))
	assert.False(t, Number(2).Less(Number(2)))
}

func TestColumn_SetAndValue(t *testing.T) {
	c := NewColumn("A", 4)
	assert.Equal(t, 4, c.MissingCount())
	assert.False(t, c.HasText())

	c.Set(0, Number(1))
	c.Set(1, Text("X"))
	c.Set(2, Number(2))

	assert.True(t, c.HasText())
	assert.Equal(t, 1, c.MissingCount())
	assert.InDelta(t, 0.25, c.MissingRatio(), 1e-12)
	assert.Equal(t, []float64{1, 2}, c.Observed())

	// overwriting text with a number clears the text cell
	c.Set(1, Number(5))
	assert.False(t, c.HasText())
	assert.Equal(t, KindNumber, c.Value(1).Kind)

	c.Set(0, Missing())
	assert.True(t, c.IsMissing(0))
}

func TestColumn_Recode(t *testing.T) {
	c := ParseColumn("OST_WEST_KZ", []string{"W", "O", ""})
	out := c.Recode("FLAG", func(v Value) Value {
		if v.Text == "W" {
			return Int(1)
		}
		return Missing()
	})

	assert.Equal(t, "FLAG", out.Name())
	assert.Equal(t, Int(1), out.Value(0))
	assert.True(t, out.IsMissing(1))
	assert.True(t, out.IsMissing(2))
	// source untouched
	assert.Equal(t, "O", c.Value(1).Text)
}

func TestDataset_AppendDropExtract(t *testing.T) {
	d, err := FromColumns(
		ParseColumn("A", []string{"1", "2"}),
		ParseColumn("B", []string{"3", "4"}),
		ParseColumn("C", []string{"5", "6"}),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, d.NumRows())
	assert.Equal(t, []string{"A", "B", "C"}, d.Names())

	err = d.Append(ParseColumn("A", []string{"1", "1"}))
	assert.Error(t, err, "duplicate names are rejected")

	err = d.Append(ParseColumn("D", []string{"1"}))
	assert.Error(t, err, "length mismatch is rejected")

	dropped := d.Drop("B", "Z")
	assert.Equal(t, []string{"B"}, dropped)
	assert.Equal(t, []string{"A", "C"}, d.Names())

	c, ok := d.Column("C")
	require.True(t, ok)
	assert.Equal(t, Number(6), c.Value(1))

	label, ok := d.Extract("A")
	require.True(t, ok)
	assert.Equal(t, "A", label.Name())
	assert.Equal(t, []string{"C"}, d.Names())
	assert.False(t, d.Has("A"))
}

func TestDataset_Replace(t *testing.T) {
	d, err := FromColumns(
		ParseColumn("A", []string{"1", "2"}),
		ParseColumn("B", []string{"3", "4"}),
	)
	require.NoError(t, err)

	require.NoError(t, d.Replace(ParseColumn("A", []string{"9", "9"})))
	assert.Equal(t, []string{"A", "B"}, d.Names())
	c, _ := d.Column("A")
	assert.Equal(t, Number(9), c.Value(0))

	assert.Error(t, d.Replace(ParseColumn("Z", []string{"1", "1"})))
}

func TestDataset_CloneIsDeep(t *testing.T) {
	d, err := FromColumns(ParseColumn("A", []string{"1", "X"}))
	require.NoError(t, err)

	cp := d.Clone()
	c, _ := cp.Column("A")
	c.Set(0, Number(7))
	c.Set(1, Missing())
	cp.Drop("A")

	orig, ok := d.Column("A")
	require.True(t, ok)
	assert.Equal(t, Number(1), orig.Value(0))
	assert.Equal(t, Text("X"), orig.Value(1))
}

func TestDataset_Row(t *testing.T) {
	d, err := FromColumns(
		ParseColumn("A", []string{"1", ""}),
		ParseColumn("B", []string{"x", "2"}),
	)
	require.NoError(t, err)

	row := d.Row(1)
	require.Len(t, row, 2)
	assert.True(t, row[0].IsMissing())
	assert.Equal(t, Number(2), row[1])
	assert.Equal(t, 1, d.MissingCount())
}

func TestBuilder(t *testing.T) {
	b, err := NewBuilder([]string{"LNR", "CAMEO_DEUG_2015", "AGER_TYP"})
	require.NoError(t, err)

	require.NoError(t, b.AppendRow([]string{"1", "4", "-1"}))
	require.NoError(t, b.AppendRow([]string{"2", "X", ""}))
	require.NoError(t, b.AppendRow([]string{"3", "8.0", "2"}))
	assert.Equal(t, 3, b.Rows())

	err = b.AppendRow([]string{"4", "1"})
	require.Error(t, err)

	d := b.Build()
	assert.Equal(t, 3, d.NumRows())
	assert.Equal(t, []string{"LNR", "CAMEO_DEUG_2015", "AGER_TYP"}, d.Names())

	cameo, ok := d.Column("CAMEO_DEUG_2015")
	require.True(t, ok)
	assert.Equal(t, Number(4), cameo.Value(0))
	assert.Equal(t, Text("X"), cameo.Value(1))
	assert.Equal(t, Number(8), cameo.Value(2))

	ager, _ := d.Column("AGER_TYP")
	assert.True(t, ager.IsMissing(1))
	assert.False(t, ager.HasText())
}

func TestNewBuilder_RejectsBadHeader(t *testing.T) {
	_, err := NewBuilder([]string{"A", "A"})
	require.Error(t, err)

	_, err = NewBuilder([]string{"A", ""})
	require.Error(t, err)
}
