package table

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sales = `region, country, city, amount, open, since
Europe, Netherlands, Amsterdam, 12, true, 2021-04-01
Europe, Netherlands, Rotterdam, 7.5, false, 2020-01-15
Europe, France, Paris, , true, 2019-06-30
Asia, Japan, Tokyo, 30, true,
`

func TestReadCSV(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(sales))
	require.NoError(t, err)

	var types []Type
	var names []string
	for _, c := range tbl.Columns {
		names = append(names, c.Name)
		types = append(types, c.Type)
	}
	assert.Equal(t, []string{"region", "country", "city", "amount", "open", "since"}, names)
	assert.Equal(t, []Type{String, String, String, Float, Bool, Time}, types)

	require.Len(t, tbl.Rows, 4)
	assert.Equal(t, []any{"Europe", "Netherlands", "Amsterdam", 12.0, true,
		time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC)}, tbl.Rows[0])
	assert.Nil(t, tbl.Rows[2][3])
	assert.Nil(t, tbl.Rows[3][5])
}

func TestReadCSVRagged(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b\n1,2\n3\n"))
	assert.ErrorIs(t, err, ErrRaggedRow)

	_, err = ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoColumn)
}

func TestInferType(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("n,x,s,e\n1,1,a,\n-2,2.5,1,\n"))
	require.NoError(t, err)
	assert.Equal(t, Int, tbl.Columns[0].Type)
	assert.Equal(t, Float, tbl.Columns[1].Type)
	assert.Equal(t, String, tbl.Columns[2].Type)
	assert.Equal(t, String, tbl.Columns[3].Type)
	assert.Equal(t, int64(-2), tbl.Rows[1][0])
	assert.Equal(t, "1", tbl.Rows[1][2])
}

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"region", "amount"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Europe", 1.5}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"Asia"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tbl, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, Float, tbl.Columns[1].Type)
	assert.Equal(t, [][]any{{"Europe", 1.5}, {"Asia", nil}}, tbl.Rows)

	_, err = ReadXLSX(path, "Missing")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(sales), 0o644))

	tbl, err := Open(path)
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 4)

	_, err = Open(filepath.Join(dir, "sales.json"))
	assert.Error(t, err)
}

func TestFilterAndProject(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(sales))
	require.NoError(t, err)

	idx, err := tbl.Indices("country", "city")
	require.NoError(t, err)
	nl := tbl.Filter(idx[0], "Netherlands")
	assert.Equal(t, [][]any{{"Netherlands", "Amsterdam"}, {"Netherlands", "Rotterdam"}}, nl.Project(idx...))

	assert.Len(t, tbl.Filter(3, 12).Rows, 1, "numbers compare by value")
	assert.Empty(t, tbl.Filter(0, "Africa").Rows)

	_, err = tbl.Index("price")
	assert.ErrorIs(t, err, ErrNoColumn)
}

func TestMinMaxAndSamples(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(sales))
	require.NoError(t, err)

	min, max, ok := tbl.MinMax(3)
	require.True(t, ok)
	assert.Equal(t, 7.5, min)
	assert.Equal(t, 30.0, max)

	_, _, ok = tbl.MinMax(0)
	assert.False(t, ok)

	cats, err := tbl.Samples(0, 3)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Europe", cats[0].Label)
	require.Len(t, cats[0].Values, 3)
	assert.True(t, math.IsNaN(cats[0].Values[2]))
	assert.Equal(t, []float64{30}, cats[1].Values)

	_, err = tbl.Samples(0, 1)
	assert.ErrorIs(t, err, ErrNotNumber)
	_, err = tbl.Samples(0, 17)
	assert.ErrorIs(t, err, ErrNoColumn)
}

func TestValidate(t *testing.T) {
	tbl := &Table{Columns: []Column{{Name: "a"}, {Name: "b"}}, Rows: [][]any{{1, 2}, {3}}}
	assert.ErrorIs(t, tbl.Validate(), ErrRaggedRow)
	assert.ErrorIs(t, (&Table{}).Validate(), ErrNoColumn)
}

func TestFormat(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		v      any
		format string
		want   string
	}{
		{nil, "0.00", ""},
		{"text", "0.00", "text"},
		{true, "", "true"},
		{int64(42), "", "42"},
		{2.5, "", "2.5"},
		{2.0, "0.00", "2.00"},
		{1234.56, "#,0.0", "1,234.6"},
		{1234567, "#,0", "1,234,567"},
		{1234.56, "$#,0", "$1,235"},
		{0.256, "0.0%", "25.6%"},
		{day, "", "2024-03-01"},
		{day.Add(90 * time.Minute), "", "2024-03-01 01:30:00"},
		{day, "dd.MM.yyyy", "01.03.2024"},
		{day.Add(90 * time.Minute), "yy/MM/dd HH:mm:ss", "24/03/01 01:30:00"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Format(tc.v, tc.format), "Format(%v, %q)", tc.v, tc.format)
	}
}
