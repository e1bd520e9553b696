package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/genbi/domain/models"
)

var fruit = []models.Row{
	{"name": "banana", "qty": 10.0, "origin": "Ecuador"},
	{"name": "Apple", "qty": 9.0, "origin": "Chile"},
	{"name": "cherry", "qty": 100.0, "origin": "Chile"},
}

func names(rows []models.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = models.Text(r["name"])
	}
	return out
}

func TestColumns(t *testing.T) {
	assert.Equal(t, []string{"name", "origin", "qty"}, Columns(fruit, models.ChartConfig{}))
	assert.Equal(t, []string{"qty", "name"}, Columns(fruit, models.ChartConfig{Columns: []string{"qty", "name"}}))
	assert.Nil(t, Columns(nil, models.ChartConfig{}))
}

func TestTableSearch(t *testing.T) {
	tbl := NewTable(fruit, models.ChartConfig{})
	tbl.Search("CHILE")
	assert.Equal(t, []string{"Apple", "cherry"}, names(tbl.Rows()))

	tbl.Search("100")
	assert.Equal(t, []string{"cherry"}, names(tbl.Rows()))

	tbl.Search("")
	assert.Len(t, tbl.Rows(), 3)
}

func TestTableToggleSort(t *testing.T) {
	tbl := NewTable(fruit, models.ChartConfig{})
	tbl.ToggleSort("qty")
	assert.Equal(t, []string{"Apple", "banana", "cherry"}, names(tbl.Rows()))

	tbl.ToggleSort("qty")
	assert.Equal(t, []string{"cherry", "banana", "Apple"}, names(tbl.Rows()))

	tbl.ToggleSort("name")
	assert.Equal(t, []string{"Apple", "banana", "cherry"}, names(tbl.Rows()))
	assert.Equal(t, "banana", fruit[0]["name"], "source rows keep their order")
}

func TestDataTableSortCycle(t *testing.T) {
	dt := NewDataTable(fruit, models.ChartConfig{})
	assert.Equal(t, Unsorted, dt.SortState("name"))

	dt.ToggleSort("name")
	assert.Equal(t, Ascending, dt.SortState("name"))
	assert.Equal(t, []string{"Apple", "banana", "cherry"}, names(dt.Page()))

	dt.ToggleSort("name")
	assert.Equal(t, Descending, dt.SortState("name"))
	assert.Equal(t, []string{"cherry", "banana", "Apple"}, names(dt.Page()))

	dt.ToggleSort("name")
	assert.Equal(t, Unsorted, dt.SortState("name"))
	assert.Equal(t, []string{"banana", "Apple", "cherry"}, names(dt.Page()))

	dt.ToggleSort("qty")
	dt.ToggleSort("origin")
	assert.Equal(t, Unsorted, dt.SortState("qty"))
	assert.Equal(t, Ascending, dt.SortState("origin"))
}

func TestDataTableNumericSort(t *testing.T) {
	dt := NewDataTable(fruit, models.ChartConfig{})
	dt.ToggleSort("qty")
	assert.Equal(t, []string{"Apple", "banana", "cherry"}, names(dt.Sorted()))
}

func TestDataTablePaging(t *testing.T) {
	rows := make([]models.Row, 23)
	for i := range rows {
		rows[i] = models.Row{"n": float64(i)}
	}
	dt := NewDataTable(rows, models.ChartConfig{})
	assert.Equal(t, 3, dt.Pages())
	assert.Len(t, dt.Page(), 10)

	dt.SetPage(3)
	require.Len(t, dt.Page(), 3)
	assert.Equal(t, 20.0, dt.Page()[0]["n"])

	dt.SetPage(99)
	assert.Equal(t, 3, dt.CurrentPage())
	dt.SetPage(-1)
	assert.Equal(t, 1, dt.CurrentPage())

	assert.Equal(t, 1, NewDataTable(nil, models.ChartConfig{}).Pages())
}

func TestDataTablePageWindow(t *testing.T) {
	rows := make([]models.Row, 95)
	for i := range rows {
		rows[i] = models.Row{"n": float64(i)}
	}
	dt := NewDataTable(rows, models.ChartConfig{})
	assert.Equal(t, []int{1, 2, 3, 4, 5}, dt.PageWindow())
	dt.SetPage(6)
	assert.Equal(t, []int{4, 5, 6, 7, 8}, dt.PageWindow())
	dt.SetPage(10)
	assert.Equal(t, []int{6, 7, 8, 9, 10}, dt.PageWindow())

	small := NewDataTable(rows[:15], models.ChartConfig{})
	assert.Equal(t, []int{1, 2}, small.PageWindow())
}

func TestRender(t *testing.T) {
	dt := NewDataTable([]models.Row{{"a": 1234.5, "b": nil}}, models.ChartConfig{Title: "Sample"})
	dt.ToggleSort("a")
	out := dt.Render(OutputText)
	assert.Contains(t, out, "1,234.5")
	assert.Contains(t, out, "-")
	assert.Contains(t, out, "Page 1 of 1")

	html := NewTable(fruit, models.ChartConfig{}).Render(OutputHTML)
	assert.Contains(t, html, "<table")
}

func TestToCSV(t *testing.T) {
	rows := []models.Row{
		{"name": "a,b", "n": 1.5, "q": `say "hi"`, "z": nil},
		{"name": "plain", "n": 2.0, "q": "x", "z": true},
	}
	out, err := ToCSV(rows)
	require.NoError(t, err)
	assert.Equal(t, "n,name,q,z\n1.5,\"a,b\",\"say \"\"hi\"\"\",\n2,plain,x,true\n", out)

	out, err = ToCSV(rows, "name")
	require.NoError(t, err)
	assert.Equal(t, "name\n\"a,b\"\nplain\n", out)

	out, err = ToCSV(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "cafe-revenue.csv", FileName("Café Revenue!", "csv"))
	assert.Equal(t, "data.csv", FileName("???", "csv"))
}
