package tables

import (
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pivolan/genbi/domain/models"
)

// Output is a text rendering of a table.
type Output string

const (
	OutputText     Output = "text"
	OutputMarkdown Output = "markdown"
	OutputHTML     Output = "html"
)

// Write renders columns and rows with go-pretty. Cells use the display formatting
// of the data table: "-" for null, grouped numbers, Yes/No.
func Write(title string, columns []string, rows []models.Row, out Output) string {
	t := table.NewWriter()
	if title != "" {
		t.SetTitle("%s", title)
	}
	header := make(table.Row, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	t.AppendHeader(header)
	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i, c := range columns {
			r[i] = models.FormatCell(row[c])
		}
		t.AppendRow(r)
	}
	return render(t, out)
}

// Render writes the visible rows of the table.
func (t *Table) Render(out Output) string {
	return Write(t.Title, t.columns, t.Rows(), out)
}

// Render writes the current page with a page footer.
func (d *DataTable) Render(out Output) string {
	t := table.NewWriter()
	if d.Title != "" {
		t.SetTitle("%s", d.Title)
	}
	header := make(table.Row, len(d.columns))
	for i, c := range d.columns {
		header[i] = c + sortMarker(d.SortState(c))
	}
	t.AppendHeader(header)
	for _, row := range d.Page() {
		r := make(table.Row, len(d.columns))
		for i, c := range d.columns {
			r[i] = models.FormatCell(row[c])
		}
		t.AppendRow(r)
	}
	t.SetCaption("Page %d of %d (%d rows)", d.page, d.Pages(), len(d.rows))
	return render(t, out)
}

// Render writes the pivot with a totals column and a totals row.
func (p Pivot) Render(out Output) string {
	t := table.NewWriter()
	header := table.Row{p.RowField + " / " + p.ColField}
	for _, c := range p.ColValues {
		header = append(header, c)
	}
	header = append(header, "Total")
	t.AppendHeader(header)
	for i, rv := range p.RowValues {
		r := table.Row{rv}
		for _, v := range p.Cells[i] {
			r = append(r, models.FormatNumber(v))
		}
		r = append(r, models.FormatNumber(p.RowTotals[i]))
		t.AppendRow(r)
	}
	footer := table.Row{"Total"}
	for _, v := range p.ColTotals {
		footer = append(footer, models.FormatNumber(v))
	}
	footer = append(footer, models.FormatNumber(p.GrandTotal))
	t.AppendFooter(footer)
	return render(t, out)
}

func render(t table.Writer, out Output) string {
	switch out {
	case OutputMarkdown:
		return t.RenderMarkdown()
	case OutputHTML:
		return t.RenderHTML()
	}
	t.SetStyle(table.StyleLight)
	return t.Render()
}

func sortMarker(d SortDirection) string {
	switch d {
	case Ascending:
		return " ▲"
	case Descending:
		return " ▼"
	}
	return ""
}
