package tables

import "github.com/pivolan/genbi/domain/models"

const PageSize = 10

type SortDirection int

const (
	Unsorted SortDirection = iota
	Ascending
	Descending
)

func (d SortDirection) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	}
	return "none"
}

// DataTable is a paged view with a three-state sort per column.
type DataTable struct {
	Title   string
	rows    []models.Row
	columns []string
	sortBy  string
	dir     SortDirection
	page    int
}

func NewDataTable(rows []models.Row, cfg models.ChartConfig) *DataTable {
	return &DataTable{
		Title:   cfg.Title,
		rows:    append([]models.Row(nil), rows...),
		columns: Columns(rows, cfg),
		page:    1,
	}
}

func (d *DataTable) Columns() []string { return d.columns }

// ToggleSort cycles column through unsorted, ascending and descending.
// Choosing a different column starts it at ascending.
func (d *DataTable) ToggleSort(column string) {
	if d.sortBy != column {
		d.sortBy, d.dir = column, Ascending
		return
	}
	switch d.dir {
	case Ascending:
		d.dir = Descending
	case Descending:
		d.sortBy, d.dir = "", Unsorted
	default:
		d.dir = Ascending
	}
}

// SortState is the indicator shown in the header of column.
func (d *DataTable) SortState(column string) SortDirection {
	if d.sortBy != column {
		return Unsorted
	}
	return d.dir
}

// Pages is the number of pages, at least one.
func (d *DataTable) Pages() int {
	return max((len(d.rows)+PageSize-1)/PageSize, 1)
}

func (d *DataTable) CurrentPage() int { return d.page }

// SetPage moves to page p, clamped to the valid range.
func (d *DataTable) SetPage(p int) {
	d.page = min(max(p, 1), d.Pages())
}

// Sorted returns every row in the current sort order.
func (d *DataTable) Sorted() []models.Row {
	out := append([]models.Row(nil), d.rows...)
	if d.dir != Unsorted {
		sortRows(out, d.sortBy, d.dir == Descending)
	}
	return out
}

// Page returns the rows of the current page.
func (d *DataTable) Page() []models.Row {
	sorted := d.Sorted()
	start := (d.page - 1) * PageSize
	if start >= len(sorted) {
		return nil
	}
	return sorted[start:min(start+PageSize, len(sorted))]
}

// PageWindow is the run of at most five page numbers shown around the current page.
func (d *DataTable) PageWindow() []int {
	total := d.Pages()
	n := min(total, 5)
	var first int
	switch {
	case total <= 5 || d.page <= 3:
		first = 1
	case d.page >= total-2:
		first = total - 4
	default:
		first = d.page - 2
	}
	window := make([]int, n)
	for i := range window {
		window[i] = first + i
	}
	return window
}
