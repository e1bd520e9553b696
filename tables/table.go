// Package tables holds the tabular views of a row set: a searchable table, a paged
// data table and a pivot table.
package tables

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pivolan/genbi/domain/models"
)

// Columns returns the configured columns, or the fields of the first row sorted by name.
func Columns(rows []models.Row, cfg models.ChartConfig) []string {
	if len(cfg.Columns) > 0 {
		return append([]string(nil), cfg.Columns...)
	}
	if len(rows) == 0 {
		return nil
	}
	columns := make([]string, 0, len(rows[0]))
	for name := range rows[0] {
		columns = append(columns, name)
	}
	sort.Strings(columns)
	return columns
}

// Table is a full, unpaged view with text search and single-column sort.
type Table struct {
	Title   string
	rows    []models.Row
	columns []string
	query   string
	sortBy  string
	desc    bool
}

func NewTable(rows []models.Row, cfg models.ChartConfig) *Table {
	return &Table{
		Title:   cfg.Title,
		rows:    append([]models.Row(nil), rows...),
		columns: Columns(rows, cfg),
	}
}

func (t *Table) Columns() []string { return t.columns }

// Search keeps only rows whose rendered text contains q, ignoring case. An empty q shows all rows.
func (t *Table) Search(q string) {
	t.query = strings.ToLower(q)
}

// ToggleSort sorts by column ascending, or flips the direction when already sorted by it.
func (t *Table) ToggleSort(column string) {
	if t.sortBy == column {
		t.desc = !t.desc
		return
	}
	t.sortBy = column
	t.desc = false
}

// Rows returns the visible rows: filtered by the search text, then sorted.
func (t *Table) Rows() []models.Row {
	out := make([]models.Row, 0, len(t.rows))
	for _, row := range t.rows {
		if t.query == "" || strings.Contains(strings.ToLower(t.RowText(row)), t.query) {
			out = append(out, row)
		}
	}
	if t.sortBy != "" {
		sortRows(out, t.sortBy, t.desc)
	}
	return out
}

// RowText is the text of a row as displayed: its cells concatenated in column order.
func (t *Table) RowText(row models.Row) string {
	var b strings.Builder
	for _, c := range t.columns {
		b.WriteString(models.Text(row[c]))
	}
	return b.String()
}

// sortRows orders rows by column in place. Two numbers compare numerically, anything
// else compares as text using English collation. Ties keep their original order.
func sortRows(rows []models.Row, column string, desc bool) {
	coll := collate.New(language.English)
	sort.SliceStable(rows, func(i, j int) bool {
		c := compareCells(coll, rows[i][column], rows[j][column])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compareCells(coll *collate.Collator, a, b any) int {
	if models.IsNumeric(a) && models.IsNumeric(b) {
		x, _ := models.ToNumber(a)
		y, _ := models.ToNumber(b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	return coll.CompareString(sortText(a), sortText(b))
}

// sortText treats null, false, zero and the empty string alike as blank.
func sortText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		if !x {
			return ""
		}
	case float64:
		if x == 0 {
			return ""
		}
	}
	return models.Text(v)
}
