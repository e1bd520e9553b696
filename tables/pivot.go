package tables

import (
	"sort"

	"github.com/pivolan/genbi/domain/models"
)

// Pivot is a dense cross-tabulation: one cell for every (row value, column value) pair.
type Pivot struct {
	RowField    string
	ColField    string
	ValueField  string
	Aggregation models.Aggregation
	RowValues   []string
	ColValues   []string
	Cells       [][]float64 // [row][col]
	RowTotals   []float64
	ColTotals   []float64
	GrandTotal  float64
}

// BuildPivot aggregates rows by the configured row and column fields. Both domains are the
// distinct observed values sorted as strings. Sum adds the numeric value field (0 when not
// a number); count adds 1 per row. Pairs with no rows stay 0.
func BuildPivot(rows []models.Row, cfg models.ChartConfig) Pivot {
	p := Pivot{
		RowField:    fieldOr(cfg.RowField, "category"),
		ColField:    fieldOr(cfg.ColField, "month"),
		ValueField:  fieldOr(cfg.ValueField, "value"),
		Aggregation: cfg.Aggregation,
	}
	if p.Aggregation != models.AggregationCount {
		p.Aggregation = models.AggregationSum
	}

	p.RowValues = distinct(rows, p.RowField)
	p.ColValues = distinct(rows, p.ColField)
	rowIndex := indexOf(p.RowValues)
	colIndex := indexOf(p.ColValues)

	p.Cells = make([][]float64, len(p.RowValues))
	for i := range p.Cells {
		p.Cells[i] = make([]float64, len(p.ColValues))
	}
	p.RowTotals = make([]float64, len(p.RowValues))
	p.ColTotals = make([]float64, len(p.ColValues))

	for _, row := range rows {
		r := rowIndex[models.Text(row[p.RowField])]
		c := colIndex[models.Text(row[p.ColField])]
		v := 1.0
		if p.Aggregation == models.AggregationSum {
			v = models.NumberOr(row[p.ValueField], 0)
		}
		p.Cells[r][c] += v
		p.RowTotals[r] += v
		p.ColTotals[c] += v
		p.GrandTotal += v
	}
	return p
}

// Cell returns the aggregate for a row and column value, 0 when either is outside the domain.
func (p Pivot) Cell(rowValue, colValue string) float64 {
	r, c := index(p.RowValues, rowValue), index(p.ColValues, colValue)
	if r < 0 || c < 0 {
		return 0
	}
	return p.Cells[r][c]
}

func (p Pivot) RowTotal(rowValue string) float64 {
	if r := index(p.RowValues, rowValue); r >= 0 {
		return p.RowTotals[r]
	}
	return 0
}

func (p Pivot) ColTotal(colValue string) float64 {
	if c := index(p.ColValues, colValue); c >= 0 {
		return p.ColTotals[c]
	}
	return 0
}

func distinct(rows []models.Row, field string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, row := range rows {
		v := models.Text(row[field])
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func indexOf(values []string) map[string]int {
	m := make(map[string]int, len(values))
	for i, v := range values {
		m[v] = i
	}
	return m
}

func index(sorted []string, v string) int {
	i := sort.SearchStrings(sorted, v)
	if i < len(sorted) && sorted[i] == v {
		return i
	}
	return -1
}

func fieldOr(field, fallback string) string {
	if field == "" {
		return fallback
	}
	return field
}
