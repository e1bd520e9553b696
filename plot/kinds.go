package plot

import (
	"sort"

	"github.com/pivolan/genbi/domain/models"
)

// AvailableKinds lists the chart kinds that make sense for rows, judged by the
// value types of the first row only. Tables are always available.
func AvailableKinds(rows []models.Row) []models.ChartKind {
	kinds := []models.ChartKind{models.KindTable, models.KindDataTable}
	if len(rows) == 0 {
		return kinds
	}
	numeric, categorical := FieldKinds(rows[0])
	if len(numeric) == 0 {
		return kinds
	}
	kinds = append(kinds, models.KindBar, models.KindLine, models.KindHistogram)
	if len(numeric) >= 2 {
		kinds = append(kinds, models.KindScatter)
	}
	if len(numeric) >= 3 {
		kinds = append(kinds, models.KindBubble)
	}
	if len(categorical) >= 1 {
		kinds = append(kinds, models.KindPie)
	}
	if len(categorical) >= 2 {
		kinds = append(kinds, models.KindPivot)
	}
	return kinds
}

// FieldKinds splits the fields of row into numeric and text fields, each sorted by name.
// Booleans and nulls are neither.
func FieldKinds(row models.Row) (numeric, categorical []string) {
	for name, v := range row {
		switch {
		case models.IsNumeric(v):
			numeric = append(numeric, name)
		case isString(v):
			categorical = append(categorical, name)
		}
	}
	sort.Strings(numeric)
	sort.Strings(categorical)
	return numeric, categorical
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}
