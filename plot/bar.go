package plot

import (
	"fmt"
	"math"

	"github.com/pivolan/genbi/domain/models"
)

// Bar draws one bar per row, in row order, scaled against the largest value.
func Bar(rows []models.Row, cfg models.ChartConfig, vp Viewport) Scene {
	if len(rows) == 0 {
		return emptyScene(models.KindBar, vp, cfg.Title)
	}
	b := newScene(models.KindBar, vp, cfg.Title)
	xField := fieldOr(cfg.XAxis, "x")
	yField := fieldOr(cfg.YAxis, "y")
	color := colorAt(cfg.Colors, 0, Palette[0])

	values := numbers(rows, yField, 0)
	_, max := MinMax(values)
	a := newPlotArea(vp, axisPadding)

	for i, slot := range Slots(len(rows), a.width) {
		h := math.Max(Ratio(values[i], max)*a.height, 0)
		bar := Rect{X: a.left + slot.X, Y: a.bottom() - h, Width: slot.Width, Height: h, Radius: 4, Style: Style{Fill: color}}
		b.shape(bar)
		b.region(bar, fmt.Sprintf("%s: %s", models.Text(rows[i][xField]), models.Text(rows[i][yField])), Hover{Opacity: 0.8})
		b.label(Label{At: Point{a.left + slot.Center(), a.bottom() + 20}, Text: models.Text(rows[i][xField]), Anchor: AnchorMiddle})
	}
	b.valueAxis(a, 0, max, FormatNumber)
	b.baseline(a)
	return b.build()
}

func fieldOr(field, fallback string) string {
	if field == "" {
		return fallback
	}
	return field
}

// numbers extracts field from every row, substituting fallback for zero or non-numeric cells.
func numbers(rows []models.Row, field string, fallback float64) []float64 {
	values := make([]float64, len(rows))
	for i, row := range rows {
		values[i] = models.NumberOr(row[field], fallback)
	}
	return values
}
