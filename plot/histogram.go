package plot

import (
	"fmt"

	"github.com/pivolan/genbi/domain/models"
)

// HistogramChart bins the value field and draws one bar per bin, scaled by count.
func HistogramChart(rows []models.Row, cfg models.ChartConfig, vp Viewport) Scene {
	valueField := fieldOr(cfg.ValueField, "value")
	title := cfg.Title
	if title == "" {
		title = "Distribution of " + valueField
	}
	if len(rows) == 0 {
		return emptyScene(models.KindHistogram, vp, title)
	}
	b := newScene(models.KindHistogram, vp, title)
	color := colorAt(cfg.Colors, 0, Palette[0])

	bins := Histogram(numbers(rows, valueField, 0), cfg.Bins)
	maxCount := 0
	for _, bin := range bins {
		maxCount = max(maxCount, bin.Count)
	}
	a := newPlotArea(vp, histogramPadding)

	for i, slot := range Slots(len(bins), a.width) {
		bin := bins[i]
		h := Ratio(float64(bin.Count), float64(maxCount)) * a.height
		bar := Rect{X: a.left + slot.X, Y: a.bottom() - h, Width: slot.Width, Height: h, Radius: 2, Style: Style{Fill: color}}
		b.shape(bar)
		tip := fmt.Sprintf("Range: %s to %s\nCount: %d", formatFixed1(bin.Start), formatFixed1(bin.End), bin.Count)
		b.region(bar, tip, Hover{Opacity: 0.8})
		if h > 20 {
			b.label(Label{At: Point{a.left + slot.Center(), bar.Y + 15}, Text: fmt.Sprint(bin.Count), Anchor: AnchorMiddle, Color: white, Bold: true})
		}
		b.label(Label{
			At:       Point{a.left + slot.Center(), a.bottom() + 15},
			Text:     formatFixed1(bin.Start) + "-" + formatFixed1(bin.End),
			Anchor:   AnchorEnd,
			Rotation: -45,
		})
	}
	b.valueAxis(a, 0, float64(maxCount), formatRounded)
	b.baseline(a)
	b.axisTitles(a, valueField, "Frequency", 45)
	return b.build()
}
