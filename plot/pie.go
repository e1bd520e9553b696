package plot

import (
	"fmt"
	"math"

	"github.com/pivolan/genbi/domain/models"
)

const (
	pieMargin      = 40
	pieLabelShare  = 0.05
	pieHoverOffset = 10
)

// Pie draws one slice per row, clockwise from 12 o'clock, sized by the first series field.
func Pie(rows []models.Row, cfg models.ChartConfig, vp Viewport) Scene {
	if len(rows) == 0 {
		return emptyScene(models.KindPie, vp, cfg.Title)
	}
	b := newScene(models.KindPie, vp, cfg.Title)
	valueField := "value"
	if len(cfg.Series) > 0 && cfg.Series[0] != "" {
		valueField = cfg.Series[0]
	}
	labelField := fieldOr(cfg.XAxis, "label")
	colors := cfg.Colors
	if len(colors) == 0 {
		colors = Colors(len(rows))
	}

	values := numbers(rows, valueField, 0)
	slices := PieAngles(values)
	center := Point{X: vp.Width / 2, Y: vp.Height / 2}
	radius := math.Max(math.Min(vp.Width, vp.Height)/2-pieMargin, 0)

	for i, s := range slices {
		color := colorAt(colors, i, Palette[0])
		wedge := Wedge{Center: center, R: radius, Start: s.Start, Sweep: s.Sweep, Style: Style{Fill: color, Stroke: white, StrokeWidth: 1}}
		b.shape(wedge)

		mid := s.Start + s.Sweep/2
		hover := Hover{Opacity: 0.8, Offset: Point{X: math.Cos(mid) * pieHoverOffset, Y: math.Sin(mid) * pieHoverOffset}}
		label := models.Text(rows[i][labelField])
		b.region(wedge, fmt.Sprintf("%s: %s (%.1f%%)", label, models.Text(rows[i][valueField]), s.Share*100), hover)

		if s.Share > pieLabelShare {
			b.label(Label{At: wedge.Mid(0.7), Text: fmt.Sprintf("%.0f%%", s.Share*100), Anchor: AnchorMiddle, Color: white, Bold: true})
		}
	}

	legendX := vp.Width - 100
	for i, row := range rows {
		color := colorAt(colors, i, Palette[0])
		y := pieMargin + float64(i)*20
		b.shape(Rect{X: legendX, Y: y, Width: 12, Height: 12, Radius: 2, Style: Style{Fill: color}})
		b.label(Label{At: Point{legendX + 16, y + 10}, Text: models.Text(row[labelField]), Color: strongText})
		b.scene.Legend = append(b.scene.Legend, LegendItem{Label: models.Text(row[labelField]), Color: color})
	}
	return b.build()
}

// PieSlice is the angular extent of one value, in radians clockwise from 3 o'clock.
type PieSlice struct {
	Start float64
	Sweep float64
	Share float64
}

// PieAngles partitions the full circle among values in proportion, starting at 12 o'clock.
// Negative values count as zero. A zero total yields zero-width slices.
func PieAngles(values []float64) []PieSlice {
	total := 0.0
	for _, v := range values {
		total += math.Max(v, 0)
	}
	if total == 0 {
		total = 1
	}
	slices := make([]PieSlice, len(values))
	angle := -math.Pi / 2
	for i, v := range values {
		share := math.Max(v, 0) / total
		slices[i] = PieSlice{Start: angle, Sweep: share * 2 * math.Pi, Share: share}
		angle += slices[i].Sweep
	}
	return slices
}
