package plot

import (
	"fmt"
	"math"

	"github.com/pivolan/genbi/domain/models"
)

const lineLabelTicks = 6

// LineChart draws a polyline through the rows in order with a translucent area under it
// and a marker at every vertex.
func LineChart(rows []models.Row, cfg models.ChartConfig, vp Viewport) Scene {
	if len(rows) == 0 {
		return emptyScene(models.KindLine, vp, cfg.Title)
	}
	b := newScene(models.KindLine, vp, cfg.Title)
	xField := fieldOr(cfg.XAxis, "x")
	yField := fieldOr(cfg.YAxis, "y")
	color := colorAt(cfg.Colors, 0, Palette[1])

	values := numbers(rows, yField, 0)
	_, max := MinMax(values)
	a := newPlotArea(vp, axisPadding)

	points := make([]Point, len(rows))
	for i, v := range values {
		points[i] = Point{X: a.left + linePosition(i, len(rows))*a.width, Y: a.bottom() - Ratio(v, max)*a.height}
	}

	area := make([]Point, 0, len(points)+2)
	area = append(area, points...)
	area = append(area, Point{a.right(), a.bottom()}, Point{a.left, a.bottom()})
	b.shape(Path{Points: area, Closed: true, Style: Style{Fill: color, FillOpacity: 0.1}})
	b.shape(Path{Points: points, Style: Style{Stroke: color, StrokeWidth: 2}})

	every := int(math.Ceil(float64(len(rows)) / lineLabelTicks))
	for i, p := range points {
		marker := Circle{Center: p, R: 4, Style: Style{Fill: white, Stroke: color, StrokeWidth: 2}}
		b.shape(marker)
		b.region(marker, fmt.Sprintf("%s: %s", models.Text(rows[i][xField]), models.Text(rows[i][yField])), Hover{Radius: 6})
		if i == 0 || i == len(points)-1 || i%every == 0 {
			b.label(Label{At: Point{p.X, a.bottom() + 20}, Text: models.Text(rows[i][xField]), Anchor: AnchorMiddle})
		}
	}
	b.valueAxis(a, 0, max, FormatNumber)
	b.baseline(a)
	return b.build()
}

// linePosition is the fraction of the x extent for vertex i of n. A single vertex sits at 0.
func linePosition(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}
