package plot

import (
	"fmt"

	"github.com/pivolan/genbi/domain/models"
)

const (
	pointRadius      = 6
	pointHoverRadius = 8
	pointOpacity     = 0.7
	bubbleMinRadius  = 5
	bubbleMaxRadius  = 30
)

// Scatter places each row at its normalized (x, y) position.
func Scatter(rows []models.Row, cfg models.ChartConfig, vp Viewport) Scene {
	if len(rows) == 0 {
		return emptyScene(models.KindScatter, vp, cfg.Title)
	}
	b := newScene(models.KindScatter, vp, cfg.Title)
	xField := fieldOr(cfg.XAxis, "x")
	yField := fieldOr(cfg.YAxis, "y")
	color := colorAt(cfg.Colors, 0, Palette[0])

	plane := newPlane(rows, xField, yField, newPlotArea(vp, axisPadding))
	for i, p := range plane.points {
		dot := Circle{Center: p, R: pointRadius, Style: Style{Fill: color, Opacity: pointOpacity}}
		b.shape(dot)
		tip := fmt.Sprintf("%s: %s, %s: %s", xField, models.Text(rows[i][xField]), yField, models.Text(rows[i][yField]))
		b.region(dot, tip, Hover{Radius: pointHoverRadius, Opacity: 1})
	}
	plane.axes(b, xField, yField)
	return b.build()
}

// Bubble is a scatter plot whose marker radius encodes a third field.
func Bubble(rows []models.Row, cfg models.ChartConfig, vp Viewport) Scene {
	if len(rows) == 0 {
		return emptyScene(models.KindBubble, vp, cfg.Title)
	}
	b := newScene(models.KindBubble, vp, cfg.Title)
	xField := fieldOr(cfg.XAxis, "x")
	yField := fieldOr(cfg.YAxis, "y")
	sizeField := fieldOr(cfg.SizeAxis, "size")
	color := colorAt(cfg.Colors, 0, Palette[0])

	a := newPlotArea(vp, axisPadding)
	plane := newPlane(rows, xField, yField, a)
	sizeMin, sizeMax := MinMax(numbers(rows, sizeField, 1))

	for i, p := range plane.points {
		size := models.NumberOr(rows[i][sizeField], sizeMin)
		r := BubbleRadius(size, sizeMin, sizeMax)
		bubble := Circle{Center: p, R: r, Style: Style{Fill: color, Opacity: pointOpacity}}
		b.shape(bubble)
		tip := fmt.Sprintf("%s: %s, %s: %s, %s: %s", xField, models.Text(rows[i][xField]), yField, models.Text(rows[i][yField]), sizeField, models.Text(rows[i][sizeField]))
		b.region(bubble, tip, Hover{Opacity: 1})
		if cfg.LabelAxis != "" {
			b.label(Label{At: Point{p.X, p.Y - r - 5}, Text: models.Text(rows[i][cfg.LabelAxis]), Anchor: AnchorMiddle, Color: strongText})
		}
	}
	plane.axes(b, xField, yField)

	legendX := vp.Width - 100
	top := axisPadding.Top
	b.label(Label{At: Point{legendX, top}, Text: sizeField + " scale", Color: strongText})
	b.shape(Circle{Center: Point{legendX + 10, top + 30}, R: bubbleMinRadius, Style: Style{Fill: color, Opacity: pointOpacity}})
	b.label(Label{At: Point{legendX + 45, top + 34}, Text: FormatNumber(sizeMin)})
	b.shape(Circle{Center: Point{legendX + 10, top + 70}, R: bubbleMaxRadius, Style: Style{Fill: color, Opacity: pointOpacity}})
	b.label(Label{At: Point{legendX + 45, top + 74}, Text: FormatNumber(sizeMax)})
	b.scene.Legend = []LegendItem{
		{Label: FormatNumber(sizeMin), Color: color},
		{Label: FormatNumber(sizeMax), Color: color},
	}
	return b.build()
}

// BubbleRadius maps size from [sizeMin, sizeMax] onto the bubble radius range [5, 30].
func BubbleRadius(size, sizeMin, sizeMax float64) float64 {
	r := bubbleMinRadius + Normalize(size, sizeMin, sizeMax, bubbleMaxRadius-bubbleMinRadius)
	switch {
	case r < bubbleMinRadius:
		return bubbleMinRadius
	case r > bubbleMaxRadius:
		return bubbleMaxRadius
	}
	return r
}

// plane is a two-dimensional continuous coordinate system over a plot area.
type plane struct {
	area       plotArea
	xMin, xMax float64
	yMin, yMax float64
	points     []Point
}

func newPlane(rows []models.Row, xField, yField string, a plotArea) plane {
	xs := numbers(rows, xField, 0)
	ys := numbers(rows, yField, 0)
	p := plane{area: a, points: make([]Point, len(rows))}
	p.xMin, p.xMax = MinMax(xs)
	p.yMin, p.yMax = MinMax(ys)
	for i := range rows {
		p.points[i] = Point{
			X: a.left + Normalize(xs[i], p.xMin, p.xMax, a.width),
			Y: a.bottom() - Normalize(ys[i], p.yMin, p.yMax, a.height),
		}
	}
	return p
}

func (p plane) axes(b *sceneBuilder, xName, yName string) {
	a := p.area
	b.valueAxis(a, p.yMin, p.yMax, FormatNumber)
	b.baseline(a)
	for _, t := range Ticks(p.xMin, p.xMax, a.width, tickCount) {
		x := a.left + t.Offset
		b.shape(Line{From: Point{x, a.bottom()}, To: Point{x, a.bottom() + 5}, Style: Style{Stroke: axisColor, StrokeWidth: 1}})
		b.shape(Line{From: Point{x, a.top}, To: Point{x, a.bottom()}, Style: Style{Stroke: gridColor, StrokeWidth: 1, Dash: []float64{4, 4}}})
		b.label(Label{At: Point{x, a.bottom() + 20}, Text: FormatNumber(t.Value), Anchor: AnchorMiddle})
	}
	b.axisTitles(a, xName, yName, 35)
}
