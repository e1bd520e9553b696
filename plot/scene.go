package plot

import (
	"math"

	"github.com/pivolan/genbi/domain/models"
)

// Point is a position in viewport pixels, y growing downwards.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Style is how a shape is painted. Empty colors are not painted.
type Style struct {
	Fill        string    `json:"fill,omitempty"`
	FillOpacity float64   `json:"fillOpacity,omitempty"`
	Stroke      string    `json:"stroke,omitempty"`
	StrokeWidth float64   `json:"strokeWidth,omitempty"`
	Dash        []float64 `json:"dash,omitempty"`
	Opacity     float64   `json:"opacity,omitempty"`
}

// Shape is one drawable primitive of a scene.
type Shape interface {
	// Contains reports whether p lies inside the shape, for hover hit-testing.
	Contains(p Point) bool
}

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Radius float64 `json:"radius,omitempty"`
	Style  Style   `json:"style"`
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

type Line struct {
	From  Point `json:"from"`
	To    Point `json:"to"`
	Style Style `json:"style"`
}

func (Line) Contains(Point) bool { return false }

// Path is a polyline, closed into a polygon when Closed is set.
type Path struct {
	Points []Point `json:"points"`
	Closed bool    `json:"closed,omitempty"`
	Style  Style   `json:"style"`
}

func (p Path) Contains(pt Point) bool {
	if !p.Closed || len(p.Points) < 3 {
		return false
	}
	inside := false
	for i, j := 0, len(p.Points)-1; i < len(p.Points); j, i = i, i+1 {
		a, b := p.Points[i], p.Points[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) && pt.X < (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

type Circle struct {
	Center Point   `json:"center"`
	R      float64 `json:"r"`
	Style  Style   `json:"style"`
}

func (c Circle) Contains(p Point) bool {
	return math.Hypot(p.X-c.Center.X, p.Y-c.Center.Y) <= c.R
}

// Wedge is a pie slice. Angles are radians measured clockwise from 3 o'clock.
type Wedge struct {
	Center Point   `json:"center"`
	R      float64 `json:"r"`
	Start  float64 `json:"start"`
	Sweep  float64 `json:"sweep"`
	Style  Style   `json:"style"`
}

func (w Wedge) Contains(p Point) bool {
	dx, dy := p.X-w.Center.X, p.Y-w.Center.Y
	if w.Sweep <= 0 || math.Hypot(dx, dy) > w.R {
		return false
	}
	a := math.Mod(math.Atan2(dy, dx)-w.Start, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a <= w.Sweep
}

// Mid is the point at fraction f of the radius along the wedge bisector.
func (w Wedge) Mid(f float64) Point {
	a := w.Start + w.Sweep/2
	return Point{X: w.Center.X + w.R*f*math.Cos(a), Y: w.Center.Y + w.R*f*math.Sin(a)}
}

type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Label is a piece of text. Rotation is in degrees around the anchor point.
type Label struct {
	At       Point   `json:"at"`
	Text     string  `json:"text"`
	Anchor   Anchor  `json:"anchor"`
	Size     float64 `json:"size"`
	Color    string  `json:"color"`
	Rotation float64 `json:"rotation,omitempty"`
	Bold     bool    `json:"bold,omitempty"`
}

// Hover describes how a region reacts while the pointer is over it.
type Hover struct {
	Radius  float64 `json:"radius,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
	Offset  Point   `json:"offset"`
}

// Region is an interactive area. The tooltip follows the pointer while it is
// inside Target and disappears when it leaves.
type Region struct {
	Target  Shape  `json:"target"`
	Tooltip string `json:"tooltip"`
	Hover   Hover  `json:"hover"`
}

type LegendItem struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Scene is the complete, immutable description of a rendered chart.
type Scene struct {
	Kind        models.ChartKind `json:"kind"`
	Width       float64          `json:"width"`
	Height      float64          `json:"height"`
	Title       string           `json:"title,omitempty"`
	Shapes      []Shape          `json:"shapes"`
	Labels      []Label          `json:"labels"`
	Regions     []Region         `json:"regions"`
	Legend      []LegendItem     `json:"legend,omitempty"`
	Placeholder string           `json:"placeholder,omitempty"`
}

// Empty reports whether the scene draws nothing.
func (s Scene) Empty() bool {
	return len(s.Shapes) == 0 && len(s.Labels) == 0 && s.Placeholder == ""
}

// TooltipAt returns the tooltip of the topmost region under p.
func (s Scene) TooltipAt(p Point) (Region, bool) {
	for i := len(s.Regions) - 1; i >= 0; i-- {
		if s.Regions[i].Target.Contains(p) {
			return s.Regions[i], true
		}
	}
	return Region{}, false
}

// emptyScene is what every renderer returns for an empty row set.
func emptyScene(kind models.ChartKind, vp Viewport, title string) Scene {
	return Scene{Kind: kind, Width: vp.Width, Height: vp.Height, Title: title}
}

// sceneBuilder accumulates primitives in paint order.
type sceneBuilder struct {
	scene Scene
}

func newScene(kind models.ChartKind, vp Viewport, title string) *sceneBuilder {
	b := &sceneBuilder{scene: Scene{Kind: kind, Width: vp.Width, Height: vp.Height, Title: title}}
	if title != "" {
		b.label(Label{At: Point{X: vp.Width / 2, Y: 20}, Text: title, Anchor: AnchorMiddle, Size: 14, Color: titleText, Bold: true})
	}
	return b
}

func (b *sceneBuilder) shape(s Shape) {
	b.scene.Shapes = append(b.scene.Shapes, s)
}

func (b *sceneBuilder) label(l Label) {
	if l.Size == 0 {
		l.Size = 12
	}
	if l.Color == "" {
		l.Color = mutedText
	}
	if l.Anchor == "" {
		l.Anchor = AnchorStart
	}
	b.scene.Labels = append(b.scene.Labels, l)
}

func (b *sceneBuilder) region(target Shape, tooltip string, hover Hover) {
	b.scene.Regions = append(b.scene.Regions, Region{Target: target, Tooltip: tooltip, Hover: hover})
}

func (b *sceneBuilder) build() Scene {
	return b.scene
}

// valueAxis draws the left axis with gridlines and tick labels for [min, max].
func (b *sceneBuilder) valueAxis(a plotArea, min, max float64, format func(float64) string) {
	b.shape(Line{From: Point{a.left, a.top}, To: Point{a.left, a.bottom()}, Style: Style{Stroke: axisColor, StrokeWidth: 1}})
	for _, t := range Ticks(min, max, a.height, tickCount) {
		y := a.bottom() - t.Offset
		b.shape(Line{From: Point{a.left, y}, To: Point{a.left - 5, y}, Style: Style{Stroke: axisColor, StrokeWidth: 1}})
		b.shape(Line{From: Point{a.left, y}, To: Point{a.right(), y}, Style: Style{Stroke: gridColor, StrokeWidth: 1, Dash: []float64{4, 4}}})
		b.label(Label{At: Point{a.left - 10, y + 4}, Text: format(t.Value), Anchor: AnchorEnd})
	}
}

func (b *sceneBuilder) baseline(a plotArea) {
	b.shape(Line{From: Point{a.left, a.bottom()}, To: Point{a.right(), a.bottom()}, Style: Style{Stroke: axisColor, StrokeWidth: 1}})
}

// axisTitles labels the horizontal axis below the plot and the vertical axis rotated on the left.
func (b *sceneBuilder) axisTitles(a plotArea, x, y string, below float64) {
	if x != "" {
		b.label(Label{At: Point{a.left + a.width/2, a.bottom() + below}, Text: x, Anchor: AnchorMiddle, Size: 13, Color: strongText})
	}
	if y != "" {
		b.label(Label{At: Point{a.left - 35, a.top + a.height/2}, Text: y, Anchor: AnchorMiddle, Size: 13, Color: strongText, Rotation: -90})
	}
}
