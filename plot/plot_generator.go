package plot

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format is an output image format for DrawScene.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// DrawScene paints a scene onto a go-chart renderer and returns the encoded image.
func DrawScene(s Scene, format Format) ([]byte, error) {
	provider := chart.PNG
	if format == FormatSVG {
		provider = chart.SVG
	}
	width, height := int(math.Max(s.Width, 1)), int(math.Max(s.Height, 1))
	r, err := provider(width, height)
	if err != nil {
		return nil, fmt.Errorf("error creating renderer: %v", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("error loading font: %v", err)
	}
	r.SetFont(font)

	r.SetFillColor(drawing.ColorWhite)
	r.SetStrokeColor(drawing.ColorTransparent)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()

	for _, shape := range s.Shapes {
		drawShape(r, shape)
	}
	for _, label := range s.Labels {
		drawLabel(r, label)
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, fmt.Errorf("error rendering chart: %v", err)
	}
	return buffer.Bytes(), nil
}

func drawShape(r chart.Renderer, shape Shape) {
	r.ResetStyle()
	switch sh := shape.(type) {
	case Rect:
		if sh.Height <= 0 || sh.Width <= 0 {
			return
		}
		applyStyle(r, sh.Style)
		x0, y0 := px(sh.X), px(sh.Y)
		x1, y1 := px(sh.X+sh.Width), px(sh.Y+sh.Height)
		r.MoveTo(x0, y0)
		r.LineTo(x1, y0)
		r.LineTo(x1, y1)
		r.LineTo(x0, y1)
		r.Close()
		paint(r, sh.Style)
	case Line:
		applyStyle(r, sh.Style)
		r.MoveTo(px(sh.From.X), px(sh.From.Y))
		r.LineTo(px(sh.To.X), px(sh.To.Y))
		r.Stroke()
	case Path:
		if len(sh.Points) == 0 {
			return
		}
		applyStyle(r, sh.Style)
		r.MoveTo(px(sh.Points[0].X), px(sh.Points[0].Y))
		for _, p := range sh.Points[1:] {
			r.LineTo(px(p.X), px(p.Y))
		}
		if sh.Closed {
			r.Close()
		}
		paint(r, sh.Style)
	case Circle:
		applyStyle(r, sh.Style)
		r.Circle(sh.R, px(sh.Center.X), px(sh.Center.Y))
		paint(r, sh.Style)
	case Wedge:
		if sh.Sweep <= 0 {
			return
		}
		applyStyle(r, sh.Style)
		cx, cy := px(sh.Center.X), px(sh.Center.Y)
		r.MoveTo(cx, cy)
		r.ArcTo(cx, cy, sh.R, sh.R, sh.Start, sh.Sweep)
		r.LineTo(cx, cy)
		r.Close()
		paint(r, sh.Style)
	}
}

func applyStyle(r chart.Renderer, st Style) {
	opacity := st.Opacity
	if opacity == 0 {
		opacity = 1
	}
	fillOpacity := st.FillOpacity
	if fillOpacity == 0 {
		fillOpacity = 1
	}
	r.SetFillColor(parseColor(st.Fill, opacity*fillOpacity))
	r.SetStrokeColor(parseColor(st.Stroke, opacity))
	r.SetStrokeWidth(st.StrokeWidth)
	r.SetStrokeDashArray(st.Dash)
}

func paint(r chart.Renderer, st Style) {
	switch {
	case st.Fill != "" && st.Stroke != "":
		r.FillStroke()
	case st.Fill != "":
		r.Fill()
	default:
		r.Stroke()
	}
}

func drawLabel(r chart.Renderer, l Label) {
	if l.Text == "" {
		return
	}
	r.ResetStyle()
	r.SetFontSize(l.Size)
	r.SetFontColor(parseColor(l.Color, 1))
	width := float64(r.MeasureText(l.Text).Width())

	shift := 0.0
	switch l.Anchor {
	case AnchorMiddle:
		shift = width / 2
	case AnchorEnd:
		shift = width
	}
	theta := chart.DegreesToRadians(l.Rotation)
	x := l.At.X - shift*math.Cos(theta)
	y := l.At.Y - shift*math.Sin(theta)
	if l.Rotation != 0 {
		r.SetTextRotation(theta)
		defer r.ClearTextRotation()
	}
	for i, line := range strings.Split(l.Text, "\n") {
		r.Text(line, px(x), px(y+float64(i)*l.Size*1.2))
	}
}

// parseColor turns a CSS color into a drawing color. Empty means transparent and
// malformed hex falls back to the first palette color.
func parseColor(css string, opacity float64) drawing.Color {
	if css == "" {
		return drawing.ColorTransparent
	}
	if strings.HasPrefix(css, "#") && len(css) != 4 && len(css) != 7 {
		css = Palette[0]
	}
	c := drawing.ParseColor(css)
	if opacity < 1 {
		c = c.WithAlpha(uint8(math.Round(float64(c.A) * opacity)))
	}
	return c
}

func px(v float64) int {
	return int(math.Round(v))
}
