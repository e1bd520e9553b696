package plot

import (
	"fmt"
	"math"

	"github.com/pivolan/genbi/domain/models"
)

// Renderer turns rows and a chart config into a scene. Renderers never modify their inputs.
type Renderer func(rows []models.Row, cfg models.ChartConfig, vp Viewport) Scene

var renderers = map[models.ChartKind]Renderer{
	models.KindBar:       Bar,
	models.KindLine:      LineChart,
	models.KindPie:       Pie,
	models.KindScatter:   Scatter,
	models.KindBubble:    Bubble,
	models.KindHistogram: HistogramChart,
}

// MaxViewportSide caps a resolved viewport's width and height.
const MaxViewportSide = 4096

// DefaultViewport is used when neither the caller nor the config gives a size.
var DefaultViewport = Viewport{Width: 800, Height: 400}

// Render draws rows as the given chart kind. Table kinds are not charts and return
// models.ErrUnsupportedKind like any unknown kind.
func Render(kind models.ChartKind, rows []models.Row, cfg models.ChartConfig, vp Viewport) (Scene, error) {
	render, ok := renderers[kind]
	if !ok {
		return Scene{}, fmt.Errorf("%w: %q", models.ErrUnsupportedKind, kind)
	}
	return render(rows, cfg, ResolveViewport(vp, cfg)), nil
}

// ResolveViewport fills a zero viewport from the config size hints, then from DefaultViewport.
func ResolveViewport(vp Viewport, cfg models.ChartConfig) Viewport {
	if vp.Width <= 0 {
		vp.Width = float64(cfg.Width)
	}
	if vp.Height <= 0 {
		vp.Height = float64(cfg.Height)
	}
	if vp.Width <= 0 {
		vp.Width = DefaultViewport.Width
	}
	if vp.Height <= 0 {
		vp.Height = DefaultViewport.Height
	}
	vp.Width = math.Min(vp.Width, MaxViewportSide)
	vp.Height = math.Min(vp.Height, MaxViewportSide)
	return vp
}

// Unsupported is the placeholder scene shown for a chart type nothing can draw.
func Unsupported(kind string, vp Viewport) Scene {
	return Scene{
		Kind:        models.ChartKind(kind),
		Width:       vp.Width,
		Height:      vp.Height,
		Placeholder: fmt.Sprintf("Unsupported chart type: %s", kind),
		Labels: []Label{{
			At:     Point{X: vp.Width / 2, Y: vp.Height / 2},
			Text:   fmt.Sprintf("Unsupported chart type: %s", kind),
			Anchor: AnchorMiddle,
			Size:   14,
			Color:  mutedText,
		}},
	}
}
