package plot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/genbi/domain/models"
)

var monthlyRevenue = []models.Row{
	{"month": "Jan", "revenue": 100.0, "cost": 40.0, "units": 3.0},
	{"month": "Feb", "revenue": 200.0, "cost": 90.0, "units": 5.0},
	{"month": "Mar", "revenue": 150.0, "cost": 60.0, "units": 4.0},
}

func TestDrawScenePNG(t *testing.T) {
	scene := Bar(monthlyRevenue, models.ChartConfig{Title: "Revenue", XAxis: "month", YAxis: "revenue"}, Viewport{Width: 400, Height: 300})

	b, err := DrawScene(scene, FormatPNG)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("\x89PNG")))
}

func TestDrawSceneSVG(t *testing.T) {
	rows := []models.Row{{"label": "A", "value": 3.0}, {"label": "B", "value": 1.0}}
	scene := Pie(rows, models.ChartConfig{Title: "Share"}, Viewport{Width: 400, Height: 300})

	b, err := DrawScene(scene, FormatSVG)
	require.NoError(t, err)
	assert.Contains(t, string(b), "<svg")
}

func TestDrawSceneEveryKind(t *testing.T) {
	cfg := models.ChartConfig{XAxis: "revenue", YAxis: "cost", SizeAxis: "units", ValueField: "revenue", Series: []string{"revenue"}}
	for kind := range renderers {
		t.Run(string(kind), func(t *testing.T) {
			scene, err := Render(kind, monthlyRevenue, cfg.WithType(kind), Viewport{Width: 500, Height: 320})
			require.NoError(t, err)
			_, err = DrawScene(scene, FormatPNG)
			assert.NoError(t, err)
		})
	}
}

func TestDrawEmptyScene(t *testing.T) {
	b, err := DrawScene(Bar(nil, models.ChartConfig{}, Viewport{Width: 100, Height: 100}), FormatSVG)
	require.NoError(t, err)
	assert.NotEmpty(t, b)
}

func TestParseColor(t *testing.T) {
	c := parseColor("#4F46E5", 1)
	assert.Equal(t, uint8(0x4F), c.R)
	assert.Equal(t, uint8(255), c.A)

	half := parseColor("#ffffff", 0.5)
	assert.Equal(t, uint8(128), half.A)

	assert.Equal(t, uint8(0), parseColor("", 1).A)
	assert.Equal(t, parseColor(Palette[0], 1), parseColor("#12345", 1))
}

func TestEChartsHTML(t *testing.T) {
	kinds := []models.ChartKind{models.KindBar, models.KindLine, models.KindPie, models.KindScatter, models.KindBubble, models.KindHistogram}
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			data := models.ChartData{
				ChartConfig: models.ChartConfig{Type: kind, Title: "Revenue", XAxis: "month", YAxis: "revenue", ValueField: "revenue"},
				Data:        monthlyRevenue,
			}
			var buf strings.Builder
			require.NoError(t, EChartsHTML(data, Viewport{}, &buf))
			assert.Contains(t, buf.String(), "echarts")
		})
	}
}

func TestEChartsHTMLUnsupported(t *testing.T) {
	var buf strings.Builder
	err := EChartsHTML(models.ChartData{ChartConfig: models.ChartConfig{Type: models.KindPivot}}, Viewport{}, &buf)
	assert.ErrorIs(t, err, models.ErrUnsupportedKind)
}
