package plot

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pivolan/genbi/domain/models"
)

type htmlChart interface {
	Render(w io.Writer) error
}

// EChartsHTML writes an interactive HTML page for a chart. It uses the same field
// defaults and coercions as the scene renderers.
func EChartsHTML(data models.ChartData, vp Viewport, w io.Writer) error {
	cfg := data.ChartConfig
	vp = ResolveViewport(vp, cfg)
	initOpts := charts.WithInitializationOpts(opts.Initialization{
		PageTitle: cfg.Title,
		Width:     fmt.Sprintf("%dpx", int(vp.Width)),
		Height:    fmt.Sprintf("%dpx", int(vp.Height)),
	})
	titleOpts := charts.WithTitleOpts(opts.Title{Title: cfg.Title})
	rows := data.Data

	var chart htmlChart
	switch cfg.Type {
	case models.KindBar:
		xField, yField := fieldOr(cfg.XAxis, "x"), fieldOr(cfg.YAxis, "y")
		bar := charts.NewBar()
		bar.SetGlobalOptions(initOpts, titleOpts)
		items := make([]opts.BarData, len(rows))
		for i, v := range numbers(rows, yField, 0) {
			items[i] = opts.BarData{Name: models.Text(rows[i][xField]), Value: v}
		}
		bar.SetXAxis(textColumn(rows, xField)).AddSeries(yField, items)
		chart = bar
	case models.KindLine:
		xField, yField := fieldOr(cfg.XAxis, "x"), fieldOr(cfg.YAxis, "y")
		line := charts.NewLine()
		line.SetGlobalOptions(initOpts, titleOpts)
		items := make([]opts.LineData, len(rows))
		for i, v := range numbers(rows, yField, 0) {
			items[i] = opts.LineData{Value: v}
		}
		line.SetXAxis(textColumn(rows, xField)).AddSeries(yField, items)
		chart = line
	case models.KindPie:
		valueField := "value"
		if len(cfg.Series) > 0 && cfg.Series[0] != "" {
			valueField = cfg.Series[0]
		}
		labelField := fieldOr(cfg.XAxis, "label")
		pie := charts.NewPie()
		pie.SetGlobalOptions(initOpts, titleOpts)
		items := make([]opts.PieData, len(rows))
		for i, v := range numbers(rows, valueField, 0) {
			items[i] = opts.PieData{Name: models.Text(rows[i][labelField]), Value: v}
		}
		pie.AddSeries(valueField, items)
		chart = pie
	case models.KindScatter, models.KindBubble:
		xField, yField := fieldOr(cfg.XAxis, "x"), fieldOr(cfg.YAxis, "y")
		scatter := charts.NewScatter()
		scatter.SetGlobalOptions(initOpts, titleOpts,
			charts.WithXAxisOpts(opts.XAxis{Name: xField, Type: "value"}),
			charts.WithYAxisOpts(opts.YAxis{Name: yField, Type: "value"}),
		)
		xs, ys := numbers(rows, xField, 0), numbers(rows, yField, 0)
		items := make([]opts.ScatterData, len(rows))
		sizeField := fieldOr(cfg.SizeAxis, "size")
		sizeMin, sizeMax := MinMax(numbers(rows, sizeField, 1))
		for i := range rows {
			size := pointRadius * 2
			if cfg.Type == models.KindBubble {
				size = int(2 * BubbleRadius(models.NumberOr(rows[i][sizeField], sizeMin), sizeMin, sizeMax))
			}
			items[i] = opts.ScatterData{Value: []float64{xs[i], ys[i]}, SymbolSize: size}
			if cfg.LabelAxis != "" {
				items[i].Name = models.Text(rows[i][cfg.LabelAxis])
			}
		}
		scatter.AddSeries(yField, items)
		chart = scatter
	case models.KindHistogram:
		valueField := fieldOr(cfg.ValueField, "value")
		bar := charts.NewBar()
		bar.SetGlobalOptions(initOpts, titleOpts)
		bins := Histogram(numbers(rows, valueField, 0), cfg.Bins)
		labels := make([]string, len(bins))
		items := make([]opts.BarData, len(bins))
		for i, bin := range bins {
			labels[i] = formatFixed1(bin.Start) + "-" + formatFixed1(bin.End)
			items[i] = opts.BarData{Name: labels[i], Value: bin.Count}
		}
		bar.SetXAxis(labels).AddSeries("Frequency", items)
		chart = bar
	default:
		return fmt.Errorf("%w: %q", models.ErrUnsupportedKind, cfg.Type)
	}
	return chart.Render(w)
}

func textColumn(rows []models.Row, field string) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = models.Text(row[field])
	}
	return out
}
