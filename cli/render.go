package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pivolan/genbi/domain/models"
	"github.com/pivolan/genbi/plot"
	"github.com/pivolan/genbi/tables"
	"github.com/pivolan/genbi/view"
)

func newRenderCmd() *cobra.Command {
	var (
		kind   string
		format string
		out    string
		width  float64
		height float64
	)
	cmd := &cobra.Command{
		Use:   "render <chart.yaml|chart.json>",
		Short: "Render a chart or table from a ChartData document",
		Long: `Render reads {chartConfig, data} from YAML or JSON and draws it.
Charts render as png, svg or html; tables as text, markdown or html. Any kind exports csv.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loadChartData(args[0])
			if err != nil {
				return err
			}
			c := view.New(data)
			if kind != "" {
				if err := c.Switch(models.ChartKind(kind)); err != nil {
					return err
				}
			}
			body, err := render(c, plot.Viewport{Width: width, Height: height}, format)
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			return os.WriteFile(out, body, 0o644)
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Switch to another available chart kind")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (default png for charts, text for tables)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().Float64Var(&width, "width", 0, "Viewport width")
	cmd.Flags().Float64Var(&height, "height", 0, "Viewport height")
	return cmd
}

func newKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds <chart.yaml|chart.json>",
		Short: "List the chart kinds available for a ChartData document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loadChartData(args[0])
			if err != nil {
				return err
			}
			for _, k := range view.New(data).Kinds() {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}

func render(c *view.Container, vp plot.Viewport, format string) ([]byte, error) {
	if format == "csv" {
		d := c.Data()
		s, err := tables.ToCSV(d.Data, tables.Columns(d.Data, d.ChartConfig)...)
		return []byte(s), err
	}
	v := c.Render(vp)
	if v.Scene == nil {
		switch format {
		case "", "text":
			s, err := v.Text(tables.OutputText)
			return []byte(s + "\n"), err
		case "markdown", "md":
			s, err := v.Text(tables.OutputMarkdown)
			return []byte(s + "\n"), err
		case "html":
			s, err := v.Text(tables.OutputHTML)
			return []byte(s), err
		}
		return nil, models.ErrValidation("Unknown format %q for %s", format, v.Kind)
	}
	switch format {
	case "", "png":
		return v.Image(plot.FormatPNG)
	case "svg":
		return v.Image(plot.FormatSVG)
	case "html":
		var buf bytes.Buffer
		err := plot.EChartsHTML(c.Data(), plot.ResolveViewport(vp, c.Config()), &buf)
		return buf.Bytes(), err
	case "json":
		return json.MarshalIndent(v.Scene, "", "  ")
	}
	return nil, models.ErrValidation("Unknown format %q for %s", format, v.Kind)
}

// loadChartData reads a ChartData document. Files ending in .json are decoded as JSON,
// anything else as YAML.
func loadChartData(path string) (models.ChartData, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.ChartData{}, err
	}
	defer f.Close()

	var data models.ChartData
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.NewDecoder(f).Decode(&data)
	} else {
		err = yaml.NewDecoder(f).Decode(&data)
		normalizeRows(data.Data)
	}
	if err != nil && err != io.EOF {
		return models.ChartData{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return data, nil
}

// normalizeRows turns YAML integers into float64 so rows match what JSON decoding yields.
func normalizeRows(rows []models.Row) {
	for _, row := range rows {
		for k, v := range row {
			switch x := v.(type) {
			case int:
				row[k] = float64(x)
			case int64:
				row[k] = float64(x)
			case uint64:
				row[k] = float64(x)
			}
		}
	}
}
