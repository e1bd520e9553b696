// Package view is the chart container: it decides which kinds a result can be shown as
// and hands the result to the matching chart or table renderer.
package view

import (
	"fmt"

	"github.com/pivolan/genbi/domain/models"
	"github.com/pivolan/genbi/plot"
	"github.com/pivolan/genbi/tables"
)

// Container holds one query or dataset result and the kind it is currently shown as.
type Container struct {
	data  models.ChartData
	kind  models.ChartKind
	kinds []models.ChartKind
}

// New wraps data, showing it as the kind its config asks for.
func New(data models.ChartData) *Container {
	return &Container{
		data:  data,
		kind:  data.ChartConfig.Type,
		kinds: plot.AvailableKinds(data.Data),
	}
}

// Kinds lists the kinds the data can be switched to.
func (c *Container) Kinds() []models.ChartKind {
	return append([]models.ChartKind(nil), c.kinds...)
}

func (c *Container) Kind() models.ChartKind { return c.kind }

// Supported reports whether the current kind is one the container can draw.
func (c *Container) Supported() bool {
	_, ok := models.ParseKind(string(c.kind))
	return ok
}

// Switch changes the kind the data is shown as. Rows and every other config field stay as they are.
func (c *Container) Switch(kind models.ChartKind) error {
	for _, k := range c.kinds {
		if k == kind {
			c.kind = kind
			return nil
		}
	}
	return models.ErrValidation("chart type %q is not available for this data", kind)
}

// Config is the data's chart config with the type replaced by the current kind.
func (c *Container) Config() models.ChartConfig {
	return c.data.ChartConfig.WithType(c.kind)
}

// Data returns the result with the current kind applied to its config.
func (c *Container) Data() models.ChartData {
	d := c.data
	d.ChartConfig = c.Config()
	return d
}

// Render builds the view for the current kind. Kinds nothing can draw get the
// unsupported placeholder scene.
func (c *Container) Render(vp plot.Viewport) View {
	cfg := c.Config()
	rows := c.data.Data
	v := View{Kind: c.kind}
	switch c.kind {
	case models.KindTable:
		v.Table = tables.NewTable(rows, cfg)
	case models.KindDataTable:
		v.DataTable = tables.NewDataTable(rows, cfg)
	case models.KindPivot:
		p := tables.BuildPivot(rows, cfg)
		v.Pivot = &p
	default:
		vp = plot.ResolveViewport(vp, cfg)
		scene, err := plot.Render(c.kind, rows, cfg, vp)
		if err != nil {
			scene = plot.Unsupported(string(c.kind), vp)
		}
		v.Scene = &scene
	}
	return v
}

// View is one rendered result: a scene for charts, or one of the table views.
type View struct {
	Kind      models.ChartKind
	Scene     *plot.Scene
	Table     *tables.Table
	DataTable *tables.DataTable
	Pivot     *tables.Pivot
}

// Unsupported reports whether the view is the placeholder for an unknown chart type.
func (v View) Unsupported() bool {
	return v.Scene != nil && v.Scene.Placeholder != ""
}

// Text renders a table view. Chart views return an error, they only draw as images.
func (v View) Text(out tables.Output) (string, error) {
	switch {
	case v.Table != nil:
		return v.Table.Render(out), nil
	case v.DataTable != nil:
		return v.DataTable.Render(out), nil
	case v.Pivot != nil:
		return v.Pivot.Render(out), nil
	}
	return "", fmt.Errorf("%s is a chart, not a table", v.Kind)
}

// Image draws a chart view. Table views return an error.
func (v View) Image(format plot.Format) ([]byte, error) {
	if v.Scene == nil {
		return nil, fmt.Errorf("%s is a table, not a chart", v.Kind)
	}
	return plot.DrawScene(*v.Scene, format)
}

// Validate checks a query service response: its chart type must be one the container knows.
func Validate(data models.ChartData) error {
	if _, ok := models.ParseKind(string(data.ChartConfig.Type)); !ok {
		return fmt.Errorf("%w: %q", models.ErrUnsupportedKind, data.ChartConfig.Type)
	}
	return nil
}
