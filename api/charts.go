package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pivolan/genbi/domain/models"
	"github.com/pivolan/genbi/plot"
	"github.com/pivolan/genbi/tables"
	"github.com/pivolan/genbi/view"
)

// handleRender draws the posted ChartData. Query parameters: kind switches the chart
// type, width and height set the viewport, format picks png, svg, json or html for
// charts and html, markdown or text for tables.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var data models.ChartData
	if err := decodeJSON(r, &data); err != nil {
		s.writeError(w, r, err)
		return
	}
	c := view.New(data)
	q := r.URL.Query()
	if kind := q.Get("kind"); kind != "" {
		if err := c.Switch(models.ChartKind(kind)); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	vp := plot.Viewport{Width: queryFloat(r, "width"), Height: queryFloat(r, "height")}
	v := c.Render(vp)

	format := q.Get("format")
	if v.Scene == nil {
		s.writeTable(w, r, v, format)
		return
	}
	switch format {
	case "", "png", "svg":
		if format == "" {
			format = "png"
		}
		img, err := v.Image(plot.Format(format))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		contentType := "image/png"
		if format == "svg" {
			contentType = "image/svg+xml"
		}
		w.Header().Set("Content-Type", contentType)
		w.Write(img)
	case "json":
		writeJSON(w, http.StatusOK, v.Scene)
	case "html":
		var buf bytes.Buffer
		if err := plot.EChartsHTML(c.Data(), plot.ResolveViewport(vp, c.Config()), &buf); err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(buf.Bytes())
	default:
		s.writeError(w, r, models.ErrValidation("Unknown format %q", format))
	}
}

func (s *Server) writeTable(w http.ResponseWriter, r *http.Request, v view.View, format string) {
	out, contentType := tables.OutputHTML, "text/html; charset=utf-8"
	switch format {
	case "", "html":
	case "markdown", "md":
		out, contentType = tables.OutputMarkdown, "text/markdown; charset=utf-8"
	case "text":
		out, contentType = tables.OutputText, "text/plain; charset=utf-8"
	default:
		s.writeError(w, r, models.ErrValidation("Unknown format %q for %s", format, v.Kind))
		return
	}
	text, err := v.Text(out)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	fmt.Fprint(w, text)
}

func (s *Server) handleKinds(w http.ResponseWriter, r *http.Request) {
	var data models.ChartData
	if err := decodeJSON(r, &data); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"kinds": view.New(data).Kinds()})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	var data models.ChartData
	if err := decodeJSON(r, &data); err != nil {
		s.writeError(w, r, err)
		return
	}
	text, err := tables.ToCSV(data.Data, data.ChartConfig.Columns...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", tables.FileName(data.ChartConfig.Title, "csv")))
	fmt.Fprint(w, text)
}

func queryFloat(r *http.Request, key string) float64 {
	f, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}
