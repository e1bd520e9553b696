package tables

import (
	"bytes"
	"encoding/csv"
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"

	"github.com/pivolan/genbi/domain/models"
)

// ToCSV writes a header line and one line per row. Columns default to the fields of the
// first row sorted by name. Fields containing commas, quotes or line breaks are quoted
// with embedded quotes doubled. Null cells are empty.
func ToCSV(rows []models.Row, columns ...string) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}
	if len(columns) == 0 {
		columns = Columns(rows, models.ChartConfig{})
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return "", err
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, c := range columns {
			record[i] = models.Text(row[c])
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// FileName turns a chart or dataset name into an ASCII file name with the given extension.
func FileName(name, ext string) string {
	slug := strings.ToLower(unidecode.Unidecode(name))
	slug = strings.Trim(nonSlug.ReplaceAllString(slug, "-"), "-")
	if slug == "" {
		slug = "data"
	}
	return slug + "." + ext
}
