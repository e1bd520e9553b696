package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pivolan/genbi/domain/models"
)

// ParseHeader reads column names from the first line of a file. Fields are comma
// separated and trimmed. Blank names become column_N and repeated names get a _N suffix.
func ParseHeader(line string) ([]string, error) {
	line = strings.TrimPrefix(strings.TrimRight(line, "\r"), "\ufeff")
	fields := splitFields(line)
	if len(fields) == 0 || (len(fields) == 1 && fields[0] == "") {
		return nil, models.ErrValidation("Invalid CSV header: the first line has no column names")
	}
	for i, f := range fields {
		if f == "" {
			fields[i] = columnName(i)
		}
	}
	return dedupeHeaders(fields), nil
}

// ParseLine zips one data line against the header. Missing trailing fields are empty
// strings, extra fields are dropped.
func ParseLine(line string, headers []string) models.Row {
	values := strings.Split(line, ",")
	row := make(models.Row, len(headers))
	for i, h := range headers {
		if i < len(values) {
			row[h] = ParseValue(values[i])
		} else {
			row[h] = ""
		}
	}
	return row
}

// ParseValue returns the field as a number when it parses as a finite one, otherwise
// as the trimmed text. Empty fields stay empty strings.
func ParseValue(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	return f
}

func splitFields(line string) []string {
	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

func columnName(index int) string {
	return fmt.Sprintf("column_%d", index+1)
}

// dedupeHeaders appends a counter to repeated names: name, name_1, name_2.
func dedupeHeaders(headers []string) []string {
	seen := make(map[string]struct{}, len(headers))
	result := make([]string, len(headers))
	for i, header := range headers {
		name := header
		for counter := 1; ; counter++ {
			if _, exists := seen[name]; !exists {
				break
			}
			name = fmt.Sprintf("%s_%d", header, counter)
		}
		seen[name] = struct{}{}
		result[i] = name
	}
	return result
}
