package ingest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/genbi/domain/models"
)

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []string
		invalid bool
	}{
		{name: "Plain", line: "month,revenue", want: []string{"month", "revenue"}},
		{name: "Trimmed with CR", line: " month , revenue \r", want: []string{"month", "revenue"}},
		{name: "Byte order mark", line: "\ufeffid,name", want: []string{"id", "name"}},
		{name: "Duplicate headers", line: "Name,Name,Name,Age", want: []string{"Name", "Name_1", "Name_2", "Age"}},
		{name: "Blank field", line: "a,,b", want: []string{"a", "column_2", "b"}},
		{name: "Empty line", line: "", invalid: true},
		{name: "Only spaces", line: "   ", invalid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHeader(tt.line)
			if tt.invalid {
				var ve *models.ValidationError
				assert.True(t, errors.As(err, &ve))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"12", 12.0},
		{" 3.5 ", 3.5},
		{"-7", -7.0},
		{"1e3", 1000.0},
		{"", ""},
		{"  ", ""},
		{"Jan", "Jan"},
		{"12abc", "12abc"},
		{"NaN", "NaN"},
		{"Inf", "Inf"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseValue(tt.in))
		})
	}
}

func TestParseLine(t *testing.T) {
	headers := []string{"month", "revenue", "note"}
	assert.Equal(t, models.Row{"month": "Jan", "revenue": 100.0, "note": ""}, ParseLine("Jan, 100", headers))
	assert.Equal(t, models.Row{"month": "Feb", "revenue": 2.0, "note": "x"}, ParseLine("Feb,2,x,extra", headers))
}
