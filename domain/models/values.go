package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pivolan/go_utils"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var kindNames = []string{
	string(KindBar), string(KindLine), string(KindPie), string(KindScatter), string(KindBubble),
	string(KindHistogram), string(KindTable), string(KindDataTable), string(KindPivot),
}

// ParseKind reports whether s names a chart kind the renderers know.
func ParseKind(s string) (ChartKind, bool) {
	if !go_utils.InArray(s, kindNames) {
		return "", false
	}
	return ChartKind(s), true
}

// ToNumber converts a cell value to a finite number the way loosely typed rows expect:
// numbers pass through, numeric strings are parsed, booleans are 0/1, blanks are 0.
func ToNumber(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, true
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint64:
		f = float64(x)
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, true
		}
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// NumberOr returns the numeric value of v, or fallback when v is zero or not a number.
func NumberOr(v any, fallback float64) float64 {
	f, ok := ToNumber(v)
	if !ok || f == 0 {
		return fallback
	}
	return f
}

// IsNumeric reports whether v holds a number, as opposed to text that looks like one.
func IsNumeric(v any) bool {
	switch x := v.(type) {
	case float64:
		return !math.IsNaN(x)
	case float32, int, int64, int32, uint, uint64:
		return true
	}
	return false
}

// TypeOf names the primitive type of a cell: number, string or boolean.
// Missing and null values are reported as string.
func TypeOf(v any) string {
	switch {
	case IsNumeric(v):
		return "number"
	case v == nil:
		return "string"
	}
	if _, ok := v.(bool); ok {
		return "boolean"
	}
	return "string"
}

// Text renders a cell as plain text. Null becomes the empty string.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

// TextOr returns Text(v), or fallback when v is null or blank.
func TextOr(v any, fallback string) string {
	if s := Text(v); s != "" {
		return s
	}
	return fallback
}

// FormatNumber renders v with English digit grouping and at most two fraction digits.
func FormatNumber(v float64) string {
	if v == 0 {
		v = 0 // drop negative zero
	}
	p := message.NewPrinter(language.English)
	return p.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// FormatCell renders a cell for display: null as "-", numbers grouped with at most
// two fraction digits, booleans as Yes/No.
func FormatCell(v any) string {
	if v == nil {
		return "-"
	}
	if IsNumeric(v) {
		f, _ := ToNumber(v)
		return FormatNumber(f)
	}
	if b, ok := v.(bool); ok {
		if b {
			return "Yes"
		}
		return "No"
	}
	return Text(v)
}
