package plot

import (
	"fmt"
	"math"

	"github.com/pivolan/genbi/domain/models"
)

// FormatNumber renders v with English digit grouping and at most two fraction digits.
func FormatNumber(v float64) string {
	return models.FormatNumber(v)
}

func formatRounded(v float64) string {
	return fmt.Sprintf("%d", int64(math.Round(v)))
}

func formatFixed1(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
