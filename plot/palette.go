package plot

// Palette is the default series palette.
var Palette = []string{
	"#4F46E5", // indigo
	"#10B981", // emerald
	"#F59E0B", // amber
	"#EF4444", // red
	"#8B5CF6", // violet
	"#EC4899", // pink
	"#06B6D4", // cyan
	"#84CC16", // lime
	"#6366F1", // indigo
	"#14B8A6", // teal
}

// Colors returns n palette colors, repeating the palette when n exceeds it.
func Colors(n int) []string {
	colors := make([]string, 0, n)
	for i := 0; i < n; i++ {
		colors = append(colors, Palette[i%len(Palette)])
	}
	return colors
}

func colorAt(colors []string, i int, fallback string) string {
	if len(colors) == 0 {
		return fallback
	}
	return colors[i%len(colors)]
}

const (
	axisColor  = "#e5e7eb"
	gridColor  = "#f3f4f6"
	mutedText  = "#6b7280"
	strongText = "#374151"
	titleText  = "#111827"
	white      = "#ffffff"
)
